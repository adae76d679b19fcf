package creature

// MoveSlots is the number of moves every creature carries.
const MoveSlots = 4

// Move is a single attack option.
type Move struct {
	Name  string `json:"name"`
	Type  Type   `json:"type"`
	Power int    `json:"power"`
}

// Creature is a battle-ready combatant. CurrentHP stays within [0, MaxHP]
// and Fainted is set exactly when CurrentHP is zero.
type Creature struct {
	Name      string          `json:"name"`
	Type      Type            `json:"type"`
	MaxHP     int             `json:"maxHp"`
	CurrentHP int             `json:"currentHp"`
	Attack    int             `json:"attack"`
	Defense   int             `json:"defense"`
	Moves     [MoveSlots]Move `json:"moves"`
	Fainted   bool            `json:"isFainted"`
}

// ApplyDamage subtracts amount, flooring at zero, and returns the hit points
// actually removed.
func (c *Creature) ApplyDamage(amount int) int {
	if c == nil || amount <= 0 || c.Fainted {
		return 0
	}
	if amount > c.CurrentHP {
		amount = c.CurrentHP
	}
	c.CurrentHP -= amount
	if c.CurrentHP == 0 {
		c.Fainted = true
	}
	return amount
}

// Heal restores the creature to full health and clears the fainted flag.
func (c *Creature) Heal() {
	if c == nil {
		return
	}
	c.CurrentHP = c.MaxHP
	c.Fainted = false
}

// Party is an ordered list of creatures owned by one side.
type Party []*Creature

// AllFainted reports whether no creature can still fight.
func (p Party) AllFainted() bool {
	for _, c := range p {
		if c != nil && !c.Fainted {
			return false
		}
	}
	return true
}

// Eligible reports whether index names a creature that can be sent out.
func (p Party) Eligible(index int) bool {
	if index < 0 || index >= len(p) {
		return false
	}
	return p[index] != nil && !p[index].Fainted
}

// FirstEligible returns the lowest index that can be sent out, or -1.
func (p Party) FirstEligible() int {
	for i := range p {
		if p.Eligible(i) {
			return i
		}
	}
	return -1
}

// HealAll fully restores every creature in place.
func (p Party) HealAll() {
	for _, c := range p {
		c.Heal()
	}
}

// Clone returns a deep copy of the party.
func (p Party) Clone() Party {
	if p == nil {
		return nil
	}
	cloned := make(Party, len(p))
	for i, c := range p {
		if c == nil {
			continue
		}
		copied := *c
		cloned[i] = &copied
	}
	return cloned
}
