package creature

import "math/rand"

const (
	baseHP           = 80
	spreadHP         = 40
	baseAttack       = 30
	spreadAttack     = 20
	baseDefense      = 30
	spreadDefense    = 20
	basePower        = 20
	spreadPower      = 30
	affinityChance   = 0.5
	betterStockHP    = 15
	betterStockAtk   = 5
	defaultPartySize = 3
)

// Modifiers adjust generated stats for a player's purchased upgrades.
type Modifiers struct {
	BonusHP     int
	BonusAttack int
	BetterStock bool
}

func (m Modifiers) hp() int {
	bonus := m.BonusHP
	if m.BetterStock {
		bonus += betterStockHP
	}
	return bonus
}

func (m Modifiers) attack() int {
	bonus := m.BonusAttack
	if m.BetterStock {
		bonus += betterStockAtk
	}
	return bonus
}

// Generate rolls a fresh creature at full health.
func Generate(rng *rand.Rand, mods Modifiers) *Creature {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	kind := AllTypes[rng.Intn(len(AllTypes))]
	maxHP := baseHP + rng.Intn(spreadHP) + mods.hp()
	if maxHP < 1 {
		maxHP = 1
	}
	c := &Creature{
		Name:      creatureName(rng),
		Type:      kind,
		MaxHP:     maxHP,
		CurrentHP: maxHP,
		Attack:    baseAttack + rng.Intn(spreadAttack) + mods.attack(),
		Defense:   baseDefense + rng.Intn(spreadDefense),
	}
	for i := range c.Moves {
		c.Moves[i] = GenerateMove(rng, kind)
	}
	return c
}

// GenerateMove rolls a move that shares affinity with probability one half.
func GenerateMove(rng *rand.Rand, affinity Type) Move {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	moveType := affinity
	if !affinity.Valid() || rng.Float64() >= affinityChance {
		moveType = AllTypes[rng.Intn(len(AllTypes))]
	}
	return Move{
		Name:  moveName(rng, moveType),
		Type:  moveType,
		Power: basePower + rng.Intn(spreadPower),
	}
}

// GenerateParty rolls size creatures. A non-positive size uses the default of three.
func GenerateParty(rng *rand.Rand, size int, mods Modifiers) Party {
	if size <= 0 {
		size = defaultPartySize
	}
	party := make(Party, size)
	for i := range party {
		party[i] = Generate(rng, mods)
	}
	return party
}
