package shop

import (
	"math/rand"

	"github.com/shopspring/decimal"

	"critter-clash/server/internal/creature"
	"critter-clash/server/internal/session"
)

const (
	RejectUnknownUpgrade    = "unknown_upgrade"
	RejectMaxLevel          = "max_level"
	RejectInsufficientFunds = "insufficient_funds"
	RejectNotInHub          = session.RejectNotInHub
)

const (
	UpgradeHPPlus      = "hp_plus"
	UpgradeAttackPlus  = "atk_plus"
	UpgradeBetterStock = "better_mons"
)

// Upgrade is a purchasable, level-scaled modifier. MaxLevel zero means
// unlimited.
type Upgrade struct {
	ID          string
	Name        string
	Description string
	BaseCost    int
	Growth      decimal.Decimal
	MaxLevel    int
	BonusHP     int
	BonusAttack int
	BetterStock bool
}

// Cost returns floor(BaseCost × Growth^level).
func (u Upgrade) Cost(level int) int {
	if level < 0 {
		level = 0
	}
	growth := u.Growth
	if growth.Sign() <= 0 {
		growth = decimal.NewFromInt(1)
	}
	scale, err := growth.PowInt32(int32(level))
	if err != nil {
		scale = decimal.NewFromInt(1)
	}
	return int(decimal.NewFromInt(int64(u.BaseCost)).Mul(scale).Floor().IntPart())
}

// Maxed reports whether level has reached the cap.
func (u Upgrade) Maxed(level int) bool {
	return u.MaxLevel > 0 && level >= u.MaxLevel
}

func (u Upgrade) apply(upgrades *session.Upgrades) {
	upgrades.BonusHP += u.BonusHP
	upgrades.BonusAttack += u.BonusAttack
	if u.BetterStock {
		upgrades.BetterStock = true
	}
}

// Catalog is the ordered list of upgrades on sale.
type Catalog struct {
	upgrades []Upgrade
}

// NewCatalog builds a catalog from upgrades in display order.
func NewCatalog(upgrades ...Upgrade) *Catalog {
	return &Catalog{upgrades: append([]Upgrade(nil), upgrades...)}
}

// DefaultCatalog returns the standard upgrades.
func DefaultCatalog() *Catalog {
	growth := decimal.RequireFromString("1.5")
	return NewCatalog(
		Upgrade{
			ID:          UpgradeHPPlus,
			Name:        "Vitality Training",
			Description: "Every creature you raise starts with +10 max HP.",
			BaseCost:    100,
			Growth:      growth,
			BonusHP:     10,
		},
		Upgrade{
			ID:          UpgradeAttackPlus,
			Name:        "Attack Training",
			Description: "Every creature you raise starts with +5 attack.",
			BaseCost:    150,
			Growth:      growth,
			BonusAttack: 5,
		},
		Upgrade{
			ID:          UpgradeBetterStock,
			Name:        "Scouting Report",
			Description: "Recruit sturdier creatures with better base stats.",
			BaseCost:    300,
			Growth:      decimal.NewFromInt(1),
			MaxLevel:    1,
			BetterStock: true,
		},
	)
}

// Lookup returns the upgrade with id.
func (c *Catalog) Lookup(id string) (Upgrade, bool) {
	for _, u := range c.upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return Upgrade{}, false
}

// Offer is an upgrade priced for one session.
type Offer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Level       int    `json:"level"`
	MaxLevel    int    `json:"maxLevel,omitempty"`
	Available   bool   `json:"available"`
	Affordable  bool   `json:"affordable"`
}

// Offers prices every upgrade for the session's current levels.
func (c *Catalog) Offers(s *session.Session) []Offer {
	offers := make([]Offer, 0, len(c.upgrades))
	for _, u := range c.upgrades {
		level := s.Upgrades.Level(u.ID)
		cost := u.Cost(level)
		available := !u.Maxed(level)
		offers = append(offers, Offer{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Cost:        cost,
			Level:       level,
			MaxLevel:    u.MaxLevel,
			Available:   available,
			Affordable:  available && s.Currency >= cost,
		})
	}
	return offers
}

// Receipt records a completed purchase.
type Receipt struct {
	Upgrade Upgrade
	Level   int
	Cost    int
	Balance int
}

// Purchase buys one level of id for a hub session, then regenerates the
// party with the new modifiers. The returned cost is the quoted price even
// when the purchase is rejected.
func (c *Catalog) Purchase(s *session.Session, id string, rng *rand.Rand, partySize int) (Receipt, bool, string) {
	u, ok := c.Lookup(id)
	if !ok {
		return Receipt{}, false, RejectUnknownUpgrade
	}
	level := s.Upgrades.Level(id)
	cost := u.Cost(level)
	receipt := Receipt{Upgrade: u, Level: level, Cost: cost, Balance: s.Currency}
	if s.State != session.StateHub {
		return receipt, false, RejectNotInHub
	}
	if u.Maxed(level) {
		return receipt, false, RejectMaxLevel
	}
	if !s.Spend(cost) {
		return receipt, false, RejectInsufficientFunds
	}
	if s.Upgrades.Levels == nil {
		s.Upgrades.Levels = make(map[string]int)
	}
	s.Upgrades.Levels[id] = level + 1
	u.apply(&s.Upgrades)
	s.Party = creature.GenerateParty(rng, partySize, s.Upgrades.Modifiers())

	receipt.Level = level + 1
	receipt.Balance = s.Currency
	return receipt, true, ""
}
