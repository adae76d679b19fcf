package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"critter-clash/server/internal/world"
)

const (
	DefaultPartySize       = 3
	DefaultEncounterDelay  = time.Second
	DefaultEncounterChance = 0.15
	DefaultFaintPause      = 2 * time.Second
)

// Payout is the currency each side receives when a battle resolves.
type Payout struct {
	Winner int `json:"winner" yaml:"winner"`
	Loser  int `json:"loser" yaml:"loser"`
}

// Game holds the gameplay tuning knobs.
type Game struct {
	World           world.Config  `json:"world" yaml:"world"`
	PartySize       int           `json:"partySize" yaml:"partySize"`
	WildPartySize   int           `json:"wildPartySize" yaml:"wildPartySize"`
	EncounterDelay  time.Duration `json:"encounterDelay" yaml:"encounterDelay"`
	EncounterChance float64       `json:"encounterChance" yaml:"encounterChance"`
	FaintPause      time.Duration `json:"faintPause" yaml:"faintPause"`
	PvP             Payout        `json:"pvp" yaml:"pvp"`
	Wild            Payout        `json:"wild" yaml:"wild"`
	Trainer         Payout        `json:"trainer" yaml:"trainer"`
}

// Default returns the standard tuning.
func Default() Game {
	return Game{
		World:           world.DefaultConfig(),
		PartySize:       DefaultPartySize,
		WildPartySize:   1,
		EncounterDelay:  DefaultEncounterDelay,
		EncounterChance: DefaultEncounterChance,
		FaintPause:      DefaultFaintPause,
		PvP:             Payout{Winner: 100, Loser: 25},
		Wild:            Payout{Winner: 20},
		Trainer:         Payout{Winner: 50},
	}
}

func (g Game) normalized() Game {
	normalized := g
	normalized.World = normalized.World.Normalized()
	if normalized.PartySize <= 0 {
		normalized.PartySize = DefaultPartySize
	}
	if normalized.WildPartySize <= 0 {
		normalized.WildPartySize = 1
	}
	if normalized.EncounterDelay < 0 {
		normalized.EncounterDelay = 0
	}
	if normalized.EncounterChance < 0 {
		normalized.EncounterChance = 0
	}
	if normalized.EncounterChance > 1 {
		normalized.EncounterChance = 1
	}
	if normalized.FaintPause < 0 {
		normalized.FaintPause = 0
	}
	normalized.PvP = normalized.PvP.normalized()
	normalized.Wild = normalized.Wild.normalized()
	normalized.Trainer = normalized.Trainer.normalized()
	return normalized
}

// Normalized clamps every field into a usable range. Zero durations are kept
// and mean "immediately".
func (g Game) Normalized() Game {
	return g.normalized()
}

func (p Payout) normalized() Payout {
	if p.Winner < 0 {
		p.Winner = 0
	}
	if p.Loser < 0 {
		p.Loser = 0
	}
	return p
}

// LoadFile overlays the YAML document at path onto the defaults.
func LoadFile(path string) (Game, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read game config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse game config %s: %w", path, err)
	}
	return cfg.normalized(), nil
}
