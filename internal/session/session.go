package session

import (
	"time"

	"critter-clash/server/internal/clock"
	"critter-clash/server/internal/creature"
	"critter-clash/server/internal/world"
)

// State is a session's lifecycle mode.
type State string

const (
	StateHub         State = "hub"
	StateQueued      State = "queued"
	StateInPvPBattle State = "in_pvp_battle"
	StateInWild      State = "in_wild_battle"
	StateInNPC       State = "in_npc_battle"
)

// InBattle reports whether the state binds the session to a room.
func (s State) InBattle() bool {
	return s == StateInPvPBattle || s == StateInWild || s == StateInNPC
}

const (
	RejectNotInHub      = "not_in_hub"
	RejectAlreadyQueued = "already_queued"
	RejectInBattle      = "in_battle"
	RejectNotBattle     = "not_a_battle_state"
	RejectMissingRoom   = "missing_room"
)

// Upgrades accumulates purchased stat bonuses.
type Upgrades struct {
	BonusHP     int            `json:"bonusHp"`
	BonusAttack int            `json:"bonusAttack"`
	BetterStock bool           `json:"betterStock"`
	Levels      map[string]int `json:"levels"`
}

// Level returns how many times the upgrade was bought.
func (u Upgrades) Level(id string) int {
	return u.Levels[id]
}

// Modifiers converts upgrades into generator modifiers.
func (u Upgrades) Modifiers() creature.Modifiers {
	return creature.Modifiers{
		BonusHP:     u.BonusHP,
		BonusAttack: u.BonusAttack,
		BetterStock: u.BetterStock,
	}
}

// Session is the server-side record of one connection. RoomID is set
// exactly when State is a battle state. Callers serialise access.
type Session struct {
	ID       string
	State    State
	Party    creature.Party
	Currency int
	Upgrades Upgrades
	Location world.Location
	RoomID   string

	encounter      clock.Timer
	encounterToken uint64
}

// New constructs a session in the hub at the spawn location.
func New(id string, party creature.Party) *Session {
	return &Session{
		ID:       id,
		State:    StateHub,
		Party:    party,
		Upgrades: Upgrades{Levels: make(map[string]int)},
		Location: world.Spawn,
	}
}

// EnterQueue moves a hub session into the matchmaking queue.
func (s *Session) EnterQueue() (bool, string) {
	switch {
	case s.State == StateQueued:
		return false, RejectAlreadyQueued
	case s.State.InBattle():
		return false, RejectInBattle
	}
	s.CancelEncounter()
	s.State = StateQueued
	return true, ""
}

// EnterBattle binds the session to a room. PvP battles may start from the
// hub or the queue; wild and trainer battles only from the hub.
func (s *Session) EnterBattle(state State, roomID string) (bool, string) {
	if !state.InBattle() {
		return false, RejectNotBattle
	}
	if roomID == "" {
		return false, RejectMissingRoom
	}
	if s.State.InBattle() {
		return false, RejectInBattle
	}
	if s.State == StateQueued && state != StateInPvPBattle {
		return false, RejectNotInHub
	}
	s.CancelEncounter()
	s.State = state
	s.RoomID = roomID
	return true, ""
}

// ReturnToHub leaves any room and fully heals the party.
func (s *Session) ReturnToHub() {
	s.State = StateHub
	s.RoomID = ""
	s.Party.HealAll()
}

// ArmEncounter schedules fire after delay, replacing any pending timer. The
// callback receives the token it must pass to ConsumeEncounter.
func (s *Session) ArmEncounter(scheduler clock.Scheduler, delay time.Duration, fire func(token uint64)) uint64 {
	s.CancelEncounter()
	s.encounterToken++
	token := s.encounterToken
	s.encounter = scheduler.AfterFunc(delay, func() { fire(token) })
	return token
}

// CancelEncounter stops the pending encounter timer, if any.
func (s *Session) CancelEncounter() {
	if s.encounter != nil {
		s.encounter.Stop()
		s.encounter = nil
	}
	s.encounterToken++
}

// ConsumeEncounter reports whether token belongs to the live timer of a hub
// session, and clears it.
func (s *Session) ConsumeEncounter(token uint64) bool {
	if s.encounter == nil || token != s.encounterToken {
		return false
	}
	s.encounter = nil
	return s.State == StateHub
}

// EncounterPending reports whether an encounter timer is armed.
func (s *Session) EncounterPending() bool {
	return s.encounter != nil
}

// Award adds currency and returns the new balance.
func (s *Session) Award(amount int) int {
	if amount > 0 {
		s.Currency += amount
	}
	return s.Currency
}

// Spend deducts amount when affordable.
func (s *Session) Spend(amount int) bool {
	if amount < 0 || amount > s.Currency {
		return false
	}
	s.Currency -= amount
	return true
}
