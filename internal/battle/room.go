package battle

import (
	"sort"

	"github.com/google/uuid"

	"critter-clash/server/internal/clock"
	"critter-clash/server/internal/creature"
)

// Kind identifies who the opponent is.
type Kind string

const (
	KindPvP     Kind = "pvp"
	KindWild    Kind = "wild"
	KindTrainer Kind = "npc"
)

// Phase is the room's turn state.
type Phase string

const (
	PhaseBattle         Phase = "battle"
	PhaseAwaitingSwitch Phase = "awaiting-switch"
	PhaseEnded          Phase = "ended"
)

// Side names one of the two slots.
type Side string

const (
	Player1 Side = "player1"
	Player2 Side = "player2"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether s is one of the two slots.
func (s Side) Valid() bool {
	return s == Player1 || s == Player2
}

// Slot is one participant. A slot without a session is a synthetic opponent
// that owns its party.
type Slot struct {
	SessionID string
	Name      string
	Party     creature.Party
	Active    int
}

// Synthetic reports whether the slot is driven by the server.
func (s *Slot) Synthetic() bool {
	return s.SessionID == ""
}

// ActiveCreature returns the creature currently out, or nil.
func (s *Slot) ActiveCreature() *creature.Creature {
	if s == nil || s.Active < 0 || s.Active >= len(s.Party) {
		return nil
	}
	return s.Party[s.Active]
}

// Room is a battle between two slots. Party slices of human slots are the
// sessions' own parties, so damage is visible on the session.
type Room struct {
	ID       string
	Kind     Kind
	Phase    Phase
	Turn     Side
	Awaiting Side
	Winner   Side
	P1       *Slot
	P2       *Slot
	Turns    int

	generation uint64
	pending    clock.Timer
}

// Slot returns the slot for side.
func (r *Room) Slot(side Side) *Slot {
	switch side {
	case Player1:
		return r.P1
	case Player2:
		return r.P2
	default:
		return nil
	}
}

// SideOf returns the side held by sessionID.
func (r *Room) SideOf(sessionID string) (Side, bool) {
	if sessionID == "" {
		return "", false
	}
	if r.P1 != nil && r.P1.SessionID == sessionID {
		return Player1, true
	}
	if r.P2 != nil && r.P2.SessionID == sessionID {
		return Player2, true
	}
	return "", false
}

// Humans lists the session ids taking part.
func (r *Room) Humans() []string {
	var ids []string
	for _, slot := range []*Slot{r.P1, r.P2} {
		if slot != nil && !slot.Synthetic() {
			ids = append(ids, slot.SessionID)
		}
	}
	return ids
}

// Generation changes whenever the phase or an active creature changes, so
// deferred callbacks can detect that the room moved on.
func (r *Room) Generation() uint64 {
	return r.generation
}

func (r *Room) bump() {
	r.generation++
}

// SetPending records the room's deferred callback, stopping any previous one.
func (r *Room) SetPending(t clock.Timer) {
	r.StopPending()
	r.pending = t
}

// StopPending cancels the deferred callback, if any.
func (r *Room) StopPending() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

// Table owns every live room.
type Table struct {
	rooms map[string]*Room
}

func NewTable() *Table {
	return &Table{rooms: make(map[string]*Room)}
}

// Create registers a room in the battle phase with player1 to move.
func (t *Table) Create(kind Kind, p1, p2 Slot) *Room {
	room := &Room{
		ID:    "room-" + uuid.NewString(),
		Kind:  kind,
		Phase: PhaseBattle,
		Turn:  Player1,
		P1:    &p1,
		P2:    &p2,
	}
	t.rooms[room.ID] = room
	return room
}

func (t *Table) Get(id string) (*Room, bool) {
	room, ok := t.rooms[id]
	return room, ok
}

// Delete removes the room and cancels its deferred callback.
func (t *Table) Delete(id string) {
	if room, ok := t.rooms[id]; ok {
		room.StopPending()
		delete(t.rooms, id)
	}
}

func (t *Table) Len() int {
	return len(t.rooms)
}

// CountByKind tallies live rooms per kind.
func (t *Table) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, room := range t.rooms {
		counts[room.Kind]++
	}
	return counts
}

// IDs returns the live room ids in sorted order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.rooms))
	for id := range t.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
