package server

import (
	"context"

	"critter-clash/server/internal/battle"
	"critter-clash/server/internal/creature"
	"critter-clash/server/internal/net/intake"
	"critter-clash/server/internal/net/proto"
	"critter-clash/server/internal/session"
	"critter-clash/server/internal/world"
	"critter-clash/server/logging"
	worldlog "critter-clash/server/logging/world"
)

const (
	MoveRejectNotInHub = "not_in_hub"
	MoveRejectBlocked  = "blocked"

	InteractRejectNothing = "nothing_to_interact"
)

// handleMove steps the session one cell, wrapping into neighbouring maps.
func (h *Hub) handleMove(s *session.Session, cmd intake.Command, out *outbound) {
	if s.State != session.StateHub {
		h.rejectLocked(s, proto.TypeMove, MoveRejectNotInHub)
		return
	}
	from := s.Location
	next := from.Step(cmd.DX, cmd.DY)
	if next == from {
		return
	}
	m := h.worlds.GetOrCreate(next.Coord())
	if m.Blocked(next.Point()) {
		h.rejectLocked(s, proto.TypeMove, MoveRejectBlocked)
		return
	}

	if next.Coord() != from.Coord() {
		h.worlds.Pin(next.Coord())
		h.worlds.Unpin(from.Coord())
	}
	s.Location = next
	out.to(s.ID, proto.TypeMapUpdated, proto.NewMapView(next, m))

	tile := m.At(next.Point())
	if tile.Encounter() {
		h.armEncounterLocked(s)
	} else {
		s.CancelEncounter()
	}
	if tile.Special() {
		h.applySpecialLocked(s, tile, out)
	}
}

// armEncounterLocked (re)starts the session's single-shot encounter timer.
func (h *Hub) armEncounterLocked(s *session.Session) {
	id := s.ID
	s.ArmEncounter(h.scheduler, h.cfg.EncounterDelay, func(token uint64) {
		h.fireEncounter(id, token)
	})
}

// fireEncounter runs when an encounter timer elapses.
func (h *Hub) fireEncounter(id string, token uint64) {
	h.mu.Lock()
	s, ok := h.sessions.Get(id)
	if !ok || !s.ConsumeEncounter(token) {
		h.mu.Unlock()
		return
	}
	m := h.worlds.GetOrCreate(s.Location.Coord())
	if !m.At(s.Location.Point()).Encounter() || h.rng.Float64() >= h.cfg.EncounterChance {
		h.mu.Unlock()
		return
	}

	var out outbound
	h.startWildBattleLocked(s, &out)
	h.commit(out)
}

func (h *Hub) startWildBattleLocked(s *session.Session, out *outbound) {
	wild := creature.GenerateParty(h.rng, h.cfg.WildPartySize, creature.Modifiers{})
	lead := wild[0]
	room := h.rooms.Create(battle.KindWild,
		battle.Slot{SessionID: s.ID, Name: playerSlotName(battle.Player1), Party: s.Party, Active: s.Party.FirstEligible()},
		battle.Slot{Name: "Wild " + lead.Name, Party: wild},
	)

	h.counters.IncEncounters()
	worldlog.EncounterTriggered(context.Background(), h.publisher, logging.PlayerRef(s.ID), worldlog.EncounterTriggeredPayload{
		MapX:     s.Location.MapX,
		MapY:     s.Location.MapY,
		X:        s.Location.X,
		Y:        s.Location.Y,
		Creature: lead.Name,
		Type:     string(lead.Type),
	}, nil)

	if !h.bindRoomLocked(room, out) {
		return
	}
	h.logLineLocked(room.Humans(), h.printer.Sprintf("A wild %s appeared!", lead.Name), out)
}

// handleInteract repeats the effect of a special tile or challenges an
// adjacent trainer.
func (h *Hub) handleInteract(s *session.Session, _ intake.Command, out *outbound) {
	if s.State != session.StateHub {
		h.rejectLocked(s, proto.TypeInteract, MoveRejectNotInHub)
		return
	}
	m := h.worlds.GetOrCreate(s.Location.Coord())
	here := s.Location.Point()
	if tile := m.At(here); tile.Special() {
		h.applySpecialLocked(s, tile, out)
		return
	}
	trainer, ok := adjacentTrainer(m, here)
	if !ok {
		h.rejectLocked(s, proto.TypeInteract, InteractRejectNothing)
		return
	}
	h.startTrainerBattleLocked(s, trainer, out)
}

func adjacentTrainer(m *world.Map, p world.Point) (*world.Trainer, bool) {
	for _, d := range []world.Point{{X: 0, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}} {
		if trainer, ok := m.TrainerAt(world.Point{X: p.X + d.X, Y: p.Y + d.Y}); ok {
			return trainer, true
		}
	}
	return nil, false
}

func (h *Hub) startTrainerBattleLocked(s *session.Session, trainer *world.Trainer, out *outbound) {
	party := trainer.Party.Clone()
	if len(party) == 0 {
		party = creature.GenerateParty(h.rng, h.cfg.World.TrainerPartySize, creature.Modifiers{})
	}
	room := h.rooms.Create(battle.KindTrainer,
		battle.Slot{SessionID: s.ID, Name: playerSlotName(battle.Player1), Party: s.Party, Active: s.Party.FirstEligible()},
		battle.Slot{Name: trainer.Name, Party: party},
	)
	if !h.bindRoomLocked(room, out) {
		return
	}
	h.logLineLocked(room.Humans(), h.printer.Sprintf("%s wants to battle!", trainer.Name), out)
}

// applySpecialLocked triggers the side effect of a special tile.
func (h *Hub) applySpecialLocked(s *session.Session, tile world.Tile, out *outbound) {
	switch tile {
	case world.TileShrine:
		h.requestMatchLocked(s, out)
	case world.TileShop:
		h.sendCatalogLocked(s, out)
	case world.TileHealer:
		h.healLocked(s, out)
	}
}
