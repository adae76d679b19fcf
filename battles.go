package server

import (
	"context"

	"critter-clash/server/internal/battle"
	"critter-clash/server/internal/config"
	"critter-clash/server/internal/net/intake"
	"critter-clash/server/internal/net/proto"
	"critter-clash/server/internal/session"
	"critter-clash/server/logging"
	battlelog "critter-clash/server/logging/battle"
	economylog "critter-clash/server/logging/economy"
)

const (
	BattleRejectNoRoom = "no_room"

	endReasonVictory    = "victory"
	endReasonDisconnect = "disconnect"
	endReasonAborted    = "aborted"

	forceSwitchTitle = "Choose your next creature!"
)

func playerSlotName(side battle.Side) string {
	if side == battle.Player2 {
		return "Player 2"
	}
	return "Player 1"
}

func stateForKind(kind battle.Kind) session.State {
	switch kind {
	case battle.KindWild:
		return session.StateInWild
	case battle.KindTrainer:
		return session.StateInNPC
	default:
		return session.StateInPvPBattle
	}
}

func (h *Hub) payoutFor(kind battle.Kind) config.Payout {
	switch kind {
	case battle.KindWild:
		return h.cfg.Wild
	case battle.KindTrainer:
		return h.cfg.Trainer
	default:
		return h.cfg.PvP
	}
}

func roomContext(room *battle.Room) context.Context {
	return logging.WithTrace(context.Background(), room.ID)
}

func slotRef(room *battle.Room, side battle.Side) logging.EntityRef {
	slot := room.Slot(side)
	if slot == nil {
		return logging.EntityRef{Kind: logging.EntityKindUnknown}
	}
	if slot.Synthetic() {
		return logging.EntityRef{ID: slot.Name, Kind: logging.EntityKindTrainer}
	}
	return logging.PlayerRef(slot.SessionID)
}

// handleRequestQueue is the shrine and queue entry point.
func (h *Hub) handleRequestQueue(s *session.Session, _ intake.Command, out *outbound) {
	h.requestMatchLocked(s, out)
}

// requestMatchLocked queues a hub session, pairing it with a live waiting
// session when there is one. The waiting session becomes player1.
func (h *Hub) requestMatchLocked(s *session.Session, out *outbound) {
	if s.State != session.StateHub {
		h.rejectLocked(s, proto.TypeRequestQueueEntry, session.RejectNotInHub)
		return
	}
	from := s.State
	if ok, reason := s.EnterQueue(); !ok {
		h.rejectLocked(s, proto.TypeRequestQueueEntry, reason)
		return
	}
	h.transitionLocked(s, from)

	pairing, matched := h.matchmaker.Request(s.ID, h.queuedLocked)
	if !matched {
		out.to(s.ID, proto.TypeQueueWaiting, nil)
		h.logLineLocked([]string{s.ID}, h.printer.Sprintf("Waiting for another challenger..."), out)
		return
	}
	first, ok := h.sessions.Get(pairing.First)
	if !ok {
		return
	}
	h.startPvPLocked(first, s, out)
}

func (h *Hub) queuedLocked(id string) bool {
	s, ok := h.sessions.Get(id)
	return ok && s.State == session.StateQueued
}

func (h *Hub) startPvPLocked(first, second *session.Session, out *outbound) {
	first.Party.HealAll()
	second.Party.HealAll()
	room := h.rooms.Create(battle.KindPvP,
		battle.Slot{SessionID: first.ID, Name: playerSlotName(battle.Player1), Party: first.Party, Active: first.Party.FirstEligible()},
		battle.Slot{SessionID: second.ID, Name: playerSlotName(battle.Player2), Party: second.Party, Active: second.Party.FirstEligible()},
	)
	h.bindRoomLocked(room, out)
}

// bindRoomLocked moves every human in room into its battle state and
// announces the room. A room whose sessions cannot all be bound is dropped.
func (h *Hub) bindRoomLocked(room *battle.Room, out *outbound) bool {
	state := stateForKind(room.Kind)
	var bound []*session.Session
	for _, id := range room.Humans() {
		s, ok := h.sessions.Get(id)
		if !ok {
			h.unbindLocked(bound, room)
			return false
		}
		from := s.State
		if ok, reason := s.EnterBattle(state, room.ID); !ok {
			h.logger.Printf("cannot bind %s to room %s: %s", id, room.ID, reason)
			h.unbindLocked(bound, room)
			return false
		}
		h.transitionLocked(s, from)
		bound = append(bound, s)
	}

	ctx := roomContext(room)
	targets := []logging.EntityRef{slotRef(room, battle.Player1), slotRef(room, battle.Player2)}
	payload := battlelog.StartedPayload{Kind: string(room.Kind), Player1: room.P1.SessionID, Player2: room.P2.SessionID}
	if room.P2.Synthetic() {
		payload.Opponent = room.P2.Name
	}
	battlelog.Started(ctx, h.publisher, logging.RoomRef(room.ID), targets, payload, nil)
	h.counters.IncBattlesStarted()

	snapshot := proto.NewRoomState(room)
	for _, s := range bound {
		side, _ := room.SideOf(s.ID)
		out.to(s.ID, proto.TypeBattleStarted, proto.RoomPayload{RoomState: snapshot, You: string(side)})
	}
	return true
}

func (h *Hub) unbindLocked(bound []*session.Session, room *battle.Room) {
	for _, s := range bound {
		from := s.State
		s.ReturnToHub()
		h.transitionLocked(s, from)
	}
	battlelog.Ended(roomContext(room), h.publisher, logging.RoomRef(room.ID), battlelog.EndedPayload{
		Kind:   string(room.Kind),
		Reason: endReasonAborted,
	}, nil)
	h.rooms.Delete(room.ID)
}

func (h *Hub) roomOfLocked(s *session.Session) (*battle.Room, battle.Side, bool) {
	if !s.State.InBattle() {
		return nil, "", false
	}
	room, ok := h.rooms.Get(s.RoomID)
	if !ok {
		return nil, "", false
	}
	side, ok := room.SideOf(s.ID)
	return room, side, ok
}

func (h *Hub) handleChooseMove(s *session.Session, cmd intake.Command, out *outbound) {
	room, side, ok := h.roomOfLocked(s)
	if !ok {
		h.rejectLocked(s, proto.TypeChooseMove, BattleRejectNoRoom)
		return
	}
	turn, ok, reason := h.engine.ChooseMove(room, side, cmd.Index)
	if !ok {
		h.rejectActionLocked(room, s, proto.TypeChooseMove, reason, cmd.Index)
		return
	}
	h.applyTurnLocked(room, turn, out)
}

func (h *Hub) handleSwitchActive(s *session.Session, cmd intake.Command, out *outbound) {
	room, side, ok := h.roomOfLocked(s)
	if !ok {
		h.rejectLocked(s, proto.TypeSwitchActive, BattleRejectNoRoom)
		return
	}
	turn, ok, reason := h.engine.Switch(room, side, cmd.Index)
	if !ok {
		h.rejectActionLocked(room, s, proto.TypeSwitchActive, reason, cmd.Index)
		return
	}
	h.applyTurnLocked(room, turn, out)
}

func (h *Hub) rejectActionLocked(room *battle.Room, s *session.Session, action, reason string, index int) {
	h.counters.IncRejected()
	battlelog.ActionRejected(roomContext(room), h.publisher, logging.PlayerRef(s.ID), battlelog.ActionRejectedPayload{
		Action: action,
		Reason: reason,
		Index:  index,
	}, nil)
}

// applyTurnLocked publishes and broadcasts what an accepted action did, and
// schedules faint resolution.
func (h *Hub) applyTurnLocked(room *battle.Room, turn battle.Turn, out *outbound) {
	ctx := roomContext(room)
	for _, hit := range turn.Hits {
		battlelog.Damage(ctx, h.publisher, slotRef(room, hit.Attacker), slotRef(room, hit.Attacker.Opponent()), battlelog.DamagePayload{
			Move:          hit.Move.Name,
			MoveType:      string(hit.Move.Type),
			Attacker:      hit.User,
			Defender:      hit.Target,
			Amount:        hit.Damage,
			Multiplier:    hit.Multiplier,
			RemainingHP:   hit.Remaining,
			Effectiveness: string(hit.Qualifier),
		}, nil)
	}

	humans := room.Humans()
	for _, line := range turn.Log {
		h.logLineLocked(humans, line, out)
	}
	h.broadcastRoomLocked(room, out)

	if turn.Faint == nil {
		return
	}
	battlelog.Fainted(ctx, h.publisher, slotRef(room, turn.Faint.Side), battlelog.FaintedPayload{
		Side:     string(turn.Faint.Side),
		Creature: turn.Faint.Creature,
		Wiped:    turn.Faint.Wiped,
	}, nil)
	h.scheduleFaintLocked(room, out)
}

func (h *Hub) broadcastRoomLocked(room *battle.Room, out *outbound) {
	state := proto.NewRoomState(room)
	for _, id := range room.Humans() {
		side, _ := room.SideOf(id)
		out.to(id, proto.TypeBattleStateUpdated, proto.RoomPayload{RoomState: state, You: string(side)})
	}
}

// scheduleFaintLocked defers the forced-switch prompt or victory by the
// faint pause. The callback is bound to the room's current generation.
func (h *Hub) scheduleFaintLocked(room *battle.Room, out *outbound) {
	if room.Phase == battle.PhaseBattle {
		return
	}
	generation := room.Generation()
	if h.cfg.FaintPause <= 0 {
		h.resolveFaintLocked(room, generation, out)
		return
	}
	roomID := room.ID
	room.SetPending(h.scheduler.AfterFunc(h.cfg.FaintPause, func() {
		h.resolveFaint(roomID, generation)
	}))
}

func (h *Hub) resolveFaint(roomID string, generation uint64) {
	h.mu.Lock()
	room, ok := h.rooms.Get(roomID)
	if !ok {
		h.mu.Unlock()
		return
	}
	var out outbound
	h.resolveFaintLocked(room, generation, &out)
	h.commit(out)
}

func (h *Hub) resolveFaintLocked(room *battle.Room, generation uint64, out *outbound) {
	if room.Generation() != generation {
		return
	}
	switch room.Phase {
	case battle.PhaseEnded:
		h.finishBattleLocked(room, out)
	case battle.PhaseAwaitingSwitch:
		slot := room.Slot(room.Awaiting)
		if slot == nil || slot.Synthetic() {
			return
		}
		prompt := proto.ForceSwitchPrompt{Title: forceSwitchTitle}
		for _, index := range battle.EligibleChoices(slot) {
			candidate := *slot.Party[index]
			prompt.EligibleChoices = append(prompt.EligibleChoices, proto.SwitchChoice{Index: index, Creature: &candidate})
		}
		out.to(slot.SessionID, proto.TypeForceSwitchPrompt, prompt)
	}
}

// finishBattleLocked pays out, returns every human to the hub healed, and
// deletes the room.
func (h *Hub) finishBattleLocked(room *battle.Room, out *outbound) {
	room.StopPending()
	ctx := roomContext(room)
	payout := h.payoutFor(room.Kind)
	winner := room.Winner
	loser := winner.Opponent()

	for _, side := range []battle.Side{battle.Player1, battle.Player2} {
		slot := room.Slot(side)
		if slot == nil || slot.Synthetic() {
			continue
		}
		s, ok := h.sessions.Get(slot.SessionID)
		if !ok {
			continue
		}
		won := side == winner
		earned, result := payout.Loser, proto.ResultLoss
		if won {
			earned, result = payout.Winner, proto.ResultWin
		}
		balance := s.Award(earned)
		if earned > 0 {
			economylog.CurrencyAwarded(ctx, h.publisher, logging.PlayerRef(s.ID), economylog.CurrencyAwardedPayload{
				Amount:  earned,
				Balance: balance,
				Reason:  string(room.Kind) + "_" + result,
			}, nil)
		}

		from := s.State
		s.ReturnToHub()
		h.transitionLocked(s, from)
		out.to(s.ID, proto.TypeBattleEnded, proto.BattleEnded{Outcome: proto.Outcome{
			Result:  result,
			Reason:  endReasonVictory,
			Kind:    string(room.Kind),
			Earned:  earned,
			Balance: balance,
			Summary: h.outcomeSummary(won, earned, balance),
		}})
		h.enterHubLocked(s, nil, out)
	}

	battlelog.Ended(ctx, h.publisher, logging.RoomRef(room.ID), battlelog.EndedPayload{
		Kind:   string(room.Kind),
		Winner: slotRef(room, winner).ID,
		Loser:  slotRef(room, loser).ID,
		Reason: endReasonVictory,
		Turns:  room.Turns,
	}, nil)
	h.counters.IncBattlesFinished()
	h.rooms.Delete(room.ID)
}

// abandonRoomLocked tears down a room after leaverID disconnected. The
// remaining human is notified and returned to the hub without payout.
func (h *Hub) abandonRoomLocked(room *battle.Room, leaverID string, out *outbound) {
	room.StopPending()
	for _, id := range room.Humans() {
		if id == leaverID {
			continue
		}
		s, ok := h.sessions.Get(id)
		if !ok {
			continue
		}
		out.to(id, proto.TypeOpponentDisconnected, nil)
		from := s.State
		s.ReturnToHub()
		h.transitionLocked(s, from)
		h.enterHubLocked(s, nil, out)
	}
	battlelog.Ended(roomContext(room), h.publisher, logging.RoomRef(room.ID), battlelog.EndedPayload{
		Kind:   string(room.Kind),
		Loser:  leaverID,
		Reason: endReasonDisconnect,
		Turns:  room.Turns,
	}, nil)
	h.counters.IncBattlesFinished()
	h.rooms.Delete(room.ID)
}

func (h *Hub) outcomeSummary(won bool, earned, balance int) string {
	if won {
		return h.printer.Sprintf("You won! Earned %d coins, balance %d.", earned, balance)
	}
	if earned > 0 {
		return h.printer.Sprintf("You lost. Earned %d coins, balance %d.", earned, balance)
	}
	return h.printer.Sprintf("You lost. Balance %d.", balance)
}
