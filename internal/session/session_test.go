package session

import (
	"math/rand"
	"testing"
	"time"

	"critter-clash/server/internal/clock"
	"critter-clash/server/internal/creature"
)

func newTestSession(id string) *Session {
	return New(id, creature.GenerateParty(rand.New(rand.NewSource(1)), 3, creature.Modifiers{}))
}

func assertRoomInvariant(t *testing.T, s *Session) {
	t.Helper()
	if (s.RoomID != "") != s.State.InBattle() {
		t.Fatalf("room invariant violated: state=%s room=%q", s.State, s.RoomID)
	}
}

func TestLifecycleTransitionsKeepRoomInvariant(t *testing.T) {
	s := newTestSession("a")
	assertRoomInvariant(t, s)

	if ok, _ := s.EnterQueue(); !ok {
		t.Fatalf("expected hub session to enter queue")
	}
	assertRoomInvariant(t, s)
	if ok, reason := s.EnterQueue(); ok || reason != RejectAlreadyQueued {
		t.Fatalf("expected second queue request to be rejected, got %v %q", ok, reason)
	}

	if ok, reason := s.EnterBattle(StateInWild, "room-1"); ok || reason != RejectNotInHub {
		t.Fatalf("queued session must not start a wild battle, got %v %q", ok, reason)
	}
	if ok, _ := s.EnterBattle(StateInPvPBattle, "room-1"); !ok {
		t.Fatalf("expected queued session to enter pvp battle")
	}
	assertRoomInvariant(t, s)

	if ok, reason := s.EnterQueue(); ok || reason != RejectInBattle {
		t.Fatalf("battling session must not queue, got %v %q", ok, reason)
	}
	if ok, reason := s.EnterBattle(StateInNPC, "room-2"); ok || reason != RejectInBattle {
		t.Fatalf("session already in a room must not join another, got %v %q", ok, reason)
	}

	s.Party[0].ApplyDamage(s.Party[0].MaxHP)
	s.ReturnToHub()
	assertRoomInvariant(t, s)
	if s.Party.AllFainted() || s.Party[0].CurrentHP != s.Party[0].MaxHP {
		t.Fatalf("expected party to be healed on return to hub")
	}

	if ok, reason := s.EnterBattle(StateHub, "room-3"); ok || reason != RejectNotBattle {
		t.Fatalf("expected non battle state to be rejected, got %v %q", ok, reason)
	}
	if ok, reason := s.EnterBattle(StateInWild, ""); ok || reason != RejectMissingRoom {
		t.Fatalf("expected missing room to be rejected, got %v %q", ok, reason)
	}
	assertRoomInvariant(t, s)
}

func TestEncounterTimerIsCancelledOnLeavingHub(t *testing.T) {
	sched := clock.NewManual()
	s := newTestSession("a")

	var fired []uint64
	s.ArmEncounter(sched, time.Second, func(token uint64) {
		if s.ConsumeEncounter(token) {
			fired = append(fired, token)
		}
	})
	if ok, _ := s.EnterQueue(); !ok {
		t.Fatalf("expected queue entry")
	}
	if s.EncounterPending() {
		t.Fatalf("expected queue entry to cancel the encounter timer")
	}
	sched.Advance(2 * time.Second)
	if len(fired) != 0 {
		t.Fatalf("cancelled encounter fired")
	}
}

func TestEncounterTimerReplacesPrevious(t *testing.T) {
	sched := clock.NewManual()
	s := newTestSession("a")

	var fired []uint64
	fire := func(token uint64) {
		if s.ConsumeEncounter(token) {
			fired = append(fired, token)
		}
	}
	first := s.ArmEncounter(sched, time.Second, fire)
	sched.Advance(500 * time.Millisecond)
	second := s.ArmEncounter(sched, time.Second, fire)
	sched.Advance(2 * time.Second)

	if len(fired) != 1 || fired[0] != second || first == second {
		t.Fatalf("expected only the replacement timer to fire, got %v", fired)
	}
	if s.EncounterPending() {
		t.Fatalf("expected consumed timer to be cleared")
	}
}

func TestCurrency(t *testing.T) {
	s := newTestSession("a")
	s.Award(120)
	s.Award(-50)
	if s.Currency != 120 {
		t.Fatalf("negative awards must be ignored, got %d", s.Currency)
	}
	if s.Spend(200) {
		t.Fatalf("expected unaffordable spend to fail")
	}
	if !s.Spend(100) || s.Currency != 20 {
		t.Fatalf("expected spend to deduct, balance %d", s.Currency)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := newTestSession("a")
	if !r.Insert(a) || r.Insert(newTestSession("a")) {
		t.Fatalf("expected duplicate insert to be rejected")
	}
	r.Insert(newTestSession("b"))
	if r.Len() != 2 {
		t.Fatalf("expected two sessions, got %d", r.Len())
	}

	a.ArmEncounter(clock.NewManual(), time.Second, func(uint64) {})
	removed, ok := r.Remove("a")
	if !ok || removed != a || a.EncounterPending() {
		t.Fatalf("expected removal to cancel the pending timer")
	}
	if _, ok := r.Get("a"); ok {
		t.Fatalf("expected session to be gone")
	}
	if counts := r.CountByState(); counts[StateHub] != 1 {
		t.Fatalf("unexpected state counts %v", counts)
	}
}
