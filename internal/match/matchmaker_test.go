package match

import "testing"

func TestRequestPairsWithWaitingSession(t *testing.T) {
	m := New()
	alive := func(string) bool { return true }

	if _, paired := m.Request("a", alive); paired {
		t.Fatalf("first request must wait")
	}
	if waiting, ok := m.Waiting(); !ok || waiting != "a" {
		t.Fatalf("expected a to be waiting, got %q", waiting)
	}

	pairing, paired := m.Request("b", alive)
	if !paired {
		t.Fatalf("expected second request to pair")
	}
	if pairing.First != "a" || pairing.Second != "b" {
		t.Fatalf("waiting session must move first, got %+v", pairing)
	}
	if _, ok := m.Waiting(); ok {
		t.Fatalf("expected waiting slot to be cleared after pairing")
	}
}

func TestRequestDiscardsStaleWaitingSession(t *testing.T) {
	m := New()
	m.Request("gone", func(string) bool { return true })

	alive := func(id string) bool { return id != "gone" }
	if _, paired := m.Request("b", alive); paired {
		t.Fatalf("must not pair with a disconnected session")
	}
	if waiting, _ := m.Waiting(); waiting != "b" {
		t.Fatalf("expected caller to take over the waiting slot, got %q", waiting)
	}
}

func TestRequestIgnoresSelfPairing(t *testing.T) {
	m := New()
	alive := func(string) bool { return true }
	m.Request("a", alive)
	if _, paired := m.Request("a", alive); paired {
		t.Fatalf("a session must never pair with itself")
	}
}

func TestCancel(t *testing.T) {
	m := New()
	m.Request("a", nil)
	if m.Cancel("b") {
		t.Fatalf("cancel for another session must not clear the slot")
	}
	if !m.Cancel("a") {
		t.Fatalf("expected cancel to clear the slot")
	}
	if _, ok := m.Waiting(); ok {
		t.Fatalf("expected empty slot")
	}
}
