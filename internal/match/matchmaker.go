package match

// Pairing is the result of a successful match. First is the session that
// was already waiting and moves first.
type Pairing struct {
	First  string
	Second string
}

// Matchmaker holds at most one waiting session.
type Matchmaker struct {
	waiting string
}

func New() *Matchmaker {
	return &Matchmaker{}
}

// Request pairs id with the waiting session when that session is still
// alive, otherwise makes id the waiting session. A stale waiting entry is
// discarded.
func (m *Matchmaker) Request(id string, alive func(string) bool) (Pairing, bool) {
	if id == "" {
		return Pairing{}, false
	}
	if m.waiting != "" && m.waiting != id {
		if alive != nil && alive(m.waiting) {
			pairing := Pairing{First: m.waiting, Second: id}
			m.waiting = ""
			return pairing, true
		}
	}
	m.waiting = id
	return Pairing{}, false
}

// Cancel clears the waiting slot when it belongs to id.
func (m *Matchmaker) Cancel(id string) bool {
	if id == "" || m.waiting != id {
		return false
	}
	m.waiting = ""
	return true
}

// Waiting returns the queued session id, if any.
func (m *Matchmaker) Waiting() (string, bool) {
	return m.waiting, m.waiting != ""
}
