package session

// Registry owns every live session keyed by connection identity.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Insert adds s unless its id is already registered.
func (r *Registry) Insert(s *Session) bool {
	if s == nil || s.ID == "" {
		return false
	}
	if _, exists := r.sessions[s.ID]; exists {
		return false
	}
	r.sessions[s.ID] = s
	return true
}

func (r *Registry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// Remove deletes the session and cancels its pending timer.
func (r *Registry) Remove(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.CancelEncounter()
	delete(r.sessions, id)
	return s, true
}

func (r *Registry) Len() int {
	return len(r.sessions)
}

// CountByState tallies sessions per lifecycle state.
func (r *Registry) CountByState() map[State]int {
	counts := make(map[State]int)
	for _, s := range r.sessions {
		counts[s.State]++
	}
	return counts
}
