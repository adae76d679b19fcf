package telemetry

import "sync/atomic"

// Counters tracks process-wide activity for the diagnostics endpoint.
type Counters struct {
	messagesIn      atomic.Uint64
	messagesOut     atomic.Uint64
	messagesDropped atomic.Uint64
	malformed       atomic.Uint64
	rejected        atomic.Uint64
	battlesStarted  atomic.Uint64
	battlesFinished atomic.Uint64
	encounters      atomic.Uint64
}

// CountersSnapshot is a point-in-time copy of Counters.
type CountersSnapshot struct {
	MessagesIn      uint64 `json:"messagesIn"`
	MessagesOut     uint64 `json:"messagesOut"`
	MessagesDropped uint64 `json:"messagesDropped"`
	Malformed       uint64 `json:"malformed"`
	Rejected        uint64 `json:"rejected"`
	BattlesStarted  uint64 `json:"battlesStarted"`
	BattlesFinished uint64 `json:"battlesFinished"`
	Encounters      uint64 `json:"encounters"`
}

func (c *Counters) IncMessagesIn()      { c.messagesIn.Add(1) }
func (c *Counters) IncMessagesOut()     { c.messagesOut.Add(1) }
func (c *Counters) IncMessagesDropped() { c.messagesDropped.Add(1) }
func (c *Counters) IncMalformed()       { c.malformed.Add(1) }
func (c *Counters) IncRejected()        { c.rejected.Add(1) }
func (c *Counters) IncBattlesStarted()  { c.battlesStarted.Add(1) }
func (c *Counters) IncBattlesFinished() { c.battlesFinished.Add(1) }
func (c *Counters) IncEncounters()      { c.encounters.Add(1) }

// Snapshot copies the current counter values.
func (c *Counters) Snapshot() CountersSnapshot {
	if c == nil {
		return CountersSnapshot{}
	}
	return CountersSnapshot{
		MessagesIn:      c.messagesIn.Load(),
		MessagesOut:     c.messagesOut.Load(),
		MessagesDropped: c.messagesDropped.Load(),
		Malformed:       c.malformed.Load(),
		Rejected:        c.rejected.Load(),
		BattlesStarted:  c.battlesStarted.Load(),
		BattlesFinished: c.battlesFinished.Load(),
		Encounters:      c.encounters.Load(),
	}
}
