package clock

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending single-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler arms single-shot callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Real schedules callbacks on the runtime timer wheel.
type Real struct{}

// AfterFunc wraps time.AfterFunc.
func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Manual is a scheduler driven explicitly by Advance. Callbacks run on the
// goroutine calling Advance, outside the scheduler's lock.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextSeq uint64
	pending []*manualTimer
}

type manualTimer struct {
	owner   *Manual
	due     time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

// NewManual constructs a manual scheduler starting at zero elapsed time.
func NewManual() *Manual {
	return &Manual{}
}

// AfterFunc registers fn to run once Advance moves past d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.nextSeq++
	timer := &manualTimer{owner: m, due: m.now + d, seq: m.nextSeq, fn: fn}
	m.pending = append(m.pending, timer)
	return timer
}

// Stop cancels the timer. It reports false when the timer already fired or
// was stopped.
func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs every callback that became due,
// in due order.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now += d
	due := make([]*manualTimer, 0, len(m.pending))
	remaining := m.pending[:0]
	for _, timer := range m.pending {
		switch {
		case timer.stopped:
		case timer.due <= m.now:
			timer.fired = true
			due = append(due, timer)
		default:
			remaining = append(remaining, timer)
		}
	}
	m.pending = remaining
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due == due[j].due {
			return due[i].seq < due[j].seq
		}
		return due[i].due < due[j].due
	})
	for _, timer := range due {
		timer.fn()
	}
	return len(due)
}

// Pending reports how many timers are armed and not yet fired.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, timer := range m.pending {
		if !timer.stopped {
			count++
		}
	}
	return count
}
