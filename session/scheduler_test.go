package session_test

import (
	"time"

	"flexclass/session"
)

// manualScheduler fires callbacks only when test advances its clock.
type manualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
	// leaky makes Cancel report failure and keeps callback scheduled, as
	// when timer has already fired and its callback is waiting in queue.
	leaky bool
}

type manualTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (m *manualScheduler) AfterFunc(d time.Duration, fn func()) session.Cancel {
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return func() bool {
		if m.leaky || t.fired || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

// Advance moves clock forward firing due callbacks in order.
func (m *manualScheduler) Advance(d time.Duration) {
	target := m.now + d
	for {
		var next *manualTimer
		for _, t := range m.timers {
			if t.fired || t.stopped || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}
		m.now = next.at
		next.fired = true
		next.fn()
	}
	m.now = target
}

// Pending returns number of callbacks still waiting.
func (m *manualScheduler) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}
