package testutil

import (
	"sync"
	"time"
)

// ManualTicker is a ticker that only fires when told to.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualTicker struct {
	ch       chan time.Time
	stopped  chan struct{}
	stopOnce sync.Once
	interval time.Duration
}

func newManualTicker(d time.Duration) *ManualTicker {
	return &ManualTicker{
		ch:       make(chan time.Time),
		stopped:  make(chan struct{}),
		interval: d,
	}
}

// C returns the firing channel.
func (m *ManualTicker) C() <-chan time.Time {
	return m.ch
}

// Stop marks the ticker stopped. Pending and later Fire calls return false.
func (m *ManualTicker) Stop() {
	m.stopOnce.Do(func() { close(m.stopped) })
}

// Stopped reports whether Stop has been called.
func (m *ManualTicker) Stopped() bool {
	select {
	case <-m.stopped:
		return true
	default:
		return false
	}
}

// Interval returns the period the ticker was created with.
func (m *ManualTicker) Interval() time.Duration {
	return m.interval
}

// Fire delivers one wakeup and blocks until the consumer receives it.
// Returns false if the ticker is, or becomes, stopped first.
func (m *ManualTicker) Fire() bool {
	select {
	case <-m.stopped:
		return false
	default:
	}

	select {
	case m.ch <- time.Now():
		return true
	case <-m.stopped:
		return false
	}
}

// TickerSource hands out ManualTickers and remembers the latest one.
type TickerSource struct {
	mu      sync.Mutex
	tickers []*ManualTicker
	ready   chan struct{}
}

// NewTickerSource creates an empty source.
func NewTickerSource() *TickerSource {
	return &TickerSource{ready: make(chan struct{})}
}

// New creates a ManualTicker. Its signature matches a ticker factory so
// it can be wrapped as engine.TickerFunc.
func (s *TickerSource) New(d time.Duration) *ManualTicker {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := newManualTicker(d)
	s.tickers = append(s.tickers, t)
	if len(s.tickers) == 1 {
		close(s.ready)
	}
	return t
}

// Latest waits up to timeout for a ticker to exist and returns the most
// recently created one, or nil on timeout.
func (s *TickerSource) Latest(timeout time.Duration) *ManualTicker {
	select {
	case <-s.ready:
	case <-time.After(timeout):
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickers[len(s.tickers)-1]
}

// Count returns how many tickers have been created.
func (s *TickerSource) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickers)
}
