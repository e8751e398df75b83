package engine

import (
	"sync"
	"time"
)

// DefaultTickInterval is the tick driver period.
const DefaultTickInterval = time.Second

// Ticker is a recurring wakeup source.
// *time.Ticker satisfies it through RealTicker; tests use a manual ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

// RealTicker adapts *time.Ticker to Ticker.
type RealTicker struct {
	t *time.Ticker
}

// NewRealTicker starts a wall-clock ticker.
func NewRealTicker(d time.Duration) Ticker {
	return &RealTicker{t: time.NewTicker(d)}
}

// C returns the ticker channel.
func (r *RealTicker) C() <-chan time.Time { return r.t.C }

// Stop stops the ticker.
func (r *RealTicker) Stop() { r.t.Stop() }

// TickState is the tick driver's schedule state.
type TickState int

const (
	// TickIdle means no wakeup is armed.
	TickIdle TickState = iota
	// TickScheduled means a recurring wakeup is armed.
	TickScheduled
)

func (s TickState) String() string {
	if s == TickScheduled {
		return "scheduled"
	}
	return "idle"
}

// TickDriver turns a recurring wakeup into tick intents.
//
// Each firing dispatches exactly one tick carrying the interval in
// milliseconds. Missed firings are not caught up: a slow consumer just
// sees fewer ticks, the same as time.Ticker dropping them.
//
// Thread-safety: Start and Stop may be called from any goroutine.
type TickDriver struct {
	mu        sync.Mutex
	state     TickState
	interval  time.Duration
	newTicker TickerFunc
	dispatch  func(Intent) bool

	ticker Ticker
	stop   chan struct{}
	done   chan struct{}
}

// NewTickDriver creates an idle driver that sends ticks to dispatch.
// A nil newTicker falls back to NewRealTicker.
func NewTickDriver(interval time.Duration, newTicker TickerFunc, dispatch func(Intent) bool) *TickDriver {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	return &TickDriver{
		interval:  interval,
		newTicker: newTicker,
		dispatch:  dispatch,
	}
}

// State returns the current schedule state.
func (d *TickDriver) State() TickState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Interval returns the tick period.
func (d *TickDriver) Interval() time.Duration {
	return d.interval
}

// Start arms the recurring wakeup (Idle -> Scheduled).
// Calling Start while Scheduled does nothing.
func (d *TickDriver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == TickScheduled {
		return
	}

	d.ticker = d.newTicker(d.interval)
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	d.state = TickScheduled

	go d.loop(d.ticker, d.stop, d.done)
}

// Stop cancels the wakeup (Scheduled -> Idle).
// When Stop returns no further tick will be dispatched.
// Calling Stop while Idle does nothing.
func (d *TickDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == TickIdle {
		return
	}

	close(d.stop)
	<-d.done
	d.ticker.Stop()

	d.ticker = nil
	d.state = TickIdle
}

func (d *TickDriver) loop(t Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	delta := d.interval.Milliseconds()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			// A firing racing with Stop must lose.
			select {
			case <-stop:
				return
			default:
			}
			d.dispatch(TickIntent(delta))
		}
	}
}
