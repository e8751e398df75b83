package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roach88/timers/internal/timer"
)

// Snapshot is one published version of the timer list.
type Snapshot struct {
	Version int64
	Timers  timer.List
}

// Change describes one applied intent. Observers receive it after the new
// list has been published.
type Change struct {
	Version int64
	Intent  Intent
	Timers  timer.List
	At      time.Time
}

// Observer is notified after every list replacement.
type Observer interface {
	OnChange(Change)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Change)

// OnChange calls f(c).
func (f ObserverFunc) OnChange(c Change) { f(c) }

// Engine is the single-writer state container for the timer list.
//
// Thread-safety model:
//   - Submit*, Dispatch, Timers, Snapshot, Subscribe: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//   - Observers: called on the Run goroutine, one at a time
//
// INVARIANTS:
//   - The published list is never mutated; each intent publishes a new one
//   - Intents are applied in enqueue order
//   - No tick is applied once teardown has begun
type Engine struct {
	clock   *Clock
	queue   *intentQueue
	factory *timer.Factory
	driver  *TickDriver
	current atomic.Pointer[Snapshot]

	running  atomic.Bool
	stopping atomic.Bool
	stopOnce sync.Once

	obsMu     sync.Mutex
	observers []observerEntry
	nextObsID int

	// Configured via options.
	idGen        timer.IDGenerator
	tickInterval time.Duration
	newTicker    TickerFunc
	now          func() time.Time
}

type observerEntry struct {
	id  int
	obs Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator sets the timer ID source. Default: timer.UUIDGenerator.
func WithIDGenerator(gen timer.IDGenerator) Option {
	return func(e *Engine) {
		e.idGen = gen
	}
}

// WithTickInterval sets the tick period. Default: DefaultTickInterval.
// Each tick adds the period, in milliseconds, to every running timer.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.tickInterval = d
	}
}

// WithTicker sets the wakeup source for the tick driver.
// Tests pass a manual ticker to fire ticks on demand.
func WithTicker(f TickerFunc) Option {
	return func(e *Engine) {
		e.newTicker = f
	}
}

// WithClock sets the version clock, e.g. NewClockAt after a replay.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithNow overrides the wall clock used to stamp Change.At.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine holding initial as version 0 (or the clock's
// current value when WithClock is used). The initial list is copied.
func New(initial timer.List, opts ...Option) *Engine {
	e := &Engine{
		clock:        NewClock(),
		queue:        newIntentQueue(),
		tickInterval: DefaultTickInterval,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.factory = timer.NewFactory(e.idGen)
	e.driver = NewTickDriver(e.tickInterval, e.newTicker, e.Dispatch)
	e.current.Store(&Snapshot{Version: e.clock.Current(), Timers: initial.Clone()})

	return e
}

// Timers returns the current timer list. The result must not be modified.
func (e *Engine) Timers() timer.List {
	return e.current.Load().Timers
}

// Snapshot returns the current version and list.
func (e *Engine) Snapshot() Snapshot {
	return *e.current.Load()
}

// TickDriver exposes the engine's tick driver, mainly for status output.
func (e *Engine) TickDriver() *TickDriver {
	return e.driver
}

// Dispatch enqueues an intent for the Run loop.
// Returns false if the engine has stopped.
func (e *Engine) Dispatch(in Intent) bool {
	return e.queue.Enqueue(in)
}

// SubmitCreate requests a new timer.
func (e *Engine) SubmitCreate(p timer.CreatePayload) bool {
	return e.Dispatch(CreateIntent(p))
}

// SubmitEdit requests a title/project change.
func (e *Engine) SubmitEdit(p timer.EditPayload) bool {
	return e.Dispatch(EditIntent(p))
}

// SubmitRemove requests removal of a timer.
func (e *Engine) SubmitRemove(id string) bool {
	return e.Dispatch(RemoveIntent(id))
}

// SubmitToggle requests a start/stop flip.
func (e *Engine) SubmitToggle(id string) bool {
	return e.Dispatch(ToggleIntent(id))
}

// QueueLen returns the number of intents waiting to be applied.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// Subscribe registers an observer and returns a function that removes it.
// Observers are called in subscription order.
func (e *Engine) Subscribe(obs Observer) (cancel func()) {
	e.obsMu.Lock()
	defer e.obsMu.Unlock()

	e.nextObsID++
	id := e.nextObsID
	e.observers = append(e.observers, observerEntry{id: id, obs: obs})

	return func() {
		e.obsMu.Lock()
		defer e.obsMu.Unlock()
		for i, entry := range e.observers {
			if entry.id == id {
				e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

// Run starts the tick driver and the single-writer loop.
// Blocks until ctx is cancelled or Stop is called, then returns after the
// intents already queued (except ticks) have been applied.
//
// Returns ctx.Err() on cancellation, nil after Stop.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	slog.Info("engine starting",
		"timers", len(e.Timers()),
		"tick_interval", e.driver.Interval())

	if !e.stopping.Load() {
		e.driver.Start()
	}
	defer e.driver.Stop()

	var runErr error
	for {
		if in, ok := e.queue.TryDequeue(); ok {
			e.process(in)
			continue
		}

		if e.queue.Closed() {
			slog.Info("engine stopped", "version", e.clock.Current())
			return runErr
		}

		select {
		case <-ctx.Done():
			slog.Info("engine stopping: context cancelled")
			runErr = ctx.Err()
			e.Stop()
		case <-e.queue.Wait():
			// Loop back to TryDequeue. A closed queue keeps this
			// case ready until the drain above finishes.
		}
	}
}

// Stop begins teardown: the tick driver is cancelled first, then the queue
// stops accepting intents. Run returns once the queue is drained.
// Safe to call more than once and before Run.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.stopping.Store(true)
		e.driver.Stop()
		e.queue.Close()
	})
}

// process applies one intent and publishes the result.
// Called only from the Run goroutine.
func (e *Engine) process(in Intent) {
	if in.Kind == IntentTick && e.stopping.Load() {
		return
	}

	cur := e.current.Load()
	next, applied, err := Apply(cur.Timers, e.factory, in)
	if err != nil {
		// Log and continue; a malformed intent must not stop the loop.
		slog.Error("intent rejected", "kind", in.Kind.String(), "error", err)
		return
	}

	snap := &Snapshot{Version: e.clock.Next(), Timers: next}
	e.current.Store(snap)

	e.notify(Change{
		Version: snap.Version,
		Intent:  applied,
		Timers:  next,
		At:      e.now(),
	})
}

// notify calls every observer outside the observer lock so an observer may
// itself Subscribe or cancel.
func (e *Engine) notify(c Change) {
	e.obsMu.Lock()
	observers := make([]Observer, len(e.observers))
	for i, entry := range e.observers {
		observers[i] = entry.obs
	}
	e.obsMu.Unlock()

	for _, obs := range observers {
		obs.OnChange(c)
	}
}
