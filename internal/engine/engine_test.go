package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timers/internal/testutil"
	"github.com/roach88/timers/internal/timer"
)

const waitTimeout = 2 * time.Second

// harness runs an engine on a background goroutine with a manual ticker
// and a buffered change feed.
type harness struct {
	eng     *Engine
	ticks   *testutil.TickerSource
	changes chan Change
	done    chan error
	cancel  context.CancelFunc
}

func startEngine(t *testing.T, initial timer.List, opts ...Option) *harness {
	t.Helper()

	src := testutil.NewTickerSource()
	opts = append([]Option{
		WithIDGenerator(testutil.NewSequentialIDs("new-")),
		WithTicker(func(d time.Duration) Ticker { return src.New(d) }),
	}, opts...)

	h := &harness{
		eng:     New(initial, opts...),
		ticks:   src,
		changes: make(chan Change, 64),
		done:    make(chan error, 1),
	}
	h.eng.Subscribe(ObserverFunc(func(c Change) { h.changes <- c }))

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.done <- h.eng.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-h.done:
		case <-time.After(waitTimeout):
			t.Error("engine did not stop")
		}
	})
	return h
}

func (h *harness) next(t *testing.T) Change {
	t.Helper()
	select {
	case c := <-h.changes:
		return c
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for change")
		return Change{}
	}
}

func (h *harness) fire(t *testing.T) {
	t.Helper()
	tk := h.ticks.Latest(waitTimeout)
	require.NotNil(t, tk, "tick driver never armed a ticker")
	require.True(t, tk.Fire(), "ticker stopped")
}

func TestEngine_New(t *testing.T) {
	initial := timer.List{{ID: "t1"}}
	e := New(initial)

	assert.NotNil(t, e.clock)
	assert.NotNil(t, e.queue)
	assert.Equal(t, Snapshot{Version: 0, Timers: initial}, e.Snapshot())
	assert.Equal(t, TickIdle, e.TickDriver().State())
	assert.Equal(t, DefaultTickInterval, e.TickDriver().Interval())

	// The engine keeps its own copy.
	initial[0].Title = "changed"
	assert.Equal(t, "", e.Timers()[0].Title)
}

func TestEngine_NewWithClock(t *testing.T) {
	e := New(nil, WithClock(NewClockAt(41)))
	assert.Equal(t, int64(41), e.Snapshot().Version)
	assert.NotNil(t, e.Timers())
}

func TestEngine_SubmitEnqueues(t *testing.T) {
	e := New(nil)

	assert.True(t, e.SubmitCreate(timer.CreatePayload{Title: "A"}))
	assert.True(t, e.SubmitEdit(timer.EditPayload{ID: "x"}))
	assert.True(t, e.SubmitRemove("x"))
	assert.True(t, e.SubmitToggle("x"))
	assert.Equal(t, 4, e.QueueLen())
}

func TestEngine_SubmitAfterStop(t *testing.T) {
	e := New(nil)
	e.Stop()

	assert.False(t, e.SubmitToggle("t1"), "submit after stop should fail")
}

func TestEngine_CreatePrepends(t *testing.T) {
	h := startEngine(t, timer.List{{ID: "old"}})

	h.eng.SubmitCreate(timer.CreatePayload{Title: "A", Project: "B"})
	c := h.next(t)

	assert.Equal(t, int64(1), c.Version)
	assert.Equal(t, IntentCreate, c.Intent.Kind)
	assert.Equal(t, "new-1", c.Intent.TimerID)
	assert.Equal(t, []string{"new-1", "old"}, c.Timers.IDs())
	assert.Equal(t, timer.Timer{ID: "new-1", Title: "A", Project: "B"}, c.Timers[0])
	assert.Equal(t, c.Timers, h.eng.Timers())
}

func TestEngine_IntentsAppliedInOrder(t *testing.T) {
	h := startEngine(t, nil)

	h.eng.SubmitCreate(timer.CreatePayload{Title: "first"})
	h.eng.SubmitCreate(timer.CreatePayload{Title: "second"})
	h.eng.SubmitToggle("new-1")
	h.eng.SubmitRemove("new-2")

	var last Change
	for i := 0; i < 4; i++ {
		last = h.next(t)
		assert.Equal(t, int64(i+1), last.Version)
	}

	require.Len(t, last.Timers, 1)
	assert.Equal(t, "first", last.Timers[0].Title)
	assert.True(t, last.Timers[0].IsRunning)
}

func TestEngine_UnknownIDIsSilentNoOp(t *testing.T) {
	initial := timer.List{{ID: "t1", Title: "x", Elapsed: 10}}
	h := startEngine(t, initial)

	h.eng.SubmitEdit(timer.EditPayload{ID: "missing", Title: "y"})
	h.eng.SubmitToggle("missing")
	h.eng.SubmitRemove("missing")

	for i := 0; i < 3; i++ {
		c := h.next(t)
		assert.Equal(t, initial, c.Timers)
	}
}

func TestEngine_TickScenario(t *testing.T) {
	h := startEngine(t, timer.List{{ID: "t1", Elapsed: 1000, IsRunning: true}})

	var last Change
	for i := 0; i < 3; i++ {
		h.fire(t)
		last = h.next(t)
		assert.Equal(t, IntentTick, last.Intent.Kind)
		assert.Equal(t, timer.DefaultTickDelta, last.Intent.Delta)
	}

	assert.Equal(t, int64(4000), last.Timers[0].Elapsed)
	assert.Equal(t, TickScheduled, h.eng.TickDriver().State())
}

func TestEngine_TickAdvancesRunningOnly(t *testing.T) {
	h := startEngine(t, timer.List{
		{ID: "run", Elapsed: 5000, IsRunning: true},
		{ID: "stop", Elapsed: 3000},
	})

	h.fire(t)
	c := h.next(t)

	assert.Equal(t, int64(6000), c.Timers[0].Elapsed)
	assert.Equal(t, int64(3000), c.Timers[1].Elapsed)
}

func TestEngine_TickIntervalSetsDelta(t *testing.T) {
	h := startEngine(t, timer.List{{ID: "t1", IsRunning: true}}, WithTickInterval(250*time.Millisecond))

	h.fire(t)
	c := h.next(t)

	assert.Equal(t, int64(250), c.Timers[0].Elapsed)
	assert.Equal(t, 250*time.Millisecond, h.ticks.Latest(waitTimeout).Interval())
}

func TestEngine_StopHaltsTicks(t *testing.T) {
	h := startEngine(t, timer.List{{ID: "t1", IsRunning: true}})
	tk := h.ticks.Latest(waitTimeout)
	require.NotNil(t, tk)

	h.eng.Stop()

	select {
	case err := <-h.done:
		assert.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("run did not return after stop")
	}
	h.done <- nil // satisfy cleanup

	assert.True(t, tk.Stopped())
	assert.False(t, tk.Fire())
	assert.Equal(t, TickIdle, h.eng.TickDriver().State())
	assert.Equal(t, int64(0), h.eng.Timers()[0].Elapsed)
}

func TestEngine_QueuedTickDroppedOnTeardown(t *testing.T) {
	e := New(timer.List{{ID: "t1", Elapsed: 1000}},
		WithTicker(func(d time.Duration) Ticker { return testutil.NewTickerSource().New(d) }))

	// Both land in the queue before teardown begins.
	e.SubmitToggle("t1")
	e.Dispatch(TickIntent(1000))
	e.Stop()

	err := e.Run(context.Background())
	require.NoError(t, err)

	got := e.Timers()
	assert.True(t, got[0].IsRunning, "queued user intent still applied")
	assert.Equal(t, int64(1000), got[0].Elapsed, "queued tick dropped")
	assert.Equal(t, int64(1), e.Snapshot().Version)
}

func TestEngine_ContextCancel(t *testing.T) {
	e := New(nil, WithTicker(func(d time.Duration) Ticker { return testutil.NewTickerSource().New(d) }))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(waitTimeout):
		t.Fatal("run did not return after cancel")
	}
	assert.False(t, e.SubmitToggle("x"))
}

func TestEngine_RunTwice(t *testing.T) {
	h := startEngine(t, nil)
	h.eng.SubmitToggle("x")
	h.next(t)

	err := h.eng.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestEngine_MalformedIntentSkipped(t *testing.T) {
	h := startEngine(t, timer.List{{ID: "t1"}})

	h.eng.Dispatch(Intent{Kind: 99})
	h.eng.SubmitToggle("t1")

	c := h.next(t)
	assert.Equal(t, int64(1), c.Version, "malformed intent must not bump the version")
	assert.Equal(t, IntentToggle, c.Intent.Kind)
}

func TestEngine_ChangeTimestamp(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := testutil.NewStepClock(base, time.Second)
	h := startEngine(t, nil, WithNow(clock.Now))

	h.eng.SubmitCreate(timer.CreatePayload{})
	h.eng.SubmitCreate(timer.CreatePayload{})

	assert.Equal(t, base, h.next(t).At)
	assert.Equal(t, base.Add(time.Second), h.next(t).At)
}

type mockObserver struct {
	mock.Mock
}

func (m *mockObserver) OnChange(c Change) {
	m.Called(c)
}

func TestEngine_SubscribeAndCancel(t *testing.T) {
	h := startEngine(t, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	obs := &mockObserver{}
	obs.On("OnChange", mock.MatchedBy(func(c Change) bool {
		return c.Intent.Kind == IntentCreate
	})).Run(func(mock.Arguments) { wg.Done() }).Once()

	cancelSub := h.eng.Subscribe(obs)
	h.eng.SubmitCreate(timer.CreatePayload{Title: "A"})
	h.next(t)
	wg.Wait()

	cancelSub()
	cancelSub()
	h.eng.SubmitToggle("new-1")
	h.next(t)

	obs.AssertExpectations(t)
	obs.AssertNumberOfCalls(t, "OnChange", 1)
}

func TestEngine_ObserversCalledInOrder(t *testing.T) {
	e := New(nil)

	var mu sync.Mutex
	var order []string
	record := func(name string) Observer {
		return ObserverFunc(func(Change) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		})
	}
	e.Subscribe(record("a"))
	e.Subscribe(record("b"))

	e.process(ToggleIntent("x"))

	assert.Equal(t, []string{"a", "b"}, order)
}
