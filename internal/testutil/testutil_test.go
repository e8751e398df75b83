package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualTicker_FireDelivers(t *testing.T) {
	src := NewTickerSource()
	tk := src.New(time.Second)

	got := make(chan time.Time, 1)
	go func() { got <- <-tk.C() }()

	require.True(t, tk.Fire())
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("fire was not received")
	}
	assert.Equal(t, time.Second, tk.Interval())
}

func TestManualTicker_FireAfterStop(t *testing.T) {
	tk := NewTickerSource().New(time.Second)
	tk.Stop()
	tk.Stop()

	assert.True(t, tk.Stopped())
	assert.False(t, tk.Fire())
}

func TestManualTicker_StopUnblocksFire(t *testing.T) {
	tk := NewTickerSource().New(time.Second)

	done := make(chan bool)
	go func() { done <- tk.Fire() }()

	time.Sleep(10 * time.Millisecond)
	tk.Stop()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("fire did not unblock after stop")
	}
}

func TestTickerSource_Latest(t *testing.T) {
	src := NewTickerSource()
	assert.Nil(t, src.Latest(10*time.Millisecond))

	first := src.New(time.Second)
	assert.Same(t, first, src.Latest(time.Second))

	second := src.New(time.Second)
	assert.Same(t, second, src.Latest(time.Second))
	assert.Equal(t, 2, src.Count())
}

func TestSequentialIDs(t *testing.T) {
	g := NewSequentialIDs("")
	assert.Equal(t, "t1", g.Generate())
	assert.Equal(t, "t2", g.Generate())

	g.Reset()
	assert.Equal(t, "t1", g.Generate())

	custom := NewSequentialIDs("timer-")
	assert.Equal(t, "timer-1", custom.Generate())
}

func TestSequentialIDs_ThreadSafe(t *testing.T) {
	g := NewSequentialIDs("x")
	seen := sync.Map{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, dup := seen.LoadOrStore(g.Generate(), true)
				assert.False(t, dup)
			}
		}()
	}
	wg.Wait()
}

func TestStepClock(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStepClock(base, time.Second)

	assert.Equal(t, base, c.Now())
	assert.Equal(t, base.Add(time.Second), c.Now())

	c.Reset()
	assert.Equal(t, base, c.Now())
}
