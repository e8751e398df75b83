package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentQueue_EnqueueDequeue(t *testing.T) {
	q := newIntentQueue()

	ok := q.Enqueue(ToggleIntent("t1"))
	require.True(t, ok, "enqueue should succeed")

	got, ok := q.TryDequeue()
	require.True(t, ok, "dequeue should succeed")
	assert.Equal(t, IntentToggle, got.Kind)
	assert.Equal(t, "t1", got.TimerID)
}

func TestIntentQueue_FIFO(t *testing.T) {
	q := newIntentQueue()

	for _, id := range []string{"A", "B", "C"} {
		q.Enqueue(RemoveIntent(id))
	}

	for _, want := range []string{"A", "B", "C"} {
		got, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, got.TimerID)
	}
}

func TestIntentQueue_TryDequeue_Empty(t *testing.T) {
	q := newIntentQueue()

	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestIntentQueue_WaitSignals(t *testing.T) {
	q := newIntentQueue()
	q.Enqueue(TickIntent(1000))
	q.Enqueue(TickIntent(1000))

	// Two enqueues coalesce into one buffered signal.
	select {
	case <-q.Wait():
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no signal after enqueue")
	}
	select {
	case <-q.Wait():
		t.Fatal("signals should coalesce")
	default:
	}
	assert.Equal(t, 2, q.Len())
}

func TestIntentQueue_Close(t *testing.T) {
	q := newIntentQueue()
	q.Enqueue(ToggleIntent("t1"))
	q.Close()
	q.Close()

	assert.True(t, q.Closed())
	assert.False(t, q.Enqueue(ToggleIntent("t2")), "enqueue after close should return false")

	// Already queued intents survive the close.
	got, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, "t1", got.TimerID)

	select {
	case <-q.Wait():
	default:
		t.Fatal("wait channel should be closed")
	}
}

func TestIntentQueue_ThreadSafe(t *testing.T) {
	q := newIntentQueue()

	const producers = 10
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(TickIntent(int64(i)))
			}
		}()
	}
	wg.Wait()

	n := 0
	for {
		if _, ok := q.TryDequeue(); !ok {
			break
		}
		n++
	}
	assert.Equal(t, producers*perProducer, n)
}
