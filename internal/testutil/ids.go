package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates "<prefix>1", "<prefix>2", ... without end.
//
// Unlike timer.FixedGenerator it never runs dry, which suits tests that do
// not care how many timers they create but need stable IDs for golden
// output.
//
// Thread-safety: SequentialIDs is safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "t".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "t"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
