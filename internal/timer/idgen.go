package timer

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces timer identifiers.
// Implemented by UUIDGenerator (production) and FixedGenerator (tests, replay).
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator returns random (version 4) UUIDs.
//
// 122 random bits make collisions negligible for a process-lifetime list,
// so the generator does not check the list for duplicates.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a new UUID in its 36 character hyphenated form.
func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// FixedGenerator returns predetermined IDs in order.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that hands out ids in order.
//
//	gen := NewFixedGenerator("t1", "t2")
//	gen.Generate() // "t1"
//	gen.Generate() // "t2"
//	gen.Generate() // panic: all ids exhausted
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
//
// Panics once every ID has been handed out, so a test that creates more
// timers than it planned for fails loudly.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Push appends ids to the generator's queue.
func (g *FixedGenerator) Push(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ids = append(g.ids, ids...)
}

// Remaining reports how many IDs are left.
func (g *FixedGenerator) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.ids) - g.idx
}
