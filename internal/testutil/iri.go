package testutil

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IRIGenerator hands out predictable IRIs for tests.
//
// Two generators created with the same base produce the same sequence,
// so tests that mint identities stay reproducible across runs and golden
// comparisons.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type IRIGenerator struct {
	mu   sync.Mutex
	base string
	seq  int64
}

// NewIRIGenerator creates a generator for IRIs below base.
//
// If base is empty, "http://test.example/" is used.
func NewIRIGenerator(base string) *IRIGenerator {
	if base == "" {
		base = "http://test.example/"
	}
	return &IRIGenerator{base: base}
}

// Base returns the base IRI of the generator.
func (g *IRIGenerator) Base() string {
	return g.base
}

// Next returns base followed by "t" and the next sequence number.
// The first call returns base + "t1".
func (g *IRIGenerator) Next() string {
	return fmt.Sprintf("%st%d", g.base, g.next())
}

// NextURN returns a urn:uuid IRI derived from base and the next sequence
// number. The UUID is a name-based (SHA-1) UUID, so it is stable across
// runs.
func (g *IRIGenerator) NextURN() string {
	name := fmt.Sprintf("%s%d", g.base, g.next())
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).URN()
}

// Current returns the last sequence number handed out.
func (g *IRIGenerator) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. After Reset, Next returns base + "t1".
func (g *IRIGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

func (g *IRIGenerator) next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return g.seq
}
