package testutil

import "sync"

// FixedIDGenerator hands out predetermined trace IDs in order and then
// keeps returning the last one.
//
// It satisfies cli.IDGenerator so that JSON output can be compared
// byte-for-byte in tests.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator returns a generator over ids. With no ids it always
// returns "trace-fixed".
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	if len(ids) == 0 {
		ids = []string{"trace-fixed"}
	}
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next ID.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[g.idx]
	if g.idx < len(g.ids)-1 {
		g.idx++
	}
	return id
}
