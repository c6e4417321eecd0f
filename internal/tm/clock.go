package tm

import "sync/atomic"

// idClock hands out construct identifiers.
//
// Identifiers are strictly increasing and never reused, not even when a
// rolled-back call discards the constructs it created. Creation order is
// therefore also identifier order, which the duplicate pass and
// atomification rely on to pick "the first" of several candidates.
type idClock struct {
	seq atomic.Int64
}

func newIDClock() *idClock {
	return &idClock{}
}

// Next returns the next identifier.
func (c *idClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last identifier handed out.
func (c *idClock) Current() int64 {
	return c.seq.Load()
}
