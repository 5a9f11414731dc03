package search

import "sync/atomic"

// Sequencer hands out monotonically increasing request ids so that a slow,
// stale search response can be recognized and discarded instead of
// overwriting the results of a newer query.
type Sequencer struct {
	latest atomic.Uint64
}

// Next reserves the id for a new request, making all earlier ids stale.
func (s *Sequencer) Next() uint64 {
	return s.latest.Add(1)
}

// Current reports whether id still belongs to the newest request.
func (s *Sequencer) Current(id uint64) bool {
	return s.latest.Load() == id
}
