package person

import "sync/atomic"

// IDs hands out person identities.
type IDs interface {
	Next() uint64
}

// Sequence is an IDs counting up from a start value. Each simulation owns its own sequence,
// so identities restart with every run.
type Sequence struct {
	next atomic.Uint64
}

// NewSequence returns a sequence whose first id is start.
func NewSequence(start uint64) *Sequence {
	s := &Sequence{}
	s.next.Store(start)
	return s
}

// Next returns the next id.
func (s *Sequence) Next() uint64 {
	return s.next.Add(1) - 1
}
