package repositories

import "go.uber.org/atomic"

const (
	// FirstUserID is where the in-memory user sequence starts.
	FirstUserID int64 = 1
	// FirstProductID is where the in-memory product sequence starts.
	FirstProductID int64 = 1000
)

// Sequence hands out strictly increasing identifiers. It is safe for concurrent use.
type Sequence struct {
	last *atomic.Int64
}

// NewSequence creates a Sequence whose first Next returns start.
func NewSequence(start int64) *Sequence {
	return &Sequence{last: atomic.NewInt64(start - 1)}
}

// Next returns the next identifier.
func (s *Sequence) Next() int64 {
	return s.last.Inc()
}
