package gateway

import "sync"

// Sequencer issues monotonically increasing numbers per operation kind so
// a caller can drop responses that were overtaken by a newer request.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// NewSequencer returns an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]uint64)}
}

// Next issues the next number for op. The first number is 1.
func (s *Sequencer) Next(op string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[op]++
	return s.latest[op]
}

// IsLatest reports whether seq is the most recent number issued for op.
func (s *Sequencer) IsLatest(op string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq != 0 && s.latest[op] == seq
}

// Latest returns the most recent number issued for op, or 0.
func (s *Sequencer) Latest(op string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[op]
}
