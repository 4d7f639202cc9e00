package mutate

import "sync"

// Stats tracks how many children a mutator has produced that went on to
// execute validly versus not — "(validSamples, invalidSamples) stat
// pair" every mutator carries. Embedded by each concrete mutator below; the
// mutator is the natural owner of its own track record, and an engine
// records the outcome against whichever mutator Pool.Pick returned once
// execution feedback comes back.
type Stats struct {
	mu      sync.Mutex
	valid   int
	invalid int
}

func (s *Stats) RecordValid() {
	s.mu.Lock()
	s.valid++
	s.mu.Unlock()
}

func (s *Stats) RecordInvalid() {
	s.mu.Lock()
	s.invalid++
	s.mu.Unlock()
}

// Counts returns the running (valid, invalid) tally.
func (s *Stats) Counts() (valid, invalid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid, s.invalid
}
