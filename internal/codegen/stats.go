package codegen

import "sync"

// Stats tracks a generator's or template's own (valid, invalid) correctness
// rate, mirrored from the same pattern internal/mutate uses for its
// mutators: diagnostics-only counters, not a gate on whether a generator
// is allowed to keep running.
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

func (s *Stats) Counts() (valid, invalid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid, s.invalid
}
