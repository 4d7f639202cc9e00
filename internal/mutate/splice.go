package mutate

import (
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// SpliceMutator copies the parent, then grafts one contiguous, block-neutral
// range from a random corpus donor in at a random position.
type SpliceMutator struct {
	Stats
	Donor       Donor
	MaxAttempts int
}

// NewSpliceMutator builds a SpliceMutator drawing donors from donor.
func NewSpliceMutator(donor Donor) *SpliceMutator {
	return &SpliceMutator{Donor: donor, MaxAttempts: 10}
}

func (m *SpliceMutator) Name() string { return "Splice" }

func (m *SpliceMutator) Mutate(parent *ir.Program, env *jsenv.Environment, rng *rand.Rand) (*ir.Program, bool) {
	if parent.Size() == 0 {
		return nil, false
	}
	donor := m.Donor.RandomElementForSplicing()
	from, to, ok := randomBalancedRange(rng, donor, m.MaxAttempts)
	if !ok {
		return nil, false
	}
	at := rng.Intn(parent.Size() + 1)
	b := builder.New(builder.ModeAggressive, env, rng)
	b.ReplayPrefix(parent, at)
	if !b.SpliceRange(donor, from, to) {
		return nil, false
	}
	b.ReplaySuffix(parent, at)
	return b.Finalize(), true
}
