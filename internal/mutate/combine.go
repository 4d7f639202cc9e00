package mutate

import (
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// CombineMutator appends a full random corpus sample after the parent,
// renaming the donor's variables through Adopt so they can't collide with
// the parent's own.
type CombineMutator struct {
	Stats
	Donor Donor
}

// NewCombineMutator builds a CombineMutator drawing donors from donor.
func NewCombineMutator(donor Donor) *CombineMutator {
	return &CombineMutator{Donor: donor}
}

func (m *CombineMutator) Name() string { return "Combine" }

func (m *CombineMutator) Mutate(parent *ir.Program, env *jsenv.Environment, rng *rand.Rand) (*ir.Program, bool) {
	donor := m.Donor.RandomElementForSplicing()
	if donor.Size() == 0 {
		return nil, false
	}
	b := builder.New(builder.ModeAggressive, env, rng)
	b.ReplayPrefix(parent, parent.Size())
	b.Adopt(donor)
	return b.Finalize(), true
}
