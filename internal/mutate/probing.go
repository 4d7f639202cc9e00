package mutate

import (
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// ProbingMutator inserts a typeof check or a runtime probe around a visible
// variable at a random position, widening a variable's observed coverage
// without changing what the program otherwise computes.
type ProbingMutator struct {
	Stats
	MaxAttempts int
}

// NewProbingMutator builds a ProbingMutator.
func NewProbingMutator() *ProbingMutator {
	return &ProbingMutator{MaxAttempts: 10}
}

func (m *ProbingMutator) Name() string { return "Probing" }

func (m *ProbingMutator) Mutate(parent *ir.Program, env *jsenv.Environment, rng *rand.Rand) (*ir.Program, bool) {
	if parent.Size() == 0 {
		return nil, false
	}
	for attempt := 0; attempt < maxAttemptsOr(m.MaxAttempts, 10); attempt++ {
		at := rng.Intn(parent.Size() + 1)
		b := builder.New(builder.ModeAggressive, env, rng)
		b.ReplayPrefix(parent, at)
		v, ok := b.RandVar()
		if !ok {
			continue
		}
		if rng.Intn(2) == 0 {
			b.UnaryOperation(ir.UnaryTypeOf, v)
		} else {
			b.Probe(v)
		}
		b.ReplaySuffix(parent, at)
		return b.Finalize(), true
	}
	return nil, false
}
