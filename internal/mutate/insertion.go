package mutate

import (
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// InsertionMutator runs a small burst of generate(n) at a random valid
// position in the parent, leaving every other instruction untouched.
type InsertionMutator struct {
	Stats
	Pool        []builder.Generator
	MaxBurst    int
	MaxAttempts int
}

// NewInsertionMutator builds an InsertionMutator over pool.
func NewInsertionMutator(pool []builder.Generator) *InsertionMutator {
	return &InsertionMutator{Pool: pool, MaxBurst: 3, MaxAttempts: 10}
}

func (m *InsertionMutator) Name() string { return "Insertion" }

func (m *InsertionMutator) Mutate(parent *ir.Program, env *jsenv.Environment, rng *rand.Rand) (*ir.Program, bool) {
	if parent.Size() == 0 || len(m.Pool) == 0 {
		return nil, false
	}
	for attempt := 0; attempt < maxAttemptsOr(m.MaxAttempts, 10); attempt++ {
		at := rng.Intn(parent.Size() + 1)
		b := builder.New(builder.ModeAggressive, env, rng)
		b.ReplayPrefix(parent, at)
		if !anyUsable(b, m.Pool) {
			continue
		}
		n := 1 + rng.Intn(maxInt(m.MaxBurst, 1))
		b.GenerateBody(n, m.Pool)
		b.ReplaySuffix(parent, at)
		return b.Finalize(), true
	}
	return nil, false
}
