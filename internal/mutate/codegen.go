package mutate

import (
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// CodeGenerationMutator is the Insertion mutator's heavier sibling: it
// drops a larger burst of newly generated code at a random valid position
// rather than a small 1-3 instruction nudge, aiming to grow program
// complexity rather than locally perturb it.
type CodeGenerationMutator struct {
	Stats
	Pool        []builder.Generator
	MinBurst    int
	MaxBurst    int
	MaxAttempts int
}

// NewCodeGenerationMutator builds a CodeGenerationMutator over pool.
func NewCodeGenerationMutator(pool []builder.Generator) *CodeGenerationMutator {
	return &CodeGenerationMutator{Pool: pool, MinBurst: 3, MaxBurst: 10, MaxAttempts: 10}
}

func (m *CodeGenerationMutator) Name() string { return "CodeGeneration" }

func (m *CodeGenerationMutator) Mutate(parent *ir.Program, env *jsenv.Environment, rng *rand.Rand) (*ir.Program, bool) {
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
		span := maxInt(m.MaxBurst-m.MinBurst, 1)
		n := m.MinBurst + rng.Intn(span)
		b.GenerateBody(n, m.Pool)
		b.ReplaySuffix(parent, at)
		return b.Finalize(), true
	}
	return nil, false
}
