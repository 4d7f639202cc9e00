package fuzzer

import (
	"context"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
)

// MutationEngine is C7's baseline strategy: pick a corpus parent,
// apply up to NumConsecutiveMutations mutations, chaining onto the child
// whenever an execution succeeds and otherwise retrying from the last good
// parent.
type MutationEngine struct {
	Base

	NumConsecutiveMutations int

	// PrefixPool/PrefixSize/PrefixRegenEvery implement optional
	// "short, periodically-regenerated prefix program" — left nil/zero,
	// the engine never prefixes. When set, a fresh prefix is generated
	// every PrefixRegenEvery rounds and adopted in front of the sampled
	// parent before mutation.
	PrefixPool       []builder.Generator
	PrefixSize       int
	PrefixRegenEvery int

	rounds int
	prefix *ir.Program
}

func (e *MutationEngine) Name() string { return "Mutation" }

func (e *MutationEngine) RunRound(ctx context.Context) (Execution, error) {
	e.maybeRegeneratePrefix()

	parent := e.Corpus.RandomElementForMutating()
	if e.prefix != nil {
		parent = e.mergePrefix(e.prefix, parent)
	}

	var last Execution
	n := e.NumConsecutiveMutations
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		child, mutator, ok := e.mutateOnce(parent)
		if !ok {
			continue
		}
		exec, err := e.execute(ctx, child)
		if err != nil {
			return exec, err
		}
		last = exec
		if exec.Outcome == Succeeded {
			mutator.RecordValid()
			parent = child
		} else {
			mutator.RecordInvalid()
		}
	}
	return last, nil
}

func (e *MutationEngine) maybeRegeneratePrefix() {
	if len(e.PrefixPool) == 0 {
		return
	}
	every := e.PrefixRegenEvery
	if every <= 0 {
		every = 1
	}
	if e.prefix != nil && e.rounds%every != 0 {
		e.rounds++
		return
	}
	b := e.newBuilder(builder.ModeConservative)
	size := e.PrefixSize
	if size <= 0 {
		size = 5
	}
	gens := make([]builder.Generator, len(e.PrefixPool))
	copy(gens, e.PrefixPool)
	b.GenerateBody(size, gens)
	e.prefix = b.Finalize()
	e.rounds++
}

// mergePrefix adopts prefix's instructions, then parent's, into one fresh
// program — the two programs never collide on variable ids since Adopt
// always remaps.
func (e *MutationEngine) mergePrefix(prefix, parent *ir.Program) *ir.Program {
	b := e.newBuilder(builder.ModeAggressive)
	b.Adopt(prefix)
	b.Adopt(parent)
	return b.Finalize()
}
