package fuzzer

import (
	"context"

	"ecmafuzz/internal/mutate"
)

// SpliceEngine repeatedly splices random corpus samples into a running
// program, keeping each round's result with probability KeepProbability (or
// always when it produced new coverage) and otherwise reverting to the
// round's starting baseline.
type SpliceEngine struct {
	Base

	Splicer            *mutate.SpliceMutator
	ConsecutiveSplices int
	KeepProbability    float64
}

func (e *SpliceEngine) Name() string { return "Splice" }

func (e *SpliceEngine) RunRound(ctx context.Context) (Execution, error) {
	baseline := e.Corpus.RandomElementForSplicing()
	current := baseline

	n := e.ConsecutiveSplices
	if n <= 0 {
		n = 1
	}
	keepProb := e.KeepProbability
	if keepProb <= 0 {
		keepProb = 0.8
	}

	var last Execution
	for i := 0; i < n; i++ {
		child, ok := e.Splicer.Mutate(current, e.Env, e.RNG)
		if !ok {
			continue
		}
		exec, interesting, err := e.executeReportingInterest(ctx, child)
		if err != nil {
			return exec, err
		}
		last = exec

		keep := exec.Outcome == Succeeded && (interesting || e.RNG.Float64() < keepProb)
		if keep {
			e.Splicer.RecordValid()
			current = child
		} else {
			e.Splicer.RecordInvalid()
			current = baseline
		}
	}
	return last, nil
}
