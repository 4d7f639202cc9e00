// Package executor provides the in-tree Executor implementations:
// a no-op always-succeeds stand-in used by tests and the acceptance smoke
// run, plus (in the rodexec subpackage) a real-browser reference executor.
// A production deployment wires its own REPRL-speaking Executor instead;
// nothing in internal/fuzzer depends on either implementation here.
package executor

import (
	"context"
	"time"

	"ecmafuzz/internal/fuzzer"
	"ecmafuzz/internal/logging"
)

// Noop always reports Succeeded without running anything. It exists for
// unit tests and for S4's acceptance check, which only needs to know a
// program made it through lifting without an Executor in the loop.
type Noop struct{}

func (Noop) Execute(ctx context.Context, source string, timeout time.Duration) (fuzzer.Execution, error) {
	start := time.Now()
	logging.Get(logging.CategoryExec).Debug("noop executor: %d bytes of source", len(source))
	return fuzzer.Execution{
		Outcome:    fuzzer.Succeeded,
		ExecTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

var _ fuzzer.Executor = Noop{}

// AlwaysCrash is a deterministic test double that reports every execution
// as a crash — useful for exercising crash-handling paths (corpus crash
// directory, Evaluator.EvaluateCrash wiring) without a real engine.
type AlwaysCrash struct {
	Signal int
}

func (e AlwaysCrash) Execute(ctx context.Context, source string, timeout time.Duration) (fuzzer.Execution, error) {
	return fuzzer.Execution{
		Outcome: fuzzer.Crashed,
		Signal:  e.Signal,
		Stderr:  "simulated crash",
	}, nil
}

var _ fuzzer.Executor = AlwaysCrash{}
