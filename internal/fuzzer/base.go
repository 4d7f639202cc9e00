package fuzzer

import (
	"context"
	"math/rand"
	"time"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/events"
	"ecmafuzz/internal/interp"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
	"ecmafuzz/internal/logging"
	"ecmafuzz/internal/mutate"
)

// Base holds everything every engine needs and implements the one
// execute-and-dispatch helper all five engines share. Concrete
// engines embed Base and add only their own round logic.
type Base struct {
	Corpus    *corpus.Corpus
	Env       *jsenv.Environment
	Mutators  *mutate.Pool
	Executor  Executor
	Lifter    Lifter
	Evaluator Evaluator
	Minimizer Minimizer
	Bus       *events.Bus
	RNG       *rand.Rand
	Timeout   time.Duration

	// Interp, if set, is attached to every Builder this engine starts so
	// each generated/mutated program gets a fresh type-inference pass
	// (populating ir.Program.ProgramTypes) as part of Finalize. Nil is a
	// valid zero value — Finalize just skips the pass.
	Interp *interp.Interpreter
}

// Engine is one of C7's five strategies: run one round, reporting whatever
// the round's final execution was.
type Engine interface {
	Name() string
	RunRound(ctx context.Context) (Execution, error)
}

// execute lifts program, runs it through the Executor, and dispatches every
// event says a round produces, in the fixed PreExecute → outcome →
// InterestingProgramFound → PostExecute order. On a succeeded execution that
// the Evaluator finds interesting, the (minimized) program is re-added to
// the corpus. On a crash, TriageCrash re-executes at double timeout before
// CrashFound is published.
func (b *Base) execute(ctx context.Context, program *ir.Program) (Execution, error) {
	exec, _, err := b.executeReportingInterest(ctx, program)
	return exec, err
}

// executeReportingInterest is execute plus the Evaluator's verdict, so a
// caller that needs to know interestingness without re-invoking the
// Evaluator itself (SpliceEngine's keep-probability decision,) can
// reuse the one call execute already made.
func (b *Base) executeReportingInterest(ctx context.Context, program *ir.Program) (Execution, bool, error) {
	log := logging.Get(logging.CategoryEngine)
	b.Bus.Publish(events.Event{Kind: events.PreExecute, Program: program})

	source := b.Lifter.Lift(program)
	exec, err := b.Executor.Execute(ctx, source, b.Timeout)
	if err != nil {
		log.Debug("execution error: %v", err)
	}

	interesting := false
	switch exec.Outcome {
	case Succeeded:
		b.Bus.Publish(events.Event{Kind: events.ValidFound, Program: program})
		if aspects, ok := b.Evaluator.Evaluate(exec); ok {
			interesting = true
			b.Bus.Publish(events.Event{Kind: events.InterestingProgramFound, Program: program, Detail: aspects.Detail})
			minimized, mErr := b.Minimizer.Minimize(ctx, program, b.Evaluator)
			if mErr != nil {
				log.Debug("minimize failed: %v", mErr)
				minimized = program
			}
			if addErr := b.Corpus.Add(minimized); addErr != nil {
				log.Debug("corpus add failed: %v", addErr)
			}
		}
	case TimedOut:
		b.Bus.Publish(events.Event{Kind: events.TimeOutFound, Program: program})
	case Crashed:
		report := TriageCrash(ctx, b.Executor, b.Evaluator, source, b.Timeout, exec)
		b.Bus.Publish(events.Event{Kind: events.CrashFound, Program: program, Outcome: report.Behavior, Detail: report.Detail})
	default: // Failed
		b.Bus.Publish(events.Event{Kind: events.InvalidFound, Program: program})
	}

	b.Bus.Publish(events.Event{Kind: events.PostExecute, Program: program})
	return exec, interesting, err
}

// mutateOnce applies one mutator from Mutators to parent, returning the
// child and which mutator produced it. Mutators build their own Builder
// internally (they don't go through newBuilder), so the type-inference pass
// newBuilder's Builder would have run at Finalize is re-run here instead,
// over whatever child the mutation actually produced.
func (b *Base) mutateOnce(parent *ir.Program) (*ir.Program, mutate.Mutator, bool) {
	child, m, ok := b.Mutators.Pick(parent, b.Env)
	if ok && b.Interp != nil {
		b.Interp.Analyze(child)
	}
	return child, m, ok
}

// newBuilder starts a fresh Builder in the engine's environment and rng,
// sharing both so a seeded run replays identically across engines.
func (b *Base) newBuilder(mode builder.Mode) *builder.Builder {
	return builder.New(mode, b.Env, b.RNG).WithInterpreter(b.Interp)
}
