package main

import (
	"fmt"
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/codegen"
	"ecmafuzz/internal/config"
	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/events"
	"ecmafuzz/internal/executor"
	"ecmafuzz/internal/executor/rodexec"
	"ecmafuzz/internal/fuzzer"
	"ecmafuzz/internal/interp"
	"ecmafuzz/internal/jsenv"
	"ecmafuzz/internal/lift"
	"ecmafuzz/internal/mutate"
)

// session bundles everything a run/smoke/tui command needs, all built from
// one loaded Config.
type session struct {
	cfg    *config.Config
	env    *jsenv.Environment
	corpus *corpus.Corpus
	bus    *events.Bus
	pool   *mutate.Pool
	rng    *rand.Rand
	interp *interp.Interpreter
}

func newSession(cfg *config.Config) *session {
	rng := rand.New(rand.NewSource(1))
	env := jsenv.Default()
	cp := corpus.New(cfg.Corpus, rng)
	bus := events.New()

	genPool := codegen.DefaultPool()
	pool := mutate.NewPool(rng,
		mutate.NewCodeGenerationMutator(genPool),
		mutate.NewCombineMutator(cp),
		mutate.NewInputMutator(),
		mutate.NewInsertionMutator(genPool),
		mutate.NewOperationMutator(),
		mutate.NewProbingMutator(),
		mutate.NewSpliceMutator(cp),
	)

	return &session{cfg: cfg, env: env, corpus: cp, bus: bus, pool: pool, rng: rng, interp: interp.New(env)}
}

func (s *session) newExecutor(kind string) (fuzzer.Executor, func() error, error) {
	switch kind {
	case "", "noop":
		return executor.Noop{}, func() error { return nil }, nil
	case "rod":
		ex := rodexec.New(rodexec.Config{Headless: true})
		return ex, ex.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown executor %q (want noop or rod)", kind)
	}
}

func (s *session) builderMode() builder.Mode {
	if s.cfg.Builder.Mode == "aggressive" {
		return builder.ModeAggressive
	}
	return builder.ModeConservative
}

// buildEngine constructs the named engine (mutation, hybrid, generative,
// splice, multi), wiring its Base collaborators off the shared session
// state plus the given Executor.
func (s *session) buildEngine(kind string, exec fuzzer.Executor) (fuzzer.Engine, error) {
	base := fuzzer.Base{
		Corpus:    s.corpus,
		Env:       s.env,
		Mutators:  s.pool,
		Executor:  exec,
		Lifter:    lift.New(),
		Evaluator: executor.NewHashEvaluator(),
		Minimizer: fuzzer.PassthroughMinimizer{},
		Bus:       s.bus,
		RNG:       s.rng,
		Timeout:   s.cfg.GetExecutionTimeout(),
		Interp:    s.interp,
	}

	switch kind {
	case "", "mutation":
		return &fuzzer.MutationEngine{Base: base, NumConsecutiveMutations: s.cfg.Engine.NumConsecutiveMutations}, nil
	case "hybrid":
		return &fuzzer.HybridEngine{
			Base:                    base,
			Templates:               codegen.DefaultTemplates(),
			NumConsecutiveMutations: s.cfg.Engine.NumConsecutiveMutations,
		}, nil
	case "generative":
		return &fuzzer.GenerativeEngine{Base: base, Pool: codegen.DefaultPool(), ProgramSize: s.cfg.Engine.ProgramSize}, nil
	case "splice":
		return &fuzzer.SpliceEngine{
			Base:               base,
			Splicer:            mutate.NewSpliceMutator(s.corpus),
			ConsecutiveSplices: s.cfg.Engine.ConsecutiveSplices,
			KeepProbability:    s.cfg.Engine.SpliceKeepProbability,
		}, nil
	case "multi":
		return s.buildMultiEngine(base)
	default:
		return nil, fmt.Errorf("unknown engine %q (want mutation, hybrid, generative, splice, or multi)", kind)
	}
}

func (s *session) buildMultiEngine(base fuzzer.Base) (fuzzer.Engine, error) {
	names := []string{"mutation", "hybrid", "splice", "generative"}
	var engines []fuzzer.Engine
	var weights []float64
	for _, name := range names {
		w, ok := s.cfg.Engine.MultiWeights[name]
		if !ok || w <= 0 {
			continue
		}
		e, err := s.buildEngine(name, base.Executor)
		if err != nil {
			return nil, err
		}
		engines = append(engines, e)
		weights = append(weights, w)
	}
	if len(engines) == 0 {
		return nil, fmt.Errorf("multi engine: no positive weights in engine.multi_weights")
	}
	return fuzzer.NewMultiEngine(s.rng, engines, weights), nil
}
