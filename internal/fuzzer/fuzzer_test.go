package fuzzer

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/codegen"
	"ecmafuzz/internal/config"
	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/events"
	"ecmafuzz/internal/interp"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
	"ecmafuzz/internal/mutate"
)

// fakeLifter avoids depending on internal/lift (which has no reason to
// import this package, but keeping the fixture local matches the narrow
// test-double style internal/mutate's own Donor stub uses).
type fakeLifter struct{}

func (fakeLifter) Lift(*ir.Program) string { return "/* program */" }

// fakeExecutor always reports outcome, regardless of source.
type fakeExecutor struct {
	outcome Outcome
	signal  int
}

func (f fakeExecutor) Execute(ctx context.Context, source string, timeout time.Duration) (Execution, error) {
	return Execution{Outcome: f.outcome, Signal: f.signal}, nil
}

// fakeEvaluator reports every execution interesting/unique according to its
// fixed flags, so tests can assert the corpus-add and event-dispatch paths
// without pulling in the real hash-based evaluator from internal/executor.
type fakeEvaluator struct {
	interesting bool
	unique      bool
}

func (f fakeEvaluator) Evaluate(Execution) (ProgramAspects, bool) {
	return ProgramAspects{IsUnique: f.interesting}, f.interesting
}

func (f fakeEvaluator) EvaluateCrash(Execution) (ProgramAspects, bool) {
	return ProgramAspects{IsUnique: f.unique, Detail: "fake crash signature"}, f.unique
}

func seedProgram(t *testing.T, env *jsenv.Environment, rng *rand.Rand) *ir.Program {
	t.Helper()
	b := builder.New(builder.ModeConservative, env, rng)
	b.LoadInteger(7)
	return b.Finalize()
}

func newTestBase(t *testing.T, exec Executor, eval Evaluator) (Base, *corpus.Corpus) {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	env := jsenv.Default()
	cp := corpus.New(config.DefaultCorpusConfig(), rng)
	pool := mutate.NewPool(rng,
		mutate.NewInputMutator(),
		mutate.NewOperationMutator(),
		mutate.NewInsertionMutator(codegen.DefaultPool()),
	)
	return Base{
		Corpus:    cp,
		Env:       env,
		Mutators:  pool,
		Executor:  exec,
		Lifter:    fakeLifter{},
		Evaluator: eval,
		Minimizer: PassthroughMinimizer{},
		Bus:       events.New(),
		RNG:       rng,
		Timeout:   time.Second,
		Interp:    interp.New(env),
	}, cp
}

// TestBase_MutateOnce_PopulatesProgramTypes confirms the engine's mutation
// path actually runs the abstract interpreter over what a mutator hands
// back, rather than leaving ProgramTypes empty until some later pass gets
// around to it.
func TestBase_MutateOnce_PopulatesProgramTypes(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: Succeeded}, fakeEvaluator{})
	parent := seedProgram(t, base.Env, base.RNG)

	child, _, ok := base.mutateOnce(parent)
	require.True(t, ok)
	assert.NotEmpty(t, child.ProgramTypes)
}

func TestBase_Execute_SuccessPublishesValidAndAddsInterestingProgramToCorpus(t *testing.T) {
	base, cp := newTestBase(t, fakeExecutor{outcome: Succeeded}, fakeEvaluator{interesting: true})
	sizeBefore := cp.Len()

	var gotValid, gotInteresting bool
	base.Bus.Subscribe(events.ValidFound, func(events.Event) { gotValid = true })
	base.Bus.Subscribe(events.InterestingProgramFound, func(events.Event) { gotInteresting = true })

	program := seedProgram(t, base.Env, base.RNG)
	exec, err := base.execute(context.Background(), program)
	require.NoError(t, err)
	assert.Equal(t, Succeeded, exec.Outcome)
	assert.True(t, gotValid)
	assert.True(t, gotInteresting)
	assert.Greater(t, cp.Len(), sizeBefore)
}

func TestBase_Execute_CrashPublishesCrashFoundWithTriageDetail(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: Crashed, signal: 11}, fakeEvaluator{unique: true})

	var detail, behavior string
	base.Bus.Subscribe(events.CrashFound, func(e events.Event) {
		detail = e.Detail
		behavior = e.Outcome
	})

	program := seedProgram(t, base.Env, base.RNG)
	exec, err := base.execute(context.Background(), program)
	require.NoError(t, err)
	assert.Equal(t, Crashed, exec.Outcome)
	assert.Equal(t, "deterministic", behavior)
	assert.NotEmpty(t, detail)
}

func TestBase_Execute_TimeoutPublishesTimeOutFound(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: TimedOut}, fakeEvaluator{})
	var got bool
	base.Bus.Subscribe(events.TimeOutFound, func(events.Event) { got = true })

	program := seedProgram(t, base.Env, base.RNG)
	_, err := base.execute(context.Background(), program)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestBase_Execute_FailedPublishesInvalidFound(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: Failed}, fakeEvaluator{})
	var got bool
	base.Bus.Subscribe(events.InvalidFound, func(events.Event) { got = true })

	program := seedProgram(t, base.Env, base.RNG)
	_, err := base.execute(context.Background(), program)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestTriageCrash_CrashAgainIsDeterministic(t *testing.T) {
	report := TriageCrash(context.Background(), fakeExecutor{outcome: Crashed}, fakeEvaluator{unique: true}, "src", time.Second, Execution{Outcome: Crashed})
	assert.Equal(t, "deterministic", report.Behavior)
	assert.True(t, report.IsUnique)
}

func TestTriageCrash_SucceedingOnRerunIsFlaky(t *testing.T) {
	report := TriageCrash(context.Background(), fakeExecutor{outcome: Succeeded}, fakeEvaluator{}, "src", time.Second, Execution{Outcome: Crashed})
	assert.Equal(t, "flaky", report.Behavior)
}

func TestMutationEngine_RunRoundReturnsAnOutcomeWithoutError(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: Succeeded}, fakeEvaluator{interesting: true})
	engine := &MutationEngine{Base: base, NumConsecutiveMutations: 5}
	assert.Equal(t, "Mutation", engine.Name())

	exec, err := engine.RunRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, exec.Outcome)
}

func TestGenerativeEngine_RunRoundBuildsAndExecutesAProgram(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: Succeeded}, fakeEvaluator{})
	engine := &GenerativeEngine{Base: base, Pool: codegen.DefaultPool(), ProgramSize: 10}
	assert.Equal(t, "Generative", engine.Name())

	exec, err := engine.RunRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, exec.Outcome)
}

func TestHybridEngine_RunRoundBuildsScaffoldAndChainsMutations(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: Succeeded}, fakeEvaluator{})
	engine := &HybridEngine{
		Base:                    base,
		Templates:               codegen.DefaultTemplates(),
		NumConsecutiveMutations: 2,
	}
	assert.Equal(t, "Hybrid", engine.Name())

	exec, err := engine.RunRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, exec.Outcome)
}

func TestSpliceEngine_RunRoundGraftsFromCorpus(t *testing.T) {
	base, cp := newTestBase(t, fakeExecutor{outcome: Succeeded}, fakeEvaluator{})
	cp.Add(seedProgram(t, base.Env, base.RNG))
	engine := &SpliceEngine{
		Base:               base,
		Splicer:            mutate.NewSpliceMutator(cp),
		ConsecutiveSplices: 2,
		KeepProbability:    1,
	}
	assert.Equal(t, "Splice", engine.Name())

	exec, err := engine.RunRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, exec.Outcome)
}

func TestMultiEngine_RunRoundDispatchesToAWeightedEngine(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: Succeeded}, fakeEvaluator{})
	mutation := &MutationEngine{Base: base, NumConsecutiveMutations: 1}
	generative := &GenerativeEngine{Base: base, Pool: codegen.DefaultPool(), ProgramSize: 5}

	multi := NewMultiEngine(rand.New(rand.NewSource(2)), []Engine{mutation, generative}, []float64{0.5, 0.5})
	assert.Equal(t, "Multi", multi.Name())

	exec, err := multi.RunRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, exec.Outcome)
}

func TestSmoke_TalliesOutcomesAcrossRounds(t *testing.T) {
	base, _ := newTestBase(t, fakeExecutor{outcome: Succeeded}, fakeEvaluator{})
	engine := &GenerativeEngine{Base: base, Pool: codegen.DefaultPool(), ProgramSize: 5}

	result, err := Smoke(context.Background(), engine, 20, 4)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Rounds)
	assert.Equal(t, 20, result.Succeeded)
}

func TestStartCleanupTicker_StopsCleanly(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cp := corpus.New(config.DefaultCorpusConfig(), rng)
	ticker := StartCleanupTicker(cp, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	ticker.Stop()
}
