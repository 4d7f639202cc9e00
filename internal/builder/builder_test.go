package builder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecmafuzz/internal/ir"
)

func newTestBuilder(mode Mode) *Builder {
	return New(mode, nil, rand.New(rand.NewSource(42)))
}

func TestBuilder_LoadIntegerAppendsInstruction(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	v := b.LoadInteger(7)

	require.Equal(t, 1, b.Program().Size())
	assert.Equal(t, "integer", b.TypeOf(v).String())
}

func TestBuilder_AggressiveModeReusesIntegerLiterals(t *testing.T) {
	b := newTestBuilder(ModeAggressive)
	a := b.LoadInteger(7)
	c := b.LoadInteger(7)

	assert.Equal(t, a, c)
	assert.Equal(t, 1, b.Program().Size())
}

func TestBuilder_ConservativeModeDoesNotReuseIntegerLiterals(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	a := b.LoadInteger(7)
	c := b.LoadInteger(7)

	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, b.Program().Size())
}

func TestBuilder_ReassignInvalidatesIntegerReuseCache(t *testing.T) {
	b := newTestBuilder(ModeAggressive)
	v0 := b.LoadInteger(42)
	other := b.LoadInteger(7)

	b.Reassign(v0, other)
	v1 := b.LoadInteger(42)

	assert.NotEqual(t, v0, v1, "a reassigned variable must not be handed back by a later reuse-mode load of its old literal")
}

func TestBuilder_UpdateInvalidatesIntegerReuseCache(t *testing.T) {
	b := newTestBuilder(ModeAggressive)
	v0 := b.LoadInteger(42)
	delta := b.LoadInteger(1)

	b.Update(ir.UpdateAdd, v0, delta)
	v1 := b.LoadInteger(42)

	assert.NotEqual(t, v0, v1, "a variable updated in place must not be handed back by a later reuse-mode load of its old literal")
}

func TestBuilder_VariableNotVisibleBeforeItIsBound(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	_, ok := b.RandVar()
	assert.False(t, ok)

	b.LoadInteger(1)
	v, ok := b.RandVar()
	require.True(t, ok)
	assert.Equal(t, ir.Variable(0), v)
}

func TestBuilder_RandVarOfTypeFiltersByTrackedType(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	b.LoadString("x")
	intVar := b.LoadInteger(1)

	v, ok := b.RandVarOfType(ir.Integer())
	require.True(t, ok)
	assert.Equal(t, intVar, v)

	_, ok = b.RandVarOfType(ir.RegExp())
	assert.False(t, ok)
}

func TestBuilder_IfElseOpensAndClosesScopeAndContext(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	cond := b.LoadBoolean(true)
	assert.Equal(t, ir.ContextScript, b.Context())

	b.BeginIf(cond)
	assert.True(t, b.Context().Contains(ir.ContextScript))
	inner := b.LoadInteger(1)
	assert.True(t, b.Context().Contains(ir.ContextScript))

	b.BeginElse()
	// the if-branch's inner variable must not be visible inside the else-branch.
	for _, v := range b.VisibleVariables() {
		assert.NotEqual(t, inner, v)
	}
	b.LoadString("s")
	b.EndIf()

	assert.Equal(t, ir.ContextScript, b.Context())
	assert.Empty(t, b.openBlocks)
}

func TestBuilder_ForLoopBindsInductionVariableInsideBodyOnly(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	lo := b.LoadInteger(0)
	hi := b.LoadInteger(10)

	iv := b.BeginForLoop(ir.CompareLessThan, lo, hi)
	assert.True(t, b.Context().Contains(ir.ContextLoop))
	assert.Equal(t, "integer", b.TypeOf(iv).String())

	found := false
	for _, v := range b.VisibleVariables() {
		if v == iv {
			found = true
		}
	}
	assert.True(t, found)

	b.EndForLoop()
	assert.False(t, b.Context().Contains(ir.ContextLoop))
	for _, v := range b.VisibleVariables() {
		assert.NotEqual(t, iv, v)
	}
}

func TestBuilder_TryCatchBindsExceptionVariable(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	b.BeginTry()
	b.LoadInteger(1)
	exc := b.BeginCatch()
	assert.Equal(t, "anything", b.TypeOf(exc).String())
	b.EndTryCatch()

	assert.Equal(t, ir.ContextScript, b.Context())
	assert.Empty(t, b.openBlocks)
}

func TestBuilder_FunctionBodyCanSeeItsOwnParameters(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	sig := &ir.FunctionSignature{
		Params:  []ir.Parameter{{Type: ir.Integer()}, {Type: ir.String()}},
		Returns: ir.Undefined(),
	}
	fn, params := b.BeginPlainFunction(sig)
	require.Len(t, params, 2)
	assert.Equal(t, "integer", b.TypeOf(params[0]).String())
	assert.Equal(t, "string", b.TypeOf(params[1]).String())
	assert.True(t, b.Context().Contains(ir.ContextSubroutine))

	b.Return(params[0])
	b.EndPlainFunction()

	assert.Equal(t, ir.ContextScript, b.Context())
	assert.Equal(t, "function", b.TypeOf(fn).String())
}

func TestBuilder_FinalizeClosesEveryOpenBlock(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	cond := b.LoadBoolean(true)
	b.BeginIf(cond)
	b.BeginTry()
	lo := b.LoadInteger(0)
	hi := b.LoadInteger(3)
	b.BeginForLoop(ir.CompareLessThan, lo, hi)
	b.LoadUndefined()

	p := b.Finalize()

	assert.Equal(t, ir.ContextScript, b.Context())
	assert.Empty(t, b.openBlocks)

	last := p.Code[p.Size()-1]
	assert.Equal(t, ir.OpEndIf, last.Op)
}

func TestBuilder_FinalizeOnAlreadyClosedProgramIsANoop(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	b.LoadInteger(1)
	b.LoadString("x")

	before := b.Program().Size()
	b.Finalize()
	assert.Equal(t, before, b.Program().Size())
}

func TestBuilder_VariableBudgetExhaustionPanics(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	b.MaxVariables = 1
	b.LoadInteger(1)

	assert.Panics(t, func() {
		b.LoadInteger(2)
	})
}

func TestGenerateVariable_ReusesExistingVariableOfWantedType(t *testing.T) {
	b := newTestBuilder(ModeAggressive)
	existing := b.LoadInteger(5)

	got := b.GenerateVariable(ir.Integer())
	assert.Equal(t, existing, got)
}

func TestGenerateVariable_MintsDefaultWhenNothingVisible(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	v := b.GenerateVariable(ir.String())
	assert.Equal(t, "string", b.TypeOf(v).String())
}

type constGenerator struct {
	calls *int
}

func (g constGenerator) Name() string                    { return "const" }
func (g constGenerator) RequiredContext() ir.Context      { return ir.ContextScript }
func (g constGenerator) Generate(b *Builder) {
	*g.calls++
	b.LoadInteger(int64(*g.calls))
}

type loopOnlyGenerator struct{}

func (loopOnlyGenerator) Name() string               { return "loop-only" }
func (loopOnlyGenerator) RequiredContext() ir.Context { return ir.ContextLoop }
func (loopOnlyGenerator) Generate(b *Builder)         { b.LoopContinue() }

func TestGenerateBody_StopsAtBudgetAndSkipsIneligibleGenerators(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	calls := 0
	pool := []Generator{constGenerator{calls: &calls}, loopOnlyGenerator{}}

	b.GenerateBody(3, pool)
	assert.Equal(t, 3, calls)
}

func TestUsable_RejectsGeneratorNeedingUnopenedContext(t *testing.T) {
	b := newTestBuilder(ModeConservative)
	assert.False(t, b.Usable(loopOnlyGenerator{}))

	lo := b.LoadInteger(0)
	hi := b.LoadInteger(1)
	b.BeginForLoop(ir.CompareLessThan, lo, hi)
	assert.True(t, b.Usable(loopOnlyGenerator{}))
}
