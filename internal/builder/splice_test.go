package builder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecmafuzz/internal/ir"
)

func buildSimpleProgram(t *testing.T) *ir.Program {
	t.Helper()
	b := New(ModeConservative, nil, rand.New(rand.NewSource(7)))
	v0 := b.LoadInteger(42)
	v1 := b.LoadInteger(1)
	b.BinaryOperation(ir.BinaryAdd, v0, v1)
	return b.Finalize()
}

func TestReplay_PreservesVariableIdsAndOrder(t *testing.T) {
	parent := buildSimpleProgram(t)
	b := New(ModeConservative, nil, rand.New(rand.NewSource(1)))
	b.ReplayPrefix(parent, parent.Size())
	got := b.Finalize()

	require.Equal(t, parent.Size(), got.Size())
	for i := range parent.Code {
		assert.Equal(t, parent.Code[i].Op, got.Code[i].Op)
		assert.Equal(t, parent.Code[i].Outputs(), got.Code[i].Outputs())
	}
}

func TestReplayPrefixThenSuffix_InsertsAtMidpoint(t *testing.T) {
	parent := buildSimpleProgram(t)
	b := New(ModeAggressive, nil, rand.New(rand.NewSource(1)))
	b.ReplayPrefix(parent, 2)
	inserted := b.LoadBoolean(true)
	b.ReplaySuffix(parent, 2)
	got := b.Finalize()

	assert.Greater(t, got.Size(), parent.Size())
	assert.NotEqual(t, ir.NoVariable, inserted)
}

func TestReplayWithParams_SwapsOperatorOnly(t *testing.T) {
	parent := buildSimpleProgram(t)
	b := New(ModeConservative, nil, rand.New(rand.NewSource(1)))
	b.ReplayPrefix(parent, 2)
	swapped := parent.Code[2]
	b.ReplayWithParams(parent, swapped, ir.BinarySub)
	got := b.Finalize()

	assert.Equal(t, ir.BinarySub, got.Code[2].Parameters)
	assert.Equal(t, swapped.Op, got.Code[2].Op)
}

func TestAdopt_RemapsVariablesWithoutCollision(t *testing.T) {
	donor := buildSimpleProgram(t)
	b := New(ModeConservative, nil, rand.New(rand.NewSource(1)))
	b.ReplayPrefix(donor, donor.Size())
	varMap := b.Adopt(donor)
	got := b.Finalize()

	assert.Equal(t, donor.Size()*2, got.Size())
	assert.Len(t, varMap, donor.NumVariables())
	for orig, fresh := range varMap {
		assert.NotEqual(t, orig, fresh)
	}
}

func TestSpliceRange_RejectsUnbalancedRange(t *testing.T) {
	donor := New(ModeConservative, nil, rand.New(rand.NewSource(2)))
	cond := donor.LoadBoolean(true)
	donor.BeginIf(cond)
	donor.LoadInteger(1)
	donor.EndIf()
	program := donor.Finalize()

	b := New(ModeConservative, nil, rand.New(rand.NewSource(1)))
	ok := b.SpliceRange(program, 1, 2)
	assert.False(t, ok, "range starting inside an if-block without its EndIf must be rejected")
}

func TestSpliceRange_AcceptsBalancedWholeBlock(t *testing.T) {
	donor := New(ModeConservative, nil, rand.New(rand.NewSource(2)))
	cond := donor.LoadBoolean(true)
	donor.BeginIf(cond)
	donor.LoadInteger(1)
	donor.EndIf()
	program := donor.Finalize()

	b := New(ModeConservative, nil, rand.New(rand.NewSource(1)))
	ok := b.SpliceRange(program, 1, program.Size())
	assert.True(t, ok)
}

func TestSpliceRange_RejectsLoneYieldWithoutGeneratorContext(t *testing.T) {
	donor := New(ModeConservative, nil, rand.New(rand.NewSource(3)))
	sig := &ir.FunctionSignature{Returns: ir.Undefined()}
	_, _ = donor.BeginGeneratorFunction(sig)
	v := donor.LoadInteger(1)
	yieldIdx := donor.Program().Size()
	donor.Yield(v)
	donor.EndGeneratorFunction()
	program := donor.Finalize()

	require.Equal(t, ir.OpYield, program.Code[yieldIdx].Op)

	b := New(ModeConservative, nil, rand.New(rand.NewSource(1)))
	ok := b.SpliceRange(program, yieldIdx, yieldIdx+1)
	assert.False(t, ok, "splicing a lone yield into a non-generator context must abort")
}
