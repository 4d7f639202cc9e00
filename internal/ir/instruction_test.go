package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstruction_LoadIntegerHasOneOutputNoInputs(t *testing.T) {
	instr := NewInstruction(OpLoadInteger, []Variable{0}, nil, nil, IntegerValue(42))
	assert.Equal(t, []Variable{0}, instr.Outputs())
	assert.Empty(t, instr.Inputs())
	assert.Empty(t, instr.InnerOutputs())
	assert.Equal(t, IntegerValue(42), instr.Parameters)
}

func TestNewInstruction_VariadicCallAcceptsAnyInputCount(t *testing.T) {
	instr := NewInstruction(OpCallFunction, []Variable{3}, nil, []Variable{0, 1, 2}, nil)
	assert.Equal(t, 3, instr.NumInputs())
	assert.Equal(t, []Variable{0, 1, 2}, instr.Inputs())
}

func TestNewInstruction_ForLoopHasInnerOutput(t *testing.T) {
	instr := NewInstruction(OpBeginForLoop, nil, []Variable{5}, []Variable{0, 1}, LoopParameters{Comparator: CompareLessThan})
	assert.Equal(t, []Variable{5}, instr.InnerOutputs())
	assert.Equal(t, []Variable{0, 1}, instr.Inputs())
	assert.True(t, instr.IsBlockBegin())
	assert.True(t, instr.IsLoopBegin())
}

func TestNewInstruction_WrongArityPanics(t *testing.T) {
	require.Panics(t, func() {
		NewInstruction(OpLoadInteger, []Variable{0, 1}, nil, nil, IntegerValue(1))
	})
	require.Panics(t, func() {
		NewInstruction(OpBinaryOperation, []Variable{2}, nil, []Variable{0}, BinaryAdd)
	})
}

func TestInstruction_StringIncludesOutput(t *testing.T) {
	instr := NewInstruction(OpLoadUndefined, []Variable{7}, nil, nil, nil)
	assert.Contains(t, instr.String(), "v7")
	assert.Contains(t, instr.String(), "LoadUndefined")
}
