package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgram_AppendAssignsSequentialIndices(t *testing.T) {
	p := New()
	v0 := Append(p, NewInstruction(OpLoadInteger, []Variable{0}, nil, nil, IntegerValue(1)))
	v1 := Append(p, NewInstruction(OpLoadInteger, []Variable{1}, nil, nil, IntegerValue(2)))
	_ = Append(p, NewInstruction(OpBinaryOperation, []Variable{2}, nil, []Variable{v0, v1}, BinaryAdd))

	require.Equal(t, 3, p.Size())
	assert.Equal(t, 0, p.Code[0].Index())
	assert.Equal(t, 2, p.Code[2].Index())
	assert.Equal(t, 3, p.NumVariables())
}

func TestProgram_InstructionFor(t *testing.T) {
	p := New()
	Append(p, NewInstruction(OpLoadInteger, []Variable{0}, nil, nil, IntegerValue(1)))

	instr, ok := p.InstructionFor(0)
	require.True(t, ok)
	assert.Equal(t, OpLoadInteger, instr.Op)

	_, ok = p.InstructionFor(99)
	assert.False(t, ok)
}

func TestProgram_TypeOf_DefaultsUnknown(t *testing.T) {
	p := New()
	Append(p, NewInstruction(OpLoadInteger, []Variable{0}, nil, nil, IntegerValue(1)))
	assert.True(t, p.TypeOf(0).IsUnknown())

	p.ProgramTypes = map[Variable]Type{0: Integer()}
	assert.Equal(t, "integer", p.TypeOf(0).String())
}

func TestProgram_Clone_IsIndependent(t *testing.T) {
	p := New()
	Append(p, NewInstruction(OpLoadInteger, []Variable{0}, nil, nil, IntegerValue(1)))
	p.ProgramTypes = map[Variable]Type{0: Integer()}

	clone := p.Clone()
	clone.Code[0].Parameters = IntegerValue(99)
	clone.ProgramTypes[0] = String()

	assert.Equal(t, IntegerValue(1), p.Code[0].Parameters, "mutating the clone must not affect the original")
	assert.Equal(t, "integer", p.TypeOf(0).String())
	assert.Same(t, p, clone.Parent)
	assert.NotEqual(t, p.UUID, clone.UUID)
}

func TestProgram_Comments(t *testing.T) {
	p := New()
	p.Comments.AddProgram("produced by splice")
	p.Comments.AddInstruction(0, "donor index 4")
	assert.Equal(t, []string{"produced by splice"}, p.Comments.ProgramComments)
	assert.Equal(t, []string{"donor index 4"}, p.Comments.PerInstruction[0])
}
