package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

func TestAnalyze_LiteralsInferExactTypes(t *testing.T) {
	p := ir.New()
	ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{0}, nil, nil, ir.IntegerValue(1)))
	ir.Append(p, ir.NewInstruction(ir.OpLoadString, []ir.Variable{1}, nil, nil, ir.StringValue("x")))
	ir.Append(p, ir.NewInstruction(ir.OpLoadBoolean, []ir.Variable{2}, nil, nil, ir.BooleanValue(true)))

	New(nil).Analyze(p)

	assert.Equal(t, "integer", p.TypeOf(0).String())
	assert.Equal(t, "string", p.TypeOf(1).String())
	assert.Equal(t, "boolean", p.TypeOf(2).String())
}

func TestAnalyze_BinaryAddStringPromotes(t *testing.T) {
	p := ir.New()
	s := ir.Append(p, ir.NewInstruction(ir.OpLoadString, []ir.Variable{0}, nil, nil, ir.StringValue("a")))
	n := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{1}, nil, nil, ir.IntegerValue(1)))
	out := ir.Append(p, ir.NewInstruction(ir.OpBinaryOperation, []ir.Variable{2}, nil, []ir.Variable{s, n}, ir.BinaryAdd))

	New(nil).Analyze(p)
	assert.Equal(t, "string", p.TypeOf(out).String())
}

func TestAnalyze_BinaryAddTwoIntegersStaysInteger(t *testing.T) {
	p := ir.New()
	a := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{0}, nil, nil, ir.IntegerValue(1)))
	b := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{1}, nil, nil, ir.IntegerValue(2)))
	out := ir.Append(p, ir.NewInstruction(ir.OpBinaryOperation, []ir.Variable{2}, nil, []ir.Variable{a, b}, ir.BinaryAdd))

	New(nil).Analyze(p)
	assert.Equal(t, "integer", p.TypeOf(out).String())
}

func TestAnalyze_IfElseJoinsBranchTypes(t *testing.T) {
	p := ir.New()
	x := ir.Variable(0)
	cond := ir.Append(p, ir.NewInstruction(ir.OpLoadBoolean, []ir.Variable{1}, nil, nil, ir.BooleanValue(true)))
	ir.Append(p, ir.NewInstruction(ir.OpLoadUndefined, []ir.Variable{x}, nil, nil, nil))
	ir.Append(p, ir.NewInstruction(ir.OpBeginIf, nil, nil, []ir.Variable{cond}, nil))
	intVal := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{3}, nil, nil, ir.IntegerValue(1)))
	ir.Append(p, ir.NewInstruction(ir.OpReassign, nil, nil, []ir.Variable{x, intVal}, nil))
	ir.Append(p, ir.NewInstruction(ir.OpBeginElse, nil, nil, nil, nil))
	strVal := ir.Append(p, ir.NewInstruction(ir.OpLoadString, []ir.Variable{4}, nil, nil, ir.StringValue("s")))
	ir.Append(p, ir.NewInstruction(ir.OpReassign, nil, nil, []ir.Variable{x, strVal}, nil))
	ir.Append(p, ir.NewInstruction(ir.OpEndIf, nil, nil, nil, nil))

	New(nil).Analyze(p)

	merged := p.TypeOf(x)
	assert.True(t, merged.Has(ir.KindInteger))
	assert.True(t, merged.Has(ir.KindString))
}

func TestAnalyze_LoopInductionVariableIsInteger(t *testing.T) {
	p := ir.New()
	lo := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{0}, nil, nil, ir.IntegerValue(0)))
	hi := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{1}, nil, nil, ir.IntegerValue(10)))
	ir.Append(p, ir.NewInstruction(ir.OpBeginForLoop, nil, []ir.Variable{2}, []ir.Variable{lo, hi}, ir.LoopParameters{Comparator: ir.CompareLessThan}))
	ir.Append(p, ir.NewInstruction(ir.OpEndForLoop, nil, nil, nil, nil))

	New(nil).Analyze(p)
	assert.Equal(t, "integer", p.TypeOf(2).String())
}

func TestAnalyze_BuiltinLookupUsesEnvironment(t *testing.T) {
	p := ir.New()
	out := ir.Append(p, ir.NewInstruction(ir.OpLoadBuiltin, []ir.Variable{0}, nil, nil, ir.BuiltinName("Math")))

	New(jsenv.Default()).Analyze(p)
	mathType := p.TypeOf(out)
	require.False(t, mathType.IsAbsent())
}

func TestAnalyze_PropertyLookupOnKnownGroup(t *testing.T) {
	p := ir.New()
	arr := ir.Append(p, ir.NewInstruction(ir.OpCreateArray, []ir.Variable{0}, nil, nil, nil))
	out := ir.Append(p, ir.NewInstruction(ir.OpLoadProperty, []ir.Variable{1}, nil, []ir.Variable{arr}, ir.PropertyName("length")))

	New(jsenv.Default()).Analyze(p)
	assert.Equal(t, "integer", p.TypeOf(out).String())
}
