package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecmafuzz/internal/ir"
)

func TestScopeAnalyzer_VariableNotVisibleToItself(t *testing.T) {
	p := ir.New()
	ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{0}, nil, nil, ir.IntegerValue(1)))
	info := NewScopeAnalyzer().Analyze(p)
	assert.Empty(t, info.VisibleAt(0))
}

func TestScopeAnalyzer_VisibleToLaterInstruction(t *testing.T) {
	p := buildIfProgram(t)
	info := NewScopeAnalyzer().Analyze(p)
	assert.Contains(t, info.VisibleAt(1), ir.Variable(0))
}

func TestScopeAnalyzer_InnerOutputScopedToBlock(t *testing.T) {
	p := ir.New()
	lo := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{0}, nil, nil, ir.IntegerValue(0)))
	hi := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{1}, nil, nil, ir.IntegerValue(10)))
	ir.Append(p, ir.NewInstruction(ir.OpBeginForLoop, nil, []ir.Variable{2}, []ir.Variable{lo, hi}, ir.LoopParameters{Comparator: ir.CompareLessThan}))
	bodyIdx := p.Size()
	ir.Append(p, ir.NewInstruction(ir.OpLoadUndefined, []ir.Variable{3}, nil, nil, nil))
	ir.Append(p, ir.NewInstruction(ir.OpEndForLoop, nil, nil, nil, nil))
	afterIdx := p.Size()
	ir.Append(p, ir.NewInstruction(ir.OpLoadUndefined, []ir.Variable{4}, nil, nil, nil))

	info := NewScopeAnalyzer().Analyze(p)
	assert.Contains(t, info.VisibleAt(bodyIdx), ir.Variable(2), "loop induction variable visible inside the body")
	assert.NotContains(t, info.VisibleAt(afterIdx), ir.Variable(2), "loop induction variable not visible after the loop ends")
}
