package analysis

import "ecmafuzz/internal/ir"

// ScopeAnalyzer computes, for every instruction, which Variables are
// lexically visible at that point — the set a mutator may legally pick an
// input from, or the builder may legally reuse when splicing two programs
// together.
type ScopeAnalyzer struct{}

func NewScopeAnalyzer() *ScopeAnalyzer { return &ScopeAnalyzer{} }

// ScopeInfo is the result of a ScopeAnalyzer pass.
type ScopeInfo struct {
	visibleAt [][]ir.Variable
}

// VisibleAt returns the variables visible to an instruction about to be
// inserted at index (i.e. defined by instructions strictly before index, in
// a scope that still encloses index).
func (s *ScopeInfo) VisibleAt(index int) []ir.Variable {
	if index < 0 || index >= len(s.visibleAt) {
		return nil
	}
	return s.visibleAt[index]
}

// Analyze walks p once, maintaining a stack of scopes (one per nested
// block). An instruction's own outputs become visible to the instructions
// that follow it, never to itself.
func (a *ScopeAnalyzer) Analyze(p *ir.Program) *ScopeInfo {
	info := &ScopeInfo{visibleAt: make([][]ir.Variable, len(p.Code))}
	stack := [][]ir.Variable{nil}

	for i, instr := range p.Code {
		if instr.IsBlockEnd() {
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			if instr.IsBlockBegin() {
				stack = append(stack, nil)
			}
		}

		info.visibleAt[i] = flatten(stack)

		top := len(stack) - 1
		stack[top] = append(stack[top], instr.Outputs()...)

		switch {
		case instr.IsBlockBegin() && !instr.IsBlockEnd():
			stack = append(stack, append([]ir.Variable{}, instr.InnerOutputs()...))
		case len(instr.InnerOutputs()) > 0:
			stack[top] = append(stack[top], instr.InnerOutputs()...)
		}
	}
	return info
}

func flatten(stack [][]ir.Variable) []ir.Variable {
	n := 0
	for _, s := range stack {
		n += len(s)
	}
	out := make([]ir.Variable, 0, n)
	for _, s := range stack {
		out = append(out, s...)
	}
	return out
}
