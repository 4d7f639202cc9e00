// Package analysis computes static facts over a finished (or previously
// finalized) Program: the Context each instruction executes in, which
// Variables are visible at each point, and simple dataflow facts such as
// whether a variable is ever reassigned. These are read-only passes over
// ir.Program — unlike internal/builder's live scope stack, which is kept
// while a program is still under construction, an Analyzer here always
// walks a finished instruction sequence from index 0, so a given analyzer
// value carries no state between calls and is safe to share across
// goroutines without a mutex.
package analysis

import "ecmafuzz/internal/ir"

// ContextAnalyzer computes the ir.Context active at every instruction.
type ContextAnalyzer struct{}

func NewContextAnalyzer() *ContextAnalyzer { return &ContextAnalyzer{} }

// ContextInfo is the result of a ContextAnalyzer pass.
type ContextInfo struct {
	perInstruction []ir.Context
}

// At returns the Context active at index, or ContextScript for an
// out-of-range index (an empty/not-yet-analyzed program is at the top
// level).
func (c *ContextInfo) At(index int) ir.Context {
	if index < 0 || index >= len(c.perInstruction) {
		return ir.ContextScript
	}
	return c.perInstruction[index]
}

// Analyze walks p once, maintaining a stack of opened contexts.
func (a *ContextAnalyzer) Analyze(p *ir.Program) *ContextInfo {
	info := &ContextInfo{perInstruction: make([]ir.Context, len(p.Code))}
	stack := []ir.Context{ir.ContextScript}

	for i, instr := range p.Code {
		if instr.IsBlockEnd() {
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			if instr.IsBlockBegin() {
				// A combined begin/end (else, catch, finally, switch-case):
				// the popped block's sibling opens here.
				opened := stack[len(stack)-1].Union(instr.Op.Def().ContextOpened)
				stack = append(stack, opened)
			}
		}

		info.perInstruction[i] = stack[len(stack)-1]

		if instr.IsBlockBegin() && !instr.IsBlockEnd() {
			opened := stack[len(stack)-1].Union(instr.Op.Def().ContextOpened)
			stack = append(stack, opened)
		}
	}
	return info
}
