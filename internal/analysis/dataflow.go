package analysis

import "ecmafuzz/internal/ir"

// ReassignedVariables returns the set of variables that are ever the target
// of a Reassign or Update instruction — code that treats a variable's
// value as fixed after its defining instruction (the interpreter's
// single-pass type inference, for instance) needs to know which variables
// break that assumption.
func ReassignedVariables(p *ir.Program) map[ir.Variable]bool {
	out := make(map[ir.Variable]bool)
	for _, instr := range p.Code {
		if instr.Op == ir.OpReassign || instr.Op == ir.OpUpdate {
			if inputs := instr.Inputs(); len(inputs) > 0 {
				out[inputs[0]] = true
			}
		}
	}
	return out
}

// MutableParameterIndices returns the indices of every instruction whose Op
// carries AttrIsMutableParameters — the candidate set an operation mutator
// samples from.
func MutableParameterIndices(p *ir.Program) []int {
	var out []int
	for i, instr := range p.Code {
		if instr.Op.Def().Is(ir.AttrIsMutableParameters) {
			out = append(out, i)
		}
	}
	return out
}

// BlockRange describes one block-structured region: [Begin, End] are
// instruction indices of the opening and closing instructions (inclusive).
type BlockRange struct {
	Begin, End int
}

// Blocks returns every top-level-or-nested block range in p, in the order
// their Begin instruction appears. Useful to mutators (splice/combine)
// that need to move or duplicate a whole block atomically.
func Blocks(p *ir.Program) []BlockRange {
	var out []BlockRange
	var openStack []int

	for i, instr := range p.Code {
		if instr.IsBlockEnd() {
			if len(openStack) > 0 {
				begin := openStack[len(openStack)-1]
				openStack = openStack[:len(openStack)-1]
				out = append(out, BlockRange{Begin: begin, End: i})
			}
		}
		if instr.IsBlockBegin() {
			openStack = append(openStack, i)
		}
	}
	return out
}
