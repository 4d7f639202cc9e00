package mutate

import (
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// OperationMutator walks the parent's instructions and, with a small
// per-instruction probability, replaces one's Parameters with another value
// of the same kind — swap a comparator, swap a binary operator, flip a
// boolean flag — never touching its Op, variables, or position.
type OperationMutator struct {
	Stats
	Probability float64
}

// NewOperationMutator builds an OperationMutator with the default per-
// instruction swap probability.
func NewOperationMutator() *OperationMutator {
	return &OperationMutator{Probability: 0.1}
}

func (m *OperationMutator) Name() string { return "Operation" }

func (m *OperationMutator) Mutate(parent *ir.Program, env *jsenv.Environment, rng *rand.Rand) (*ir.Program, bool) {
	if parent.Size() == 0 {
		return nil, false
	}
	b := builder.New(builder.ModeAggressive, env, rng)
	anyMutated := false
	for _, instr := range parent.Code {
		if rng.Float64() < m.Probability {
			if newParams, ok := swapParameters(instr.Parameters, rng); ok {
				b.ReplayWithParams(parent, instr, newParams)
				anyMutated = true
				continue
			}
		}
		b.Replay(parent, instr)
	}
	if !anyMutated {
		return nil, false
	}
	return b.Finalize(), true
}

// swapParameters returns a different value of the same Parameters kind, or
// ok=false for kinds this mutator doesn't know how to vary. Boolean literals
// are flipped; other literal values, property names and function
// signatures are left alone — those are the input mutator's and
// the code generators' job, not the operation mutator's).
func swapParameters(params ir.Parameters, rng *rand.Rand) (ir.Parameters, bool) {
	switch p := params.(type) {
	case ir.UnaryOperator:
		return ir.UnaryOperator(differentIndex(int(p), 10, rng)), true
	case ir.BinaryOperator:
		return ir.BinaryOperator(differentIndex(int(p), 12, rng)), true
	case ir.LogicalOperator:
		return ir.LogicalOperator(differentIndex(int(p), 3, rng)), true
	case ir.Comparator:
		return ir.Comparator(differentIndex(int(p), 8, rng)), true
	case ir.UpdateOperator:
		return ir.UpdateOperator(differentIndex(int(p), 6, rng)), true
	case ir.BooleanValue:
		return ir.BooleanValue(!bool(p)), true
	default:
		return nil, false
	}
}

// differentIndex picks a value in [0, count) distinct from current.
func differentIndex(current, count int, rng *rand.Rand) int {
	if count <= 1 {
		return current
	}
	next := rng.Intn(count - 1)
	if next >= current {
		next++
	}
	return next
}
