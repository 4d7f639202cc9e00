// Package interp implements the abstract interpreter: a single
// deterministic forward pass over a finished Program that infers an
// ir.Type for every Variable. Branch-local types are merged at
// control-flow joins with ir.Union, the monotone, deterministic operator
// this project picked to resolve an open question on merge semantics
// (see DESIGN.md, "Type-merge semantics"). The pass never executes
// anything — it only reads the Op/Parameters of each instruction and the
// builtin shapes internal/jsenv describes.
package interp

import (
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// Interpreter runs the forward type-inference pass against a fixed builtin
// environment.
type Interpreter struct {
	env *jsenv.Environment
}

// New returns an Interpreter bound to env. A nil env uses jsenv.Default().
func New(env *jsenv.Environment) *Interpreter {
	if env == nil {
		env = jsenv.Default()
	}
	return &Interpreter{env: env}
}

// joinFrame tracks the type state at a block's entry so its matching
// End/Else instruction can merge branch-local inference back together.
type joinFrame struct {
	op        ir.Op
	base      map[ir.Variable]ir.Type
	thenTypes map[ir.Variable]ir.Type // set once an Else branch is seen
}

// Analyze runs the pass over p and stores the result in p.ProgramTypes.
func (in *Interpreter) Analyze(p *ir.Program) {
	types := make(map[ir.Variable]ir.Type)
	var stack []*joinFrame

	for _, instr := range p.Code {
		if instr.IsBlockEnd() {
			frame := stack[len(stack)-1]
			switch instr.Op {
			case ir.OpBeginElse:
				// Only an if-with-else reaches here: record the
				// then-branch's ending state and restart from the pre-if
				// state for the else branch.
				frame.thenTypes = cloneTypes(types)
				types = cloneTypes(frame.base)
			case ir.OpEndIf:
				stack = stack[:len(stack)-1]
				if frame.thenTypes != nil {
					types = unionMaps(frame.thenTypes, types)
				} else {
					// No else: the skip path leaves state at frame.base.
					types = unionMaps(frame.base, types)
				}
			default:
				// Every other block (loop, switch, try/catch/finally,
				// function/class/method, with): conservatively join
				// whatever the block may have touched against the
				// pre-block state, since a loop may run zero times and a
				// try body may throw before any of its writes land.
				stack = stack[:len(stack)-1]
				types = unionMaps(frame.base, types)
			}
		}

		if instr.IsBlockBegin() && instr.Op != ir.OpBeginElse {
			stack = append(stack, &joinFrame{op: instr.Op, base: cloneTypes(types)})
		}

		in.apply(instr, types)
	}

	p.ProgramTypes = types
}

func (in *Interpreter) typeOf(types map[ir.Variable]ir.Type, v ir.Variable) ir.Type {
	if t, ok := types[v]; ok {
		return t
	}
	return ir.Unknown()
}

func setOutputs(types map[ir.Variable]ir.Type, instr ir.Instruction, t ir.Type) {
	for _, out := range instr.Outputs() {
		types[out] = t
	}
}

func cloneTypes(in map[ir.Variable]ir.Type) map[ir.Variable]ir.Type {
	out := make(map[ir.Variable]ir.Type, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// unionMaps merges b over a: every variable present in either map ends up
// Union()-ed, keys unique to one side pass through unchanged.
func unionMaps(a, b map[ir.Variable]ir.Type) map[ir.Variable]ir.Type {
	out := make(map[ir.Variable]ir.Type, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if existing, ok := out[k]; ok {
			out[k] = ir.Union(existing, v)
		} else {
			out[k] = v
		}
	}
	return out
}
