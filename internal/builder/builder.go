// Package builder is the sole constructor of well-formed ir.Program values.
// Every other package that needs a Program either receives a
// finished one or asks a Builder to grow one incrementally; nothing outside
// this package calls ir.Append directly. A Builder keeps the live scope and
// context stacks a finished analysis.ScopeAnalyzer/ContextAnalyzer pass
// would reconstruct after the fact — it has to, since code generators need
// to know what's legally reachable *while* still deciding what to emit
// next.
package builder

import (
	"math/rand"

	"ecmafuzz/internal/interp"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// Mode controls how eagerly the builder reuses existing variables versus
// minting new ones: conservative or aggressive construction.
type Mode int

const (
	// ModeConservative favors generating fresh values over reusing existing
	// variables, producing straighter, more predictable programs.
	ModeConservative Mode = iota
	// ModeAggressive favors reusing existing variables and splicing donor
	// code, producing denser, more varied programs at the cost of being
	// harder to reason about by eye.
	ModeAggressive
)

// Builder incrementally constructs one ir.Program.
type Builder struct {
	mode   Mode
	env    *jsenv.Environment
	rng    *rand.Rand
	interp *interp.Interpreter

	program *ir.Program
	nextVar ir.Variable

	contextStack []ir.Context
	scopeStack   [][]ir.Variable
	openBlocks   []ir.Op
	typeOf       map[ir.Variable]ir.Type

	InnerScopePreference      float64
	RecursionStopProbability  float64
	MaxVariables              int

	reuseInt     map[int64]ir.Variable
	reuseFloat   map[float64]ir.Variable
	reuseBuiltin map[string]ir.Variable
}

// New starts a Builder for a fresh program.
func New(mode Mode, env *jsenv.Environment, rng *rand.Rand) *Builder {
	if env == nil {
		env = jsenv.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Builder{
		mode:                     mode,
		env:                      env,
		rng:                      rng,
		program:                  ir.New(),
		contextStack:             []ir.Context{ir.ContextScript},
		scopeStack:               [][]ir.Variable{nil},
		typeOf:                   make(map[ir.Variable]ir.Type),
		InnerScopePreference:     0.75,
		RecursionStopProbability: 0.25,
		MaxVariables:             ir.MaxVariables,
		reuseInt:                 make(map[int64]ir.Variable),
		reuseFloat:               make(map[float64]ir.Variable),
		reuseBuiltin:             make(map[string]ir.Variable),
	}
}

// Program returns the program under construction. Callers must call
// Finalize first if they need every opened block closed.
func (b *Builder) Program() *ir.Program { return b.program }

// WithInterpreter attaches in so Finalize runs an Analyze pass over the
// finished program before handing it back, populating ir.Program.ProgramTypes
// the way splice.representativeType expects. Returns b so it chains off New.
func (b *Builder) WithInterpreter(in *interp.Interpreter) *Builder {
	b.interp = in
	return b
}

// Context returns the Context active at the current point of construction.
func (b *Builder) Context() ir.Context {
	return b.contextStack[len(b.contextStack)-1]
}

// Mode reports the builder's construction mode.
func (b *Builder) Mode() Mode { return b.mode }

// Env returns the builtin environment this builder consults.
func (b *Builder) Env() *jsenv.Environment { return b.env }

// RNG exposes the builder's random source so code generators can make
// choices consistent with the rest of a fuzzing run's determinism (a seeded
// rng replays identically).
func (b *Builder) RNG() *rand.Rand { return b.rng }

func (b *Builder) freshVariable() ir.Variable {
	ir.Require(int(b.nextVar) < b.MaxVariables, "builder: variable budget exhausted", b.nextVar.String())
	v := b.nextVar
	b.nextVar++
	return v
}

func (b *Builder) freshVariables(n int) []ir.Variable {
	if n <= 0 {
		return nil
	}
	out := make([]ir.Variable, n)
	for i := range out {
		out[i] = b.freshVariable()
	}
	return out
}

// bindOutputs adds newly defined variables to the current innermost scope
// and records their inferred types.
func (b *Builder) bindOutputs(vars []ir.Variable, t ir.Type) {
	top := len(b.scopeStack) - 1
	b.scopeStack[top] = append(b.scopeStack[top], vars...)
	for _, v := range vars {
		b.typeOf[v] = t
	}
}

func (b *Builder) pushScope(ctx ir.Context, innerOutputs []ir.Variable, innerType ir.Type) {
	b.contextStack = append(b.contextStack, b.Context().Union(ctx))
	b.scopeStack = append(b.scopeStack, append([]ir.Variable{}, innerOutputs...))
	for _, v := range innerOutputs {
		b.typeOf[v] = innerType
	}
}

func (b *Builder) popScope() {
	if len(b.scopeStack) > 1 {
		b.scopeStack = b.scopeStack[:len(b.scopeStack)-1]
		b.contextStack = b.contextStack[:len(b.contextStack)-1]
	}
}

// TypeOf returns the type the builder assigned v when it was created.
func (b *Builder) TypeOf(v ir.Variable) ir.Type {
	if t, ok := b.typeOf[v]; ok {
		return t
	}
	return ir.Unknown()
}

// VisibleVariables returns every variable currently in scope, innermost
// scope last.
func (b *Builder) VisibleVariables() []ir.Variable {
	var out []ir.Variable
	for _, scope := range b.scopeStack {
		out = append(out, scope...)
	}
	return out
}

// RandVar picks a uniformly random visible variable. ok is false if nothing
// is in scope yet (an empty program).
func (b *Builder) RandVar() (v ir.Variable, ok bool) {
	vars := b.VisibleVariables()
	if len(vars) == 0 {
		return ir.NoVariable, false
	}
	if b.InnerScopePreference > 0 && len(b.scopeStack) > 1 && b.rng.Float64() < b.InnerScopePreference {
		inner := b.scopeStack[len(b.scopeStack)-1]
		if len(inner) > 0 {
			return inner[b.rng.Intn(len(inner))], true
		}
	}
	return vars[b.rng.Intn(len(vars))], true
}

// RandVarOfType picks a uniformly random visible variable whose tracked
// type satisfies want (ir.Type.Is). ok is false if none qualifies.
func (b *Builder) RandVarOfType(want ir.Type) (v ir.Variable, ok bool) {
	var candidates []ir.Variable
	for _, cand := range b.VisibleVariables() {
		if b.TypeOf(cand).Is(want) {
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) == 0 {
		return ir.NoVariable, false
	}
	return candidates[b.rng.Intn(len(candidates))], true
}

// emit is the single mutating primitive every typed helper and every
// Generator funnels through. It allocates fresh output/inner-output
// variables, appends the instruction, and updates scope/context.
func (b *Builder) emit(op ir.Op, numOutputs, numInner int, inputs []ir.Variable, params ir.Parameters, outType, innerType ir.Type) ([]ir.Variable, []ir.Variable) {
	outputs := b.freshVariables(numOutputs)
	inner := b.freshVariables(numInner)
	return b.appendWithVars(op, outputs, inner, inputs, params, outType, innerType)
}

// appendWithVars does everything emit does except choose the output/inner
// variable ids — it is shared by emit (which mints fresh ones) and Replay/
// Adopt (which reuse or remap ids carried over from another program), so the
// scope/context/openBlocks bookkeeping stays in exactly one place regardless
// of where the variable numbers came from.
func (b *Builder) appendWithVars(op ir.Op, outputs, inner, inputs []ir.Variable, params ir.Parameters, outType, innerType ir.Type) ([]ir.Variable, []ir.Variable) {
	if op.IsBlockEnd() {
		b.popScope()
		if len(b.openBlocks) > 0 {
			b.openBlocks = b.openBlocks[:len(b.openBlocks)-1]
		}
	}

	if (op == ir.OpReassign || op == ir.OpUpdate) && len(inputs) > 0 {
		b.invalidateReuseCache(inputs[0])
	}

	instr := ir.NewInstruction(op, outputs, inner, inputs, params)
	ir.Append(b.program, instr)

	if op.IsBlockEnd() && op.IsBlockBegin() {
		// Combined begin/end (else, catch, finally, switch-case): the pop
		// above closed the sibling block; open the new one here.
		b.pushScope(op.Def().ContextOpened, inner, innerType)
		b.openBlocks = append(b.openBlocks, op)
		b.bindOutputs(outputs, outType)
		return outputs, inner
	}

	b.bindOutputs(outputs, outType)
	if op.IsBlockBegin() {
		b.pushScope(op.Def().ContextOpened, inner, innerType)
		b.openBlocks = append(b.openBlocks, op)
	} else if len(inner) > 0 {
		b.bindOutputs(inner, innerType)
	}
	return outputs, inner
}

// invalidateReuseCache drops every reuse-cache entry that currently points at
// v, so an aggressive-mode LoadInteger/LoadFloat/LoadBuiltin issued after v
// has been reassigned or updated in place can't hand back a variable that no
// longer holds the value it was cached for.
func (b *Builder) invalidateReuseCache(v ir.Variable) {
	for k, cached := range b.reuseInt {
		if cached == v {
			delete(b.reuseInt, k)
		}
	}
	for k, cached := range b.reuseFloat {
		if cached == v {
			delete(b.reuseFloat, k)
		}
	}
	for k, cached := range b.reuseBuiltin {
		if cached == v {
			delete(b.reuseBuiltin, k)
		}
	}
}

// bumpVariableFloor raises the builder's next-fresh-variable counter so that
// subsequently minted variables never collide with ids already replayed in
// from another program.
func (b *Builder) bumpVariableFloor(v ir.Variable) {
	if v+1 > b.nextVar {
		b.nextVar = v + 1
	}
}
