package codegen

import (
	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
)

// ProgramTemplate is a larger, named recipe that composes generators and the
// builder into a scaffold explicitly designed to stress one engine behavior
// — JIT re-tiering / type-confusion examples. HybridEngine builds the
// prefix and seed function itself and hands the template only the builder
// positioned inside that seed's body; the template is not responsible for
// program framing, only for the stressful part.
type ProgramTemplate struct {
	Stats

	name string
	run  func(b *builder.Builder)
}

// NewTemplate builds a ProgramTemplate. run must only be invoked against a
// builder in ModeConservative; Run enforces this.
func NewTemplate(name string, run func(b *builder.Builder)) *ProgramTemplate {
	return &ProgramTemplate{name: name, run: run}
}

func (t *ProgramTemplate) Name() string { return t.name }

// Run executes the template's recipe against b. b must be in
// ModeConservative — templates are scaffolds meant to read back
// predictably, and aggressive-mode variable reuse would undermine that.
func (t *ProgramTemplate) Run(b *builder.Builder) {
	ir.Require(b.Mode() == builder.ModeConservative, "codegen: template requires conservative builder", t.name)
	t.run(b)
}

// hotLoopRetiering stresses a JIT's tier-up path: a for loop with a large
// trip count whose body repeatedly exercises the same arithmetic and
// property shapes so an optimizing compiler is likely to kick in partway
// through, then, after the loop, a store of a string into the same array —
// the classic deopt/type-confusion trigger for a loop that was optimized
// under an assumption the tail write breaks.
var hotLoopRetiering = NewTemplate("HotLoopRetiering", func(b *builder.Builder) {
	obj := b.GenerateVariable(ir.Object(&ir.ObjectShape{Group: "Array"}))
	lo := b.LoadInteger(0)
	hi := b.LoadInteger(10000)
	idx := b.BeginForLoop(ir.CompareLessThan, lo, hi)
	elem := b.LoadElement(obj, idx)
	one := b.LoadInteger(1)
	b.BinaryOperation(ir.BinaryAdd, elem, one)
	b.StoreElement(obj, idx, elem)
	b.EndForLoop()

	// Tail: swap the element for a differently shaped value after the loop
	// has had every chance to specialize on the integer shape above.
	confusor := b.LoadString("confused")
	last := b.LoadInteger(9999)
	b.StoreElement(obj, last, confusor)
	b.LoadElement(obj, last)
})

// typeConfusionCallback builds a function whose parameter type the caller
// controls, calls it once with an integer and once with an object, and
// probes the result each time — a minimal scaffold for surfacing a callee
// that was specialized for one argument shape and misbehaves on another.
var typeConfusionCallback = NewTemplate("TypeConfusionCallback", func(b *builder.Builder) {
	sig := &ir.FunctionSignature{
		Params:  []ir.Parameter{{Type: ir.Anything(), Kind: ir.ParamPlain}},
		Returns: ir.Anything(),
	}
	fn, params := b.BeginPlainFunction(sig)
	b.UnaryOperation(ir.UnaryTypeOf, params[0])
	b.Return(params[0])
	b.EndPlainFunction()

	intArg := b.LoadInteger(7)
	r1 := b.CallFunction(fn, []ir.Variable{intArg})
	b.Probe(r1)

	objArg := b.CreateObject([]string{"x"}, []ir.Variable{b.LoadInteger(1)})
	r2 := b.CallFunction(fn, []ir.Variable{objArg})
	b.Probe(r2)
})

// DefaultTemplates returns the built-in template set HybridEngine chooses
// from by default.
func DefaultTemplates() []*ProgramTemplate {
	return []*ProgramTemplate{hotLoopRetiering, typeConfusionCallback}
}
