package codegen

import (
	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
)

// recursiveBodyBudget bounds how many instructions a generator that opens a
// block asks GenerateRecursive to fill — the per-call budget
// recursion-stop-probability throttles further.
const recursiveBodyBudget = 4

var sampleProperties = []string{"x", "y", "length", "value", "name"}

// arrayType is the structural shape ArrayLiteral/CreateArray values carry;
// generators that want "something iterable and array-shaped" ask for this
// rather than the untyped ir.Anything().
func arrayType() ir.Type {
	return ir.Object(&ir.ObjectShape{Group: "Array"}).WithFlags(ir.FlagIterable)
}

// Arithmetic emits a random binary operation over two generated numeric
// operands.
var Arithmetic = New("Arithmetic", ir.ContextNone, []ir.Type{ir.Integer(), ir.Integer()}, func(b *builder.Builder, in []ir.Variable) {
	ops := []ir.BinaryOperator{ir.BinaryAdd, ir.BinarySub, ir.BinaryMul, ir.BinaryBitwiseAnd, ir.BinaryBitwiseOr}
	b.BinaryOperation(ops[b.RNG().Intn(len(ops))], in[0], in[1])
})

// Comparison emits a comparator over two generated operands.
var Comparison = New("Comparison", ir.ContextNone, []ir.Type{ir.Anything(), ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	cmps := []ir.Comparator{ir.CompareEqual, ir.CompareStrictEqual, ir.CompareLessThan, ir.CompareGreaterThan}
	b.CompareOperation(cmps[b.RNG().Intn(len(cmps))], in[0], in[1])
})

// LogicalCombination emits a logical and/or/nullish over two operands.
var LogicalCombination = New("LogicalCombination", ir.ContextNone, []ir.Type{ir.Anything(), ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	ops := []ir.LogicalOperator{ir.LogicalAnd, ir.LogicalOr, ir.LogicalNullish}
	b.LogicalOperation(ops[b.RNG().Intn(len(ops))], in[0], in[1])
})

// PropertyLoad loads a plausible property off a generated object.
var PropertyLoad = New("PropertyLoad", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.LoadProperty(in[0], sampleProperties[b.RNG().Intn(len(sampleProperties))])
})

// PropertyStore assigns a generated value to a plausible property of a
// generated object.
var PropertyStore = New("PropertyStore", ir.ContextNone, []ir.Type{ir.Anything(), ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.StoreProperty(in[0], sampleProperties[b.RNG().Intn(len(sampleProperties))], in[1])
})

// ElementAccess loads a generated object's element at a generated integer
// index.
var ElementAccess = New("ElementAccess", ir.ContextNone, []ir.Type{ir.Anything(), ir.Integer()}, func(b *builder.Builder, in []ir.Variable) {
	b.LoadElement(in[0], in[1])
})

// ArrayLiteral builds a small array of generated integer elements.
var ArrayLiteral = New("ArrayLiteral", ir.ContextNone, nil, func(b *builder.Builder, _ []ir.Variable) {
	n := b.RNG().Intn(4)
	elems := make([]ir.Variable, n)
	for i := range elems {
		elems[i] = b.GenerateVariable(ir.Integer())
	}
	b.CreateArray(elems)
})

// ObjectLiteral builds a small object of generated fields.
var ObjectLiteral = New("ObjectLiteral", ir.ContextNone, nil, func(b *builder.Builder, _ []ir.Variable) {
	n := 1 + b.RNG().Intn(3)
	names := make([]string, n)
	values := make([]ir.Variable, n)
	for i := range names {
		names[i] = sampleProperties[b.RNG().Intn(len(sampleProperties))]
		values[i] = b.GenerateVariable(ir.Anything())
	}
	b.CreateObject(names, values)
})

// BuiltinCall calls a random builtin global with generated arguments.
var BuiltinCall = New("BuiltinCall", ir.ContextNone, nil, func(b *builder.Builder, _ []ir.Variable) {
	names := b.Env().BuiltinNames()
	if len(names) == 0 {
		return
	}
	callee := b.LoadBuiltin(names[b.RNG().Intn(len(names))])
	n := b.RNG().Intn(3)
	args := make([]ir.Variable, n)
	for i := range args {
		args[i] = b.GenerateVariable(ir.Anything())
	}
	b.CallFunction(callee, args)
})

// TypeofProbe inspects a generated value's runtime type without otherwise
// affecting program state — exploration idea, reused here as a
// generator so fresh programs can carry probes from the start, not only
// mutated ones.
var TypeofProbe = New("TypeofProbe", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.UnaryOperation(ir.UnaryTypeOf, in[0])
})

// RuntimeProbe tags a generated value with an OpProbe instruction.
var RuntimeProbe = New("RuntimeProbe", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.Probe(in[0])
})

// IfElse opens a two-branch conditional, filling both bodies recursively.
var IfElse = New("IfElse", ir.ContextNone, []ir.Type{ir.Boolean()}, func(b *builder.Builder, in []ir.Variable) {
	b.BeginIf(in[0])
	b.GenerateRecursive(recursiveBodyBudget, DefaultPool())
	b.BeginElse()
	b.GenerateRecursive(recursiveBodyBudget, DefaultPool())
	b.EndIf()
})

// WhileLoop opens a comparator-bounded while loop with a recursively
// generated body.
var WhileLoop = New("WhileLoop", ir.ContextNone, []ir.Type{ir.Integer(), ir.Integer()}, func(b *builder.Builder, in []ir.Variable) {
	b.BeginWhileLoop(ir.CompareLessThan, in[0], in[1])
	b.GenerateRecursive(recursiveBodyBudget, DefaultPool())
	b.EndWhileLoop()
})

// ForLoop opens a counted for loop with a recursively generated body; the
// loop body pool additionally carries the loop-only generators so break/
// continue become reachable inside it.
var ForLoop = New("ForLoop", ir.ContextNone, []ir.Type{ir.Integer(), ir.Integer()}, func(b *builder.Builder, in []ir.Variable) {
	b.BeginForLoop(ir.CompareLessThan, in[0], in[1])
	b.GenerateRecursive(recursiveBodyBudget, LoopBodyPool())
	b.EndForLoop()
})

// Break emits a loop break; only eligible inside ContextLoop.
var Break = New("Break", ir.ContextLoop, nil, func(b *builder.Builder, _ []ir.Variable) {
	b.LoopBreak()
})

// Continue emits a loop continue; only eligible inside ContextLoop.
var Continue = New("Continue", ir.ContextLoop, nil, func(b *builder.Builder, _ []ir.Variable) {
	b.LoopContinue()
})

// TryCatch opens a try block, a matching catch binding the thrown value,
// and fills both recursively.
var TryCatch = New("TryCatch", ir.ContextNone, nil, func(b *builder.Builder, _ []ir.Variable) {
	b.BeginTry()
	b.GenerateRecursive(recursiveBodyBudget, DefaultPool())
	b.BeginCatch()
	b.GenerateRecursive(recursiveBodyBudget, DefaultPool())
	b.EndTryCatch()
})

// ReturnValue returns a generated value; only eligible inside a subroutine.
var ReturnValue = New("ReturnValue", ir.ContextSubroutine, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.Return(in[0])
})

// ReassignVar rebinds a generated variable to a freshly generated value of
// the same type.
var ReassignVar = New("ReassignVar", ir.ContextNone, []ir.Type{ir.Integer()}, func(b *builder.Builder, in []ir.Variable) {
	b.Reassign(in[0], b.GenerateVariable(b.TypeOf(in[0])))
})

// DupVar duplicates a generated value under a fresh identity.
var DupVar = New("DupVar", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.Dup(in[0])
})

// CompoundUpdate applies a compound-assignment operator to a generated
// integer in place.
var CompoundUpdate = New("CompoundUpdate", ir.ContextNone, []ir.Type{ir.Integer(), ir.Integer()}, func(b *builder.Builder, in []ir.Variable) {
	ops := []ir.UpdateOperator{ir.UpdateAdd, ir.UpdateSub, ir.UpdateMul}
	b.Update(ops[b.RNG().Intn(len(ops))], in[0], in[1])
})

// ComputedPropertyAccess loads then stores through a runtime-computed
// property key, rather than ElementAccess/PropertyLoad's literal ones.
var ComputedPropertyAccess = New("ComputedPropertyAccess", ir.ContextNone, []ir.Type{ir.Anything(), ir.String(), ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.LoadComputedProperty(in[0], in[1])
	b.StoreComputedProperty(in[0], in[1], in[2])
})

// SpreadCall calls a random builtin global, spreading a generated array
// argument into it rather than passing plain arguments.
var SpreadCall = New("SpreadCall", ir.ContextNone, []ir.Type{arrayType()}, func(b *builder.Builder, in []ir.Variable) {
	names := b.Env().BuiltinNames()
	if len(names) == 0 {
		return
	}
	callee := b.LoadBuiltin(names[b.RNG().Intn(len(names))])
	b.CallFunctionWithSpread(callee, []ir.Variable{b.Spread(in[0])})
})

// ArrayDestructure binds a few fresh variables off a generated array's
// leading elements.
var ArrayDestructure = New("ArrayDestructure", ir.ContextNone, []ir.Type{arrayType()}, func(b *builder.Builder, in []ir.Variable) {
	b.DestructArray(in[0], 1+b.RNG().Intn(3))
})

// ObjectDestructure binds fresh variables off a few plausible properties of
// a generated object.
var ObjectDestructure = New("ObjectDestructure", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	n := 1 + b.RNG().Intn(len(sampleProperties))
	b.DestructObject(in[0], sampleProperties[:n])
})

// DoWhileLoop opens a post-tested loop with a recursively generated body.
var DoWhileLoop = New("DoWhileLoop", ir.ContextNone, []ir.Type{ir.Integer(), ir.Integer()}, func(b *builder.Builder, in []ir.Variable) {
	b.BeginDoWhileLoop(ir.CompareLessThan, in[0], in[1])
	b.GenerateRecursive(recursiveBodyBudget, LoopBodyPool())
	cond := b.CompareOperation(ir.CompareLessThan, in[0], in[1])
	b.EndDoWhileLoop(cond)
})

// ForInLoop iterates a generated object's enumerable keys.
var ForInLoop = New("ForInLoop", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.BeginForInLoop(in[0])
	b.GenerateRecursive(recursiveBodyBudget, LoopBodyPool())
	b.EndForInLoop()
})

// ForOfLoop iterates a generated array's elements.
var ForOfLoop = New("ForOfLoop", ir.ContextNone, []ir.Type{arrayType()}, func(b *builder.Builder, in []ir.Variable) {
	b.BeginForOfLoop(in[0])
	b.GenerateRecursive(recursiveBodyBudget, LoopBodyPool())
	b.EndForOfLoop()
})

// SwitchStatement opens a switch on a generated discriminant with one
// compare case and a default, each filled recursively. BeginSwitchCase
// itself closes whichever case (or the switch header) came before it, so
// the only closing call needed is the final EndSwitch.
var SwitchStatement = New("SwitchStatement", ir.ContextNone, []ir.Type{ir.Integer()}, func(b *builder.Builder, in []ir.Variable) {
	b.BeginSwitch(in[0])
	b.BeginSwitchCase(b.LoadInteger(int64(b.RNG().Intn(8))))
	b.GenerateRecursive(recursiveBodyBudget, DefaultPool())
	b.SwitchBreak()
	b.BeginSwitchCase(ir.NoVariable)
	b.GenerateRecursive(recursiveBodyBudget, DefaultPool())
	b.EndSwitch()
})

// WithStatement opens a with-block scoped to a generated object.
var WithStatement = New("WithStatement", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.BeginWith(in[0])
	b.GenerateRecursive(recursiveBodyBudget, DefaultPool())
	b.EndWith()
})

// ClassWithMethod builds a one-method class and calls that method on a new
// instance — the minimal scaffold for exercising BeginClassDefinition and
// BeginMethodDefinition.
var ClassWithMethod = New("ClassWithMethod", ir.ContextNone, nil, func(b *builder.Builder, _ []ir.Variable) {
	ctor := b.BeginClassDefinition(false, []string{"value"})
	sig := &ir.FunctionSignature{Returns: ir.Anything()}
	b.BeginMethodDefinition("get", ir.MethodNormal, sig)
	b.Return(b.LoadInteger(1))
	b.EndMethodDefinition()
	b.EndClassDefinition()

	instance := b.Construct(ctor, nil)
	b.CallMethod(instance, "get", nil)
})

// GeneratorBody is the pool used inside a generator function's body: Yield
// and YieldEach become reachable alongside every expression-level generator.
func GeneratorBody() []builder.Generator {
	return append(append([]builder.Generator{}, DefaultPool()...), YieldValue, YieldEachValue)
}

// YieldValue yields a generated value to the generator's consumer.
var YieldValue = New("YieldValue", ir.ContextGeneratorFunction, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.Yield(in[0])
})

// YieldEachValue delegates iteration to a generated array.
var YieldEachValue = New("YieldEachValue", ir.ContextGeneratorFunction, []ir.Type{arrayType()}, func(b *builder.Builder, in []ir.Variable) {
	b.YieldEach(in[0])
})

// AwaitValue awaits a generated value inside an async function body.
var AwaitValue = New("AwaitValue", ir.ContextAsyncFunction, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	b.Await(in[0])
})

// AsyncBody is the pool used inside an async function's body: DefaultPool
// plus AwaitValue.
func AsyncBody() []builder.Generator {
	return append(append([]builder.Generator{}, DefaultPool()...), AwaitValue)
}

// GeneratorFunctionCall defines a one-parameter generator function whose
// body yields it back out, then calls it — the scaffold that makes Yield/
// YieldEach reachable from ordinary program generation rather than only
// from hand-built templates.
var GeneratorFunctionCall = New("GeneratorFunctionCall", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	sig := &ir.FunctionSignature{
		Params:  []ir.Parameter{{Type: ir.Anything(), Kind: ir.ParamPlain}},
		Returns: ir.Anything(),
	}
	fn, params := b.BeginGeneratorFunction(sig)
	b.Yield(params[0])
	b.GenerateRecursive(recursiveBodyBudget, GeneratorBody())
	b.EndGeneratorFunction()

	b.CallFunction(fn, []ir.Variable{in[0]})
})

// AsyncFunctionCall defines a one-parameter async function that awaits its
// argument and returns it, then calls it.
var AsyncFunctionCall = New("AsyncFunctionCall", ir.ContextNone, []ir.Type{ir.Anything()}, func(b *builder.Builder, in []ir.Variable) {
	sig := &ir.FunctionSignature{
		Params:  []ir.Parameter{{Type: ir.Anything(), Kind: ir.ParamPlain}},
		Returns: ir.Anything(),
	}
	fn, params := b.BeginAsyncFunction(sig)
	result := b.Await(params[0])
	b.GenerateRecursive(recursiveBodyBudget, AsyncBody())
	b.Return(result)
	b.EndAsyncFunction()

	b.CallFunction(fn, []ir.Variable{in[0]})
})

// DefaultPool is the generator set used for top-level and generic nested
// bodies: every expression-level and control-flow generator except the
// context-restricted ones (Break, Continue, ReturnValue, YieldValue,
// YieldEachValue, AwaitValue).
func DefaultPool() []builder.Generator {
	return []builder.Generator{
		Arithmetic, Comparison, LogicalCombination,
		PropertyLoad, PropertyStore, ElementAccess,
		ArrayLiteral, ObjectLiteral, BuiltinCall,
		TypeofProbe, RuntimeProbe,
		IfElse, WhileLoop, ForLoop, TryCatch,
		ReassignVar, DupVar, CompoundUpdate,
		ComputedPropertyAccess, SpreadCall,
		ArrayDestructure, ObjectDestructure,
		DoWhileLoop, ForInLoop, ForOfLoop,
		SwitchStatement, WithStatement, ClassWithMethod,
		GeneratorFunctionCall, AsyncFunctionCall,
	}
}

// LoopBodyPool is DefaultPool plus Break/Continue, for use inside a loop's
// own body where those two are legal.
func LoopBodyPool() []builder.Generator {
	return append(append([]builder.Generator{}, DefaultPool()...), Break, Continue)
}

// SubroutinePool is DefaultPool plus ReturnValue, for use inside a function
// body.
func SubroutinePool() []builder.Generator {
	return append(append([]builder.Generator{}, DefaultPool()...), ReturnValue)
}
