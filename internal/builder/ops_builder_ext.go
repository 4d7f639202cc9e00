package builder

import "ecmafuzz/internal/ir"

// The helpers below round out ops_builder.go with the op families that file
// left uncovered: element deletion/computed access, spread-flavored calls,
// the remaining operand/statement primitives (update, dup, reassign,
// destructuring), do-while/for-in/for-of, switch, with, generator control
// flow, async generators, and class/method definitions. Same rule as
// ops_builder.go: every method here does exactly one emit and returns
// whatever the op's own outputs are, so a Generator never touches
// instruction layout directly.

func (b *Builder) DeleteElement(obj, index ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpDeleteElement, 1, 0, []ir.Variable{obj, index}, nil, ir.Boolean(), ir.Type{})
	return outs[0]
}

func (b *Builder) LoadComputedProperty(obj, key ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpLoadComputedProperty, 1, 0, []ir.Variable{obj, key}, nil, ir.Anything(), ir.Type{})
	return outs[0]
}

func (b *Builder) StoreComputedProperty(obj, key, value ir.Variable) {
	b.emit(ir.OpStoreComputedProperty, 0, 0, []ir.Variable{obj, key, value}, nil, ir.Type{}, ir.Type{})
}

// CallComputedMethod calls obj[key](args...) — the computed-property sibling
// of CallMethod, whose property name is itself a runtime value rather than a
// literal, so it carries no PropertyName Parameters.
func (b *Builder) CallComputedMethod(obj, key ir.Variable, args []ir.Variable) ir.Variable {
	inputs := append([]ir.Variable{obj, key}, args...)
	outs, _ := b.emit(ir.OpCallComputedMethod, 1, 0, inputs, nil, ir.Anything(), ir.Type{})
	return outs[0]
}

// CallFunctionWithSpread calls callee with args, each of which the caller
// has already wrapped in Spread where it should be expanded (`...arg`)
// rather than passed plain — the op itself carries no extra parameter,
// mirroring how array/object literal spreads are just Spread-wrapped
// elements rather than a separate bitmap.
func (b *Builder) CallFunctionWithSpread(callee ir.Variable, args []ir.Variable) ir.Variable {
	resultType := ir.Anything()
	if sig := b.TypeOf(callee).Signature(); sig != nil {
		resultType = sig.Returns
	}
	inputs := append([]ir.Variable{callee}, args...)
	outs, _ := b.emit(ir.OpCallFunctionWithSpread, 1, 0, inputs, nil, resultType, ir.Type{})
	return outs[0]
}

// Spread wraps an iterable value for use as a spread call/array argument.
func (b *Builder) Spread(iterable ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpSpread, 1, 0, []ir.Variable{iterable}, nil, b.TypeOf(iterable), ir.Type{})
	return outs[0]
}

// Update applies a compound-assignment operator to target in place (x += e,
// x &&= e, ...) and rebinds target to the result, invalidating any reuse
// cache entry that pointed at target for its old literal.
func (b *Builder) Update(op ir.UpdateOperator, target, value ir.Variable) {
	b.emit(ir.OpUpdate, 0, 0, []ir.Variable{target, value}, op, ir.Type{}, ir.Type{})
}

// Dup emits a fresh variable bound to value's current value — distinct
// identity, same value, so a later Reassign of one doesn't alias the other.
func (b *Builder) Dup(value ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpDup, 1, 0, []ir.Variable{value}, nil, b.TypeOf(value), ir.Type{})
	return outs[0]
}

// Reassign rebinds target's value to value's, invalidating any reuse cache
// entry that pointed at target for its old literal (analysis.ReassignedVariables
// is how mutators learn this happened).
func (b *Builder) Reassign(target, value ir.Variable) {
	b.emit(ir.OpReassign, 0, 0, []ir.Variable{target, value}, nil, ir.Type{}, ir.Type{})
}

// DestructArray binds n fresh outputs to the first n elements of source.
func (b *Builder) DestructArray(source ir.Variable, n int) []ir.Variable {
	outputs := b.freshVariables(n)
	outs, _ := b.appendWithVars(ir.OpDestructArray, outputs, nil, []ir.Variable{source}, nil, ir.Anything(), ir.Type{})
	return outs
}

// DestructObject binds one fresh output per name in names, reading that
// property off source.
func (b *Builder) DestructObject(source ir.Variable, names []string) []ir.Variable {
	outputs := b.freshVariables(len(names))
	outs, _ := b.appendWithVars(ir.OpDestructObject, outputs, nil, []ir.Variable{source}, ir.ObjectLiteralFields{Names: names}, ir.Anything(), ir.Type{})
	return outs
}

// BeginDoWhileLoop opens a loop whose condition (cmp between lhs and rhs) is
// tested after the body; EndDoWhileLoop takes the condition's boolean value.
func (b *Builder) BeginDoWhileLoop(cmp ir.Comparator, lhs, rhs ir.Variable) {
	b.emit(ir.OpBeginDoWhileLoop, 0, 0, []ir.Variable{lhs, rhs}, ir.LoopParameters{Comparator: cmp}, ir.Type{}, ir.Type{})
}

func (b *Builder) EndDoWhileLoop(cond ir.Variable) {
	b.emit(ir.OpEndDoWhileLoop, 0, 0, []ir.Variable{cond}, nil, ir.Type{}, ir.Type{})
}

// BeginForInLoop opens a for-in loop over obj's enumerable keys, binding a
// fresh string key variable visible only inside the body.
func (b *Builder) BeginForInLoop(obj ir.Variable) ir.Variable {
	_, inner := b.emit(ir.OpBeginForInLoop, 0, 1, []ir.Variable{obj}, nil, ir.Type{}, ir.String())
	return inner[0]
}

func (b *Builder) EndForInLoop() {
	b.emit(ir.OpEndForInLoop, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// BeginForOfLoop opens a for-of loop over iterable's elements, binding a
// fresh element variable visible only inside the body.
func (b *Builder) BeginForOfLoop(iterable ir.Variable) ir.Variable {
	_, inner := b.emit(ir.OpBeginForOfLoop, 0, 1, []ir.Variable{iterable}, nil, ir.Type{}, ir.Anything())
	return inner[0]
}

func (b *Builder) EndForOfLoop() {
	b.emit(ir.OpEndForOfLoop, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// BeginSwitch opens a switch block discriminated on disc; the body is built
// from a sequence of BeginSwitchCase instructions, each closing the case
// before it, and closed with EndSwitch.
func (b *Builder) BeginSwitch(disc ir.Variable) {
	b.emit(ir.OpBeginSwitch, 0, 0, []ir.Variable{disc}, nil, ir.Type{}, ir.Type{})
}

// BeginSwitchCase closes whatever case came before it (if any) and opens a
// new one; compare is the case's compare value, or NoVariable for `default`.
func (b *Builder) BeginSwitchCase(compare ir.Variable) {
	var inputs []ir.Variable
	if compare != ir.NoVariable {
		inputs = []ir.Variable{compare}
	}
	b.emit(ir.OpBeginSwitchCase, 0, 0, inputs, ir.SwitchCaseParameters{IsDefault: compare == ir.NoVariable}, ir.Type{}, ir.Type{})
}

func (b *Builder) EndSwitchCase() {
	b.emit(ir.OpEndSwitchCase, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) EndSwitch() {
	b.emit(ir.OpEndSwitch, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) SwitchBreak() {
	b.emit(ir.OpSwitchBreak, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// BeginWith opens a `with (scope) { ... }` block.
func (b *Builder) BeginWith(scope ir.Variable) {
	b.emit(ir.OpBeginWith, 0, 0, []ir.Variable{scope}, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) EndWith() {
	b.emit(ir.OpEndWith, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) BeginAsyncGeneratorFunction(sig *ir.FunctionSignature) (fn ir.Variable, params []ir.Variable) {
	return b.beginFunction(ir.OpBeginAsyncGeneratorFunction, sig)
}

func (b *Builder) EndAsyncGeneratorFunction() {
	b.emit(ir.OpEndAsyncGeneratorFunction, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// Yield suspends the enclosing generator, producing value to its consumer
// and binding the resumed value sent back in.
func (b *Builder) Yield(value ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpYield, 1, 0, []ir.Variable{value}, nil, ir.Anything(), ir.Type{})
	return outs[0]
}

// YieldEach delegates iteration to iterable (`yield* iterable`).
func (b *Builder) YieldEach(iterable ir.Variable) {
	b.emit(ir.OpYieldEach, 0, 0, []ir.Variable{iterable}, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) Await(value ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpAwait, 1, 0, []ir.Variable{value}, nil, ir.Anything(), ir.Type{})
	return outs[0]
}

// BeginClassDefinition opens a class body; fields are its own (non-method)
// property names, methods are built with nested BeginMethodDefinition
// blocks. hasSuperclass pulls in the class's extends clause.
func (b *Builder) BeginClassDefinition(hasSuperclass bool, fields []string) ir.Variable {
	var inputs []ir.Variable
	if hasSuperclass {
		if v, ok := b.RandVarOfType(ir.Constructor(nil)); ok {
			inputs = []ir.Variable{v}
		}
	}
	outs, _ := b.emit(ir.OpBeginClassDefinition, 1, 0, inputs, ir.ClassDefinitionParameters{HasSuperclass: hasSuperclass && len(inputs) == 1, FieldNames: fields}, ir.Constructor(nil), ir.Type{})
	return outs[0]
}

func (b *Builder) EndClassDefinition() {
	b.emit(ir.OpEndClassDefinition, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// BeginMethodDefinition opens a method body inside an enclosing class
// definition, binding one fresh parameter per entry in sig.Params.
func (b *Builder) BeginMethodDefinition(name string, kind ir.MethodKind, sig *ir.FunctionSignature) []ir.Variable {
	_, inner := b.emit(ir.OpBeginMethodDefinition, 0, len(sig.Params), nil, ir.MethodDefinitionParameters{Name: name, Kind: kind, Signature: sig}, ir.Type{}, ir.Anything())
	for i, v := range inner {
		b.typeOf[v] = sig.Params[i].Type
	}
	return inner
}

func (b *Builder) EndMethodDefinition() {
	b.emit(ir.OpEndMethodDefinition, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}
