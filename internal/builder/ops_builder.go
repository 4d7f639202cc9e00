package builder

import "ecmafuzz/internal/ir"

// The helpers below are typed wrappers over emit for the operations code
// generators reach for most often. They exist so a generator never has to
// know instruction layout (output/inner-output/input slice order) — only
// internal/ir.NewInstruction and Builder.emit know that.

func (b *Builder) LoadInteger(v int64) ir.Variable {
	if existing, ok := b.reuseInt[v]; ok && b.mode == ModeAggressive {
		return existing
	}
	outs, _ := b.emit(ir.OpLoadInteger, 1, 0, nil, ir.IntegerValue(v), ir.Integer(), ir.Type{})
	b.reuseInt[v] = outs[0]
	return outs[0]
}

func (b *Builder) LoadFloat(v float64) ir.Variable {
	if existing, ok := b.reuseFloat[v]; ok && b.mode == ModeAggressive {
		return existing
	}
	outs, _ := b.emit(ir.OpLoadFloat, 1, 0, nil, ir.FloatValue(v), ir.Float(), ir.Type{})
	b.reuseFloat[v] = outs[0]
	return outs[0]
}

func (b *Builder) LoadString(v string) ir.Variable {
	outs, _ := b.emit(ir.OpLoadString, 1, 0, nil, ir.StringValue(v), ir.String(), ir.Type{})
	return outs[0]
}

func (b *Builder) LoadBoolean(v bool) ir.Variable {
	outs, _ := b.emit(ir.OpLoadBoolean, 1, 0, nil, ir.BooleanValue(v), ir.Boolean(), ir.Type{})
	return outs[0]
}

func (b *Builder) LoadUndefined() ir.Variable {
	outs, _ := b.emit(ir.OpLoadUndefined, 1, 0, nil, nil, ir.Undefined(), ir.Type{})
	return outs[0]
}

func (b *Builder) LoadNull() ir.Variable {
	outs, _ := b.emit(ir.OpLoadNull, 1, 0, nil, nil, ir.Undefined(), ir.Type{})
	return outs[0]
}

func (b *Builder) LoadRegExp(pattern, flags string) ir.Variable {
	outs, _ := b.emit(ir.OpLoadRegExp, 1, 0, nil, ir.RegExpValue{Pattern: pattern, Flags: flags}, ir.RegExp(), ir.Type{})
	return outs[0]
}

func (b *Builder) LoadBuiltin(name string) ir.Variable {
	if existing, ok := b.reuseBuiltin[name]; ok && b.mode == ModeAggressive {
		return existing
	}
	t := ir.Anything()
	if builtinType, ok := b.env.TypeOfBuiltin(name); ok {
		t = builtinType
	}
	outs, _ := b.emit(ir.OpLoadBuiltin, 1, 0, nil, ir.BuiltinName(name), t, ir.Type{})
	b.reuseBuiltin[name] = outs[0]
	return outs[0]
}

func (b *Builder) CreateArray(elements []ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpCreateArray, 1, 0, elements, nil,
		ir.Object(&ir.ObjectShape{Group: "Array"}).WithFlags(ir.FlagIterable), ir.Type{})
	return outs[0]
}

func (b *Builder) CreateObject(names []string, values []ir.Variable) ir.Variable {
	shape := &ir.ObjectShape{Properties: map[string]struct{}{}}
	for _, n := range names {
		if n != "" {
			shape.Properties[n] = struct{}{}
		}
	}
	outs, _ := b.emit(ir.OpCreateObject, 1, 0, values, ir.ObjectLiteralFields{Names: names}, ir.Object(shape), ir.Type{})
	return outs[0]
}

func (b *Builder) LoadProperty(obj ir.Variable, name string) ir.Variable {
	resultType := ir.Anything()
	if shape := b.TypeOf(obj).ObjectShape(); shape != nil && shape.Group != "" {
		if group, ok := b.env.Group(shape.Group); ok {
			if t, ok := group.Properties[name]; ok {
				resultType = t
			}
		}
	}
	outs, _ := b.emit(ir.OpLoadProperty, 1, 0, []ir.Variable{obj}, ir.PropertyName(name), resultType, ir.Type{})
	return outs[0]
}

func (b *Builder) StoreProperty(obj ir.Variable, name string, value ir.Variable) {
	b.emit(ir.OpStoreProperty, 0, 0, []ir.Variable{obj, value}, ir.PropertyName(name), ir.Type{}, ir.Type{})
}

func (b *Builder) LoadElement(obj, index ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpLoadElement, 1, 0, []ir.Variable{obj, index}, nil, ir.Anything(), ir.Type{})
	return outs[0]
}

func (b *Builder) StoreElement(obj, index, value ir.Variable) {
	b.emit(ir.OpStoreElement, 0, 0, []ir.Variable{obj, index, value}, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) CallFunction(callee ir.Variable, args []ir.Variable) ir.Variable {
	resultType := ir.Anything()
	if sig := b.TypeOf(callee).Signature(); sig != nil {
		resultType = sig.Returns
	}
	inputs := append([]ir.Variable{callee}, args...)
	outs, _ := b.emit(ir.OpCallFunction, 1, 0, inputs, nil, resultType, ir.Type{})
	return outs[0]
}

func (b *Builder) CallMethod(receiver ir.Variable, name string, args []ir.Variable) ir.Variable {
	resultType := ir.Anything()
	if shape := b.TypeOf(receiver).ObjectShape(); shape != nil && shape.Group != "" {
		if group, ok := b.env.Group(shape.Group); ok {
			if sig, ok := group.Methods[name]; ok {
				resultType = sig.Returns
			}
		}
	}
	inputs := append([]ir.Variable{receiver}, args...)
	outs, _ := b.emit(ir.OpCallMethod, 1, 0, inputs, ir.PropertyName(name), resultType, ir.Type{})
	return outs[0]
}

func (b *Builder) Construct(callee ir.Variable, args []ir.Variable) ir.Variable {
	resultType := ir.Object(nil)
	if sig := b.TypeOf(callee).ConstructorSignature(); sig != nil {
		resultType = sig.Returns
	}
	inputs := append([]ir.Variable{callee}, args...)
	outs, _ := b.emit(ir.OpConstruct, 1, 0, inputs, nil, resultType, ir.Type{})
	return outs[0]
}

func (b *Builder) UnaryOperation(op ir.UnaryOperator, operand ir.Variable) ir.Variable {
	resultType := ir.Anything()
	switch op {
	case ir.UnaryLogicalNot:
		resultType = ir.Boolean()
	case ir.UnaryTypeOf:
		resultType = ir.String()
	case ir.UnaryVoid:
		resultType = ir.Undefined()
	default:
		if b.TypeOf(operand).Is(ir.Integer()) {
			resultType = ir.Integer()
		} else {
			resultType = ir.Float()
		}
	}
	outs, _ := b.emit(ir.OpUnaryOperation, 1, 0, []ir.Variable{operand}, op, resultType, ir.Type{})
	return outs[0]
}

func (b *Builder) BinaryOperation(op ir.BinaryOperator, lhs, rhs ir.Variable) ir.Variable {
	resultType := ir.Float()
	switch {
	case op == ir.BinaryAdd && (b.TypeOf(lhs).Is(ir.String()) || b.TypeOf(rhs).Is(ir.String())):
		resultType = ir.String()
	case op >= ir.BinaryBitwiseAnd:
		resultType = ir.Integer()
	case b.TypeOf(lhs).Is(ir.Integer()) && b.TypeOf(rhs).Is(ir.Integer()):
		resultType = ir.Integer()
	}
	outs, _ := b.emit(ir.OpBinaryOperation, 1, 0, []ir.Variable{lhs, rhs}, op, resultType, ir.Type{})
	return outs[0]
}

func (b *Builder) CompareOperation(cmp ir.Comparator, lhs, rhs ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpCompareOperation, 1, 0, []ir.Variable{lhs, rhs}, cmp, ir.Boolean(), ir.Type{})
	return outs[0]
}

func (b *Builder) LogicalOperation(op ir.LogicalOperator, lhs, rhs ir.Variable) ir.Variable {
	outs, _ := b.emit(ir.OpLogicalOperation, 1, 0, []ir.Variable{lhs, rhs}, op, ir.Union(b.TypeOf(lhs), b.TypeOf(rhs)), ir.Type{})
	return outs[0]
}

// BeginIf opens a conditional block on cond.
func (b *Builder) BeginIf(cond ir.Variable) {
	b.emit(ir.OpBeginIf, 0, 0, []ir.Variable{cond}, nil, ir.Type{}, ir.Type{})
}

// BeginElse closes the if-body and opens the else-body.
func (b *Builder) BeginElse() {
	b.emit(ir.OpBeginElse, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) EndIf() {
	b.emit(ir.OpEndIf, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) BeginWhileLoop(cmp ir.Comparator, lhs, rhs ir.Variable) {
	b.emit(ir.OpBeginWhileLoop, 0, 0, []ir.Variable{lhs, rhs}, ir.LoopParameters{Comparator: cmp}, ir.Type{}, ir.Type{})
}

func (b *Builder) EndWhileLoop() {
	b.emit(ir.OpEndWhileLoop, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// BeginForLoop opens a counting loop from lo to hi, binding a fresh integer
// induction variable visible only inside the body.
func (b *Builder) BeginForLoop(cmp ir.Comparator, lo, hi ir.Variable) ir.Variable {
	_, inner := b.emit(ir.OpBeginForLoop, 0, 1, []ir.Variable{lo, hi}, ir.LoopParameters{Comparator: cmp}, ir.Type{}, ir.Integer())
	return inner[0]
}

func (b *Builder) EndForLoop() {
	b.emit(ir.OpEndForLoop, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) LoopBreak() {
	b.emit(ir.OpLoopBreak, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) LoopContinue() {
	b.emit(ir.OpLoopContinue, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// BeginPlainFunction opens a function body, binding one fresh parameter
// variable per entry in sig.Params and returning the function's own value
// (usable as a recursive self-reference, visible in the enclosing scope).
func (b *Builder) BeginPlainFunction(sig *ir.FunctionSignature) (fn ir.Variable, params []ir.Variable) {
	return b.beginFunction(ir.OpBeginPlainFunction, sig)
}

func (b *Builder) BeginArrowFunction(sig *ir.FunctionSignature) (fn ir.Variable, params []ir.Variable) {
	return b.beginFunction(ir.OpBeginArrowFunction, sig)
}

func (b *Builder) BeginGeneratorFunction(sig *ir.FunctionSignature) (fn ir.Variable, params []ir.Variable) {
	return b.beginFunction(ir.OpBeginGeneratorFunction, sig)
}

func (b *Builder) BeginAsyncFunction(sig *ir.FunctionSignature) (fn ir.Variable, params []ir.Variable) {
	return b.beginFunction(ir.OpBeginAsyncFunction, sig)
}

func (b *Builder) beginFunction(op ir.Op, sig *ir.FunctionSignature) (ir.Variable, []ir.Variable) {
	numParams := len(sig.Params)
	outs, inner := b.emit(op, 1, numParams, nil, ir.FunctionParameters{Signature: sig}, ir.Function(sig), ir.Anything())
	for i, v := range inner {
		b.typeOf[v] = sig.Params[i].Type
	}
	return outs[0], inner
}

func (b *Builder) EndPlainFunction()         { b.emit(ir.OpEndPlainFunction, 0, 0, nil, nil, ir.Type{}, ir.Type{}) }
func (b *Builder) EndArrowFunction()         { b.emit(ir.OpEndArrowFunction, 0, 0, nil, nil, ir.Type{}, ir.Type{}) }
func (b *Builder) EndGeneratorFunction()     { b.emit(ir.OpEndGeneratorFunction, 0, 0, nil, nil, ir.Type{}, ir.Type{}) }
func (b *Builder) EndAsyncFunction()         { b.emit(ir.OpEndAsyncFunction, 0, 0, nil, nil, ir.Type{}, ir.Type{}) }

func (b *Builder) Return(value ir.Variable) {
	b.emit(ir.OpReturn, 0, 0, []ir.Variable{value}, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) BeginTry() {
	b.emit(ir.OpBeginTry, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// BeginCatch closes the try body and opens the catch body, binding the
// caught value to a fresh variable.
func (b *Builder) BeginCatch() ir.Variable {
	outs, _ := b.emit(ir.OpBeginCatch, 1, 0, nil, nil, ir.Anything(), ir.Type{})
	return outs[0]
}

func (b *Builder) EndTryCatch() {
	b.emit(ir.OpEndTryCatch, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) ThrowException(value ir.Variable) {
	b.emit(ir.OpThrowException, 0, 0, []ir.Variable{value}, nil, ir.Type{}, ir.Type{})
}

func (b *Builder) Nop() {
	b.emit(ir.OpNop, 0, 0, nil, nil, ir.Type{}, ir.Type{})
}

// Probe emits a runtime probe around value — the exploration/probing
// mutator's mechanism for asking the engine to report back what it
// actually observed at this point, widening the type facts later rounds can
// exploit.
func (b *Builder) Probe(value ir.Variable) {
	b.emit(ir.OpProbe, 0, 0, []ir.Variable{value}, nil, ir.Type{}, ir.Type{})
}

// Explore calls callee with args under a named probe id so the executor's
// post-run feedback can be correlated back to this call site.
func (b *Builder) Explore(callee ir.Variable, args []ir.Variable, probeID string) ir.Variable {
	inputs := append([]ir.Variable{callee}, args...)
	outputs, _ := b.emit(ir.OpExplore, 1, 0, inputs, ir.ExploreParameters{ProbeID: probeID}, ir.Unknown(), ir.Type{})
	return outputs[0]
}
