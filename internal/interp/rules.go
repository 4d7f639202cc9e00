package interp

import "ecmafuzz/internal/ir"

// apply updates types in place for the effect of a single instruction. It
// never reads or writes anything but types and instr — no I/O, no
// randomness, so the whole pass is deterministic given the same Program.
func (in *Interpreter) apply(instr ir.Instruction, types map[ir.Variable]ir.Type) {
	switch instr.Op {
	case ir.OpLoadInteger:
		setOutputs(types, instr, ir.Integer())
	case ir.OpLoadBigInt:
		setOutputs(types, instr, ir.BigInt())
	case ir.OpLoadFloat:
		setOutputs(types, instr, ir.Float())
	case ir.OpLoadString:
		setOutputs(types, instr, ir.String())
	case ir.OpLoadBoolean:
		setOutputs(types, instr, ir.Boolean())
	case ir.OpLoadUndefined, ir.OpLoadNull:
		// primitive-leaf list has no distinct "null"; null is modeled
		// as undefined for inference purposes.
		setOutputs(types, instr, ir.Undefined())
	case ir.OpLoadRegExp:
		setOutputs(types, instr, ir.RegExp())
	case ir.OpLoadThis, ir.OpLoadArguments, ir.OpLoadNewTarget:
		setOutputs(types, instr, ir.Anything())
	case ir.OpLoadBuiltin:
		setOutputs(types, instr, in.builtinType(instr))
	case ir.OpCreateArray:
		setOutputs(types, instr, ir.Object(&ir.ObjectShape{Group: "Array"}).WithFlags(ir.FlagIterable))
	case ir.OpCreateObject:
		setOutputs(types, instr, ir.Object(objectLiteralShape(instr)))
	case ir.OpCreateTemplateString:
		setOutputs(types, instr, ir.String())
	case ir.OpLoadProperty, ir.OpLoadComputedProperty, ir.OpLoadElement:
		setOutputs(types, instr, in.propertyType(instr, types))
	case ir.OpDeleteProperty, ir.OpDeleteElement:
		setOutputs(types, instr, ir.Boolean())
	case ir.OpCallFunction, ir.OpCallFunctionWithSpread:
		setOutputs(types, instr, in.callReturnType(instr, types))
	case ir.OpCallMethod, ir.OpCallComputedMethod:
		setOutputs(types, instr, in.methodReturnType(instr, types))
	case ir.OpConstruct:
		setOutputs(types, instr, in.constructReturnType(instr, types))
	case ir.OpSpread:
		setOutputs(types, instr, ir.Anything())
	case ir.OpUnaryOperation:
		setOutputs(types, instr, in.unaryResultType(instr, types))
	case ir.OpBinaryOperation:
		setOutputs(types, instr, in.binaryResultType(instr, types))
	case ir.OpCompareOperation, ir.OpLogicalOperation:
		setOutputs(types, instr, ir.Boolean())
	case ir.OpTernaryOperation:
		inputs := instr.Inputs()
		setOutputs(types, instr, ir.Union(in.typeOf(types, inputs[1]), in.typeOf(types, inputs[2])))
	case ir.OpUpdate:
		inputs := instr.Inputs()
		types[inputs[0]] = ir.Union(in.typeOf(types, inputs[0]), ir.Float())
	case ir.OpDup:
		inputs := instr.Inputs()
		setOutputs(types, instr, in.typeOf(types, inputs[0]))
	case ir.OpReassign:
		inputs := instr.Inputs()
		types[inputs[0]] = ir.Union(in.typeOf(types, inputs[0]), in.typeOf(types, inputs[1]))
	case ir.OpDestructArray, ir.OpDestructObject:
		for _, out := range instr.Outputs() {
			types[out] = ir.Anything()
		}
	case ir.OpBeginPlainFunction, ir.OpBeginArrowFunction, ir.OpBeginGeneratorFunction,
		ir.OpBeginAsyncFunction, ir.OpBeginAsyncGeneratorFunction:
		in.applyFunctionBegin(instr, types, false)
	case ir.OpBeginMethodDefinition:
		in.applyFunctionBegin(instr, types, true)
	case ir.OpYield, ir.OpYieldEach, ir.OpAwait:
		setOutputs(types, instr, ir.Anything())
	case ir.OpBeginClassDefinition:
		setOutputs(types, instr, ir.Constructor(nil))
	case ir.OpBeginCatch:
		for _, out := range instr.Outputs() {
			types[out] = ir.Anything()
		}
	case ir.OpBeginForInLoop:
		for _, out := range instr.InnerOutputs() {
			types[out] = ir.String()
		}
	case ir.OpBeginForOfLoop:
		for _, out := range instr.InnerOutputs() {
			types[out] = ir.Anything()
		}
	case ir.OpBeginForLoop:
		for _, out := range instr.InnerOutputs() {
			types[out] = ir.Integer()
		}
	}
}

func (in *Interpreter) builtinType(instr ir.Instruction) ir.Type {
	name, _ := instr.Parameters.(ir.BuiltinName)
	if t, ok := in.env.TypeOfBuiltin(string(name)); ok {
		return t
	}
	return ir.Anything()
}

func objectLiteralShape(instr ir.Instruction) *ir.ObjectShape {
	shape := &ir.ObjectShape{Properties: map[string]struct{}{}}
	fields, ok := instr.Parameters.(ir.ObjectLiteralFields)
	if !ok {
		return shape
	}
	for _, name := range fields.Names {
		if name != "" {
			shape.Properties[name] = struct{}{}
		}
	}
	return shape
}

func (in *Interpreter) propertyType(instr ir.Instruction, types map[ir.Variable]ir.Type) ir.Type {
	inputs := instr.Inputs()
	if len(inputs) == 0 {
		return ir.Anything()
	}
	recv := in.typeOf(types, inputs[0])
	shape := recv.ObjectShape()
	if shape == nil || shape.Group == "" {
		return ir.Anything()
	}
	group, ok := in.env.Group(shape.Group)
	if !ok {
		return ir.Anything()
	}
	name, ok := instr.Parameters.(ir.PropertyName)
	if !ok {
		return ir.Anything()
	}
	if t, ok := group.Properties[string(name)]; ok {
		return t
	}
	return ir.Anything()
}

func (in *Interpreter) callReturnType(instr ir.Instruction, types map[ir.Variable]ir.Type) ir.Type {
	inputs := instr.Inputs()
	if len(inputs) == 0 {
		return ir.Anything()
	}
	callee := in.typeOf(types, inputs[0])
	if sig := callee.Signature(); sig != nil {
		return sig.Returns
	}
	return ir.Anything()
}

func (in *Interpreter) methodReturnType(instr ir.Instruction, types map[ir.Variable]ir.Type) ir.Type {
	inputs := instr.Inputs()
	if len(inputs) == 0 {
		return ir.Anything()
	}
	recv := in.typeOf(types, inputs[0])
	shape := recv.ObjectShape()
	name, ok := instr.Parameters.(ir.PropertyName)
	if shape == nil || shape.Group == "" || !ok {
		return ir.Anything()
	}
	group, ok := in.env.Group(shape.Group)
	if !ok {
		return ir.Anything()
	}
	if sig, ok := group.Methods[string(name)]; ok {
		return sig.Returns
	}
	return ir.Anything()
}

func (in *Interpreter) constructReturnType(instr ir.Instruction, types map[ir.Variable]ir.Type) ir.Type {
	inputs := instr.Inputs()
	if len(inputs) == 0 {
		return ir.Anything()
	}
	callee := in.typeOf(types, inputs[0])
	if sig := callee.ConstructorSignature(); sig != nil {
		return sig.Returns
	}
	if sig := callee.Signature(); sig != nil {
		return sig.Returns
	}
	return ir.Object(nil)
}

func (in *Interpreter) unaryResultType(instr ir.Instruction, types map[ir.Variable]ir.Type) ir.Type {
	op, _ := instr.Parameters.(ir.UnaryOperator)
	inputs := instr.Inputs()
	operand := in.typeOf(types, inputs[0])
	switch op {
	case ir.UnaryLogicalNot:
		return ir.Boolean()
	case ir.UnaryTypeOf:
		return ir.String()
	case ir.UnaryVoid:
		return ir.Undefined()
	case ir.UnaryBitwiseNot:
		return ir.Integer()
	case ir.UnaryPreInc, ir.UnaryPreDec, ir.UnaryPostInc, ir.UnaryPostDec:
		if operand.Is(ir.Integer()) {
			return ir.Integer()
		}
		return ir.Float()
	default: // UnaryPlus, UnaryMinus
		if operand.Is(ir.Integer()) {
			return ir.Integer()
		}
		return ir.Float()
	}
}

func (in *Interpreter) binaryResultType(instr ir.Instruction, types map[ir.Variable]ir.Type) ir.Type {
	op, _ := instr.Parameters.(ir.BinaryOperator)
	inputs := instr.Inputs()
	lhs := in.typeOf(types, inputs[0])
	rhs := in.typeOf(types, inputs[1])

	switch op {
	case ir.BinaryBitwiseAnd, ir.BinaryBitwiseOr, ir.BinaryBitwiseXor,
		ir.BinaryLeftShift, ir.BinaryRightShift, ir.BinaryUnsignedRightShift:
		return ir.Integer()
	case ir.BinaryAdd:
		if lhs.Is(ir.String()) || rhs.Is(ir.String()) {
			return ir.String()
		}
		if lhs.Is(ir.Integer()) && rhs.Is(ir.Integer()) {
			return ir.Integer()
		}
		return ir.Float()
	default: // Sub, Mul, Div, Mod, Exp
		if lhs.Is(ir.Integer()) && rhs.Is(ir.Integer()) {
			return ir.Integer()
		}
		return ir.Float()
	}
}

// applyFunctionBegin binds each parameter's inner-output Variable to its
// declared type (Anything if the signature didn't specify one) and, for a
// function expression (not a method, which has no value of its own),
// assigns the function's own output its Function type.
func (in *Interpreter) applyFunctionBegin(instr ir.Instruction, types map[ir.Variable]ir.Type, isMethod bool) {
	var sig *ir.FunctionSignature
	switch params := instr.Parameters.(type) {
	case ir.FunctionParameters:
		sig = params.Signature
	case ir.MethodDefinitionParameters:
		sig = params.Signature
	}

	inner := instr.InnerOutputs()
	for i, v := range inner {
		if sig != nil && i < len(sig.Params) {
			types[v] = sig.Params[i].Type
		} else {
			types[v] = ir.Anything()
		}
	}

	if !isMethod {
		setOutputs(types, instr, ir.Function(sig))
	}
}
