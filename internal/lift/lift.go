// Package lift is a concrete, in-tree Lifter: it walks a finished
// ir.Program and renders plausible JavaScript source text. treats
// lifting as an external collaborator the core never parses the output
// of — this implementation exists so cmd/ecmafuzz has something runnable
// for `run`/`smoke` without requiring an external lifter to be wired in,
// and so a crash report has human-readable source attached. It never
// aims for exact spec-compliant semantics (no real let/const temporal-dead-
// zone tracking, no real iterator protocol) — only for text a JS engine can
// parse and that preserves the program's shape.
package lift

import (
	"fmt"
	"strconv"
	"strings"

	"ecmafuzz/internal/ir"
)

// Lifter renders an ir.Program to JavaScript source text.
type Lifter struct{}

// New returns a Lifter. It carries no state — a value is safe to share and
// reuse across goroutines.
func New() *Lifter { return &Lifter{} }

// Lift implements internal/fuzzer.Lifter.
func (l *Lifter) Lift(program *ir.Program) string {
	e := &emitter{}
	for _, instr := range program.Code {
		e.emit(instr)
	}
	return e.buf.String()
}

// emitter holds the mutable state of one lift pass: the output buffer, the
// current indent depth, and a stack tracking which switch statements (if
// any) currently have an open case body.
type emitter struct {
	buf         strings.Builder
	indent      int
	switchStack []bool
}

func (e *emitter) line(format string, args ...any) {
	e.buf.WriteString(strings.Repeat("  ", e.indent))
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteString("\n")
}

func v(x ir.Variable) string { return fmt.Sprintf("v%d", x) }

func vlist(vars []ir.Variable) string {
	parts := make([]string, len(vars))
	for i, x := range vars {
		parts[i] = v(x)
	}
	return strings.Join(parts, ", ")
}

// emit renders one instruction, possibly adjusting indent for block-
// structured ops. The switch's ordering mirrors ops.go's own section
// comments (literals, aggregates, property/element, calls, operators,
// functions/classes, control flow, exceptions, probing).
func (e *emitter) emit(instr ir.Instruction) {
	ins := instr.Inputs()
	outs := instr.Outputs()
	inner := instr.InnerOutputs()

	switch instr.Op {
	case ir.OpNop:
		// no text

	case ir.OpLoadInteger:
		e.line("const %s = %d;", v(outs[0]), int64(instr.Parameters.(ir.IntegerValue)))
	case ir.OpLoadBigInt:
		e.line("const %s = %sn;", v(outs[0]), string(instr.Parameters.(ir.BigIntValue)))
	case ir.OpLoadFloat:
		e.line("const %s = %s;", v(outs[0]), strconv.FormatFloat(float64(instr.Parameters.(ir.FloatValue)), 'g', -1, 64))
	case ir.OpLoadString:
		e.line("const %s = %s;", v(outs[0]), strconv.Quote(string(instr.Parameters.(ir.StringValue))))
	case ir.OpLoadBoolean:
		e.line("const %s = %t;", v(outs[0]), bool(instr.Parameters.(ir.BooleanValue)))
	case ir.OpLoadUndefined:
		e.line("const %s = undefined;", v(outs[0]))
	case ir.OpLoadNull:
		e.line("const %s = null;", v(outs[0]))
	case ir.OpLoadRegExp:
		re := instr.Parameters.(ir.RegExpValue)
		e.line("const %s = /%s/%s;", v(outs[0]), re.Pattern, re.Flags)
	case ir.OpLoadThis:
		e.line("const %s = this;", v(outs[0]))
	case ir.OpLoadArguments:
		e.line("const %s = arguments;", v(outs[0]))
	case ir.OpLoadBuiltin:
		e.line("const %s = %s;", v(outs[0]), string(instr.Parameters.(ir.BuiltinName)))
	case ir.OpLoadNewTarget:
		e.line("const %s = new.target;", v(outs[0]))

	case ir.OpCreateArray:
		e.line("const %s = [%s];", v(outs[0]), vlist(ins))
	case ir.OpCreateObject:
		e.line("const %s = {%s};", v(outs[0]), e.objectLiteralBody(instr, ins))
	case ir.OpCreateTemplateString:
		e.line("const %s = `%s`;", v(outs[0]), e.templateBody(ins))

	case ir.OpLoadProperty:
		e.line("const %s = %s.%s;", v(outs[0]), v(ins[0]), string(instr.Parameters.(ir.PropertyName)))
	case ir.OpStoreProperty:
		e.line("%s.%s = %s;", v(ins[0]), string(instr.Parameters.(ir.PropertyName)), v(ins[1]))
	case ir.OpDeleteProperty:
		e.line("const %s = delete %s.%s;", v(outs[0]), v(ins[0]), string(instr.Parameters.(ir.PropertyName)))
	case ir.OpLoadElement:
		e.line("const %s = %s[%s];", v(outs[0]), v(ins[0]), v(ins[1]))
	case ir.OpStoreElement:
		e.line("%s[%s] = %s;", v(ins[0]), v(ins[1]), v(ins[2]))
	case ir.OpDeleteElement:
		e.line("const %s = delete %s[%s];", v(outs[0]), v(ins[0]), v(ins[1]))
	case ir.OpLoadComputedProperty:
		e.line("const %s = %s[%s];", v(outs[0]), v(ins[0]), v(ins[1]))
	case ir.OpStoreComputedProperty:
		e.line("%s[%s] = %s;", v(ins[0]), v(ins[1]), v(ins[2]))

	case ir.OpCallFunction:
		e.line("const %s = %s(%s);", v(outs[0]), v(ins[0]), vlist(ins[1:]))
	case ir.OpCallMethod:
		name := string(instr.Parameters.(ir.PropertyName))
		e.line("const %s = %s.%s(%s);", v(outs[0]), v(ins[0]), name, vlist(ins[1:]))
	case ir.OpCallComputedMethod:
		e.line("const %s = %s[%s](%s);", v(outs[0]), v(ins[0]), v(ins[1]), vlist(ins[2:]))
	case ir.OpConstruct:
		e.line("const %s = new %s(%s);", v(outs[0]), v(ins[0]), vlist(ins[1:]))
	case ir.OpCallFunctionWithSpread:
		e.line("const %s = %s(%s);", v(outs[0]), v(ins[0]), spreadList(ins[1:]))
	case ir.OpSpread:
		// Spreading is only meaningful at a call/array-literal use site;
		// standalone it is an identity binding (see CallFunctionWithSpread).
		e.line("const %s = %s;", v(outs[0]), v(ins[0]))

	case ir.OpUnaryOperation:
		e.emitUnary(instr, outs[0], ins[0])
	case ir.OpBinaryOperation:
		e.line("const %s = %s %s %s;", v(outs[0]), v(ins[0]), binarySymbol(instr.Parameters.(ir.BinaryOperator)), v(ins[1]))
	case ir.OpCompareOperation:
		e.line("const %s = %s %s %s;", v(outs[0]), v(ins[0]), compareSymbol(instr.Parameters.(ir.Comparator)), v(ins[1]))
	case ir.OpLogicalOperation:
		e.line("const %s = %s %s %s;", v(outs[0]), v(ins[0]), logicalSymbol(instr.Parameters.(ir.LogicalOperator)), v(ins[1]))
	case ir.OpTernaryOperation:
		e.line("const %s = %s ? %s : %s;", v(outs[0]), v(ins[0]), v(ins[1]), v(ins[2]))
	case ir.OpUpdate:
		e.line("%s %s %s;", v(ins[0]), updateSymbol(instr.Parameters.(ir.UpdateOperator)), v(ins[1]))
	case ir.OpDup:
		e.line("const %s = %s;", v(outs[0]), v(ins[0]))
	case ir.OpReassign:
		e.line("%s = %s;", v(ins[0]), v(ins[1]))
	case ir.OpDestructArray:
		e.line("const [%s] = %s;", vlist(outs), v(ins[0]))
	case ir.OpDestructObject:
		e.line("const {%s} = %s;", destructObjectBody(instr, outs), v(ins[0]))

	case ir.OpBeginPlainFunction:
		e.beginFunction("function", instr, outs[0], inner)
	case ir.OpEndPlainFunction:
		e.endBlock("};")
	case ir.OpBeginArrowFunction:
		e.line("const %s = (%s) => {", v(outs[0]), vlist(inner))
		e.indent++
	case ir.OpEndArrowFunction:
		e.endBlock("};")
	case ir.OpBeginGeneratorFunction:
		e.beginFunction("function*", instr, outs[0], inner)
	case ir.OpEndGeneratorFunction:
		e.endBlock("};")
	case ir.OpBeginAsyncFunction:
		e.beginFunction("async function", instr, outs[0], inner)
	case ir.OpEndAsyncFunction:
		e.endBlock("};")
	case ir.OpBeginAsyncGeneratorFunction:
		e.beginFunction("async function*", instr, outs[0], inner)
	case ir.OpEndAsyncGeneratorFunction:
		e.endBlock("};")
	case ir.OpReturn:
		e.line("return %s;", v(ins[0]))
	case ir.OpYield:
		e.line("const %s = yield %s;", v(outs[0]), v(ins[0]))
	case ir.OpYieldEach:
		e.line("yield* %s;", v(ins[0]))
	case ir.OpAwait:
		e.line("const %s = await %s;", v(outs[0]), v(ins[0]))

	case ir.OpBeginClassDefinition:
		params := instr.Parameters.(ir.ClassDefinitionParameters)
		if params.HasSuperclass {
			e.line("const %s = class extends %s {", v(outs[0]), v(ins[0]))
		} else {
			e.line("const %s = class {", v(outs[0]))
		}
		e.indent++
		for _, f := range params.FieldNames {
			e.line("%s;", f)
		}
	case ir.OpBeginMethodDefinition:
		e.beginMethod(instr, inner)
	case ir.OpEndMethodDefinition:
		e.endBlock("}")
	case ir.OpEndClassDefinition:
		e.endBlock("};")

	case ir.OpBeginIf:
		e.line("if (%s) {", v(ins[0]))
		e.indent++
	case ir.OpBeginElse:
		e.indent--
		e.line("} else {")
		e.indent++
	case ir.OpEndIf:
		e.endBlock("}")
	case ir.OpBeginWhileLoop:
		e.line("while (%s %s %s) {", v(ins[0]), compareSymbol(instr.Parameters.(ir.LoopParameters).Comparator), v(ins[1]))
		e.indent++
	case ir.OpEndWhileLoop:
		e.endBlock("}")
	case ir.OpBeginDoWhileLoop:
		e.line("do {")
		e.indent++
	case ir.OpEndDoWhileLoop:
		e.indent--
		e.line("} while (%s);", v(ins[0]))
	case ir.OpBeginForLoop:
		cmp := instr.Parameters.(ir.LoopParameters).Comparator
		idx := inner[0]
		e.line("for (let %s = %s; %s %s %s; %s++) {", v(idx), v(ins[0]), v(idx), compareSymbol(cmp), v(ins[1]), v(idx))
		e.indent++
	case ir.OpEndForLoop:
		e.endBlock("}")
	case ir.OpBeginForInLoop:
		e.line("for (const %s in %s) {", v(inner[0]), v(ins[0]))
		e.indent++
	case ir.OpEndForInLoop:
		e.endBlock("}")
	case ir.OpBeginForOfLoop:
		e.line("for (const %s of %s) {", v(inner[0]), v(ins[0]))
		e.indent++
	case ir.OpEndForOfLoop:
		e.endBlock("}")
	case ir.OpLoopBreak:
		e.line("break;")
	case ir.OpLoopContinue:
		e.line("continue;")
	case ir.OpBeginSwitch:
		e.line("switch (%s) {", v(ins[0]))
		e.indent++
		e.switchStack = append(e.switchStack, false)
	case ir.OpBeginSwitchCase:
		e.beginSwitchCase(instr, ins)
	case ir.OpEndSwitchCase:
		top := len(e.switchStack) - 1
		e.switchStack[top] = false
		e.endBlock("}")
	case ir.OpEndSwitch:
		e.endSwitch()
	case ir.OpSwitchBreak:
		e.line("break;")
	case ir.OpBeginWith:
		e.line("with (%s) {", v(ins[0]))
		e.indent++
	case ir.OpEndWith:
		e.endBlock("}")

	case ir.OpBeginTry:
		e.line("try {")
		e.indent++
	case ir.OpBeginCatch:
		e.indent--
		e.line("} catch (%s) {", v(outs[0]))
		e.indent++
	case ir.OpBeginFinally:
		e.indent--
		e.line("} finally {")
		e.indent++
	case ir.OpEndTryCatch:
		e.endBlock("}")
	case ir.OpThrowException:
		e.line("throw %s;", v(ins[0]))

	case ir.OpExplore:
		params := instr.Parameters.(ir.ExploreParameters)
		e.line("const %s = explore(%q, %s);", v(outs[0]), params.ProbeID, vlist(ins))
	case ir.OpProbe:
		e.line("probe(%s);", v(ins[0]))
	}
}

// endBlock decrements indent then writes text at the new (shallower) level
// — the shared tail of every simple block-end op.
func (e *emitter) endBlock(text string) {
	e.indent--
	e.line("%s", text)
}

func (e *emitter) beginFunction(keyword string, instr ir.Instruction, fn ir.Variable, params []ir.Variable) {
	name := instr.Parameters.(ir.FunctionParameters).Name
	if name != "" {
		e.line("const %s = %s %s(%s) {", v(fn), keyword, name, vlist(params))
	} else {
		e.line("const %s = %s(%s) {", v(fn), keyword, vlist(params))
	}
	e.indent++
}

func (e *emitter) beginMethod(instr ir.Instruction, params []ir.Variable) {
	p := instr.Parameters.(ir.MethodDefinitionParameters)
	switch p.Kind {
	case ir.MethodGetter:
		e.line("get %s() {", p.Name)
	case ir.MethodSetter:
		e.line("set %s(%s) {", p.Name, vlist(params))
	case ir.MethodStatic:
		e.line("static %s(%s) {", p.Name, vlist(params))
	default:
		e.line("%s(%s) {", p.Name, vlist(params))
	}
	e.indent++
}

// beginSwitchCase closes whatever case (or bare switch header) came before
// it, then opens the next: the combined begin/end op mirrors
// internal/builder's own BeginSwitchCase bookkeeping.
func (e *emitter) beginSwitchCase(instr ir.Instruction, ins []ir.Variable) {
	top := len(e.switchStack) - 1
	if e.switchStack[top] {
		e.indent--
		e.line("}")
	}
	e.switchStack[top] = true

	params := instr.Parameters.(ir.SwitchCaseParameters)
	if params.IsDefault {
		e.line("default: {")
	} else {
		e.line("case %s: {", v(ins[0]))
	}
	e.indent++
}

func (e *emitter) endSwitch() {
	top := len(e.switchStack) - 1
	if e.switchStack[top] {
		e.indent--
		e.line("}")
	}
	e.switchStack = e.switchStack[:top]
	e.endBlock("}")
}

func (e *emitter) emitUnary(instr ir.Instruction, out, in ir.Variable) {
	op := instr.Parameters.(ir.UnaryOperator)
	switch op {
	case ir.UnaryPlus:
		e.line("const %s = +%s;", v(out), v(in))
	case ir.UnaryMinus:
		e.line("const %s = -%s;", v(out), v(in))
	case ir.UnaryLogicalNot:
		e.line("const %s = !%s;", v(out), v(in))
	case ir.UnaryBitwiseNot:
		e.line("const %s = ~%s;", v(out), v(in))
	case ir.UnaryPreInc:
		e.line("const %s = ++%s;", v(out), v(in))
	case ir.UnaryPreDec:
		e.line("const %s = --%s;", v(out), v(in))
	case ir.UnaryPostInc:
		e.line("const %s = %s++;", v(out), v(in))
	case ir.UnaryPostDec:
		e.line("const %s = %s--;", v(out), v(in))
	case ir.UnaryTypeOf:
		e.line("const %s = typeof %s;", v(out), v(in))
	case ir.UnaryVoid:
		e.line("const %s = void %s;", v(out), v(in))
	}
}

func (e *emitter) objectLiteralBody(instr ir.Instruction, ins []ir.Variable) string {
	fields := instr.Parameters.(ir.ObjectLiteralFields)
	parts := make([]string, 0, len(ins))
	for i, in := range ins {
		if i < len(fields.Spread) && fields.Spread[i] {
			parts = append(parts, "..."+v(in))
			continue
		}
		name := ""
		if i < len(fields.Names) {
			name = fields.Names[i]
		}
		if name == "" {
			name = fmt.Sprintf("field%d", i)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, v(in)))
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) templateBody(ins []ir.Variable) string {
	parts := make([]string, len(ins))
	for i, in := range ins {
		parts[i] = "${" + v(in) + "}"
	}
	return strings.Join(parts, "")
}

func destructObjectBody(instr ir.Instruction, outs []ir.Variable) string {
	fields := instr.Parameters.(ir.ObjectLiteralFields)
	parts := make([]string, len(outs))
	for i, out := range outs {
		name := fmt.Sprintf("field%d", i)
		if i < len(fields.Names) && fields.Names[i] != "" {
			name = fields.Names[i]
		}
		parts[i] = fmt.Sprintf("%s: %s", name, v(out))
	}
	return strings.Join(parts, ", ")
}

func spreadList(vars []ir.Variable) string {
	parts := make([]string, len(vars))
	for i, x := range vars {
		parts[i] = "..." + v(x)
	}
	return strings.Join(parts, ", ")
}

func binarySymbol(op ir.BinaryOperator) string {
	switch op {
	case ir.BinaryAdd:
		return "+"
	case ir.BinarySub:
		return "-"
	case ir.BinaryMul:
		return "*"
	case ir.BinaryDiv:
		return "/"
	case ir.BinaryMod:
		return "%"
	case ir.BinaryExp:
		return "**"
	case ir.BinaryBitwiseAnd:
		return "&"
	case ir.BinaryBitwiseOr:
		return "|"
	case ir.BinaryBitwiseXor:
		return "^"
	case ir.BinaryLeftShift:
		return "<<"
	case ir.BinaryRightShift:
		return ">>"
	case ir.BinaryUnsignedRightShift:
		return ">>>"
	default:
		return "+"
	}
}

func compareSymbol(cmp ir.Comparator) string {
	switch cmp {
	case ir.CompareEqual:
		return "=="
	case ir.CompareStrictEqual:
		return "==="
	case ir.CompareNotEqual:
		return "!="
	case ir.CompareStrictNotEqual:
		return "!=="
	case ir.CompareLessThan:
		return "<"
	case ir.CompareLessThanOrEqual:
		return "<="
	case ir.CompareGreaterThan:
		return ">"
	case ir.CompareGreaterThanOrEqual:
		return ">="
	default:
		return "=="
	}
}

func logicalSymbol(op ir.LogicalOperator) string {
	switch op {
	case ir.LogicalAnd:
		return "&&"
	case ir.LogicalOr:
		return "||"
	case ir.LogicalNullish:
		return "??"
	default:
		return "&&"
	}
}

func updateSymbol(op ir.UpdateOperator) string {
	switch op {
	case ir.UpdateAdd:
		return "+="
	case ir.UpdateSub:
		return "-="
	case ir.UpdateMul:
		return "*="
	case ir.UpdateDiv:
		return "/="
	case ir.UpdateLogicalAnd:
		return "&&="
	case ir.UpdateLogicalOr:
		return "||="
	default:
		return "+="
	}
}
