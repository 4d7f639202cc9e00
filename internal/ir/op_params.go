package ir

// Parameters is the per-instance data an instruction of a given Op carries
// in addition to its operand Variables — a property name, a literal value,
// an operator. Literal loads and ops with AttrIsMutableParameters carry one; mutators
// that target parameters (the operation mutator) type-switch on this.
type Parameters interface {
	isOpParameters()
}

type IntegerValue int64

func (IntegerValue) isOpParameters() {}

type BigIntValue string

func (BigIntValue) isOpParameters() {}

type FloatValue float64

func (FloatValue) isOpParameters() {}

type StringValue string

func (StringValue) isOpParameters() {}

type BooleanValue bool

func (BooleanValue) isOpParameters() {}

type RegExpValue struct {
	Pattern string
	Flags   string
}

func (RegExpValue) isOpParameters() {}

// BuiltinName names the global the LoadBuiltin instruction resolves,
// looked up in an internal/jsenv ObjectGroup registry.
type BuiltinName string

func (BuiltinName) isOpParameters() {}

// PropertyName parameterizes LoadProperty/StoreProperty/DeleteProperty.
type PropertyName string

func (PropertyName) isOpParameters() {}

// ObjectLiteralFields parameterizes CreateObject: one entry per input
// variable, in order, naming the property (or marking it a spread/method).
type ObjectLiteralFields struct {
	Names  []string
	Spread []bool
}

func (ObjectLiteralFields) isOpParameters() {}

type UnaryOperator int

const (
	UnaryPlus UnaryOperator = iota
	UnaryMinus
	UnaryLogicalNot
	UnaryBitwiseNot
	UnaryPreInc
	UnaryPreDec
	UnaryPostInc
	UnaryPostDec
	UnaryTypeOf
	UnaryVoid
)

func (UnaryOperator) isOpParameters() {}

type BinaryOperator int

const (
	BinaryAdd BinaryOperator = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
	BinaryExp
	BinaryBitwiseAnd
	BinaryBitwiseOr
	BinaryBitwiseXor
	BinaryLeftShift
	BinaryRightShift
	BinaryUnsignedRightShift
)

func (BinaryOperator) isOpParameters() {}

type LogicalOperator int

const (
	LogicalAnd LogicalOperator = iota
	LogicalOr
	LogicalNullish
)

func (LogicalOperator) isOpParameters() {}

type Comparator int

const (
	CompareEqual Comparator = iota
	CompareStrictEqual
	CompareNotEqual
	CompareStrictNotEqual
	CompareLessThan
	CompareLessThanOrEqual
	CompareGreaterThan
	CompareGreaterThanOrEqual
)

func (Comparator) isOpParameters() {}

// UpdateOperator parameterizes OpUpdate (x += e, x &&= e, ...).
type UpdateOperator int

const (
	UpdateAdd UpdateOperator = iota
	UpdateSub
	UpdateMul
	UpdateDiv
	UpdateLogicalAnd
	UpdateLogicalOr
)

func (UpdateOperator) isOpParameters() {}

// FunctionParameters parameterizes every Begin*Function op: its signature
// plus whether it's strict-mode.
type FunctionParameters struct {
	Signature *FunctionSignature
	IsStrict  bool
	Name      string // empty for anonymous function expressions
}

func (FunctionParameters) isOpParameters() {}

// ClassDefinitionParameters describes a class's superclass presence and own
// (non-method) fields; methods are nested BeginMethodDefinition blocks.
type ClassDefinitionParameters struct {
	HasSuperclass bool
	FieldNames    []string
}

func (ClassDefinitionParameters) isOpParameters() {}

type MethodKind int

const (
	MethodNormal MethodKind = iota
	MethodGetter
	MethodSetter
	MethodStatic
)

type MethodDefinitionParameters struct {
	Name      string
	Kind      MethodKind
	Signature *FunctionSignature
}

func (MethodDefinitionParameters) isOpParameters() {}

// SwitchCaseParameters marks the default case, which has no compare input.
type SwitchCaseParameters struct {
	IsDefault bool
}

func (SwitchCaseParameters) isOpParameters() {}

// LoopParameters carries the comparator a for/while loop
// head was generated with, so the interpreter and codegen don't need to
// re-derive loop shape from the compare/update instructions inside the body.
type LoopParameters struct {
	Comparator Comparator
}

func (LoopParameters) isOpParameters() {}

// ExploreParameters names the runtime probe id a CallFunction-like Explore
// instruction was tagged with, so a later mutation round can read back what
// the engine observed at that call site.
type ExploreParameters struct {
	ProbeID string
}

func (ExploreParameters) isOpParameters() {}
