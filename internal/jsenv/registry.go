// Package jsenv describes the builtin environment the generated programs
// run against: a fixed, read-only registry of ObjectGroups (Object, Array,
// Function, String, Math, Uint8Array, JSON) that the builder,
// interpreter, and code generators consult when they need to know what
// properties and methods a builtin value plausibly has.
// Nothing here executes JavaScript; it is a description used to pick
// plausible property names and infer the type of builtin values, mirroring
// what a real engine's prototype chain would offer.
package jsenv

import "ecmafuzz/internal/ir"

// Environment is an immutable snapshot of the builtin globals and object
// groups a program may reference.
type Environment struct {
	builtins map[string]ir.Type
	groups   map[string]*ir.ObjectGroup
}

// Default returns the standard builtin environment used unless a profile
// overrides it.
func Default() *Environment {
	env := &Environment{
		builtins: make(map[string]ir.Type),
		groups:   make(map[string]*ir.ObjectGroup),
	}
	for _, g := range defaultGroups() {
		env.groups[g.Name] = g
		env.builtins[g.Name] = g.Instance
	}
	return env
}

// BuiltinNames returns the names of every top-level global, in map
// iteration order (not sorted).
func (e *Environment) BuiltinNames() []string {
	names := make([]string, 0, len(e.builtins))
	for n := range e.builtins {
		names = append(names, n)
	}
	return names
}

// TypeOfBuiltin returns the type a LoadBuiltin instruction for name should
// produce, and whether name is known.
func (e *Environment) TypeOfBuiltin(name string) (ir.Type, bool) {
	t, ok := e.builtins[name]
	return t, ok
}

// Group returns the named ObjectGroup, and whether it exists.
func (e *Environment) Group(name string) (*ir.ObjectGroup, bool) {
	g, ok := e.groups[name]
	return g, ok
}

// Groups returns every registered ObjectGroup, for mutators/builders that
// pick one at random.
func (e *Environment) Groups() []*ir.ObjectGroup {
	out := make([]*ir.ObjectGroup, 0, len(e.groups))
	for _, g := range e.groups {
		out = append(out, g)
	}
	return out
}

func defaultGroups() []*ir.ObjectGroup {
	objectProto := &ir.ObjectGroup{
		Name: "Object",
		Methods: map[string]*ir.FunctionSignature{
			"hasOwnProperty": {Params: []ir.Parameter{{Type: ir.String()}}, Returns: ir.Boolean()},
			"toString":       {Returns: ir.String()},
			"valueOf":        {Returns: ir.Anything()},
		},
	}
	objectProto.Instance = ir.Function(&ir.FunctionSignature{Returns: ir.Object(objectProto.Shape())})

	arrayGroup := &ir.ObjectGroup{
		Name:       "Array",
		Properties: map[string]ir.Type{"length": ir.Integer()},
		Methods: map[string]*ir.FunctionSignature{
			"push":    {Params: []ir.Parameter{{Type: ir.Anything(), Kind: ir.ParamRest}}, Returns: ir.Integer()},
			"pop":     {Returns: ir.Anything()},
			"slice":   {Params: []ir.Parameter{{Type: ir.Integer(), Kind: ir.ParamOptional}, {Type: ir.Integer(), Kind: ir.ParamOptional}}, Returns: ir.Anything()},
			"map":     {Params: []ir.Parameter{{Type: ir.Function(nil)}}, Returns: ir.Anything()},
			"forEach": {Params: []ir.Parameter{{Type: ir.Function(nil)}}, Returns: ir.Undefined()},
			"join":    {Params: []ir.Parameter{{Type: ir.String(), Kind: ir.ParamOptional}}, Returns: ir.String()},
		},
	}
	arrayInstance := ir.Object(arrayGroup.Shape()).WithFlags(ir.FlagIterable)
	arrayGroup.Instance = ir.Function(&ir.FunctionSignature{Returns: arrayInstance})

	functionGroup := &ir.ObjectGroup{
		Name: "Function",
		Methods: map[string]*ir.FunctionSignature{
			"call":  {Params: []ir.Parameter{{Type: ir.Anything(), Kind: ir.ParamRest}}, Returns: ir.Anything()},
			"apply": {Params: []ir.Parameter{{Type: ir.Anything()}, {Type: ir.Object(arrayGroup.Shape())}}, Returns: ir.Anything()},
			"bind":  {Params: []ir.Parameter{{Type: ir.Anything(), Kind: ir.ParamRest}}, Returns: ir.Function(nil)},
		},
	}
	functionGroup.Instance = ir.Function(nil)

	stringGroup := &ir.ObjectGroup{
		Name:       "String",
		Properties: map[string]ir.Type{"length": ir.Integer()},
		Methods: map[string]*ir.FunctionSignature{
			"charAt":     {Params: []ir.Parameter{{Type: ir.Integer()}}, Returns: ir.String()},
			"slice":      {Params: []ir.Parameter{{Type: ir.Integer(), Kind: ir.ParamOptional}, {Type: ir.Integer(), Kind: ir.ParamOptional}}, Returns: ir.String()},
			"indexOf":    {Params: []ir.Parameter{{Type: ir.String()}}, Returns: ir.Integer()},
			"toUpperCase": {Returns: ir.String()},
			"repeat":     {Params: []ir.Parameter{{Type: ir.Integer()}}, Returns: ir.String()},
		},
	}
	stringGroup.Instance = ir.String()

	mathGroup := &ir.ObjectGroup{
		Name: "Math",
		Properties: map[string]ir.Type{
			"PI": ir.Float(),
			"E":  ir.Float(),
		},
		Methods: map[string]*ir.FunctionSignature{
			"random": {Returns: ir.Float()},
			"floor":  {Params: []ir.Parameter{{Type: ir.Float()}}, Returns: ir.Integer()},
			"max":    {Params: []ir.Parameter{{Type: ir.Float(), Kind: ir.ParamRest}}, Returns: ir.Float()},
			"min":    {Params: []ir.Parameter{{Type: ir.Float(), Kind: ir.ParamRest}}, Returns: ir.Float()},
			"abs":    {Params: []ir.Parameter{{Type: ir.Float()}}, Returns: ir.Float()},
			"sqrt":   {Params: []ir.Parameter{{Type: ir.Float()}}, Returns: ir.Float()},
		},
	}
	mathGroup.Instance = ir.Object(mathGroup.Shape())

	typedArrayGroup := &ir.ObjectGroup{
		Name:       "Uint8Array",
		Properties: map[string]ir.Type{"length": ir.Integer(), "byteLength": ir.Integer()},
		Methods: map[string]*ir.FunctionSignature{
			"fill":  {Params: []ir.Parameter{{Type: ir.Integer()}}, Returns: ir.Object(nil)},
			"slice": {Params: []ir.Parameter{{Type: ir.Integer(), Kind: ir.ParamOptional}}, Returns: ir.Anything()},
		},
	}
	typedArrayGroup.Instance = ir.Function(&ir.FunctionSignature{Returns: ir.Object(typedArrayGroup.Shape()).WithFlags(ir.FlagIterable)})

	jsonGroup := &ir.ObjectGroup{
		Name: "JSON",
		Methods: map[string]*ir.FunctionSignature{
			"stringify": {Params: []ir.Parameter{{Type: ir.Anything()}}, Returns: ir.String()},
			"parse":     {Params: []ir.Parameter{{Type: ir.String()}}, Returns: ir.Anything()},
		},
	}
	jsonGroup.Instance = ir.Object(jsonGroup.Shape())

	return []*ir.ObjectGroup{objectProto, arrayGroup, functionGroup, stringGroup, mathGroup, typedArrayGroup, jsonGroup}
}
