// Package codegen is the named micro-recipe library: small
// CodeGenerators that emit a well-typed IR fragment each, and larger
// ProgramTemplates that compose generators and the builder into JIT-stress
// scaffolds. Both ultimately implement internal/builder.Generator, so
// anything in this package drops straight into GenerateBody/GenerateRecursive
// and the insertion/code-generation mutators without those callers needing
// to know the difference between a one-line generator and a whole template.
package codegen

import (
	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
)

// CodeGenerator is {name, requiredContext, inputTypes, run(builder, inputs)}
// Input types are resolved via Builder.GenerateVariable before Run
// is invoked — which always succeeds (mint-a-default is its last resort),
// so unlike "generators that need specific inputs must accept
// failure to find them" wording, nothing here is ever skipped for want of
// an input; RequiredContext is what actually gates whether a generator runs
// at all.
type CodeGenerator struct {
	Stats

	name            string
	requiredContext ir.Context
	inputTypes      []ir.Type
	run             func(b *builder.Builder, inputs []ir.Variable)
}

// New builds a CodeGenerator. run may call b.GenerateRecursive to fill the
// body of any block it opens.
func New(name string, requiredContext ir.Context, inputTypes []ir.Type, run func(b *builder.Builder, inputs []ir.Variable)) *CodeGenerator {
	return &CodeGenerator{name: name, requiredContext: requiredContext, inputTypes: inputTypes, run: run}
}

func (g *CodeGenerator) Name() string               { return g.name }
func (g *CodeGenerator) RequiredContext() ir.Context { return g.requiredContext }

// Generate resolves g's declared input types against b's current scope and
// runs g's recipe.
func (g *CodeGenerator) Generate(b *builder.Builder) {
	inputs := make([]ir.Variable, len(g.inputTypes))
	for i, t := range g.inputTypes {
		inputs[i] = b.GenerateVariable(t)
	}
	g.run(b, inputs)
}

var _ builder.Generator = (*CodeGenerator)(nil)
