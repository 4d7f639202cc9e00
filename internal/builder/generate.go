package builder

import (
	"math/rand"

	"ecmafuzz/internal/ir"
)

// GenerateVariable returns a variable of (or compatible with) type want,
// preferring to reuse one already in scope — "prefer reuse over
// fresh construction" — and falling back to minting a new literal/load
// instruction that produces want when nothing suitable exists yet.
func (b *Builder) GenerateVariable(want ir.Type) ir.Variable {
	if b.mode == ModeAggressive || b.rng.Float64() < 0.5 {
		if v, ok := b.RandVarOfType(want); ok {
			return v
		}
	}
	return b.generateDefaultValue(want)
}

// generateDefaultValue mints a plausible literal for want. An object type
// whose group has a builtin constructor (Array, Uint8Array) is built with
// that constructor; any other object type becomes an empty array literal.
// Function and constructor types load a random builtin, or undefined when
// the environment has none; anything matching no case above is undefined.
func (b *Builder) generateDefaultValue(want ir.Type) ir.Variable {
	switch {
	case want.Has(ir.KindInteger) && !want.Has(ir.KindFloat):
		return b.LoadInteger(int64(b.rng.Intn(1000)))
	case want.Has(ir.KindFloat):
		return b.LoadFloat(b.rng.Float64() * 1000)
	case want.Has(ir.KindBigInt):
		return b.LoadInteger(int64(b.rng.Intn(1000)))
	case want.Has(ir.KindString):
		return b.LoadString(randomString(b.rng))
	case want.Has(ir.KindBoolean):
		return b.LoadBoolean(b.rng.Intn(2) == 0)
	case want.Has(ir.KindRegExp):
		return b.LoadRegExp("a+", "g")
	case want.Has(ir.KindObject):
		if shape := want.ObjectShape(); shape != nil && shape.Group != "" {
			if name, ok := builtinConstructorFor(shape.Group); ok {
				return b.Construct(b.LoadBuiltin(name), nil)
			}
		}
		return b.CreateArray(nil)
	case want.Has(ir.KindFunction), want.Has(ir.KindConstructor):
		if names := b.env.BuiltinNames(); len(names) > 0 {
			return b.LoadBuiltin(names[b.rng.Intn(len(names))])
		}
		fallthrough
	default:
		return b.LoadUndefined()
	}
}

func builtinConstructorFor(group string) (string, bool) {
	switch group {
	case "Array":
		return "Array", true
	case "Uint8Array":
		return "Uint8Array", true
	default:
		return "", false
	}
}

var sampleWords = []string{"a", "b", "x", "y", "key", "value", "tmp", ""}

func randomString(rng *rand.Rand) string {
	return sampleWords[rng.Intn(len(sampleWords))]
}

// Generator is one unit of program-generation logic a fuzz engine's
// code-generation mutator or the generative engine picks at
// random. It emits directly into b, recursing into GenerateBody for any
// nested block it opens.
type Generator interface {
	Name() string
	// RequiredContext reports the context bits that must already be active
	// for this generator to be legal here (e.g. LoopBreak needs ContextLoop).
	RequiredContext() ir.Context
	// Generate emits this generator's instruction(s).
	Generate(b *Builder)
}

// Usable reports whether g may legally run given b's current context.
func (b *Builder) Usable(g Generator) bool {
	return b.Context().Contains(g.RequiredContext())
}

// eligible filters pool down to generators usable at b's current point.
func (b *Builder) eligible(pool []Generator) []Generator {
	out := make([]Generator, 0, len(pool))
	for _, g := range pool {
		if b.Usable(g) {
			out = append(out, g)
		}
	}
	return out
}

// GenerateBody emits up to n top-level instructions by repeatedly picking a
// random eligible generator from pool, stopping early if nothing is
// eligible. Generators that open a block are expected to call GenerateBody
// again for their own body via GenerateRecursive.
func (b *Builder) GenerateBody(n int, pool []Generator) {
	for i := 0; i < n; i++ {
		eligible := b.eligible(pool)
		if len(eligible) == 0 {
			return
		}
		g := eligible[b.rng.Intn(len(eligible))]
		g.Generate(b)
	}
}

// GenerateRecursive is what a block-opening Generator calls for its own
// body: it generates instructions until budget runs out or a per-call coin
// flip (RecursionStopProbability) says to stop, keeping nested code
// generation from growing without bound.
func (b *Builder) GenerateRecursive(budget int, pool []Generator) {
	for i := 0; i < budget; i++ {
		if b.rng.Float64() < b.RecursionStopProbability {
			return
		}
		eligible := b.eligible(pool)
		if len(eligible) == 0 {
			return
		}
		g := eligible[b.rng.Intn(len(eligible))]
		g.Generate(b)
	}
}

// Finalize closes every block the builder still has open, innermost first,
// using each open op's natural matching end op. A generation run that hits
// its instruction budget mid-block would otherwise leave a structurally
// invalid program; Finalize is what makes "stop generating now" always
// produce something well-formed.
func (b *Builder) Finalize() *ir.Program {
	for len(b.contextStack) > 1 {
		b.closeInnermostBlock()
	}
	if b.interp != nil {
		b.interp.Analyze(b.program)
	}
	return b.program
}

// closeInnermostBlock looks at the last block-begin instruction still open
// (tracked implicitly by context depth) and emits its matching end. Since
// Builder only ever has one call path that pushes a given context-opening
// op, we record the opening op alongside the context stack to know which
// end to emit.
func (b *Builder) closeInnermostBlock() {
	op := b.openBlocks[len(b.openBlocks)-1]
	switch op {
	case ir.OpBeginIf, ir.OpBeginElse:
		b.EndIf()
	case ir.OpBeginWhileLoop:
		b.EndWhileLoop()
	case ir.OpBeginDoWhileLoop:
		b.emit(ir.OpEndDoWhileLoop, 0, 0, []ir.Variable{b.LoadBoolean(false)}, nil, ir.Type{}, ir.Type{})
	case ir.OpBeginForLoop:
		b.EndForLoop()
	case ir.OpBeginForInLoop:
		b.emit(ir.OpEndForInLoop, 0, 0, nil, nil, ir.Type{}, ir.Type{})
	case ir.OpBeginForOfLoop:
		b.emit(ir.OpEndForOfLoop, 0, 0, nil, nil, ir.Type{}, ir.Type{})
	case ir.OpBeginPlainFunction:
		b.EndPlainFunction()
	case ir.OpBeginArrowFunction:
		b.EndArrowFunction()
	case ir.OpBeginGeneratorFunction:
		b.EndGeneratorFunction()
	case ir.OpBeginAsyncFunction:
		b.EndAsyncFunction()
	case ir.OpBeginAsyncGeneratorFunction:
		b.emit(ir.OpEndAsyncGeneratorFunction, 0, 0, nil, nil, ir.Type{}, ir.Type{})
	case ir.OpBeginClassDefinition:
		b.emit(ir.OpEndClassDefinition, 0, 0, nil, nil, ir.Type{}, ir.Type{})
	case ir.OpBeginMethodDefinition:
		b.emit(ir.OpEndMethodDefinition, 0, 0, nil, nil, ir.Type{}, ir.Type{})
	case ir.OpBeginTry, ir.OpBeginCatch, ir.OpBeginFinally:
		b.EndTryCatch()
	case ir.OpBeginSwitch, ir.OpBeginSwitchCase:
		// BeginSwitchCase is a combined begin/end (it closes the previous
		// case, or the switch header for the first case, when opening the
		// next) so only one EndSwitch is ever needed regardless of which of
		// the two is still open.
		b.emit(ir.OpEndSwitch, 0, 0, nil, nil, ir.Type{}, ir.Type{})
	case ir.OpBeginWith:
		b.emit(ir.OpEndWith, 0, 0, nil, nil, ir.Type{}, ir.Type{})
	}
}
