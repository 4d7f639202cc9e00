package builder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"ecmafuzz/internal/analysis"
	"ecmafuzz/internal/ir"
)

// TestContextAnalyzer_AgreesWithBuilderOutput runs analysis.ContextAnalyzer,
// an independent pass that never consults the builder's own live context
// stack, over a program the builder constructed and checks its verdict
// against every instruction's RequiredContext. This is the "does the
// required-context invariant actually hold" check a builder bug (like the
// one SpliceRange used to have) wouldn't trip on its own: the builder could
// be wrong about its own bookkeeping and still agree with itself.
func TestContextAnalyzer_AgreesWithBuilderOutput(t *testing.T) {
	b := New(ModeConservative, nil, rand.New(rand.NewSource(11)))
	sig := &ir.FunctionSignature{Returns: ir.Undefined()}
	_, _ = b.BeginGeneratorFunction(sig)
	v := b.LoadInteger(1)
	b.Yield(v)
	cond := b.LoadBoolean(true)
	b.BeginWhileLoop(ir.CompareEqual, cond, cond)
	b.LoadInteger(2)
	b.EndWhileLoop()
	b.EndGeneratorFunction()
	program := b.Finalize()

	info := analysis.NewContextAnalyzer().Analyze(program)
	for i, instr := range program.Code {
		required := instr.Op.Def().RequiredContext
		assert.True(t, info.At(i).Contains(required),
			"instruction %d (%s) runs in %s, which doesn't satisfy its required context %s",
			i, instr.Op.Def().Name, info.At(i), required)
	}
}
