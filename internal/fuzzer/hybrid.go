package fuzzer

import (
	"context"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/codegen"
	"ecmafuzz/internal/ir"
)

// HybridEngine builds a scaffold from a weighted-random ProgramTemplate,
// executes it once, and — only if that succeeded — chains
// NumConsecutiveMutations mutations onto it exactly like MutationEngine.
type HybridEngine struct {
	Base

	Templates               []*codegen.ProgramTemplate
	TemplateWeights         []float64
	NumConsecutiveMutations int
	PrefixPool              []builder.Generator
	PrefixSize              int
}

func (e *HybridEngine) Name() string { return "Hybrid" }

func (e *HybridEngine) RunRound(ctx context.Context) (Execution, error) {
	template, ok := e.pickTemplate()
	if !ok {
		return Execution{}, nil
	}

	scaffold := e.buildScaffold(template)
	exec, err := e.execute(ctx, scaffold)
	if err != nil {
		return exec, err
	}
	if exec.Outcome != Succeeded {
		template.RecordInvalid()
		return exec, nil
	}
	template.RecordValid()

	parent := scaffold
	n := e.NumConsecutiveMutations
	if n <= 0 {
		n = 1
	}
	last := exec
	for i := 0; i < n; i++ {
		child, mutator, ok := e.mutateOnce(parent)
		if !ok {
			continue
		}
		childExec, err := e.execute(ctx, child)
		if err != nil {
			return childExec, err
		}
		last = childExec
		if childExec.Outcome == Succeeded {
			mutator.RecordValid()
			parent = child
		} else {
			mutator.RecordInvalid()
		}
	}
	return last, nil
}

// buildScaffold assembles prefix + one plain-function seed + the template
// body, framing: the template only ever sees the builder
// positioned inside the seed's body, not the surrounding program shape.
func (e *HybridEngine) buildScaffold(template *codegen.ProgramTemplate) *ir.Program {
	b := e.newBuilder(builder.ModeConservative)
	if len(e.PrefixPool) > 0 {
		size := e.PrefixSize
		if size <= 0 {
			size = 5
		}
		b.GenerateBody(size, e.PrefixPool)
	}
	sig := &ir.FunctionSignature{Returns: ir.Anything()}
	b.BeginPlainFunction(sig)
	template.Run(b)
	b.EndPlainFunction()
	return b.Finalize()
}

func (e *HybridEngine) pickTemplate() (*codegen.ProgramTemplate, bool) {
	if len(e.Templates) == 0 {
		return nil, false
	}
	if len(e.TemplateWeights) != len(e.Templates) {
		return e.Templates[e.RNG.Intn(len(e.Templates))], true
	}
	total := 0.0
	for _, w := range e.TemplateWeights {
		total += w
	}
	if total <= 0 {
		return e.Templates[e.RNG.Intn(len(e.Templates))], true
	}
	pick := e.RNG.Float64() * total
	for i, w := range e.TemplateWeights {
		pick -= w
		if pick <= 0 {
			return e.Templates[i], true
		}
	}
	return e.Templates[len(e.Templates)-1], true
}
