package fuzzer

import (
	"context"

	"ecmafuzz/internal/builder"
)

// GenerativeEngine produces one pure-generation program of ProgramSize
// instructions and executes it once — used mainly to bootstrap an
// empty corpus before mutation-based engines have anything to work from.
type GenerativeEngine struct {
	Base

	Pool        []builder.Generator
	ProgramSize int
}

func (e *GenerativeEngine) Name() string { return "Generative" }

func (e *GenerativeEngine) RunRound(ctx context.Context) (Execution, error) {
	b := e.newBuilder(builder.ModeConservative)
	size := e.ProgramSize
	if size <= 0 {
		size = 20
	}
	b.GenerateBody(size, e.Pool)
	program := b.Finalize()
	return e.execute(ctx, program)
}
