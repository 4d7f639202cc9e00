package mutate

import (
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// InputMutator walks the parent's instructions and, with a small per-
// instruction probability, replaces one randomly chosen input with another
// variable visible at that point whose tracked type is compatible.
type InputMutator struct {
	Stats
	Probability float64
}

// NewInputMutator builds an InputMutator with the default swap probability.
func NewInputMutator() *InputMutator {
	return &InputMutator{Probability: 0.1}
}

func (m *InputMutator) Name() string { return "Input" }

func (m *InputMutator) Mutate(parent *ir.Program, env *jsenv.Environment, rng *rand.Rand) (*ir.Program, bool) {
	if parent.Size() == 0 {
		return nil, false
	}
	b := builder.New(builder.ModeAggressive, env, rng)
	anyMutated := false
	for _, instr := range parent.Code {
		inputs := instr.Inputs()
		if len(inputs) > 0 && rng.Float64() < m.Probability {
			idx := rng.Intn(len(inputs))
			want := parent.TypeOf(inputs[idx])
			if alt, ok := b.RandVarOfType(want); ok && alt != inputs[idx] {
				newInputs := append([]ir.Variable(nil), inputs...)
				newInputs[idx] = alt
				b.ReplayWithInputs(parent, instr, newInputs)
				anyMutated = true
				continue
			}
		}
		b.Replay(parent, instr)
	}
	if !anyMutated {
		return nil, false
	}
	return b.Finalize(), true
}
