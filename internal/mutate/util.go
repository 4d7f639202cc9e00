package mutate

import (
	"math/rand"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/ir"
)

func maxAttemptsOr(configured, fallback int) int {
	if configured > 0 {
		return configured
	}
	return fallback
}

func maxInt(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

// anyUsable reports whether at least one generator in pool is legal at b's
// current point, so an insertion/code-generation mutator can detect a dead
// attempt (nothing eligible at this position) and retry elsewhere instead of
// silently emitting nothing.
func anyUsable(b *builder.Builder, pool []builder.Generator) bool {
	for _, g := range pool {
		if b.Usable(g) {
			return true
		}
	}
	return false
}

// randomBalancedRange looks for a contiguous, block-neutral instruction
// range in donor starting at a random index — the smallest span that is
// itself a complete statement (a bare instruction, or a whole block
// including its matching end). Used by the splice mutator to find
// something legally graftable without walking all of donor's structure by
// hand.
func randomBalancedRange(rng *rand.Rand, donor *ir.Program, maxAttempts int) (from, to int, ok bool) {
	n := donor.Size()
	if n == 0 {
		return 0, 0, false
	}
	for attempt := 0; attempt < maxAttemptsOr(maxAttempts, 10); attempt++ {
		start := rng.Intn(n)
		if op := donor.Code[start].Op; op.IsBlockBegin() && op.IsBlockEnd() {
			continue // a lone else/catch/finally/case is not a statement
		}
		depth := 0
		for i := start; i < n; i++ {
			op := donor.Code[i].Op
			switch {
			case op.IsBlockBegin() && op.IsBlockEnd():
				// combined begin/end (else, catch, finally, switch-case): net zero
			case op.IsBlockBegin():
				depth++
			case op.IsBlockEnd():
				depth--
			}
			if depth < 0 {
				break // started mid-block; this start index can't work
			}
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}
	return 0, 0, false
}
