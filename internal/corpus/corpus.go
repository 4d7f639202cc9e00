// Package corpus is the evicting sample store: a bounded ring of
// (Program, age) pairs mutators draw parents from and fuzz engines add
// interesting finds back into.
package corpus

import (
	"fmt"
	"math/rand"
	"sync"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/config"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
	"ecmafuzz/internal/logging"
)

// entry pairs a program with the number of times it has been sampled for
// mutation since insertion — "age".
type entry struct {
	program *ir.Program
	age     int
}

// Corpus is a bounded, never-empty ring buffer of programs. All exported
// methods are safe for concurrent use: multiple engine workers sample
// from and add to one shared Corpus.
type Corpus struct {
	mu sync.Mutex

	maxSize               int
	minSize               int
	minMutationsPerSample int
	static                bool

	entries []entry
	rng     *rand.Rand

	// seen deduplicates by a program's instruction-sequence signature —
	// memory optimization only, never a correctness requirement.
	seen map[string]bool
}

// New creates a Corpus per cfg. If the corpus would start empty, a trivial
// seed program is synthesized so the "never empty after initialization"
// invariant holds immediately.
func New(cfg config.CorpusConfig, rng *rand.Rand) *Corpus {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	c := &Corpus{
		maxSize:               cfg.MaxSize,
		minSize:               cfg.MinSize,
		minMutationsPerSample: cfg.MinMutationsPerSample,
		static:                cfg.StaticCorpus,
		rng:                   rng,
		seen:                  make(map[string]bool),
	}
	if c.minSize < 1 {
		c.minSize = 1
	}
	c.ensureNonEmptyLocked()
	return c
}

func (c *Corpus) ensureNonEmptyLocked() {
	if len(c.entries) > 0 {
		return
	}
	logging.Get(logging.CategoryCorpus).Info("corpus empty at init, synthesizing seed program")
	c.insertLocked(seedProgram())
}

// seedProgram is the trivial starting point every fresh or fully-evicted
// corpus falls back to: one integer literal, nothing more.
func seedProgram() *ir.Program {
	b := builder.New(builder.ModeConservative, jsenv.Default(), nil)
	b.LoadInteger(0)
	return b.Finalize()
}

// Add inserts program, evicting the oldest entry on overflow. Empty programs
// are rejected
func (c *Corpus) Add(program *ir.Program) error {
	if program == nil || program.Size() == 0 {
		return fmt.Errorf("corpus: refusing to add empty program")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	sig := signature(program)
	if c.seen[sig] {
		return nil
	}
	c.seen[sig] = true
	c.insertLocked(program)
	return nil
}

func (c *Corpus) insertLocked(program *ir.Program) {
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		evicted := c.entries[0]
		c.entries = c.entries[1:]
		delete(c.seen, signature(evicted.program))
	}
	c.entries = append(c.entries, entry{program: program, age: 0})
}

// signature is a cheap structural fingerprint used only for deduplication —
// it is not a cryptographic digest and collisions merely cost a missed dedup,
// never correctness.
func signature(p *ir.Program) string {
	s := make([]byte, 0, p.Size()*2)
	for _, instr := range p.Code {
		s = append(s, byte(instr.Op), byte(instr.Op>>8))
	}
	return string(s)
}

// Len reports the current entry count.
func (c *Corpus) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RandomElementForMutating returns a uniformly random entry and increments
// its sampled-age,
func (c *Corpus) RandomElementForMutating() *ir.Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureNonEmptyLocked()
	idx := c.rng.Intn(len(c.entries))
	c.entries[idx].age++
	return c.entries[idx].program
}

// RandomElementForSplicing returns a uniformly random entry without aging it
// — a splice donor is consulted, not mutated in place,
func (c *Corpus) RandomElementForSplicing() *ir.Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureNonEmptyLocked()
	idx := c.rng.Intn(len(c.entries))
	return c.entries[idx].program
}

// Cleanup drops entries that have both been sampled at least
// minMutationsPerSample times and whose removal would not drop the corpus
// below minSize, in insertion order, Static-corpus mode disables
// this entirely.
func (c *Corpus) Cleanup() int {
	if c.static {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]entry, 0, len(c.entries))
	dropped := 0
	for i, e := range c.entries {
		remaining := len(c.entries) - i - 1
		mustKeep := len(kept)+remaining+1 <= c.minSize
		if e.age < c.minMutationsPerSample || mustKeep {
			kept = append(kept, e)
			continue
		}
		dropped++
		delete(c.seen, signature(e.program))
	}
	c.entries = kept
	if dropped > 0 {
		logging.Get(logging.CategoryCorpus).Info("corpus cleanup: dropped %d entries, %d remain", dropped, len(c.entries))
	}
	return dropped
}

// Programs returns every program currently stored, in insertion order — used
// by exportState and by the TUI's size/age histogram.
func (c *Corpus) Programs() []*ir.Program {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*ir.Program, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.program
	}
	return out
}

// Ages returns each entry's current sampled-age, parallel to Programs.
func (c *Corpus) Ages() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.age
	}
	return out
}

// ReplaceAll atomically swaps the corpus contents for programs, treating
// every one of them as already-successfully-executed (the importState
// contract) — they bypass the dedup seen-set recomputation cost by rebuilding
// it fresh.
func (c *Corpus) ReplaceAll(programs []*ir.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make([]entry, len(programs))
	c.seen = make(map[string]bool, len(programs))
	for i, p := range programs {
		c.entries[i] = entry{program: p}
		c.seen[signature(p)] = true
	}
	c.ensureNonEmptyLocked()
}
