// Package tui is a live bubbletea dashboard for a running fuzzing session
//: corpus size/age histogram, per-mutator valid/invalid rates, engine
// outcome counters, and a recent-crash list. It is a pure observer — it
// subscribes to the event bus and reads the corpus/mutator pool, never
// drives the fuzzing loop itself.
package tui

import (
	"sync"

	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/events"
	"ecmafuzz/internal/mutate"
)

// maxRecentCrashes bounds the crash list the dashboard keeps in memory —
// older crashes are still in the corpus's crash directory, just not shown.
const maxRecentCrashes = 20

// Collector subscribes to a Bus and accumulates the counters the dashboard
// renders. It is safe for concurrent Snapshot calls from the bubbletea
// update loop while a fuzzing engine keeps publishing on another goroutine.
type Collector struct {
	mu       sync.Mutex
	outcomes map[events.Kind]int
	crashes  []string
}

// NewCollector subscribes to every event kind the dashboard cares about and
// returns a Collector that accumulates them.
func NewCollector(bus *events.Bus) *Collector {
	c := &Collector{outcomes: make(map[events.Kind]int)}
	for _, k := range []events.Kind{
		events.ValidFound,
		events.InvalidFound,
		events.TimeOutFound,
		events.CrashFound,
		events.InterestingProgramFound,
	} {
		k := k
		bus.Subscribe(k, func(e events.Event) { c.record(e) })
	}
	return c
}

func (c *Collector) record(e events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[e.Kind]++
	if e.Kind == events.CrashFound {
		line := e.Outcome
		if e.Detail != "" {
			line += ": " + e.Detail
		}
		c.crashes = append(c.crashes, line)
		if len(c.crashes) > maxRecentCrashes {
			c.crashes = c.crashes[len(c.crashes)-maxRecentCrashes:]
		}
	}
}

// MutatorStat is one row of the mutator valid/invalid table.
type MutatorStat struct {
	Name    string
	Valid   int
	Invalid int
}

// Snapshot is the full, read-only state the dashboard renders on one tick.
type Snapshot struct {
	CorpusSize    int
	CorpusAges    []int
	Mutators      []MutatorStat
	Outcomes      map[events.Kind]int
	RecentCrashes []string
}

// Snapshot reads the current corpus and mutator pool state alongside the
// accumulated event counters.
func (c *Collector) Snapshot(cp *corpus.Corpus, pool *mutate.Pool) Snapshot {
	c.mu.Lock()
	outcomes := make(map[events.Kind]int, len(c.outcomes))
	for k, v := range c.outcomes {
		outcomes[k] = v
	}
	crashes := append([]string(nil), c.crashes...)
	c.mu.Unlock()

	snap := Snapshot{
		Outcomes:      outcomes,
		RecentCrashes: crashes,
	}
	if cp != nil {
		snap.CorpusSize = cp.Len()
		snap.CorpusAges = cp.Ages()
	}
	if pool != nil {
		for _, m := range pool.Mutators() {
			valid, invalid := m.Counts()
			snap.Mutators = append(snap.Mutators, MutatorStat{Name: m.Name(), Valid: valid, Invalid: invalid})
		}
	}
	return snap
}
