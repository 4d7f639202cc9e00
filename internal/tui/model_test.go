package tui

import (
	"math/rand"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/config"
	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/events"
	"ecmafuzz/internal/jsenv"
	"ecmafuzz/internal/mutate"
)

func TestCollector_RecordsOutcomesAndCrashes(t *testing.T) {
	bus := events.New()
	c := NewCollector(bus)

	bus.Publish(events.Event{Kind: events.ValidFound})
	bus.Publish(events.Event{Kind: events.ValidFound})
	bus.Publish(events.Event{Kind: events.CrashFound, Outcome: "crashed", Detail: "signal 11"})

	snap := c.Snapshot(nil, nil)
	assert.Equal(t, 2, snap.Outcomes[events.ValidFound])
	assert.Equal(t, 1, snap.Outcomes[events.CrashFound])
	assert.Len(t, snap.RecentCrashes, 1)
	assert.Contains(t, snap.RecentCrashes[0], "signal 11")
}

func TestCollector_CapsRecentCrashes(t *testing.T) {
	bus := events.New()
	c := NewCollector(bus)
	for i := 0; i < maxRecentCrashes+5; i++ {
		bus.Publish(events.Event{Kind: events.CrashFound, Outcome: "crashed"})
	}
	snap := c.Snapshot(nil, nil)
	assert.Len(t, snap.RecentCrashes, maxRecentCrashes)
}

func TestCollector_SnapshotReadsLiveCorpusAndPool(t *testing.T) {
	bus := events.New()
	c := NewCollector(bus)

	cp := corpus.New(config.DefaultCorpusConfig(), rand.New(rand.NewSource(1)))
	b := builder.New(builder.ModeConservative, jsenv.Default(), rand.New(rand.NewSource(2)))
	b.LoadInteger(42)
	cp.Add(b.Finalize())

	pool := mutate.NewPool(rand.New(rand.NewSource(1)), mutate.NewInputMutator())

	snap := c.Snapshot(cp, pool)
	assert.Equal(t, 2, snap.CorpusSize)
	assert.Len(t, snap.Mutators, 1)
	assert.Equal(t, "Input", snap.Mutators[0].Name)
}

func TestModel_ViewRendersPanelsWithoutPanicking(t *testing.T) {
	bus := events.New()
	cp := corpus.New(config.DefaultCorpusConfig(), rand.New(rand.NewSource(1)))
	pool := mutate.NewPool(rand.New(rand.NewSource(1)), mutate.NewInputMutator())

	m := New(bus, cp, pool)
	m.snapshot = m.collector.Snapshot(cp, pool)

	out := m.View()
	assert.Contains(t, out, "ecmafuzz dashboard")
	assert.Contains(t, out, "Corpus")
	assert.Contains(t, out, "Mutators")
	assert.Contains(t, out, "Outcomes")
	assert.Contains(t, out, "valid rate")
	assert.Contains(t, out, "Recent crashes")
}

func TestModel_QuitOnQKeyReturnsQuitCmd(t *testing.T) {
	bus := events.New()
	m := New(bus, nil, nil)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	mm := updated.(Model)
	assert.True(t, mm.quitting)
	assert.NotNil(t, cmd)
}

func TestAgeHistogram_HandlesEmptyAndUniform(t *testing.T) {
	assert.Equal(t, "(empty)\n", ageHistogram(nil))
	out := ageHistogram([]int{1, 1, 1})
	assert.NotEmpty(t, out)
}
