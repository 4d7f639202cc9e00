package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/events"
	"ecmafuzz/internal/mutate"
)

const refreshInterval = 500 * time.Millisecond

type tickMsg time.Time

// Model is the dashboard's bubbletea state: everything it needs to
// re-render on every tick, plus the last Snapshot it pulled.
type Model struct {
	collector *Collector
	corpus    *corpus.Corpus
	pool      *mutate.Pool
	styles    Styles
	validBar  progress.Model

	width, height int
	snapshot      Snapshot
	quitting      bool
}

// New builds a dashboard Model observing bus's events against corpus and
// pool's live state.
func New(bus *events.Bus, cp *corpus.Corpus, pool *mutate.Pool) Model {
	return Model{
		collector: NewCollector(bus),
		corpus:    cp,
		pool:      pool,
		styles:    DefaultStyles(),
		validBar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width:     100,
		height:    30,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.validBar.Width = m.width - 20
		if m.validBar.Width < 10 {
			m.validBar.Width = 10
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		m.snapshot = m.collector.Snapshot(m.corpus, m.pool)
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Header.Render(" ecmafuzz dashboard ") + "\n\n")
	b.WriteString(renderCorpusPanel(s, m.snapshot) + "\n\n")
	b.WriteString(renderMutatorPanel(s, m.snapshot) + "\n\n")
	b.WriteString(renderOutcomePanel(s, m.snapshot) + "\n")
	b.WriteString(renderValidBar(s, m.validBar, m.snapshot) + "\n\n")
	b.WriteString(renderCrashPanel(s, m.snapshot) + "\n\n")
	b.WriteString(s.Muted.Render("q to quit") + "\n")
	return b.String()
}

func renderCorpusPanel(s Styles, snap Snapshot) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Corpus") + "\n")
	b.WriteString(fmt.Sprintf("size: %d\n", snap.CorpusSize))
	b.WriteString(ageHistogram(snap.CorpusAges))
	return s.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// ageHistogram buckets program ages (rounds since last use) into five
// width-normalized bars — a cheap terminal stand-in for a real histogram
// widget.
func ageHistogram(ages []int) string {
	if len(ages) == 0 {
		return "(empty)\n"
	}
	maxAge := 0
	for _, a := range ages {
		if a > maxAge {
			maxAge = a
		}
	}
	if maxAge == 0 {
		maxAge = 1
	}
	const buckets = 5
	counts := make([]int, buckets)
	for _, a := range ages {
		idx := a * buckets / (maxAge + 1)
		if idx >= buckets {
			idx = buckets - 1
		}
		counts[idx]++
	}
	var b strings.Builder
	for i, c := range counts {
		lo := i * (maxAge + 1) / buckets
		hi := (i + 1) * (maxAge + 1) / buckets
		b.WriteString(fmt.Sprintf("[%3d-%3d) %s (%d)\n", lo, hi, strings.Repeat("#", c), c))
	}
	return b.String()
}

func renderMutatorPanel(s Styles, snap Snapshot) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Mutators") + "\n")
	if len(snap.Mutators) == 0 {
		b.WriteString("(none)\n")
	}
	for _, ms := range snap.Mutators {
		total := ms.Valid + ms.Invalid
		rate := 0.0
		if total > 0 {
			rate = 100 * float64(ms.Valid) / float64(total)
		}
		b.WriteString(fmt.Sprintf("%-16s valid=%-6d invalid=%-6d (%.1f%% valid)\n", ms.Name, ms.Valid, ms.Invalid, rate))
	}
	return s.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func renderOutcomePanel(s Styles, snap Snapshot) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Outcomes") + "\n")
	order := []events.Kind{events.ValidFound, events.InvalidFound, events.TimeOutFound, events.CrashFound, events.InterestingProgramFound}
	for _, k := range order {
		b.WriteString(fmt.Sprintf("%-26s %d\n", k, snap.Outcomes[k]))
	}
	return s.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// renderValidBar shows the overall valid/total execution ratio as a
// bubbles progress bar, rather than yet another number in the outcome table.
func renderValidBar(s Styles, bar progress.Model, snap Snapshot) string {
	valid := float64(snap.Outcomes[events.ValidFound])
	total := valid + float64(snap.Outcomes[events.InvalidFound]) + float64(snap.Outcomes[events.TimeOutFound]) + float64(snap.Outcomes[events.CrashFound])
	ratio := 0.0
	if total > 0 {
		ratio = valid / total
	}
	return s.Muted.Render("valid rate ") + bar.ViewAs(ratio)
}

func renderCrashPanel(s Styles, snap Snapshot) string {
	var b strings.Builder
	b.WriteString(s.Error.Render("Recent crashes") + "\n")
	if len(snap.RecentCrashes) == 0 {
		b.WriteString(s.Muted.Render("(none)") + "\n")
	}
	for _, c := range snap.RecentCrashes {
		b.WriteString("- " + c + "\n")
	}
	return s.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

var _ tea.Model = Model{}
