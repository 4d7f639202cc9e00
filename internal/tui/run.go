package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/events"
	"ecmafuzz/internal/mutate"
)

// Run launches the dashboard in the alt screen and blocks until the user
// quits it.
func Run(bus *events.Bus, cp *corpus.Corpus, pool *mutate.Pool) error {
	p := tea.NewProgram(New(bus, cp, pool), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
