package tui

import tea "github.com/charmbracelet/bubbletea"

// Run starts the interactive board and blocks until the user quits.
// All-motion mouse tracking is required for drag previews.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
