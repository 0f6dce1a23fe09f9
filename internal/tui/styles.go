package tui

import "github.com/charmbracelet/lipgloss"

// ------- minimal styling helpers (Lip Gloss) -------
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	helpStyle   = lipgloss.NewStyle().Faint(true)

	columnTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8"))
	cardSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("12"))
	cardDraggedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Faint(true)
	cardDropStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42"))
	columnDropStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	priorityHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	priorityMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	priorityLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	chatUserStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	chatAssistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)
