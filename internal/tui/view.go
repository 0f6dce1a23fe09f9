package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kanban-cli/internal/hittest"
	"kanban-cli/internal/model"
)

func (m Model) View() string {
	l := m.layout()

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	if m.banner != "" {
		b.WriteString(bannerStyle.Render(truncate(m.banner, m.width)))
		b.WriteString("\n")
	}

	board := m.boardView(l)
	if m.chatOpen {
		board = lipgloss.JoinHorizontal(lipgloss.Top, board, " ", m.chatView(l))
	}
	b.WriteString(board)
	b.WriteString("\n")
	b.WriteString(m.statusView())
	return b.String()
}

func (m Model) headerView() string {
	name := "board"
	if m.boardID != "" {
		name = m.boardID
	}
	h := headerStyle.Render("kanban") + "  " + mutedStyle.Render(name)
	if !m.loaded {
		h += "  " + mutedStyle.Render("loading...")
	}
	return h
}

// boardView renders every column to the same fixed height and stitches the
// rows together, so card positions match the droppable rectangles in regions.
func (m Model) boardView(l layout) string {
	if len(m.board.Columns) == 0 {
		return mutedStyle.Render("no columns")
	}

	cols := make([][]string, len(m.board.Columns))
	for i, col := range m.board.Columns {
		cols[i] = m.columnLines(col, l)
	}

	gap := strings.Repeat(" ", columnGap)
	rows := make([]string, 0, l.bodyHeight)
	for r := 0; r < l.bodyHeight; r++ {
		parts := make([]string, 0, len(cols))
		for _, lines := range cols {
			if r < len(lines) {
				parts = append(parts, padTo(lines[r], l.colWidth))
			} else {
				parts = append(parts, strings.Repeat(" ", l.colWidth))
			}
		}
		rows = append(rows, strings.Join(parts, gap))
	}
	return strings.Join(rows, "\n")
}

func (m Model) columnLines(col model.Column, l layout) []string {
	titleText := truncate(fmt.Sprintf("%s (%d)", col.Title, len(col.CardIDs)), l.colWidth)
	ts := columnTitleStyle
	if m.previewOK && m.preview.Kind == hittest.TargetColumn && m.preview.ID == col.ID {
		ts = columnDropStyle
	}

	lines := []string{ts.Render(titleText)}
	for _, cardID := range col.CardIDs {
		lines = append(lines, m.cardLines(cardID, l.colWidth)...)
		if len(lines) >= l.bodyHeight {
			break
		}
	}
	if len(col.CardIDs) == 0 {
		lines = append(lines, " "+mutedStyle.Render("(empty)"))
	}
	if len(lines) > l.bodyHeight {
		lines = lines[:l.bodyHeight]
	}
	return lines
}

func (m Model) cardLines(cardID string, width int) []string {
	card, ok := m.board.Cards[cardID]
	if !ok {
		return nil
	}
	inner := width - 2 // border columns

	st := cardStyle
	selected, _ := m.selectedCardID()
	active, _ := m.sess.ActiveCard()
	switch {
	case m.sess.Dragging() && active == cardID:
		st = cardDraggedStyle
	case m.previewOK && m.preview.Kind == hittest.TargetCard && m.preview.ID == cardID:
		st = cardDropStyle
	case cardID == selected:
		st = cardSelectedStyle
	}

	title := truncate(card.Title, inner)
	meta := metaLine(card, inner)
	return strings.Split(st.Width(inner).Render(title+"\n"+meta), "\n")
}

func metaLine(card model.Card, width int) string {
	var parts []string
	if card.Priority != model.PriorityNone {
		parts = append(parts, priorityMark(card.Priority))
	}
	if card.DueDate != "" {
		parts = append(parts, "due "+card.DueDate)
	}
	if n := len(card.Labels); n > 0 {
		parts = append(parts, fmt.Sprintf("%d labels", n))
	}
	if len(parts) == 0 {
		return mutedStyle.Render(truncate(card.Details, width))
	}
	line := truncate(strings.Join(parts, "  "), width)
	switch card.Priority {
	case model.PriorityHigh:
		return priorityHighStyle.Render(line)
	case model.PriorityMedium:
		return priorityMediumStyle.Render(line)
	case model.PriorityLow:
		return priorityLowStyle.Render(line)
	default:
		return mutedStyle.Render(line)
	}
}

func priorityMark(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!!!"
	case model.PriorityMedium:
		return "!!"
	default:
		return "!"
	}
}

func (m Model) chatView(l layout) string {
	w := chatPaneWidth
	wrap := lipgloss.NewStyle().Width(w)

	lines := []string{columnTitleStyle.Render(truncate("assistant", w))}
	for _, msg := range m.transcript.Messages() {
		prefix, st := "you: ", chatUserStyle
		if msg.Role == "assistant" {
			prefix, st = "ai: ", chatAssistantStyle
		}
		block := wrap.Render(st.Render(prefix) + msg.Content)
		lines = append(lines, strings.Split(block, "\n")...)
	}
	if m.chatBusy {
		lines = append(lines, mutedStyle.Render("thinking..."))
	}

	// Newest messages stay in view; the input line keeps the bottom row.
	max := l.bodyHeight - 1
	if max < 1 {
		max = 1
	}
	if len(lines) > max {
		lines = lines[len(lines)-max:]
	}
	for len(lines) < max {
		lines = append(lines, "")
	}
	lines = append(lines, m.chatInput.View())

	for i := range lines {
		lines[i] = padTo(lines[i], w)
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusView() string {
	switch m.mode {
	case modeAddTitle:
		return mutedStyle.Render("add card ") + m.ti.View()
	case modeAddDetails:
		return mutedStyle.Render("details ") + m.ti.View()
	case modeEditTitle:
		return mutedStyle.Render("edit title ") + m.ti.View()
	case modeEditDetails:
		return mutedStyle.Render("edit details ") + m.ti.View()
	case modeRenameColumn:
		return mutedStyle.Render("rename column ") + m.ti.View()
	case modeChat:
		return helpStyle.Render(truncate("enter send · esc back to board", m.width))
	}
	help := "←↑↓→ select · drag or H/L/J/K move · a add · e edit · d delete · r rename · p priority · c chat · q quit"
	return helpStyle.Render(truncate(help, m.width))
}

// truncate clips s to at most w cells, rune-aware.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return "…"
	}
	return string(r[:w-1]) + "…"
}

// padTo right-pads a possibly styled line to exactly w cells.
func padTo(s string, w int) string {
	if d := w - lipgloss.Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}
