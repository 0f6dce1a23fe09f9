package tui

import "kanban-cli/internal/hittest"

// The view and the droppable-region registry share this layout math; if the
// two ever disagree, drops land somewhere other than where the user sees the
// preview.
const (
	headerRows      = 1
	columnTitleRows = 1
	cardHeight      = 4 // border + title + meta + border
	columnGap       = 1
	statusRows      = 1
	chatPaneWidth   = 42
	minColumnWidth  = 16
)

type layout struct {
	top        int // first row of the columns block
	colWidth   int
	bodyHeight int
	boardWidth int
}

func (m Model) layout() layout {
	top := headerRows
	if m.banner != "" {
		top++
	}
	boardWidth := m.width
	if m.chatOpen {
		boardWidth -= chatPaneWidth + 1
	}
	n := len(m.board.Columns)
	if n == 0 {
		n = 1
	}
	colWidth := (boardWidth - (n-1)*columnGap) / n
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	bodyHeight := m.height - top - statusRows
	if bodyHeight < cardHeight {
		bodyHeight = cardHeight
	}
	return layout{top: top, colWidth: colWidth, bodyHeight: bodyHeight, boardWidth: boardWidth}
}

func (m Model) columnX(i int) int {
	l := m.layout()
	return i * (l.colWidth + columnGap)
}

// regions returns every droppable rectangle at the current layout: one per
// card plus one per column (the column rect spans its full body so dropping
// on empty space below the cards resolves to the column).
func (m Model) regions() []hittest.Region {
	l := m.layout()
	out := make([]hittest.Region, 0, len(m.board.Cards)+len(m.board.Columns))
	for i, col := range m.board.Columns {
		x := m.columnX(i)
		out = append(out, hittest.Region{
			Target: hittest.Target{Kind: hittest.TargetColumn, ID: col.ID},
			Rect:   hittest.Rect{X: x, Y: l.top, W: l.colWidth, H: l.bodyHeight},
		})
		y := l.top + columnTitleRows
		for _, cardID := range col.CardIDs {
			out = append(out, hittest.Region{
				Target: hittest.Target{Kind: hittest.TargetCard, ID: cardID},
				Rect:   hittest.Rect{X: x, Y: y, W: l.colWidth, H: cardHeight},
			})
			y += cardHeight
		}
	}
	return out
}
