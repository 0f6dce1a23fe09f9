package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"kanban-cli/internal/agent"
	"kanban-cli/internal/api"
	"kanban-cli/internal/hittest"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store/cache"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadResultMsg:
		return m.updateLoadResult(msg)

	case agentResultMsg:
		return m.updateAgentResult(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeChat:
			return m.updateChatKey(msg)
		case modeNormal:
			return m.updateNormalKey(msg)
		default:
			return m.updateInputKey(msg)
		}
	}
	return m, nil
}

func (m Model) updateLoadResult(msg loadResultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.board = msg.board
		m.loaded = true
		m.banner = ""
		m.clampCursor()
		return m, nil
	}
	if errors.Is(msg.err, api.ErrUnauthorized) {
		m.banner = "Session expired. Run `kanban login` and restart."
		return m, nil
	}
	if msg.stale {
		m.board = msg.board
		m.clampCursor()
		m.banner = "Could not load latest board; showing cached data. Press b to dismiss."
		return m, nil
	}
	// Keep the built-in default board; stay usable.
	m.banner = "Could not load latest board; showing defaults. Press b to dismiss."
	return m, nil
}

func (m Model) updateAgentResult(msg agentResultMsg) (tea.Model, tea.Cmd) {
	m.chatBusy = false
	if msg.err != nil {
		// Errors land in the transcript; the board is untouched.
		if errors.Is(msg.err, api.ErrInvalidResponse) {
			m.transcript.Append("assistant", "Sorry, I could not apply that change. Please try again.")
		} else {
			m.transcript.Append("assistant", "Error: "+msg.err.Error())
		}
		return m, nil
	}
	m.transcript.Append("assistant", msg.resp.AssistantResponse)

	next, adopted, err := agent.Apply(m.board, msg.resp)
	if err != nil {
		m.transcript.Append("assistant", "Sorry, that update looked malformed and was not applied.")
		return m, nil
	}
	if adopted {
		// Already durable server-side: adopt without touching the save path,
		// but keep the offline snapshot as fresh as what the user now sees.
		m.board = next
		m.clampCursor()
		_ = cache.Save(next)
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Drags stay live while the chat pane has key focus; text-entry prompts
	// suspend them.
	if m.mode != modeNormal && m.mode != modeChat {
		return m, nil
	}
	pt := hittest.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if target, ok := m.regionAt(pt); ok {
			m.selectCard(target.ID)
			m.sess.Press(target.ID, pt)
		}
		return m, nil

	case tea.MouseActionMotion:
		m.preview, m.previewOK = m.sess.Move(pt, m.regions())
		return m, nil

	case tea.MouseActionRelease:
		drop, ok := m.sess.Release(pt, m.regions())
		m.previewOK = false
		if !ok {
			return m, nil
		}
		next := m.board.Clone()
		next.Columns = model.MoveCard(next.Columns, drop.CardID, drop.Target.ID)
		m.apply(next, true)
		m.selectCard(drop.CardID)
		return m, nil
	}
	return m, nil
}

func (m Model) updateNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.sync != nil {
			// An edit made just before quitting must still land.
			_ = m.sync.Flush()
		}
		return m, tea.Quit

	case "esc":
		if m.sess.Dragging() {
			m.sess.Cancel()
			m.previewOK = false
		}
		return m, nil

	case "left", "h":
		m.colCursor--
		m.clampCursor()
		return m, nil
	case "right", "l":
		m.colCursor++
		m.clampCursor()
		return m, nil
	case "up", "k":
		m.rowCursor--
		m.clampCursor()
		return m, nil
	case "down", "j":
		m.rowCursor++
		m.clampCursor()
		return m, nil

	case "H", "shift+left":
		return m.moveSelectedToColumn(m.colCursor - 1)
	case "L", "shift+right":
		return m.moveSelectedToColumn(m.colCursor + 1)
	case "K", "shift+up":
		return m.moveSelectedWithinColumn(-1)
	case "J", "shift+down":
		return m.moveSelectedWithinColumn(+1)

	case "a":
		m.mode = modeAddTitle
		m.ti.SetValue("")
		m.ti.Placeholder = "Card title..."
		m.ti.Focus()
		return m, nil

	case "e":
		cardID, ok := m.selectedCardID()
		if !ok {
			return m, nil
		}
		m.mode = modeEditTitle
		m.editCardID = cardID
		m.ti.SetValue(m.board.Cards[cardID].Title)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Card title..."
		m.ti.Focus()
		return m, nil

	case "d":
		if cardID, ok := m.selectedCardID(); ok {
			m.apply(model.DeleteCard(m.board, cardID), true)
		}
		return m, nil

	case "r":
		if len(m.board.Columns) == 0 {
			return m, nil
		}
		col := m.board.Columns[m.colCursor]
		m.mode = modeRenameColumn
		m.renameColumnID = col.ID
		m.ti.SetValue(col.Title)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Column title..."
		m.ti.Focus()
		return m, nil

	case "p":
		if cardID, ok := m.selectedCardID(); ok {
			next := nextPriority(m.board.Cards[cardID].Priority)
			m.apply(model.SetPriority(m.board, cardID, next), true)
		}
		return m, nil

	case "c", "tab":
		m.chatOpen = !m.chatOpen
		if m.chatOpen {
			m.mode = modeChat
			m.chatInput.Focus()
		} else {
			m.mode = modeNormal
			m.chatInput.Blur()
		}
		return m, nil

	case "b":
		m.banner = ""
		return m, nil
	}
	return m, nil
}

func (m Model) moveSelectedToColumn(colIdx int) (tea.Model, tea.Cmd) {
	cardID, ok := m.selectedCardID()
	if !ok || colIdx < 0 || colIdx >= len(m.board.Columns) {
		return m, nil
	}
	next := m.board.Clone()
	next.Columns = model.MoveCard(next.Columns, cardID, m.board.Columns[colIdx].ID)
	m.apply(next, true)
	m.selectCard(cardID)
	return m, nil
}

func (m Model) moveSelectedWithinColumn(delta int) (tea.Model, tea.Cmd) {
	cardID, ok := m.selectedCardID()
	if !ok {
		return m, nil
	}
	ids := m.board.Columns[m.colCursor].CardIDs
	i := m.rowCursor

	// MoveCard inserts before its target, so moving down one slot targets the
	// card two below (or the column itself to land last).
	var targetID string
	switch {
	case delta < 0 && i > 0:
		targetID = ids[i-1]
	case delta > 0 && i < len(ids)-1:
		if i+2 < len(ids) {
			targetID = ids[i+2]
		} else {
			targetID = m.board.Columns[m.colCursor].ID
		}
	default:
		return m, nil
	}

	next := m.board.Clone()
	next.Columns = model.MoveCard(next.Columns, cardID, targetID)
	m.apply(next, true)
	m.selectCard(cardID)
	return m, nil
}

func (m Model) updateInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.exitInput()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.ti.Value())
		switch m.mode {
		case modeAddTitle:
			if value == "" {
				return m, nil
			}
			m.pendingTitle = value
			m.mode = modeAddDetails
			m.ti.SetValue("")
			m.ti.Placeholder = "Details (optional)..."
			return m, nil

		case modeAddDetails:
			if len(m.board.Columns) > 0 {
				card := model.Card{
					ID:      model.NewID("card"),
					Title:   m.pendingTitle,
					Details: value,
				}
				colID := m.board.Columns[m.colCursor].ID
				m.apply(model.AddCard(m.board, colID, card), true)
			}
			m.exitInput()
			return m, nil

		case modeEditTitle:
			m.pendingTitle = value
			m.mode = modeEditDetails
			details := m.board.Cards[m.editCardID].Details
			if details == model.PlaceholderDetails {
				details = ""
			}
			m.ti.SetValue(details)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Details..."
			return m, nil

		case modeEditDetails:
			m.apply(model.UpdateCard(m.board, m.editCardID, m.pendingTitle, value), true)
			m.exitInput()
			return m, nil

		case modeRenameColumn:
			// Every keystroke already applied through the debounce path.
			m.exitInput()
			return m, nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if m.mode == modeRenameColumn {
		// Live rename: coalesced by the synchronizer's debounce window.
		m.apply(model.RenameColumn(m.board, m.renameColumnID, m.ti.Value()), false)
	}
	return m, cmd
}

func (m *Model) exitInput() {
	m.mode = modeNormal
	m.ti.SetValue("")
	m.ti.Blur()
	m.pendingTitle = ""
	m.editCardID = ""
	m.renameColumnID = ""
}

func (m Model) updateChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.chatOpen = false
		m.mode = modeNormal
		m.chatInput.Blur()
		return m, nil

	case "ctrl+c":
		if m.sync != nil {
			_ = m.sync.Flush()
		}
		return m, tea.Quit

	case "enter":
		question := strings.TrimSpace(m.chatInput.Value())
		if question == "" || m.chatBusy {
			return m, nil
		}
		// History is the conversation before this question; the question
		// itself travels in its own field.
		cmd := m.askAgent(question)
		m.transcript.Append("user", question)
		m.chatBusy = true
		m.chatInput.SetValue("")
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func nextPriority(p model.Priority) model.Priority {
	switch p {
	case model.PriorityNone:
		return model.PriorityLow
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityNone
	}
}
