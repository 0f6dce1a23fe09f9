// Package tui is the interactive board: columns and cards rendered with
// lipgloss, mouse-driven drag and drop, inline editing, and an AI assistant
// pane. All board mutations flow through apply so local state, rendering, and
// the persistence synchronizer stay in step.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"kanban-cli/internal/agent"
	"kanban-cli/internal/api"
	"kanban-cli/internal/drag"
	"kanban-cli/internal/hittest"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store/cache"
	"kanban-cli/internal/syncer"
)

type mode int

const (
	modeNormal mode = iota
	modeAddTitle
	modeAddDetails
	modeEditTitle
	modeEditDetails
	modeRenameColumn
	modeChat
)

type Model struct {
	client  *api.Client
	sync    *syncer.Syncer
	boardID string // empty: single-board endpoints

	board  model.Board
	loaded bool
	banner string

	width, height int

	// cursor: selected column and card row within it
	colCursor int
	rowCursor int

	mode mode
	ti   textinput.Model
	// pendingTitle carries step one of the two-step add/edit prompts.
	pendingTitle   string
	editCardID     string
	renameColumnID string

	sess      drag.Session
	preview   hittest.Target
	previewOK bool

	transcript agent.Transcript
	chatOpen   bool
	chatInput  textinput.Model
	chatBusy   bool
}

type Options struct {
	Client  *api.Client
	Syncer  *syncer.Syncer
	BoardID string
}

func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	ci := textinput.New()
	ci.Prompt = "? "
	ci.Placeholder = "Ask the assistant..."
	ci.CharLimit = 500

	return Model{
		client:    opts.Client,
		sync:      opts.Syncer,
		boardID:   opts.BoardID,
		board:     model.DefaultBoard(),
		width:     80,
		height:    24,
		ti:        ti,
		chatInput: ci,
	}
}

func (m Model) Init() tea.Cmd { return m.loadBoard }

type loadResultMsg struct {
	board model.Board
	err   error
	stale bool
}

type agentResultMsg struct {
	question string
	resp     api.AgentResponse
	err      error
}

// loadBoard fetches the authoritative board. On failure the local snapshot
// cache is tried so the banner can offer stale-but-usable data instead of the
// built-in default.
func (m Model) loadBoard() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var (
		board model.Board
		err   error
	)
	if m.boardID != "" {
		var detail model.BoardDetail
		detail, err = m.client.FetchBoard(ctx, m.boardID)
		board = detail.Board
	} else {
		board, err = m.client.LoadBoard(ctx)
	}
	if err == nil {
		_ = cache.Save(board)
		return loadResultMsg{board: board}
	}
	if cached, ok, cacheErr := cache.Load(); cacheErr == nil && ok {
		return loadResultMsg{board: cached, err: err, stale: true}
	}
	return loadResultMsg{err: err}
}

func (m Model) askAgent(question string) tea.Cmd {
	history := m.transcript.Messages()
	board := m.board.Clone()
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		resp, err := client.BoardAction(ctx, question, history, board)
		return agentResultMsg{question: question, resp: resp, err: err}
	}
}

// apply is the single entry point for user-originated board mutations:
// update local state, then hand the new value to the synchronizer. Discrete
// actions persist immediately; keystroke-level edits coalesce through the
// debounce window. Agent snapshots never come through here; they are already
// persisted upstream (see the agentResultMsg handler).
func (m *Model) apply(next model.Board, immediate bool) {
	m.board = next
	m.clampCursor()
	if m.sync == nil {
		return
	}
	if immediate {
		m.sync.Now(next)
	} else {
		m.sync.Debounce(next)
	}
}

func (m *Model) clampCursor() {
	if len(m.board.Columns) == 0 {
		m.colCursor, m.rowCursor = 0, 0
		return
	}
	if m.colCursor >= len(m.board.Columns) {
		m.colCursor = len(m.board.Columns) - 1
	}
	if m.colCursor < 0 {
		m.colCursor = 0
	}
	n := len(m.board.Columns[m.colCursor].CardIDs)
	if m.rowCursor >= n {
		m.rowCursor = n - 1
	}
	if m.rowCursor < 0 {
		m.rowCursor = 0
	}
}

func (m Model) selectedCardID() (string, bool) {
	if len(m.board.Columns) == 0 {
		return "", false
	}
	col := m.board.Columns[m.colCursor]
	if m.rowCursor < 0 || m.rowCursor >= len(col.CardIDs) {
		return "", false
	}
	return col.CardIDs[m.rowCursor], true
}

// selectCard moves the cursor onto cardID, if it is on the board.
func (m *Model) selectCard(cardID string) {
	for ci, col := range m.board.Columns {
		for ri, id := range col.CardIDs {
			if id == cardID {
				m.colCursor, m.rowCursor = ci, ri
				return
			}
		}
	}
}

func (m Model) regionAt(p hittest.Point) (hittest.Target, bool) {
	for _, r := range m.regions() {
		if r.Target.Kind == hittest.TargetCard && r.Rect.Contains(p) {
			return r.Target, true
		}
	}
	return hittest.Target{}, false
}
