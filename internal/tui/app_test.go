package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"kanban-cli/internal/api"
	"kanban-cli/internal/hittest"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store/cache"
)

func newTestModel() Model {
	m := New(Options{})
	m.loaded = true
	m.width, m.height = 140, 40
	return m
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func cardRegion(t *testing.T, m Model, id string) hittest.Rect {
	t.Helper()
	for _, r := range m.regions() {
		if r.Target.Kind == hittest.TargetCard && r.Target.ID == id {
			return r.Rect
		}
	}
	t.Fatalf("no region for card %s", id)
	return hittest.Rect{}
}

func center(r hittest.Rect) hittest.Point {
	return hittest.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func mouse(action tea.MouseAction, p hittest.Point) tea.MouseMsg {
	return tea.MouseMsg{X: p.X, Y: p.Y, Action: action, Button: tea.MouseButtonLeft}
}

func TestRegionsMatchLayout(t *testing.T) {
	m := newTestModel()
	l := m.layout()

	if l.top != headerRows {
		t.Fatalf("top=%d want %d", l.top, headerRows)
	}

	first := cardRegion(t, m, "card-1")
	if first.X != 0 || first.Y != l.top+columnTitleRows {
		t.Fatalf("card-1 rect at (%d,%d), want (0,%d)", first.X, first.Y, l.top+columnTitleRows)
	}
	second := cardRegion(t, m, "card-2")
	if second.Y != first.Y+cardHeight {
		t.Fatalf("card-2 Y=%d, want %d", second.Y, first.Y+cardHeight)
	}
	if second.X != first.X {
		t.Fatalf("cards in one column differ in X: %d vs %d", first.X, second.X)
	}

	// Second column starts one gap past the first.
	third := cardRegion(t, m, "card-3")
	if third.X != l.colWidth+columnGap {
		t.Fatalf("card-3 X=%d, want %d", third.X, l.colWidth+columnGap)
	}
}

func TestBannerShiftsBoardDown(t *testing.T) {
	m := newTestModel()
	base := cardRegion(t, m, "card-1")

	m.banner = "offline"
	shifted := cardRegion(t, m, "card-1")
	if shifted.Y != base.Y+1 {
		t.Fatalf("banner should push cards down one row: got Y=%d want %d", shifted.Y, base.Y+1)
	}
}

func TestChatPaneShrinksBoard(t *testing.T) {
	m := newTestModel()
	wide := m.layout().boardWidth

	m.chatOpen = true
	narrow := m.layout().boardWidth
	if narrow != wide-chatPaneWidth-1 {
		t.Fatalf("boardWidth with chat open = %d, want %d", narrow, wide-chatPaneWidth-1)
	}
}

func TestMouseDragMovesCard(t *testing.T) {
	m := newTestModel()
	from := center(cardRegion(t, m, "card-1"))
	to := center(cardRegion(t, m, "card-4"))

	m = step(t, m, mouse(tea.MouseActionPress, from))
	m = step(t, m, mouse(tea.MouseActionMotion, to))
	if !m.previewOK || m.preview.ID != "card-4" {
		t.Fatalf("preview = %+v ok=%v, want card-4", m.preview, m.previewOK)
	}
	m = step(t, m, mouse(tea.MouseActionRelease, to))

	progress := m.board.Columns[2]
	want := []string{"card-1", "card-4", "card-5"}
	if strings.Join(progress.CardIDs, ",") != strings.Join(want, ",") {
		t.Fatalf("In Progress after drop = %v, want %v", progress.CardIDs, want)
	}
	if len(m.board.Columns[0].CardIDs) != 1 {
		t.Fatalf("Backlog still holds %v", m.board.Columns[0].CardIDs)
	}
	if m.previewOK {
		t.Fatal("preview should clear after release")
	}
}

func TestClickSelectsWithoutMoving(t *testing.T) {
	m := newTestModel()
	at := center(cardRegion(t, m, "card-5"))

	m = step(t, m, mouse(tea.MouseActionPress, at))
	m = step(t, m, mouse(tea.MouseActionRelease, at))

	if got, _ := m.selectedCardID(); got != "card-5" {
		t.Fatalf("selected=%q, want card-5", got)
	}
	if got := m.board.Columns[2].CardIDs; strings.Join(got, ",") != "card-4,card-5" {
		t.Fatalf("click must not reorder: got %v", got)
	}
}

func TestSmallMotionDoesNotStartDrag(t *testing.T) {
	m := newTestModel()
	at := center(cardRegion(t, m, "card-1"))

	m = step(t, m, mouse(tea.MouseActionPress, at))
	m = step(t, m, mouse(tea.MouseActionMotion, hittest.Point{X: at.X + 1, Y: at.Y}))
	if m.previewOK {
		t.Fatal("one-cell jitter should not arm a preview")
	}
}

func TestKeyboardMoveAcrossColumns(t *testing.T) {
	m := newTestModel()
	// Cursor starts on card-1 in Backlog.
	m = step(t, m, keyRunes("L"))

	if got := m.board.Columns[1].CardIDs; strings.Join(got, ",") != "card-3,card-1" {
		t.Fatalf("Discovery after move = %v, want [card-3 card-1]", got)
	}
	if got, _ := m.selectedCardID(); got != "card-1" {
		t.Fatalf("cursor should follow the moved card, selected=%q", got)
	}
}

func TestKeyboardReorderWithinColumn(t *testing.T) {
	m := newTestModel()
	m = step(t, m, keyRunes("J"))
	if got := m.board.Columns[0].CardIDs; strings.Join(got, ",") != "card-2,card-1" {
		t.Fatalf("Backlog after J = %v, want [card-2 card-1]", got)
	}
	m = step(t, m, keyRunes("K"))
	if got := m.board.Columns[0].CardIDs; strings.Join(got, ",") != "card-1,card-2" {
		t.Fatalf("Backlog after K = %v, want [card-1 card-2]", got)
	}
}

func TestAddCardFlow(t *testing.T) {
	m := newTestModel()
	m = step(t, m, keyRunes("a"))
	if m.mode != modeAddTitle {
		t.Fatalf("mode=%v, want add-title prompt", m.mode)
	}
	m = step(t, m, keyRunes("Ship it"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeAddDetails {
		t.Fatalf("mode=%v, want details prompt", m.mode)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	ids := m.board.Columns[0].CardIDs
	if len(ids) != 3 {
		t.Fatalf("Backlog has %d cards, want 3", len(ids))
	}
	added := m.board.Cards[ids[2]]
	if added.Title != "Ship it" {
		t.Fatalf("title=%q", added.Title)
	}
	if added.Details != model.PlaceholderDetails {
		t.Fatalf("empty details should fall back to placeholder, got %q", added.Details)
	}
	if m.mode != modeNormal {
		t.Fatalf("mode=%v after commit", m.mode)
	}
}

func TestDeleteSelectedCard(t *testing.T) {
	m := newTestModel()
	m = step(t, m, keyRunes("d"))
	if _, ok := m.board.Cards["card-1"]; ok {
		t.Fatal("card-1 should be gone")
	}
	if got := m.board.Columns[0].CardIDs; strings.Join(got, ",") != "card-2" {
		t.Fatalf("Backlog=%v", got)
	}
}

func TestPriorityCycle(t *testing.T) {
	m := newTestModel()
	for i, want := range []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityNone} {
		m = step(t, m, keyRunes("p"))
		if got := m.board.Cards["card-1"].Priority; got != want {
			t.Fatalf("cycle %d: priority=%q, want %q", i, got, want)
		}
	}
}

func TestAgentResultAdoptsUpdatedBoard(t *testing.T) {
	old := cache.Dir
	cache.Dir = t.TempDir()
	defer func() { cache.Dir = old }()

	m := newTestModel()

	remote := m.board.Clone()
	remote.Columns = model.MoveCard(remote.Columns, "card-1", "col-done")
	m = step(t, m, agentResultMsg{
		question: "move it",
		resp:     api.AgentResponse{AssistantResponse: "Done.", Board: remote, BoardUpdated: true},
	})

	if got := m.board.Columns[4].CardIDs; strings.Join(got, ",") != "card-7,card-8,card-1" {
		t.Fatalf("Done column = %v, want card-1 appended", got)
	}
	msgs := m.transcript.Messages()
	if len(msgs) != 1 || msgs[0].Content != "Done." {
		t.Fatalf("transcript=%v", msgs)
	}
}

func TestAgentAdoptionRefreshesSnapshot(t *testing.T) {
	old := cache.Dir
	cache.Dir = t.TempDir()
	defer func() { cache.Dir = old }()

	m := newTestModel()
	remote := m.board.Clone()
	remote.Columns = model.MoveCard(remote.Columns, "card-2", "col-review")
	m = step(t, m, agentResultMsg{
		question: "move it",
		resp:     api.AgentResponse{AssistantResponse: "Done.", Board: remote, BoardUpdated: true},
	})

	cached, ok, err := cache.Load()
	if err != nil || !ok {
		t.Fatalf("snapshot after adoption: ok=%v err=%v", ok, err)
	}
	if col, found := cached.ColumnOf("card-2"); !found || col.ID != "col-review" {
		t.Fatalf("snapshot is older than the adopted board: card-2 in %q", col.ID)
	}
}

func TestAgentInformationalLeavesBoard(t *testing.T) {
	m := newTestModel()
	before := strings.Join(m.board.Columns[0].CardIDs, ",")

	m = step(t, m, agentResultMsg{
		question: "how many cards?",
		resp:     api.AgentResponse{AssistantResponse: "Eight.", BoardUpdated: false},
	})

	if got := strings.Join(m.board.Columns[0].CardIDs, ","); got != before {
		t.Fatalf("informational reply changed the board: %q -> %q", before, got)
	}
}

func TestStaleLoadShowsBanner(t *testing.T) {
	m := newTestModel()
	cached := model.DefaultBoard()
	cached.Columns[0].Title = "Cached"

	m = step(t, m, loadResultMsg{board: cached, err: errFake{}, stale: true})

	if !strings.Contains(m.banner, "cached") {
		t.Fatalf("banner=%q, want a cached-data notice", m.banner)
	}
	if m.board.Columns[0].Title != "Cached" {
		t.Fatal("stale snapshot should replace the default board")
	}
	m = step(t, m, keyRunes("b"))
	if m.banner != "" {
		t.Fatalf("banner should dismiss, got %q", m.banner)
	}
}

func TestViewShowsCardsAndPreview(t *testing.T) {
	m := newTestModel()
	out := m.View()
	for _, want := range []string{"Backlog (2)", "In Progress (2)", "Align roadmap themes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q", want)
		}
	}

	m.chatOpen = true
	m.transcript.Append("user", "hello board")
	out = m.View()
	if !strings.Contains(out, "hello board") {
		t.Fatal("chat pane should render transcript")
	}
}

type errFake struct{}

func (errFake) Error() string { return "boom" }
