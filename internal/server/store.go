package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kanban-cli/internal/model"

	_ "modernc.org/sqlite"
)

// singleBoardID backs the single-board endpoints: /api/board reads and writes
// this row so both API variants share one store.
const singleBoardID = "board-default"

var errBoardNotFound = errors.New("server: board not found")

// Store persists boards as JSON documents in sqlite, one row per board.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	if path == "" {
		path = filepath.Join("data", "kanban.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS boards (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			board_json TEXT NOT NULL CHECK (json_valid(board_json)),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func now() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func parseTime(v string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, v)
	return t
}

// GetOrCreateBoard returns the board document for id, seeding a new row with
// the default board on first access.
func (s *Store) GetOrCreateBoard(id, name string) (model.Board, error) {
	var raw string
	err := s.db.QueryRow(`SELECT board_json FROM boards WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		board := model.DefaultBoard()
		if _, err := s.insert(id, name, board); err != nil {
			return model.Board{}, err
		}
		return board, nil
	}
	if err != nil {
		return model.Board{}, fmt.Errorf("select board: %w", err)
	}
	var board model.Board
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		return model.Board{}, fmt.Errorf("decode board: %w", err)
	}
	return board, nil
}

func (s *Store) insert(id, name string, board model.Board) (model.BoardSummary, error) {
	raw, err := json.Marshal(board)
	if err != nil {
		return model.BoardSummary{}, fmt.Errorf("encode board: %w", err)
	}
	ts := now()
	if _, err := s.db.Exec(
		`INSERT INTO boards (id, name, board_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, string(raw), ts, ts,
	); err != nil {
		return model.BoardSummary{}, fmt.Errorf("insert board: %w", err)
	}
	return model.BoardSummary{ID: id, Name: name, CreatedAt: parseTime(ts), UpdatedAt: parseTime(ts)}, nil
}

// UpdateBoard replaces the board document and bumps updated_at.
func (s *Store) UpdateBoard(id string, board model.Board) error {
	raw, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE boards SET board_json = ?, updated_at = ? WHERE id = ?`,
		string(raw), now(), id,
	)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errBoardNotFound
	}
	return nil
}

func (s *Store) ListBoards() ([]model.BoardSummary, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at, updated_at FROM boards ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()
	out := []model.BoardSummary{}
	for rows.Next() {
		var id, name, created, updated string
		if err := rows.Scan(&id, &name, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		out = append(out, model.BoardSummary{
			ID:        id,
			Name:      name,
			CreatedAt: parseTime(created),
			UpdatedAt: parseTime(updated),
		})
	}
	return out, rows.Err()
}

func (s *Store) CreateBoard(name string) (model.BoardDetail, error) {
	board := model.DefaultBoard()
	summary, err := s.insert(model.NewID("board"), name, board)
	if err != nil {
		return model.BoardDetail{}, err
	}
	return model.BoardDetail{BoardSummary: summary, Board: board}, nil
}

func (s *Store) FetchBoard(id string) (model.BoardDetail, error) {
	var name, raw, created, updated string
	err := s.db.QueryRow(
		`SELECT name, board_json, created_at, updated_at FROM boards WHERE id = ?`, id,
	).Scan(&name, &raw, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BoardDetail{}, errBoardNotFound
	}
	if err != nil {
		return model.BoardDetail{}, fmt.Errorf("select board: %w", err)
	}
	var board model.Board
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		return model.BoardDetail{}, fmt.Errorf("decode board: %w", err)
	}
	return model.BoardDetail{
		BoardSummary: model.BoardSummary{
			ID:        id,
			Name:      name,
			CreatedAt: parseTime(created),
			UpdatedAt: parseTime(updated),
		},
		Board: board,
	}, nil
}

func (s *Store) RenameBoard(id, name string) error {
	res, err := s.db.Exec(`UPDATE boards SET name = ?, updated_at = ? WHERE id = ?`, name, now(), id)
	if err != nil {
		return fmt.Errorf("rename board: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errBoardNotFound
	}
	return nil
}

func (s *Store) DeleteBoard(id string) error {
	res, err := s.db.Exec(`DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return errBoardNotFound
	}
	return nil
}
