// Package cache keeps a local JSON snapshot of the last board seen from the
// backend. It is a read-only stale fallback for the load path, not a write
// store: when the initial fetch fails, the TUI shows this snapshot behind a
// "showing cached data" banner instead of the built-in default.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"kanban-cli/internal/model"
)

const snapshotFileName = "board-cache.json"

// Dir overrides the snapshot location (tests); empty means ~/.kanban.
var Dir string

func snapshotPath() (string, error) {
	dir := Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home: %w", err)
		}
		dir = filepath.Join(home, ".kanban")
	}
	return filepath.Join(dir, snapshotFileName), nil
}

// Load reads the cached snapshot. A missing file reports ok=false, not an
// error. A snapshot that fails the board invariant is discarded.
func Load() (model.Board, bool, error) {
	p, err := snapshotPath()
	if err != nil {
		return model.Board{}, false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Board{}, false, nil
		}
		return model.Board{}, false, fmt.Errorf("read file: %w", err)
	}
	var board model.Board
	if err := json.Unmarshal(b, &board); err != nil {
		return model.Board{}, false, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := board.Validate(); err != nil {
		return model.Board{}, false, fmt.Errorf("stale snapshot rejected: %w", err)
	}
	return board, true, nil
}

// Save writes the snapshot. Called after every successful load and save so
// the fallback tracks the freshest durable state.
func Save(board model.Board) error {
	p, err := snapshotPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
