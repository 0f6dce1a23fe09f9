package model

import (
	"errors"
	"fmt"
	"time"
)

// MaxLabels caps the labels carried by a single card.
const MaxLabels = 10

// PlaceholderDetails is substituted when a card edit leaves details empty.
const PlaceholderDetails = "No details yet."

type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Label struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// Card is a single work item. Content lives here; placement lives in the
// owning column's CardIDs.
type Card struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Details string  `json:"details"`
	Labels  []Label `json:"labels,omitempty"`
	// DueDate is a calendar date (YYYY-MM-DD) or empty when unset.
	DueDate  string   `json:"dueDate,omitempty"`
	Priority Priority `json:"priority,omitempty"`
}

var (
	ErrTooManyLabels = errors.New("model: card has too many labels")
	ErrNotFound      = errors.New("model: not found")
)

func (c Card) Validate() error {
	if c.ID == "" {
		return errors.New("model: card id is empty")
	}
	if len(c.Labels) > MaxLabels {
		return fmt.Errorf("%w: %q has %d (max %d)", ErrTooManyLabels, c.ID, len(c.Labels), MaxLabels)
	}
	seen := make(map[string]bool, len(c.Labels))
	for _, l := range c.Labels {
		if l.ID == "" {
			return fmt.Errorf("model: card %q has a label with an empty id", c.ID)
		}
		if seen[l.ID] {
			return fmt.Errorf("model: card %q has duplicate label id %q", c.ID, l.ID)
		}
		seen[l.ID] = true
	}
	if !c.Priority.Valid() {
		return fmt.Errorf("model: card %q has unknown priority %q", c.ID, c.Priority)
	}
	if c.DueDate != "" {
		if _, err := time.Parse("2006-01-02", c.DueDate); err != nil {
			return fmt.Errorf("model: card %q has invalid due date %q", c.ID, c.DueDate)
		}
	}
	return nil
}

// Column names a workflow stage and carries the placement order of its cards.
// It owns membership and order only, never card content.
type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	CardIDs []string `json:"cardIds"`
}

// Board is the full tracking document: ordered columns plus a card lookup
// table. Every card appears in exactly one column's CardIDs.
type Board struct {
	Columns []Column        `json:"columns"`
	Cards   map[string]Card `json:"cards"`
}

// Validate checks the map/order double bookkeeping: every referenced id is a
// known card, no id appears twice, and no card is left out of every column.
func (b Board) Validate() error {
	seen := make(map[string]bool, len(b.Cards))
	for _, col := range b.Columns {
		for _, id := range col.CardIDs {
			if _, ok := b.Cards[id]; !ok {
				return fmt.Errorf("model: column %q references unknown card %q", col.ID, id)
			}
			if seen[id] {
				return fmt.Errorf("model: card %q appears in more than one position", id)
			}
			seen[id] = true
		}
	}
	for key, card := range b.Cards {
		if card.ID != key {
			return fmt.Errorf("model: card key %q does not match card id %q", key, card.ID)
		}
		if !seen[key] {
			return fmt.Errorf("model: card %q belongs to no column", key)
		}
		if err := card.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy. Transformations operate on copies so callers can
// treat a Board value as immutable.
func (b Board) Clone() Board {
	out := Board{
		Columns: make([]Column, len(b.Columns)),
		Cards:   make(map[string]Card, len(b.Cards)),
	}
	for i, col := range b.Columns {
		out.Columns[i] = Column{
			ID:      col.ID,
			Title:   col.Title,
			CardIDs: append([]string(nil), col.CardIDs...),
		}
	}
	for id, card := range b.Cards {
		card.Labels = append([]Label(nil), card.Labels...)
		out.Cards[id] = card
	}
	return out
}

// ColumnOf reports which column holds cardID.
func (b Board) ColumnOf(cardID string) (Column, bool) {
	for _, col := range b.Columns {
		for _, id := range col.CardIDs {
			if id == cardID {
				return col, true
			}
		}
	}
	return Column{}, false
}

// BoardSummary wraps a stored board with its lifecycle metadata.
type BoardSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BoardDetail struct {
	BoardSummary
	Board Board `json:"board_json"`
}
