package model

import "strings"

// MoveCard relocates sourceID to the position implied by targetID and returns
// the resulting column list. The inputs are never mutated.
//
// targetID may name another card (the moving card is inserted immediately
// before it, in whichever column owns it) or a column (the moving card is
// appended, used when dropping on empty column space). Moving a card onto
// itself, or naming an unknown source or target, returns the input unchanged.
func MoveCard(columns []Column, sourceID, targetID string) []Column {
	if sourceID == targetID {
		return columns
	}

	out := cloneColumns(columns)

	// Remove the source first so a same-column insert index needs no shift
	// correction.
	removed := false
	for i := range out {
		for j, id := range out[i].CardIDs {
			if id == sourceID {
				out[i].CardIDs = append(out[i].CardIDs[:j], out[i].CardIDs[j+1:]...)
				removed = true
				break
			}
		}
		if removed {
			break
		}
	}
	if !removed {
		return columns
	}

	for i := range out {
		if out[i].ID == targetID {
			out[i].CardIDs = append(out[i].CardIDs, sourceID)
			return out
		}
	}

	for i := range out {
		for j, id := range out[i].CardIDs {
			if id == targetID {
				ids := out[i].CardIDs
				ids = append(ids[:j], append([]string{sourceID}, ids[j:]...)...)
				out[i].CardIDs = ids
				return out
			}
		}
	}

	return columns
}

func cloneColumns(columns []Column) []Column {
	out := make([]Column, len(columns))
	for i, col := range columns {
		out[i] = Column{
			ID:      col.ID,
			Title:   col.Title,
			CardIDs: append([]string(nil), col.CardIDs...),
		}
	}
	return out
}

// AddCard appends card to the named column. An empty Details field is filled
// with the placeholder text. Unknown column ids, or a card id already on the
// board, leave the board unchanged: a second membership for an existing id
// would corrupt the column bookkeeping.
func AddCard(b Board, columnID string, card Card) Board {
	if _, ok := b.Cards[card.ID]; ok {
		return b
	}
	found := false
	for _, col := range b.Columns {
		if col.ID == columnID {
			found = true
			break
		}
	}
	if !found {
		return b
	}
	if strings.TrimSpace(card.Details) == "" {
		card.Details = PlaceholderDetails
	}
	out := b.Clone()
	out.Cards[card.ID] = card
	for i := range out.Columns {
		if out.Columns[i].ID == columnID {
			out.Columns[i].CardIDs = append(out.Columns[i].CardIDs, card.ID)
		}
	}
	return out
}

// DeleteCard removes the card from the lookup table and from whichever column
// holds it. Unknown ids leave the board unchanged.
func DeleteCard(b Board, cardID string) Board {
	if _, ok := b.Cards[cardID]; !ok {
		return b
	}
	out := b.Clone()
	delete(out.Cards, cardID)
	for i := range out.Columns {
		ids := out.Columns[i].CardIDs
		for j, id := range ids {
			if id == cardID {
				out.Columns[i].CardIDs = append(ids[:j], ids[j+1:]...)
				break
			}
		}
	}
	return out
}

// UpdateCard rewrites a card's title and details. An empty title keeps the
// prior title; empty details fall back to the placeholder. Unknown ids leave
// the board unchanged.
func UpdateCard(b Board, cardID, title, details string) Board {
	card, ok := b.Cards[cardID]
	if !ok {
		return b
	}
	title = strings.TrimSpace(title)
	details = strings.TrimSpace(details)
	if title != "" {
		card.Title = title
	}
	if details == "" {
		details = PlaceholderDetails
	}
	card.Details = details
	out := b.Clone()
	out.Cards[cardID] = card
	return out
}

// RenameColumn sets a column's title. Unknown ids leave the board unchanged.
func RenameColumn(b Board, columnID, title string) Board {
	found := false
	for _, col := range b.Columns {
		if col.ID == columnID {
			found = true
			break
		}
	}
	if !found {
		return b
	}
	out := b.Clone()
	for i := range out.Columns {
		if out.Columns[i].ID == columnID {
			out.Columns[i].Title = title
		}
	}
	return out
}

// AddLabel attaches a label to a card, enforcing the per-card cap.
func AddLabel(b Board, cardID string, label Label) (Board, error) {
	card, ok := b.Cards[cardID]
	if !ok {
		return b, ErrNotFound
	}
	if len(card.Labels) >= MaxLabels {
		return b, ErrTooManyLabels
	}
	out := b.Clone()
	card = out.Cards[cardID]
	card.Labels = append(card.Labels, label)
	out.Cards[cardID] = card
	return out, nil
}

// RemoveLabel detaches a label by id. Unknown card or label ids leave the
// board unchanged.
func RemoveLabel(b Board, cardID, labelID string) Board {
	card, ok := b.Cards[cardID]
	if !ok {
		return b
	}
	idx := -1
	for i, l := range card.Labels {
		if l.ID == labelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return b
	}
	out := b.Clone()
	card = out.Cards[cardID]
	card.Labels = append(card.Labels[:idx], card.Labels[idx+1:]...)
	out.Cards[cardID] = card
	return out
}

// SetPriority updates a card's priority. Invalid values and unknown ids leave
// the board unchanged.
func SetPriority(b Board, cardID string, p Priority) Board {
	card, ok := b.Cards[cardID]
	if !ok || !p.Valid() {
		return b
	}
	out := b.Clone()
	card = out.Cards[cardID]
	card.Priority = p
	out.Cards[cardID] = card
	return out
}

// SetDueDate updates a card's due date (YYYY-MM-DD, empty clears it).
func SetDueDate(b Board, cardID, date string) Board {
	card, ok := b.Cards[cardID]
	if !ok {
		return b
	}
	out := b.Clone()
	card = out.Cards[cardID]
	card.DueDate = date
	out.Cards[cardID] = card
	return out
}
