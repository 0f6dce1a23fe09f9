package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"kanban-cli/internal/model"
)

type boardActionRequest struct {
	Question            string `json:"question"`
	ConversationHistory []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"conversation_history"`
	Board model.Board `json:"board"`
}

type boardActionResponse struct {
	AssistantResponse string      `json:"assistant_response"`
	Board             model.Board `json:"board"`
	BoardUpdated      bool        `json:"board_updated"`
}

// handleBoardAction is a deterministic stand-in for the real agent. It
// understands two phrasings:
//
//	add card <title> to <column>
//	move <card title> to <column>
//
// anything else gets an informational reply with board_updated=false. An
// updated board is persisted before it is returned, matching the production
// contract (the client adopts the snapshot without re-saving it).
func (s *Server) handleBoardAction(w http.ResponseWriter, r *http.Request) {
	log.Printf("[POST] /api/ai/board-action")
	var req boardActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := req.Board.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	reply, board, updated := runStubAgent(req.Question, req.Board)
	if updated {
		if _, err := s.store.GetOrCreateBoard(singleBoardID, "Default"); err == nil {
			if err := s.store.UpdateBoard(singleBoardID, board); err != nil {
				log.Printf("error persisting agent board: %v", err)
				writeError(w, http.StatusInternalServerError, "failed to store board")
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, boardActionResponse{
		AssistantResponse: reply,
		Board:             board,
		BoardUpdated:      updated,
	})
}

func runStubAgent(question string, board model.Board) (string, model.Board, bool) {
	q := strings.TrimSpace(question)
	lower := strings.ToLower(q)

	if strings.HasPrefix(lower, "add card ") {
		title, columnName, ok := splitOnLastTo(q[len("add card "):])
		if ok {
			if col, found := columnByTitle(board, columnName); found {
				card := model.Card{ID: model.NewID("card"), Title: title}
				next := model.AddCard(board, col.ID, card)
				return fmt.Sprintf("Added %q to %s.", title, col.Title), next, true
			}
			return fmt.Sprintf("I could not find a column named %q.", columnName), board, false
		}
	}

	if strings.HasPrefix(lower, "move ") {
		cardTitle, columnName, ok := splitOnLastTo(q[len("move "):])
		if ok {
			card, cardFound := cardByTitle(board, cardTitle)
			col, colFound := columnByTitle(board, columnName)
			if cardFound && colFound {
				next := board.Clone()
				next.Columns = model.MoveCard(next.Columns, card.ID, col.ID)
				return fmt.Sprintf("Moved %q to %s.", card.Title, col.Title), next, true
			}
			return "I could not match that card and column.", board, false
		}
	}

	cards := len(board.Cards)
	return fmt.Sprintf(
		"The board has %d columns and %d cards. Ask me to 'add card <title> to <column>' or 'move <card> to <column>'.",
		len(board.Columns), cards,
	), board, false
}

// splitOnLastTo splits "X to Y" on its last " to ", case-insensitively,
// preserving the original casing of both sides. Matching runs on s itself so
// runes whose lowercase form changes byte length cannot shift the split
// point. A window that cuts into a multibyte rune never folds equal to the
// ASCII separator.
func splitOnLastTo(s string) (string, string, bool) {
	const sep = " to "
	idx := -1
	for i := 0; i+len(sep) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			idx = i
		}
	}
	if idx < 0 {
		return "", "", false
	}
	left := strings.TrimSpace(s[:idx])
	right := strings.TrimSpace(s[idx+len(sep):])
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

func columnByTitle(board model.Board, title string) (model.Column, bool) {
	for _, col := range board.Columns {
		if strings.EqualFold(col.Title, title) {
			return col, true
		}
	}
	return model.Column{}, false
}

func cardByTitle(board model.Board, title string) (model.Card, bool) {
	for _, card := range board.Cards {
		if strings.EqualFold(card.Title, title) {
			return card, true
		}
	}
	return model.Card{}, false
}
