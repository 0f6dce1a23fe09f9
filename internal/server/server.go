// Package server is the development backend: the HTTP/JSON interface the
// client expects, backed by sqlite, with a deterministic stand-in for the AI
// agent. It exists so the client runs end to end without the production
// backend.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"kanban-cli/internal/model"

	"github.com/gorilla/mux"
)

type Server struct {
	store *Store
}

func New(store *Store) *Server {
	return &Server{store: store}
}

// Router wires the board API.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/board", s.handleGetBoard).Methods("GET")
	r.HandleFunc("/api/board", s.handlePutBoard).Methods("PUT")
	r.HandleFunc("/api/boards", s.handleListBoards).Methods("GET")
	r.HandleFunc("/api/boards", s.handleCreateBoard).Methods("POST")
	r.HandleFunc("/api/boards/{id}", s.handleFetchBoard).Methods("GET")
	r.HandleFunc("/api/boards/{id}", s.handlePutBoardData).Methods("PUT")
	r.HandleFunc("/api/boards/{id}", s.handleRenameBoard).Methods("PATCH")
	r.HandleFunc("/api/boards/{id}", s.handleDeleteBoard).Methods("DELETE")
	r.HandleFunc("/api/ai/board-action", s.handleBoardAction).Methods("POST")
	return r
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("kanban dev server listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	log.Printf("[GET] /api/board")
	board, err := s.store.GetOrCreateBoard(singleBoardID, "Default")
	if err != nil {
		log.Printf("error loading board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load board")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handlePutBoard(w http.ResponseWriter, r *http.Request) {
	log.Printf("[PUT] /api/board")
	board, ok := decodeBoard(w, r)
	if !ok {
		return
	}
	// Seed the row if this is the first write.
	if _, err := s.store.GetOrCreateBoard(singleBoardID, "Default"); err != nil {
		log.Printf("error seeding board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store board")
		return
	}
	if err := s.store.UpdateBoard(singleBoardID, board); err != nil {
		log.Printf("error saving board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store board")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	log.Printf("[GET] /api/boards")
	boards, err := s.store.ListBoards()
	if err != nil {
		log.Printf("error listing boards: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list boards")
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	log.Printf("[POST] /api/boards")
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	detail, err := s.store.CreateBoard(body.Name)
	if err != nil {
		log.Printf("error creating board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create board")
		return
	}
	writeJSON(w, http.StatusCreated, detail)
}

func (s *Server) handleFetchBoard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[GET] /api/boards/%s", id)
	detail, err := s.store.FetchBoard(id)
	if err == errBoardNotFound {
		writeError(w, http.StatusNotFound, "board not found")
		return
	}
	if err != nil {
		log.Printf("error fetching board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load board")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handlePutBoardData(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[PUT] /api/boards/%s", id)
	board, ok := decodeBoard(w, r)
	if !ok {
		return
	}
	if err := s.store.UpdateBoard(id, board); err != nil {
		if err == errBoardNotFound {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		log.Printf("error saving board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store board")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleRenameBoard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[PATCH] /api/boards/%s", id)
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := s.store.RenameBoard(id, body.Name); err != nil {
		if err == errBoardNotFound {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		log.Printf("error renaming board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to rename board")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	log.Printf("[DELETE] /api/boards/%s", id)
	if err := s.store.DeleteBoard(id); err != nil {
		if err == errBoardNotFound {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		log.Printf("error deleting board: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete board")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeBoard parses and validates a board payload; a payload breaking the
// board invariant is rejected with 422 before it can reach the store.
func decodeBoard(w http.ResponseWriter, r *http.Request) (model.Board, bool) {
	var board model.Board
	if err := json.NewDecoder(r.Body).Decode(&board); err != nil {
		writeError(w, http.StatusBadRequest, "invalid board payload")
		return model.Board{}, false
	}
	if err := board.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return model.Board{}, false
	}
	return board, true
}
