// Package api is the HTTP/JSON boundary to the board backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"kanban-cli/internal/model"
)

var (
	// ErrUnauthorized maps a 401 from any call; re-authentication is the
	// caller's concern (`kanban login`).
	ErrUnauthorized = errors.New("api: session expired")
	// ErrInvalidResponse marks a 2xx whose payload fails decoding or the
	// board invariant. Such payloads are rejected before they can reach
	// local state.
	ErrInvalidResponse = errors.New("api: invalid response shape")
)

// RemoteError is a completed request the server rejected (non-2xx, not 401).
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("api: server returned %d: %s", e.StatusCode, e.Body)
}

// ChatMessage is one transcript entry sent with an agent call.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type agentRequest struct {
	Question            string        `json:"question"`
	ConversationHistory []ChatMessage `json:"conversation_history"`
	Board               model.Board   `json:"board"`
}

// AgentResponse is the agent's reply: a chat answer plus, when BoardUpdated
// is set, a full replacement board the backend has already persisted.
type AgentResponse struct {
	AssistantResponse string      `json:"assistant_response"`
	Board             model.Board `json:"board"`
	BoardUpdated      bool        `json:"board_updated"`
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// NewClient builds a client for baseURL. The token, when non-empty, rides on
// every request as the session cookie.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		Token:      token,
	}
}

// LoadBoard fetches the single-board document.
func (c *Client) LoadBoard(ctx context.Context) (model.Board, error) {
	var board model.Board
	if err := c.do(ctx, http.MethodGet, "/api/board", nil, &board); err != nil {
		return model.Board{}, err
	}
	if err := board.Validate(); err != nil {
		return model.Board{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return board, nil
}

// SaveBoard pushes the full board document. The response body is ignored;
// persistence is fire-and-forget from the caller's point of view.
func (c *Client) SaveBoard(ctx context.Context, board model.Board) error {
	return c.do(ctx, http.MethodPut, "/api/board", board, nil)
}

// BoardAction asks the agent to act on the board. The returned board (when
// BoardUpdated) is validated here so a malformed agent payload can never
// replace local state.
func (c *Client) BoardAction(ctx context.Context, question string, history []ChatMessage, board model.Board) (AgentResponse, error) {
	if history == nil {
		history = []ChatMessage{}
	}
	req := agentRequest{Question: question, ConversationHistory: history, Board: board}
	var resp AgentResponse
	if err := c.do(ctx, http.MethodPost, "/api/ai/board-action", req, &resp); err != nil {
		return AgentResponse{}, err
	}
	if resp.AssistantResponse == "" {
		return AgentResponse{}, fmt.Errorf("%w: missing assistant_response", ErrInvalidResponse)
	}
	if resp.BoardUpdated {
		if err := resp.Board.Validate(); err != nil {
			return AgentResponse{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return resp, nil
}

// ListBoards returns the multi-board summaries.
func (c *Client) ListBoards(ctx context.Context) ([]model.BoardSummary, error) {
	var out []model.BoardSummary
	if err := c.do(ctx, http.MethodGet, "/api/boards", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBoard(ctx context.Context, name string) (model.BoardDetail, error) {
	var out model.BoardDetail
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/boards", body, &out); err != nil {
		return model.BoardDetail{}, err
	}
	return out, nil
}

func (c *Client) FetchBoard(ctx context.Context, boardID string) (model.BoardDetail, error) {
	var out model.BoardDetail
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+boardID, nil, &out); err != nil {
		return model.BoardDetail{}, err
	}
	if err := out.Board.Validate(); err != nil {
		return model.BoardDetail{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return out, nil
}

// SaveBoardData pushes the nested board document of a named board.
func (c *Client) SaveBoardData(ctx context.Context, boardID string, board model.Board) error {
	return c.do(ctx, http.MethodPut, "/api/boards/"+boardID, board, nil)
}

func (c *Client) RenameBoard(ctx context.Context, boardID, name string) error {
	return c.do(ctx, http.MethodPatch, "/api/boards/"+boardID, map[string]string{"name": name}, nil)
}

func (c *Client) DeleteBoard(ctx context.Context, boardID string) error {
	return c.do(ctx, http.MethodDelete, "/api/boards/"+boardID, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: c.Token})
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
