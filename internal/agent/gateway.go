// Package agent adopts board snapshots computed by the out-of-process AI
// agent and keeps the chat transcript sent along with each request.
package agent

import (
	"fmt"

	"kanban-cli/internal/api"
	"kanban-cli/internal/model"
)

// Transcript is the conversation history replayed to the agent on every call.
type Transcript struct {
	messages []api.ChatMessage
}

func (t *Transcript) Append(role, content string) {
	t.messages = append(t.messages, api.ChatMessage{Role: role, Content: content})
}

func (t *Transcript) Messages() []api.ChatMessage {
	return append([]api.ChatMessage(nil), t.messages...)
}

// Apply reconciles an agent response into local state. The returned board is
// the snapshot to adopt wholesale when adopted is true; when false the local
// board is untouched (the reply was informational only).
//
// The snapshot was already persisted by the backend before it reached us, so
// adoption must never go through the persistence synchronizer: no redundant
// write, no interference with a debounce timer armed for an unrelated edit.
func Apply(local model.Board, resp api.AgentResponse) (model.Board, bool, error) {
	if !resp.BoardUpdated {
		return local, false, nil
	}
	if err := resp.Board.Validate(); err != nil {
		return local, false, fmt.Errorf("agent: rejecting snapshot: %w", err)
	}
	return resp.Board.Clone(), true, nil
}
