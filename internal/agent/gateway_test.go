package agent

import (
	"reflect"
	"testing"

	"kanban-cli/internal/api"
	"kanban-cli/internal/model"
)

func TestApply_NoUpdateLeavesBoardUntouched(t *testing.T) {
	local := model.DefaultBoard()
	got, adopted, err := Apply(local, api.AgentResponse{
		AssistantResponse: "You can review high-priority cards first.",
		BoardUpdated:      false,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if adopted {
		t.Fatal("informational reply must not adopt")
	}
	if !reflect.DeepEqual(got, local) {
		t.Fatal("board changed on a no-op reply")
	}
}

func TestApply_UpdateReplacesWholesale(t *testing.T) {
	local := model.DefaultBoard()
	// Local edits made while the agent call was in flight are intentionally
	// discarded: last write wins.
	local = model.UpdateCard(local, "card-1", "edited locally", "x")

	snapshot := model.DefaultBoard()
	snapshot = model.UpdateCard(snapshot, "card-1", "edited by agent", "y")

	got, adopted, err := Apply(local, api.AgentResponse{
		AssistantResponse: "Updated card 1.",
		Board:             snapshot,
		BoardUpdated:      true,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !adopted {
		t.Fatal("expected adoption")
	}
	if !reflect.DeepEqual(got, snapshot) {
		t.Fatal("adopted board is not deep-equal to the snapshot")
	}
}

func TestApply_RejectsInvalidSnapshot(t *testing.T) {
	local := model.DefaultBoard()
	broken := model.Board{
		Columns: []model.Column{{ID: "col-a", Title: "A", CardIDs: []string{"card-ghost"}}},
		Cards:   map[string]model.Card{},
	}
	got, adopted, err := Apply(local, api.AgentResponse{
		AssistantResponse: "done",
		Board:             broken,
		BoardUpdated:      true,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if adopted {
		t.Fatal("broken snapshot must not be adopted")
	}
	if !reflect.DeepEqual(got, local) {
		t.Fatal("local board must survive a rejected snapshot")
	}
}

func TestTranscript_AppendAndCopy(t *testing.T) {
	var tr Transcript
	tr.Append("user", "hello")
	tr.Append("assistant", "hi")
	msgs := tr.Messages()
	if len(msgs) != 2 || msgs[0].Role != "user" || msgs[1].Content != "hi" {
		t.Fatalf("unexpected transcript %+v", msgs)
	}
	msgs[0].Content = "mutated"
	if tr.Messages()[0].Content != "hello" {
		t.Fatal("Messages must return a copy")
	}
}
