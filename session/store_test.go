package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/martinemde/tinagent/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)

	messages := []llm.Message{
		llm.SystemMessage("sys"),
		llm.UserMessage("hello"),
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{
			{ID: "c1", Name: "bash", Args: map[string]any{"command": "ls"}},
		}},
		llm.ToolMessage("c1", "bash", "file.txt"),
	}

	id, err := store.Save("", "my session", messages)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated session id")
	}

	rec, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Title != "my session" {
		t.Errorf("unexpected title: %q", rec.Title)
	}
	if len(rec.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(rec.Messages))
	}
	asst := rec.Messages[2]
	if len(asst.ToolCalls) != 1 || asst.ToolCalls[0].ID != "c1" {
		t.Errorf("tool calls must survive persistence: %+v", asst)
	}
	if asst.ToolCalls[0].Args["command"] != "ls" {
		t.Errorf("tool args must survive persistence: %+v", asst.ToolCalls[0].Args)
	}
	if rec.Messages[3].ToolCallID != "c1" {
		t.Errorf("tool linkage must survive persistence: %+v", rec.Messages[3])
	}
}

func TestSaveUpserts(t *testing.T) {
	store := openTestStore(t)

	id, err := store.Save("", "first", []llm.Message{llm.SystemMessage("sys")})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, err = store.Save(id, "updated", []llm.Message{
		llm.SystemMessage("sys"),
		llm.UserMessage("more"),
	})
	if err != nil {
		t.Fatalf("Save (update): %v", err)
	}

	rec, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Title != "updated" || len(rec.Messages) != 2 {
		t.Errorf("expected updated record, got title=%q messages=%d", rec.Title, len(rec.Messages))
	}

	records, err := store.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("upsert must not duplicate rows, got %d", len(records))
	}
}

func TestLoadMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Load("does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	store := openTestStore(t)

	idA, _ := store.Save("", "a", []llm.Message{llm.SystemMessage("s")})
	idB, _ := store.Save("", "b", []llm.Message{llm.SystemMessage("s")})

	records, err := store.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	// List omits message payloads.
	if records[0].Messages != nil {
		t.Error("List must not load messages")
	}

	if err := store.Delete(idA); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load(idA); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := store.Load(idB); err != nil {
		t.Errorf("other sessions must survive delete: %v", err)
	}

	// Deleting a missing id is a no-op.
	if err := store.Delete("ghost"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
