// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/finiq-ai/finiq-tui/internal/model"
)

func newTestStore() (*Store, *MemoryKV) {
	kv := NewMemoryKV()
	return NewStore(kv, nil), kv
}

// =============================================================================
// ROUND-TRIP
// =============================================================================

func TestStore_SessionRoundTrip(t *testing.T) {
	store, kv := newTestStore()

	id := store.CreateSession("alice", "")
	m1 := model.NewUserMessage("What is diversification?")
	m2 := model.NewAssistantMessage("Spreading investments across instruments.")
	store.UpdateSession(id, []model.Message{m1, m2})

	sessions := store.LoadAll("alice")
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}

	got := sessions[0]
	if got.ID != id {
		t.Errorf("ID = %q, want %q", got.ID, id)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].ID != m1.ID || got.Messages[1].ID != m2.ID {
		t.Error("message order not preserved")
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Error("UpdatedAt must not precede CreatedAt")
	}

	// Simulate a process restart: fresh store over the same backing KV.
	// Date fields must come back as real times, not zero values.
	fresh := NewStore(kv, nil)
	reloaded := fresh.LoadAll("alice")
	if len(reloaded) != 1 {
		t.Fatalf("reloaded sessions = %d, want 1", len(reloaded))
	}
	if reloaded[0].CreatedAt.IsZero() || reloaded[0].UpdatedAt.IsZero() {
		t.Error("session dates not reconstituted")
	}
	if reloaded[0].Messages[0].Timestamp.IsZero() {
		t.Error("message timestamp not reconstituted")
	}
}

func TestStore_LoadAllEmpty(t *testing.T) {
	store, _ := newTestStore()

	if got := store.LoadAll("nobody"); len(got) != 0 {
		t.Errorf("expected empty list, got %d sessions", len(got))
	}
}

func TestStore_LoadAllOrdering(t *testing.T) {
	store, _ := newTestStore()

	first := store.CreateSession("alice", "first")
	second := store.CreateSession("alice", "second")
	third := store.CreateSession("alice", "third")

	// Touch the oldest so it becomes the most recently updated.
	time.Sleep(2 * time.Millisecond)
	store.UpdateSession(first, []model.Message{model.NewUserMessage("bump")})

	sessions := store.LoadAll("alice")
	if len(sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(sessions))
	}
	if sessions[0].ID != first {
		t.Errorf("most recently updated should be first, got %q", sessions[0].Title)
	}
	if sessions[1].ID != third || sessions[2].ID != second {
		t.Errorf("remaining order = [%s %s], want [third second]",
			sessions[1].Title, sessions[2].Title)
	}
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

func TestStore_TitleAutoDerivation(t *testing.T) {
	store, _ := newTestStore()

	id := store.CreateSession("alice", "")
	content := "What is an emergency fund and how big should it be?"
	store.UpdateSession(id, []model.Message{model.NewUserMessage(content)})

	sess, ok := store.LoadSession(id)
	if !ok {
		t.Fatal("session not found")
	}
	want := string([]rune(content)[:model.TitleMaxRunes]) + "..."
	if sess.Title != want {
		t.Errorf("Title = %q, want %q", sess.Title, want)
	}

	// A second update must not re-derive.
	store.UpdateSession(id, []model.Message{model.NewUserMessage("different content entirely")})
	sess, _ = store.LoadSession(id)
	if sess.Title != want {
		t.Errorf("title re-derived: %q", sess.Title)
	}
}

func TestStore_ExplicitTitleKept(t *testing.T) {
	store, _ := newTestStore()

	id := store.CreateSession("alice", "My savings plan")
	store.UpdateSession(id, []model.Message{model.NewUserMessage("hello")})

	sess, _ := store.LoadSession(id)
	if sess.Title != "My savings plan" {
		t.Errorf("explicit title overwritten: %q", sess.Title)
	}
}

// =============================================================================
// USER ISOLATION
// =============================================================================

func TestStore_UserIsolation(t *testing.T) {
	store, kv := newTestStore()

	store.CreateSession("alice", "")
	if got := store.LoadAll("bob"); len(got) != 0 {
		t.Errorf("bob sees %d of alice's sessions", len(got))
	}

	// Alice's data is still there for a fresh store.
	fresh := NewStore(kv, nil)
	if got := fresh.LoadAll("alice"); len(got) != 1 {
		t.Errorf("alice's sessions = %d, want 1", len(got))
	}

	// Keys are disjoint per user.
	if _, ok, _ := kv.Get("chat-history-alice"); !ok {
		t.Error("missing alice's entry")
	}
	if _, ok, _ := kv.Get("chat-history-bob"); ok {
		t.Error("unexpected entry for bob")
	}
}

// =============================================================================
// DELETE / CLEAR
// =============================================================================

func TestStore_DeleteSession(t *testing.T) {
	store, _ := newTestStore()

	keep := store.CreateSession("alice", "keep")
	drop := store.CreateSession("alice", "drop")

	store.DeleteSession(drop)

	sessions := store.LoadAll("alice")
	if len(sessions) != 1 || sessions[0].ID != keep {
		t.Fatalf("unexpected sessions after delete: %d", len(sessions))
	}

	// Unknown ID is a no-op.
	store.DeleteSession("session_missing")
	if got := len(store.LoadAll("alice")); got != 1 {
		t.Errorf("sessions = %d after no-op delete", got)
	}
}

func TestStore_DeleteCurrentClearsPointer(t *testing.T) {
	store, _ := newTestStore()

	id := store.CreateSession("alice", "")
	if store.CurrentID() != id {
		t.Fatalf("CurrentID = %q, want %q", store.CurrentID(), id)
	}

	store.DeleteSession(id)

	if store.CurrentID() != "" {
		t.Errorf("current pointer not cleared: %q", store.CurrentID())
	}
	if _, ok := store.CurrentSession(); ok {
		t.Error("CurrentSession should report none")
	}

	// With no current session, an update against the dead ID is a no-op.
	store.UpdateSession(id, []model.Message{model.NewUserMessage("ghost")})
	if got := len(store.LoadAll("alice")); got != 0 {
		t.Errorf("sessions = %d, want 0", got)
	}
}

func TestStore_ClearAll(t *testing.T) {
	store, kv := newTestStore()

	store.CreateSession("alice", "")
	store.ClearAll("alice")

	if got := len(store.LoadAll("alice")); got != 0 {
		t.Errorf("sessions = %d after clear", got)
	}
	if store.CurrentID() != "" {
		t.Error("current pointer survived clear")
	}
	if _, ok, _ := kv.Get("chat-history-alice"); ok {
		t.Error("persisted entry survived clear")
	}

	// Restart simulation also sees nothing.
	fresh := NewStore(kv, nil)
	if got := len(fresh.LoadAll("alice")); got != 0 {
		t.Errorf("sessions = %d after clear and restart", got)
	}
}

// =============================================================================
// LOOKUPS / SEARCH
// =============================================================================

func TestStore_LoadSessionMarksCurrent(t *testing.T) {
	store, _ := newTestStore()

	a := store.CreateSession("alice", "a")
	b := store.CreateSession("alice", "b")
	if store.CurrentID() != b {
		t.Fatalf("CurrentID = %q, want %q", store.CurrentID(), b)
	}

	if _, ok := store.LoadSession(a); !ok {
		t.Fatal("LoadSession failed for known ID")
	}
	if store.CurrentID() != a {
		t.Errorf("CurrentID = %q, want %q", store.CurrentID(), a)
	}

	if _, ok := store.LoadSession("session_missing"); ok {
		t.Error("LoadSession found an unknown ID")
	}
}

func TestStore_Search(t *testing.T) {
	store, _ := newTestStore()

	budget := store.CreateSession("alice", "")
	store.UpdateSession(budget, []model.Message{model.NewUserMessage("help me build a budget")})
	invest := store.CreateSession("alice", "")
	store.UpdateSession(invest, []model.Message{model.NewUserMessage("explain index funds")})

	hits := store.Search("BUDGET")
	if len(hits) != 1 || hits[0].ID != budget {
		t.Errorf("Search(BUDGET) hits = %d", len(hits))
	}

	if got := len(store.Search("")); got != 2 {
		t.Errorf("empty query hits = %d, want 2", got)
	}
	if got := len(store.Search("mortgage")); got != 0 {
		t.Errorf("no-hit query hits = %d, want 0", got)
	}
}

// =============================================================================
// FAILURE SEMANTICS
// =============================================================================

// failKV returns errors on every operation.
type failKV struct{}

func (failKV) Get(string) (string, bool, error) { return "", false, errors.New("read failed") }
func (failKV) Set(string, string) error         { return errors.New("write failed") }
func (failKV) Remove(string) error              { return errors.New("remove failed") }

func TestStore_FailingKVDegradesSoftly(t *testing.T) {
	store := NewStore(failKV{}, nil)

	// None of these may panic or surface an error.
	if got := store.LoadAll("alice"); len(got) != 0 {
		t.Errorf("LoadAll on failing KV = %d sessions", len(got))
	}
	id := store.CreateSession("alice", "")
	if id == "" {
		t.Error("CreateSession should still return an ID")
	}
	store.UpdateSession(id, []model.Message{model.NewUserMessage("hi")})
	store.DeleteSession(id)
	store.ClearAll("alice")
}

func TestStore_CorruptDataTreatedAsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set("chat-history-alice", "{not json[")

	store := NewStore(kv, nil)
	if got := store.LoadAll("alice"); len(got) != 0 {
		t.Errorf("corrupt entry produced %d sessions", len(got))
	}

	// The store recovers by writing a fresh list on the next mutation.
	store.CreateSession("alice", "")
	value, ok, _ := kv.Get("chat-history-alice")
	if !ok || !strings.HasPrefix(strings.TrimSpace(value), "[") {
		t.Errorf("entry not rewritten as a session array: %q", value)
	}
}

func TestStore_Reload(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, nil)
	id := store.CreateSession("alice", "mine")

	// Another process rewrites alice's entry behind our back.
	other := NewStore(kv, nil)
	other.LoadAll("alice")
	otherID := other.CreateSession("alice", "theirs")

	store.Reload()
	sessions := store.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("sessions after reload = %d, want 2", len(sessions))
	}
	if store.CurrentID() != id {
		t.Errorf("current pointer lost on reload: %q", store.CurrentID())
	}
	_ = otherID
}
