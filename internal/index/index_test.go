// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/finiq-ai/finiq-tui/internal/model"
)

// writeHistoryFile writes a user's session array the way the history
// package persists it.
func writeHistoryFile(t *testing.T, dir, userID string, sessions []*model.Session) {
	t.Helper()
	data, err := json.Marshal(sessions)
	if err != nil {
		t.Fatalf("marshal sessions: %v", err)
	}
	path := filepath.Join(dir, "chat-history-"+userID+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write history file: %v", err)
	}
}

func testSession(id, title, content string) *model.Session {
	now := time.Now()
	return &model.Session{
		ID:    id,
		Title: title,
		Messages: []model.Message{
			{Role: model.RoleUser, Content: content, Timestamp: now},
			{Role: model.RoleAssistant, Content: "Here is an explanation.", Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newTestIndex creates an index over a fresh history dir with watching
// disabled so tests stay deterministic.
func newTestIndex(t *testing.T) (*HistoryIndex, string) {
	t.Helper()
	base := t.TempDir()
	dir := filepath.Join(base, "history")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir history: %v", err)
	}

	cfg := DefaultConfig(dir)
	cfg.EnableWatch = false

	idx, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx, dir
}

func TestNewRejectsBadPath(t *testing.T) {
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "does-not-exist"))
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestIndexAndStats(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeHistoryFile(t, dir, "alice", []*model.Session{
		testSession("s1", "Emergency funds", "What is an emergency fund?"),
		testSession("s2", "Index funds", "How do index funds track the market?"),
	})
	writeHistoryFile(t, dir, "bob", []*model.Session{
		testSession("s3", "Budgeting", "Help me build a monthly budget."),
	})
	// Unrelated files in the directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0600); err != nil {
		t.Fatal(err)
	}

	if idx.IsIndexed() {
		t.Fatal("fresh index should not report indexed")
	}

	if err := idx.Index(context.Background()); err != nil {
		t.Fatalf("Index: %v", err)
	}

	stats := idx.Stats()
	if stats.SessionCount != 3 {
		t.Errorf("SessionCount = %d, want 3", stats.SessionCount)
	}
	if stats.UserCount != 2 {
		t.Errorf("UserCount = %d, want 2", stats.UserCount)
	}
	if !idx.IsIndexed() {
		t.Error("index should report indexed after Index")
	}
}

func TestSearch(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeHistoryFile(t, dir, "alice", []*model.Session{
		testSession("s1", "Emergency funds", "How big should my emergency fund be?"),
		testSession("s2", "Diversification", "Why does diversification reduce risk?"),
	})
	writeHistoryFile(t, dir, "bob", []*model.Session{
		testSession("s3", "Emergency planning", "Where should I keep an emergency fund?"),
	})

	if _, err := idx.Search("emergency", nil); err != ErrNotIndexed {
		t.Fatalf("Search before Index: err = %v, want ErrNotIndexed", err)
	}

	if err := idx.Index(context.Background()); err != nil {
		t.Fatalf("Index: %v", err)
	}

	results, err := idx.Search("emergency", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.SessionID != "s1" && r.SessionID != "s3" {
			t.Errorf("unexpected result %q", r.SessionID)
		}
		if r.Snippet == "" {
			t.Errorf("result %q missing snippet", r.SessionID)
		}
	}

	// Per-user filter
	results, err = idx.Search("emergency", &SearchOptions{UserID: "alice"})
	if err != nil {
		t.Fatalf("Search with user filter: %v", err)
	}
	if len(results) != 1 || results[0].SessionID != "s1" {
		t.Fatalf("user filter: got %+v, want only s1", results)
	}

	results, err = idx.Search("diversification", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].SessionID != "s2" {
		t.Fatalf("got %+v, want only s2", results)
	}

	// No matches
	results, err = idx.Search("cryptozoology", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want 0", len(results))
	}

	// Empty query
	results, err = idx.Search("   ", nil)
	if err != nil || results != nil {
		t.Fatalf("empty query: results=%v err=%v, want nil/nil", results, err)
	}
}

func TestSearchQuotesSpecialCharacters(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeHistoryFile(t, dir, "alice", []*model.Session{
		testSession("s1", "Ratios", "What is a price-to-earnings ratio?"),
	})
	if err := idx.Index(context.Background()); err != nil {
		t.Fatalf("Index: %v", err)
	}

	// FTS5 operators in user input must not cause syntax errors.
	for _, q := range []string{`price-to-earnings`, `"ratio`, `AND OR NOT`, `ratio*`} {
		if _, err := idx.Search(q, nil); err != nil {
			t.Errorf("Search(%q) returned error: %v", q, err)
		}
	}
}

func TestReindexAfterChange(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeHistoryFile(t, dir, "alice", []*model.Session{
		testSession("s1", "Old title", "Tell me about bonds."),
	})
	if err := idx.Index(context.Background()); err != nil {
		t.Fatalf("Index: %v", err)
	}

	// Rewrite the file and apply an incremental update.
	path := filepath.Join(dir, "chat-history-alice.json")
	writeHistoryFile(t, dir, "alice", []*model.Session{
		testSession("s1", "Old title", "Tell me about bonds."),
		testSession("s2", "Stocks", "How do dividends work?"),
	})
	idx.handleFileChange(path)

	results, err := idx.Search("dividends", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].SessionID != "s2" {
		t.Fatalf("got %+v, want only s2", results)
	}

	if got := idx.Stats().SessionCount; got != 2 {
		t.Errorf("SessionCount = %d, want 2", got)
	}

	// Removing the file drops the user's sessions.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	idx.handleFileChange(path)

	results, err = idx.Search("bonds", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results after removal, want 0", len(results))
	}
}

func TestIndexSkipsCorruptFile(t *testing.T) {
	idx, dir := newTestIndex(t)

	writeHistoryFile(t, dir, "alice", []*model.Session{
		testSession("s1", "Savings", "What is a high-yield savings account?"),
	})
	path := filepath.Join(dir, "chat-history-bob.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := idx.Index(context.Background()); err != nil {
		t.Fatalf("Index: %v", err)
	}

	stats := idx.Stats()
	if stats.SessionCount != 1 || stats.UserCount != 1 {
		t.Errorf("stats = %+v, want 1 session from 1 user", stats)
	}
}

func TestStatsSurviveReopen(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "history")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeHistoryFile(t, dir, "alice", []*model.Session{
		testSession("s1", "Savings", "What is compound interest?"),
	})

	cfg := DefaultConfig(dir)
	cfg.EnableWatch = false

	idx, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.Index(context.Background()); err != nil {
		t.Fatalf("Index: %v", err)
	}
	idx.Close()

	idx2, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx2.Close()

	if !idx2.IsIndexed() {
		t.Error("reopened index should report indexed")
	}
	if got := idx2.Stats().SessionCount; got != 1 {
		t.Errorf("SessionCount = %d, want 1", got)
	}

	results, err := idx2.Search("compound", nil)
	if err != nil {
		t.Fatalf("Search after reopen: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestUserIDFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		wantID string
		wantOK bool
	}{
		{"chat-history-alice.json", "alice", true},
		{"chat-history-user_abc123.json", "user_abc123", true},
		{"chat-history-.json", "", false},
		{"chat-history-alice.txt", "", false},
		{"config.toml", "", false},
		{"notes.json", "", false},
	}

	for _, tt := range tests {
		id, ok := userIDFromFilename(tt.name)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("userIDFromFilename(%q) = (%q, %v), want (%q, %v)",
				tt.name, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestBuildFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"emergency", `"emergency"`},
		{"emergency fund", `"emergency" "fund"`},
		{`say "hi"`, `"say" """hi"""`},
	}

	for _, tt := range tests {
		if got := buildFTSQuery(tt.in); got != tt.want {
			t.Errorf("buildFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
