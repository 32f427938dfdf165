// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/finiq-ai/finiq-tui/internal/history"
	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/model"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/define liquidity", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/define liquidity", "/define"},
		{"/rename my savings plan", "/rename"},
		{"  /help  ", "/help"},
		{"hello", ""},
		{"/", "/"},
	}

	for _, tc := range tests {
		got := ExtractCommandName(tc.input)
		if got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/help", []string{"/help"}},
		{"/define liquidity", []string{"/define", "liquidity"}},
		{`/rename "my savings plan"`, []string{"/rename", "my savings plan"}},
		{`/rename 'my savings plan'`, []string{"/rename", "my savings plan"}},
		{"/config key value", []string{"/config", "key", "value"}},
		{`/define "asset allocation"`, []string{"/define", "asset allocation"}},
	}

	for _, tc := range tests {
		got := ParseArgs(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("ParseArgs(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ParseArgs(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

func TestParserParse(t *testing.T) {
	p := NewParser(NewRegistry())

	t.Run("not a command", func(t *testing.T) {
		result := p.Parse("what is an ETF?")
		if result.IsCommand {
			t.Error("plain text should not parse as a command")
		}
	})

	t.Run("known command with args", func(t *testing.T) {
		result := p.Parse("/define expense ratio")
		if !result.IsCommand {
			t.Fatal("expected IsCommand")
		}
		if result.Command == nil || result.Command.Name != "/define" {
			t.Fatalf("Command = %v, want /define", result.Command)
		}
		if len(result.Args) != 2 || result.Args[0] != "expense" || result.Args[1] != "ratio" {
			t.Errorf("Args = %v, want [expense ratio]", result.Args)
		}
		if result.RawArgs != "expense ratio" {
			t.Errorf("RawArgs = %q, want %q", result.RawArgs, "expense ratio")
		}
	})

	t.Run("alias resolves", func(t *testing.T) {
		result := p.Parse("/n")
		if result.Command == nil || result.Command.Name != "/new" {
			t.Errorf("alias /n should resolve to /new, got %v", result.Command)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		result := p.Parse("/nonsense")
		if !result.IsCommand {
			t.Error("unknown command is still a command")
		}
		if result.Command != nil {
			t.Errorf("Command = %v, want nil", result.Command)
		}
	})
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	defineCmd := r.Get("/define")
	if err := ValidateArgs(defineCmd, nil); err == nil {
		t.Error("missing required term should fail validation")
	}
	if err := ValidateArgs(defineCmd, []string{"liquidity"}); err != nil {
		t.Errorf("valid term arg failed: %v", err)
	}

	helpCmd := r.Get("/help")
	if err := ValidateArgs(helpCmd, []string{"glossary"}); err != nil {
		t.Errorf("valid enum value failed: %v", err)
	}
	if err := ValidateArgs(helpCmd, []string{"bogus"}); err == nil {
		t.Error("invalid enum value should fail validation")
	}
	if err := ValidateArgs(helpCmd, nil); err != nil {
		t.Errorf("optional arg missing should pass: %v", err)
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"/help", "/new", "/history", "/load", "/search",
		"/rename", "/delete", "/clear", "/glossary", "/define", "/config", "/status", "/quit"} {
		if r.Get(name) == nil {
			t.Errorf("built-in command %s not registered", name)
		}
	}

	if r.Get("/sessions") == nil || r.Get("/sessions").Name != "/history" {
		t.Error("alias /sessions should resolve to /history")
	}
	if r.Get("/missing") != nil {
		t.Error("unknown command should return nil")
	}
}

func TestRegistryByCategory(t *testing.T) {
	r := NewRegistry()

	byCat := r.ByCategory()
	for _, cat := range []string{"Navigation", "Conversation", "Glossary", "Settings"} {
		if len(byCat[cat]) == 0 {
			t.Errorf("category %s is empty", cat)
		}
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

// runCmd executes a tea.Cmd and returns the resulting message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("handler returned nil command")
	}
	return cmd()
}

func testContext(t *testing.T) *Context {
	t.Helper()
	store := history.NewStore(history.NewMemoryKV(), nil)
	store.LoadAll("tester")
	ctx := NewContext(nil, store, nil, nil)
	ctx.WithGlossary(jargon.NewGlossary(jargon.Terms()))
	return ctx
}

func TestHandleHistory(t *testing.T) {
	ctx := testContext(t)
	ctx.Store.CreateSession("tester", "")
	ctx.Store.UpdateSession(ctx.Store.CurrentID(), []model.Message{
		model.NewUserMessage("What is a bond ladder?"),
	})

	msg := runCmd(t, HandleHistory(ctx, nil))
	list, ok := msg.(ListSessionsMsg)
	if !ok {
		t.Fatalf("got %T, want ListSessionsMsg", msg)
	}
	if len(list.Sessions) != 1 {
		t.Errorf("got %d sessions, want 1", len(list.Sessions))
	}
}

func TestHandleLoad(t *testing.T) {
	ctx := testContext(t)
	id := ctx.Store.CreateSession("tester", "")

	msg := runCmd(t, HandleLoad(ctx, []string{id}))
	loaded, ok := msg.(SessionLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want SessionLoadedMsg", msg)
	}
	if loaded.Error != nil || loaded.Session == nil || loaded.Session.ID != id {
		t.Errorf("load failed: %+v", loaded)
	}

	// Unknown session surfaces an error
	msg = runCmd(t, HandleLoad(ctx, []string{"nope"}))
	loaded = msg.(SessionLoadedMsg)
	if loaded.Error == nil {
		t.Error("unknown session should return an error")
	}

	// No args falls back to the session list
	msg = runCmd(t, HandleLoad(ctx, nil))
	if _, ok := msg.(ListSessionsMsg); !ok {
		t.Errorf("got %T, want ListSessionsMsg fallback", msg)
	}
}

func TestHandleSearch(t *testing.T) {
	ctx := testContext(t)
	id := ctx.Store.CreateSession("tester", "")
	ctx.Store.UpdateSession(id, []model.Message{
		model.NewUserMessage("Explain dollar cost averaging"),
	})

	msg := runCmd(t, HandleSearch(ctx, []string{"averaging"}))
	results, ok := msg.(SearchResultsMsg)
	if !ok {
		t.Fatalf("got %T, want SearchResultsMsg", msg)
	}
	if len(results.Matches) != 1 {
		t.Errorf("got %d matches, want 1", len(results.Matches))
	}

	msg = runCmd(t, HandleSearch(ctx, nil))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("got %T, want ErrorMsg for missing query", msg)
	}
}

func TestHandleDefine(t *testing.T) {
	ctx := testContext(t)

	msg := runCmd(t, HandleDefine(ctx, []string{"liquidity"}))
	def, ok := msg.(ShowDefinitionMsg)
	if !ok {
		t.Fatalf("got %T, want ShowDefinitionMsg", msg)
	}
	if def.Term == nil {
		t.Fatal("liquidity should resolve to a glossary term")
	}

	// Multi-word terms join across args
	msg = runCmd(t, HandleDefine(ctx, []string{"asset", "allocation"}))
	def = msg.(ShowDefinitionMsg)
	if def.Term == nil {
		t.Error("asset allocation should resolve to a glossary term")
	}

	// Unknown terms carry the query for the UI to report
	msg = runCmd(t, HandleDefine(ctx, []string{"blockchain"}))
	def = msg.(ShowDefinitionMsg)
	if def.Term != nil || def.Query != "blockchain" {
		t.Errorf("unknown term: got %+v", def)
	}

	msg = runCmd(t, HandleDefine(ctx, nil))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("got %T, want ErrorMsg for missing term", msg)
	}
}

func TestHandleSimpleMessages(t *testing.T) {
	ctx := testContext(t)

	if _, ok := runCmd(t, HandleNew(ctx, nil)).(NewSessionMsg); !ok {
		t.Error("/new should emit NewSessionMsg")
	}
	if _, ok := runCmd(t, HandleClear(ctx, nil)).(ClearHistoryMsg); !ok {
		t.Error("/clear should emit ClearHistoryMsg")
	}
	if _, ok := runCmd(t, HandleGlossary(ctx, nil)).(ShowGlossaryMsg); !ok {
		t.Error("/glossary should emit ShowGlossaryMsg")
	}
	if _, ok := runCmd(t, HandleStatus(ctx, nil)).(ShowStatusMsg); !ok {
		t.Error("/status should emit ShowStatusMsg")
	}

	msg := runCmd(t, HandleDelete(ctx, []string{"abc"}))
	if del, ok := msg.(DeleteSessionMsg); !ok || del.ID != "abc" {
		t.Errorf("got %v, want DeleteSessionMsg{abc}", msg)
	}

	msg = runCmd(t, HandleRename(ctx, []string{"Retirement", "basics"}))
	if ren, ok := msg.(RenameSessionMsg); !ok || ren.Title != "Retirement basics" {
		t.Errorf("got %v, want RenameSessionMsg{Retirement basics}", msg)
	}

	msg = runCmd(t, HandleConfig(ctx, []string{"ui.theme", "light"}))
	if cfg, ok := msg.(ShowConfigMsg); !ok || cfg.Key != "ui.theme" || cfg.Value != "light" {
		t.Errorf("got %v, want ShowConfigMsg{ui.theme light}", msg)
	}
}
