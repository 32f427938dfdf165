// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"testing"
)

func TestCompleteCommands(t *testing.T) {
	c := NewCompleter(NewRegistry())

	completions := c.Complete("/he", 3)
	if len(completions) == 0 {
		t.Fatal("expected completions for /he")
	}
	if completions[0].Value != "/help" {
		t.Errorf("first completion = %q, want /help", completions[0].Value)
	}

	// Bare slash lists all visible commands
	completions = c.Complete("/", 1)
	if len(completions) < 10 {
		t.Errorf("got %d completions for /, expected the full command set", len(completions))
	}

	// Exact alias ranks and resolves
	completions = c.Complete("/n", 2)
	found := false
	for _, comp := range completions {
		if comp.Value == "/new" {
			found = true
		}
	}
	if !found {
		t.Error("/n should include /new")
	}
}

func TestCompleteSessionArg(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.SessionsFn = func() []SessionInfo {
		return []SessionInfo{
			{ID: "sess-abc", Title: "Emergency fund basics"},
			{ID: "sess-def", Title: "Budgeting"},
		}
	}

	input := "/load sess-a"
	completions := c.Complete(input, len(input))
	if len(completions) != 1 || completions[0].Value != "sess-abc" {
		t.Fatalf("got %v, want only sess-abc", completions)
	}
	if !strings.Contains(completions[0].Display, "Emergency fund") {
		t.Errorf("display should include the title, got %q", completions[0].Display)
	}

	// Title substring also matches
	input = "/load budget"
	completions = c.Complete(input, len(input))
	if len(completions) != 1 || completions[0].Value != "sess-def" {
		t.Fatalf("got %v, want only sess-def", completions)
	}

	// New argument position after a space
	input = "/load "
	completions = c.Complete(input, len(input))
	if len(completions) != 2 {
		t.Errorf("got %d completions, want all sessions", len(completions))
	}
}

func TestCompleteTermArg(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.TermsFn = func() []string {
		return []string{"Liquidity", "Inflation", "IRA"}
	}

	input := "/define li"
	completions := c.Complete(input, len(input))
	if len(completions) != 1 || completions[0].Value != "Liquidity" {
		t.Fatalf("got %v, want only Liquidity", completions)
	}

	input = "/define i"
	completions = c.Complete(input, len(input))
	if len(completions) != 2 {
		t.Errorf("got %d completions for 'i', want 2", len(completions))
	}
}

func TestCompleteEnumArg(t *testing.T) {
	c := NewCompleter(NewRegistry())

	input := "/help glo"
	completions := c.Complete(input, len(input))
	if len(completions) != 1 || completions[0].Value != "glossary" {
		t.Fatalf("got %v, want only glossary", completions)
	}
}

func TestCompleteNonCommand(t *testing.T) {
	c := NewCompleter(NewRegistry())

	if got := c.Complete("what is apr", 11); got != nil {
		t.Errorf("plain text should not complete, got %v", got)
	}
	if got := c.Complete("/unknown arg", 12); got != nil {
		t.Errorf("unknown command args should not complete, got %v", got)
	}
}

func TestCompletionState(t *testing.T) {
	cs := NewCompletionState()
	if cs.Visible {
		t.Error("new state should not be visible")
	}
	if cs.Accept() != "" {
		t.Error("empty state should accept nothing")
	}

	cs.Update("/he", []Completion{
		{Value: "/help"},
		{Value: "/history"},
	})
	if !cs.Visible || cs.Selected != 0 {
		t.Errorf("Update should auto-select first, got selected=%d visible=%v", cs.Selected, cs.Visible)
	}
	if cs.Accept() != "/help" {
		t.Errorf("Accept = %q, want /help", cs.Accept())
	}

	cs.Next()
	if cs.Accept() != "/history" {
		t.Errorf("after Next, Accept = %q, want /history", cs.Accept())
	}
	cs.Next() // wraps
	if cs.Accept() != "/help" {
		t.Errorf("Next should wrap, got %q", cs.Accept())
	}
	cs.Prev() // wraps backward
	if cs.Accept() != "/history" {
		t.Errorf("Prev should wrap, got %q", cs.Accept())
	}

	cs.Clear()
	if cs.Visible || len(cs.Completions) != 0 {
		t.Error("Clear should reset state")
	}
}
