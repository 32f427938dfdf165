// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package jargon recognizes financial vocabulary in mentor responses.
package jargon

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// =============================================================================
// GLOSSARY
// =============================================================================

// Glossary exposes the term table for browsing and search.
type Glossary struct {
	terms  []Term
	byName map[string]*Term
	folder cases.Caser
}

// NewGlossary builds a glossary over a term table.
func NewGlossary(terms []Term) *Glossary {
	g := &Glossary{
		terms:  terms,
		byName: make(map[string]*Term),
		folder: cases.Fold(),
	}
	for i := range g.terms {
		term := &g.terms[i]
		for _, v := range term.Variations {
			key := strings.ToLower(v)
			if _, exists := g.byName[key]; !exists {
				g.byName[key] = term
			}
		}
		g.byName[strings.ToLower(term.Term)] = term
	}
	return g
}

// Terms returns all entries sorted alphabetically by canonical name.
func (g *Glossary) Terms() []Term {
	out := make([]Term, len(g.terms))
	copy(out, g.terms)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Term) < strings.ToLower(out[j].Term)
	})
	return out
}

// Lookup resolves a canonical name or any variation to its term.
func (g *Glossary) Lookup(name string) (Term, bool) {
	term, ok := g.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Term{}, false
	}
	return *term, true
}

// ByCategory returns the entries in one category, alphabetically.
func (g *Glossary) ByCategory(cat Category) []Term {
	var out []Term
	for _, t := range g.Terms() {
		if t.Category == cat {
			out = append(out, t)
		}
	}
	return out
}

// Search returns entries whose name or definition contains the query.
// Matching is Unicode case-folded, so it works for non-ASCII input too.
// An empty query returns everything.
func (g *Glossary) Search(query string) []Term {
	query = strings.TrimSpace(query)
	if query == "" {
		return g.Terms()
	}
	q := g.folder.String(query)

	var out []Term
	for _, t := range g.Terms() {
		if strings.Contains(g.folder.String(t.Term), q) ||
			strings.Contains(g.folder.String(t.Definition), q) {
			out = append(out, t)
		}
	}
	return out
}

// Len returns the number of glossary entries.
func (g *Glossary) Len() int {
	return len(g.terms)
}
