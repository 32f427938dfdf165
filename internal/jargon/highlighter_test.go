// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package jargon

import (
	"strings"
	"testing"
)

func testHighlighter() *Highlighter {
	return NewHighlighter(Terms())
}

// reassemble concatenates the literal text of every segment.
func reassemble(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// =============================================================================
// LOSSLESSNESS
// =============================================================================

func TestHighlight_Lossless(t *testing.T) {
	h := testHighlighter()

	inputs := []string{
		"",
		"The sky is blue",
		"Diversification reduces risk in your portfolio.",
		"ROI, roi, Roi and RETURN ON INVESTMENT all count",
		"A liquidity crunch during a bear market hurts volatile equities.",
		"no-break\nacross lines: compound interest\tworks",
		"unicode: héllo wörld compound interest ünïcode",
		"punctuation! diversify? (liquidity) [budget] {premium}.",
	}

	for _, in := range inputs {
		if got := reassemble(h.Highlight(in)); got != in {
			t.Errorf("reassembled output differs from input:\n in: %q\nout: %q", in, got)
		}
	}
}

// =============================================================================
// MATCHING SEMANTICS
// =============================================================================

func TestHighlight_WholeWordOnly(t *testing.T) {
	h := testHighlighter()

	// "liquidity" alone matches
	segs := h.Highlight("liquidity")
	if len(segs) != 1 || !segs[0].IsTerm() {
		t.Fatalf("expected single annotated segment, got %+v", segs)
	}
	if segs[0].Term.Term != "Liquidity" {
		t.Errorf("canonical term = %q, want Liquidity", segs[0].Term.Term)
	}

	// "illiquidity" must not match "liquidity" inside a larger word
	for _, seg := range h.Highlight("illiquidity") {
		if seg.IsTerm() {
			t.Errorf("matched %q inside larger word", seg.Text)
		}
	}
}

func TestHighlight_CasePreserved(t *testing.T) {
	h := testHighlighter()

	segs := h.Highlight("ROI is important")
	if !segs[0].IsTerm() {
		t.Fatalf("expected first segment to be a term, got %+v", segs)
	}
	if segs[0].Text != "ROI" {
		t.Errorf("matched text = %q, want original casing %q", segs[0].Text, "ROI")
	}
	if segs[0].Term.Term != "ROI" {
		t.Errorf("canonical term = %q, want ROI", segs[0].Term.Term)
	}
}

func TestHighlight_NoMatchPassthrough(t *testing.T) {
	h := testHighlighter()

	segs := h.Highlight("The sky is blue")
	if len(segs) != 1 {
		t.Fatalf("expected one plain segment, got %d", len(segs))
	}
	if segs[0].IsTerm() {
		t.Error("plain text should not be annotated")
	}
	if segs[0].Text != "The sky is blue" {
		t.Errorf("segment text = %q", segs[0].Text)
	}
}

func TestHighlight_EmptyInput(t *testing.T) {
	h := testHighlighter()

	segs := h.Highlight("")
	if len(segs) != 1 || segs[0].IsTerm() || segs[0].Text != "" {
		t.Errorf("empty input should come back as a single plain segment, got %+v", segs)
	}
}

func TestHighlight_MultipleMatches(t *testing.T) {
	h := testHighlighter()

	segs := h.Highlight("Use diversification to balance your portfolio against volatility.")

	var matched []string
	for _, s := range segs {
		if s.IsTerm() {
			matched = append(matched, s.Term.Term)
		}
	}
	want := []string{"Diversification", "Portfolio", "Volatility"}
	if len(matched) != len(want) {
		t.Fatalf("matched terms = %v, want %v", matched, want)
	}
	for i := range want {
		if matched[i] != want[i] {
			t.Errorf("matched[%d] = %q, want %q", i, matched[i], want[i])
		}
	}
}

func TestHighlight_LongerVariationWins(t *testing.T) {
	h := testHighlighter()

	// "bear market" is a registered two-word variation; it must be consumed
	// as one span, not matched again inside.
	segs := h.Highlight("We are in a bear market now")

	var terms []string
	for _, s := range segs {
		if s.IsTerm() {
			terms = append(terms, s.Text)
		}
	}
	if len(terms) != 1 || terms[0] != "bear market" {
		t.Errorf("annotated spans = %v, want [bear market]", terms)
	}
}

func TestHighlight_NoOverlappingAnnotations(t *testing.T) {
	h := testHighlighter()

	segs := h.Highlight("compound interest compounding")

	count := 0
	for _, s := range segs {
		if s.IsTerm() {
			count++
			if s.Term.Term != "Compound Interest" {
				t.Errorf("unexpected term %q", s.Term.Term)
			}
		}
	}
	if count != 2 {
		t.Errorf("annotated spans = %d, want 2", count)
	}
}

func TestHighlight_VariationResolvesToCanonical(t *testing.T) {
	h := testHighlighter()

	segs := h.Highlight("You should diversify early")
	found := false
	for _, s := range segs {
		if s.IsTerm() {
			found = true
			if s.Term.Term != "Diversification" {
				t.Errorf("canonical term = %q, want Diversification", s.Term.Term)
			}
			if s.Text != "diversify" {
				t.Errorf("matched text = %q, want diversify", s.Text)
			}
		}
	}
	if !found {
		t.Error("expected a match for 'diversify'")
	}
}

func TestNewHighlighter_DuplicateVariationFirstWins(t *testing.T) {
	terms := []Term{
		{Term: "First", Definition: "first def", Variations: []string{"shared"}},
		{Term: "Second", Definition: "second def", Variations: []string{"shared"}},
	}
	h := NewHighlighter(terms)

	segs := h.Highlight("shared")
	if !segs[0].IsTerm() {
		t.Fatal("expected a match")
	}
	if segs[0].Term.Term != "First" {
		t.Errorf("term = %q, want first-registered to win", segs[0].Term.Term)
	}
}

func TestNewHighlighter_EmptyTable(t *testing.T) {
	h := NewHighlighter(nil)

	segs := h.Highlight("anything with liquidity")
	if len(segs) != 1 || segs[0].IsTerm() {
		t.Errorf("empty table should pass text through, got %+v", segs)
	}
}

func TestTermsIn_DistinctInOrder(t *testing.T) {
	h := testHighlighter()

	terms := h.TermsIn("Budgets matter. A budget beats volatility. Budgeting works.")
	if len(terms) != 2 {
		t.Fatalf("distinct terms = %d, want 2", len(terms))
	}
	if terms[0].Term != "Budget" || terms[1].Term != "Volatility" {
		t.Errorf("order = [%s %s], want [Budget Volatility]", terms[0].Term, terms[1].Term)
	}
}
