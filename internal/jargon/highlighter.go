// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package jargon recognizes financial vocabulary in mentor responses.
package jargon

import (
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// SEGMENT TYPE
// =============================================================================

// Segment is one piece of highlighted output. Text always holds the exact
// substring of the input, original casing included; concatenating the Text
// of every segment reproduces the input byte for byte. Term is nil for
// plain text and points at the matched glossary entry otherwise.
type Segment struct {
	Text string
	Term *Term
}

// IsTerm reports whether the segment is an annotated glossary match.
func (s Segment) IsTerm() bool {
	return s.Term != nil
}

// =============================================================================
// HIGHLIGHTER
// =============================================================================

// Highlighter scans plain text for whole-word occurrences of registered
// term variations. It is built once from the static term table and is safe
// for concurrent use.
type Highlighter struct {
	pattern *regexp.Regexp
	lookup  map[string]*Term
}

// NewHighlighter builds a highlighter from a term table.
//
// All variations are folded into a single case-insensitive alternation
// wrapped in word boundaries, so scanning is a single left-to-right pass:
// the earliest-starting match wins, and among alternatives starting at the
// same position the first alternative in the pattern wins. Variations are
// ordered longest first so multi-word forms beat their embedded shorter
// forms ("bull market" before "bull"). Matched spans are consumed; there
// are no nested or overlapping annotations.
func NewHighlighter(terms []Term) *Highlighter {
	lookup := make(map[string]*Term)
	var variations []string

	for i := range terms {
		term := &terms[i]
		for _, v := range term.Variations {
			key := strings.ToLower(v)
			// Uniqueness invariant: first-registered term wins on conflict.
			if _, exists := lookup[key]; exists {
				continue
			}
			lookup[key] = term
			variations = append(variations, key)
		}
	}

	sort.SliceStable(variations, func(i, j int) bool {
		return len([]rune(variations[i])) > len([]rune(variations[j]))
	})

	quoted := make([]string, len(variations))
	for i, v := range variations {
		quoted[i] = regexp.QuoteMeta(v)
	}

	var pattern *regexp.Regexp
	if len(quoted) > 0 {
		pattern = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}

	return &Highlighter{pattern: pattern, lookup: lookup}
}

// Highlight splits text into an ordered sequence of plain and annotated
// segments. It is a pure function with no error conditions: input with no
// matches (or an empty input) comes back as a single plain segment.
func (h *Highlighter) Highlight(text string) []Segment {
	if text == "" || h.pattern == nil {
		return []Segment{{Text: text}}
	}

	matches := h.pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, len(matches)*2+1)
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			segments = append(segments, Segment{Text: text[last:start]})
		}
		matched := text[start:end]
		term := h.lookup[strings.ToLower(matched)]
		segments = append(segments, Segment{Text: matched, Term: term})
		last = end
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

// TermsIn returns the distinct glossary terms annotated in text, in order
// of first appearance. The UI uses this for definition footnotes.
func (h *Highlighter) TermsIn(text string) []*Term {
	var out []*Term
	seen := make(map[string]bool)
	for _, seg := range h.Highlight(text) {
		if seg.Term == nil || seen[seg.Term.Term] {
			continue
		}
		seen[seg.Term.Term] = true
		out = append(out, seg.Term)
	}
	return out
}
