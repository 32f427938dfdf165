// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"cmp"
	"slices"
	"strings"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completion is one tab-completion suggestion.
type Completion struct {
	Value       string // text to insert
	Display     string // text to show in the popup
	Description string
	Score       int // ranking, higher first
}

// SessionInfo is the minimal session metadata the completer needs.
type SessionInfo struct {
	ID    string
	Title string
}

// Completer produces completions for command names and their arguments.
// The Fn callbacks supply dynamic values and are wired by the
// application; a nil callback simply yields no suggestions for that
// argument type.
type Completer struct {
	registry *Registry

	SessionsFn func() []SessionInfo
	TermsFn    func() []string
	ConfigFn   func() []string
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns suggestions for the input up to the cursor. Only
// slash-command input completes; plain chat text returns nil.
func (c *Completer) Complete(input string, cursorPos int) []Completion {
	if cursorPos < len(input) {
		input = input[:cursorPos]
	}

	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return nil
	}

	tokens := splitCommandLine(trimmed)
	atBoundary := strings.HasSuffix(input, " ")

	// Command name still being typed.
	if len(tokens) == 0 {
		return c.completeCommands("")
	}
	if len(tokens) == 1 && !atBoundary {
		return c.completeCommands(tokens[0])
	}

	cmd := c.registry.Get(tokens[0])
	if cmd == nil {
		return nil
	}

	argIndex := len(tokens) - 2
	partial := ""
	if atBoundary {
		argIndex++
	} else if len(tokens) > 1 {
		partial = tokens[len(tokens)-1]
	}
	return c.completeArg(cmd, argIndex, partial)
}

// =============================================================================
// COMMAND NAME COMPLETION
// =============================================================================

func (c *Completer) completeCommands(partial string) []Completion {
	partial = strings.ToLower(partial)

	var out []Completion
	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(strings.ToLower(cmd.Name), partial) {
			out = append(out, Completion{
				Value:       cmd.Name,
				Display:     cmd.Name,
				Description: cmd.Description,
				Score:       matchScore(cmd.Name, partial),
			})
		}
		for _, alias := range cmd.Aliases {
			if !strings.HasPrefix(strings.ToLower(alias), partial) {
				continue
			}
			out = append(out, Completion{
				Value:       alias,
				Display:     alias + " -> " + cmd.Name,
				Description: cmd.Description,
				// aliases rank below the command they point to
				Score: matchScore(alias, partial) - 10,
			})
		}
	}
	rankCompletions(out)
	return out
}

// =============================================================================
// ARGUMENT COMPLETION
// =============================================================================

func (c *Completer) completeArg(cmd *Command, argIndex int, partial string) []Completion {
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	switch arg := cmd.Args[argIndex]; arg.Type {
	case ArgTypeSession:
		return c.completeSessions(partial)
	case ArgTypeEnum:
		return c.completeValues(arg.Values, partial)
	case ArgTypeTerm:
		if c.TermsFn == nil {
			return nil
		}
		return c.completeValues(c.TermsFn(), partial)
	case ArgTypeConfig:
		if c.ConfigFn == nil {
			return nil
		}
		return c.completeValues(c.ConfigFn(), partial)
	default:
		return nil
	}
}

// completeSessions matches the partial against session ID prefixes and
// title substrings. Title-only matches rank slightly lower.
func (c *Completer) completeSessions(partial string) []Completion {
	if c.SessionsFn == nil {
		return nil
	}
	partial = strings.ToLower(partial)

	var out []Completion
	for _, sess := range c.SessionsFn() {
		idMatch := strings.HasPrefix(strings.ToLower(sess.ID), partial)
		titleMatch := strings.Contains(strings.ToLower(sess.Title), partial)
		if !idMatch && !titleMatch {
			continue
		}

		score := matchScore(sess.ID, partial)
		if titleMatch && !idMatch {
			score -= 5
		}
		display := sess.ID
		if sess.Title != "" {
			display += " - " + clipRunes(sess.Title, 30)
		}
		out = append(out, Completion{Value: sess.ID, Display: display, Score: score})
	}
	rankCompletions(out)
	return out
}

func (c *Completer) completeValues(values []string, partial string) []Completion {
	partial = strings.ToLower(partial)

	var out []Completion
	for _, v := range values {
		if !strings.HasPrefix(strings.ToLower(v), partial) {
			continue
		}
		out = append(out, Completion{Value: v, Display: v, Score: matchScore(v, partial)})
	}
	rankCompletions(out)
	return out
}

// =============================================================================
// RANKING
// =============================================================================

// matchScore ranks how well value matches the typed partial. Exact
// matches beat prefixes, and shorter values edge out longer ones.
func matchScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100
	if value == partial {
		return score + 100
	}
	if strings.HasPrefix(value, partial) {
		score += 50 + 20 - len(value)
	}
	return score - len(value)/2
}

// rankCompletions orders by score descending, ties alphabetically.
func rankCompletions(completions []Completion) {
	slices.SortFunc(completions, func(a, b Completion) int {
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		return cmp.Compare(a.Value, b.Value)
	})
}

// clipRunes shortens s to at most maxLen runes, ellipsized.
func clipRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// COMPLETION NAVIGATION
// =============================================================================

// CompletionState tracks the completion popup while the user cycles
// through suggestions.
type CompletionState struct {
	OriginalInput string
	Completions   []Completion
	Selected      int // -1 when nothing selected
	Visible       bool
}

// NewCompletionState creates a new completion state.
func NewCompletionState() *CompletionState {
	return &CompletionState{Selected: -1}
}

// Update replaces the suggestion list, auto-selecting the first entry.
func (cs *CompletionState) Update(input string, completions []Completion) {
	cs.OriginalInput = input
	cs.Completions = completions
	cs.Selected = 0
	cs.Visible = len(completions) > 0
}

// Next advances the selection, wrapping at the end.
func (cs *CompletionState) Next() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected = (cs.Selected + 1) % len(cs.Completions)
}

// Prev moves the selection back, wrapping at the start.
func (cs *CompletionState) Prev() {
	if len(cs.Completions) == 0 {
		return
	}
	if cs.Selected--; cs.Selected < 0 {
		cs.Selected = len(cs.Completions) - 1
	}
}

// Accept returns the selected value, falling back to the first
// suggestion, or "" when there are none.
func (cs *CompletionState) Accept() string {
	if cs.Selected >= 0 && cs.Selected < len(cs.Completions) {
		return cs.Completions[cs.Selected].Value
	}
	if len(cs.Completions) > 0 {
		return cs.Completions[0].Value
	}
	return ""
}

// Clear resets the popup to hidden.
func (cs *CompletionState) Clear() {
	*cs = CompletionState{Selected: -1}
}
