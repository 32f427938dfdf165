// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/commands"
	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// COMPLETION POPUP - Slash command completion overlay
// =============================================================================

// maxVisibleCompletions caps the popup height.
const maxVisibleCompletions = 8

// CompletionPopup renders the tab-completion candidates above the
// input line.
type CompletionPopup struct {
	Width int
	theme *styles.Theme
}

// NewCompletionPopup creates a completion popup renderer.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{
		Width: 50,
		theme: theme,
	}
}

// SetWidth updates the popup width.
func (c *CompletionPopup) SetWidth(width int) {
	c.Width = width
}

// View renders the popup for the given state, empty when hidden.
func (c *CompletionPopup) View(state *commands.CompletionState) string {
	if state == nil || !state.Visible || len(state.Completions) == 0 {
		return ""
	}

	// Window the list around the selection.
	start := 0
	if state.Selected >= maxVisibleCompletions {
		start = state.Selected - maxVisibleCompletions + 1
	}
	end := start + maxVisibleCompletions
	if end > len(state.Completions) {
		end = len(state.Completions)
	}

	valueWidth := 0
	for _, comp := range state.Completions[start:end] {
		if w := runeLen(comp.Display); w > valueWidth {
			valueWidth = w
		}
	}

	descWidth := c.Width - valueWidth - 8
	if descWidth < 10 {
		descWidth = 10
	}

	var rows []string
	for i := start; i < end; i++ {
		comp := state.Completions[i]

		desc := comp.Description
		if runeLen(desc) > descWidth {
			desc = string([]rune(desc)[:descWidth-3]) + "..."
		}

		row := padRight(comp.Display, valueWidth) + "  " + c.theme.CompletionDesc.Render(desc)

		if i == state.Selected {
			rows = append(rows, c.theme.CompletionSelected.Render("> "+row))
		} else {
			rows = append(rows, c.theme.CompletionItem.Render("  "+row))
		}
	}

	if len(state.Completions) > maxVisibleCompletions {
		more := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("  ...")
		rows = append(rows, more)
	}

	return c.theme.CompletionPopup.Render(strings.Join(rows, "\n"))
}
