// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom status bar
// =============================================================================

// Status is the coarse application state shown in the status bar.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusLoading
	StatusError
	StatusOffline
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusLoading:
		return "Loading..."
	case StatusError:
		return "Error"
	case StatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Icon returns a shape for the status. Shapes stay distinct without
// color so the bar reads on monochrome terminals.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return "+"
	case StatusThinking:
		return "~"
	case StatusLoading:
		return "o"
	case StatusError:
		return "x"
	case StatusOffline:
		return "-"
	default:
		return "?"
	}
}

// StatusBar is the bottom bar: connection state, message count, term
// count, unsaved marker, and keyboard shortcuts.
type StatusBar struct {
	Status        Status
	Connected     bool
	Unsaved       bool
	MessageCount  int
	TermCount     int
	Width         int
	ShowShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a StatusBar with default values.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Connected:     true,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the bar width.
func (sb *StatusBar) SetWidth(width int) {
	sb.Width = width
}

// View renders the status bar.
func (sb *StatusBar) View() string {
	width := sb.Width
	if width < 40 {
		width = 40
	}

	var left []string

	if sb.Connected {
		left = append(left, sb.theme.Online.Render("* online"))
	} else {
		left = append(left, sb.theme.Offline.Render("o offline"))
	}

	statusStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	left = append(left, statusStyle.Render(sb.Status.Icon()+" "+sb.Status.String()))

	metaStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	if sb.MessageCount > 0 {
		left = append(left, metaStyle.Render(strconv.Itoa(sb.MessageCount)+" msgs"))
	}
	if sb.TermCount > 0 {
		left = append(left, metaStyle.Render(strconv.Itoa(sb.TermCount)+" terms"))
	}
	if sb.Unsaved {
		left = append(left, sb.theme.Unsaved.Render("[unsaved]"))
	}

	sepStyle := lipgloss.NewStyle().Foreground(styles.OverlayDim)
	leftStr := strings.Join(left, sepStyle.Render(" | "))

	rightStr := ""
	if sb.ShowShortcuts {
		rightStr = sb.renderShortcuts()
	}

	gap := width - 2 - lipgloss.Width(leftStr) - lipgloss.Width(rightStr)
	if gap < 1 {
		gap = 1
		rightStr = ""
	}

	bar := leftStr + strings.Repeat(" ", gap) + rightStr

	return sb.theme.StatusBar.Width(width).Render(bar)
}

func (sb *StatusBar) renderShortcuts() string {
	shortcuts := []struct{ key, desc string }{
		{"tab", "complete"},
		{"ctrl+g", "glossary"},
		{"ctrl+h", "history"},
		{"ctrl+c", "quit"},
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts,
			sb.theme.ShortcutKey.Render(s.key)+
				sb.theme.ShortcutDesc.Render(" "+s.desc))
	}
	return strings.Join(parts, "  ")
}
