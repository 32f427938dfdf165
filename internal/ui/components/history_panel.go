// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/model"
	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
	"github.com/finiq-ai/finiq-tui/internal/util"
)

// =============================================================================
// HISTORY PANEL - Saved session picker overlay
// =============================================================================

// HistoryPanel is an overlay listing saved chat sessions, most recent
// first, with keyboard selection.
type HistoryPanel struct {
	Sessions  []*model.Session
	Selected  int
	CurrentID string
	Width     int
	Height    int
	theme     *styles.Theme
}

// NewHistoryPanel creates an empty history panel.
func NewHistoryPanel(theme *styles.Theme) *HistoryPanel {
	return &HistoryPanel{
		Width:  60,
		Height: 20,
		theme:  theme,
	}
}

// SetSessions replaces the listed sessions and clamps the selection.
func (p *HistoryPanel) SetSessions(sessions []*model.Session) {
	p.Sessions = sessions
	if p.Selected >= len(sessions) {
		p.Selected = len(sessions) - 1
	}
	if p.Selected < 0 {
		p.Selected = 0
	}
}

// SetSize updates the panel dimensions.
func (p *HistoryPanel) SetSize(width, height int) {
	p.Width = width
	p.Height = height
}

// MoveUp moves the selection up.
func (p *HistoryPanel) MoveUp() {
	if p.Selected > 0 {
		p.Selected--
	}
}

// MoveDown moves the selection down.
func (p *HistoryPanel) MoveDown() {
	if p.Selected < len(p.Sessions)-1 {
		p.Selected++
	}
}

// SelectedSession returns the highlighted session, nil when empty.
func (p *HistoryPanel) SelectedSession() *model.Session {
	if p.Selected < 0 || p.Selected >= len(p.Sessions) {
		return nil
	}
	return p.Sessions[p.Selected]
}

// View renders the panel.
func (p *HistoryPanel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)
	header := titleStyle.Render("Chat History")

	if len(p.Sessions) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("No saved sessions yet. Start chatting to create one.")
		return p.theme.SessionList.Width(p.Width).Render(header + "\n\n" + empty)
	}

	// Leave room for the header, the hint line, and the box frame.
	visible := p.Height - 6
	if visible < 3 {
		visible = 3
	}

	start := 0
	if p.Selected >= visible {
		start = p.Selected - visible + 1
	}
	end := start + visible
	if end > len(p.Sessions) {
		end = len(p.Sessions)
	}

	titleWidth := p.Width - 26
	if titleWidth < 10 {
		titleWidth = 10
	}

	var rows []string
	for i := start; i < end; i++ {
		sess := p.Sessions[i]

		marker := "  "
		if sess.ID == p.CurrentID {
			marker = "* "
		}

		id := sess.ID
		if len(id) > 8 {
			id = id[:8]
		}

		row := marker +
			p.theme.SessionID.Render(id) + " " +
			p.theme.SessionTitle.Render(padRight(util.TruncateRunes(sess.Title, titleWidth), titleWidth)) + " " +
			p.theme.SessionMeta.Render(util.RelativeTime(sess.UpdatedAt))

		if i == p.Selected {
			rows = append(rows, p.theme.SessionItemSelected.Render(row))
		} else {
			rows = append(rows, p.theme.SessionItem.Render(row))
		}
	}

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("up/down select  enter load  d delete  esc close")

	body := header + "\n\n" + strings.Join(rows, "\n") + "\n\n" + hint

	return p.theme.SessionList.Width(p.Width).Render(body)
}

// padRight pads s with spaces to at least width runes.
func padRight(s string, width int) string {
	if n := width - runeLen(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
