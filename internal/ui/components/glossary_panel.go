// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// GLOSSARY PANEL - Financial term browser overlay
// =============================================================================

// GlossaryPanel is an overlay for browsing the financial glossary,
// grouped by category with keyboard selection.
type GlossaryPanel struct {
	Terms    []jargon.Term
	Selected int
	Filter   string
	Width    int
	Height   int

	glossary *jargon.Glossary
	theme    *styles.Theme
}

// NewGlossaryPanel creates a glossary panel over the given glossary.
func NewGlossaryPanel(g *jargon.Glossary, theme *styles.Theme) *GlossaryPanel {
	p := &GlossaryPanel{
		Width:    70,
		Height:   20,
		glossary: g,
		theme:    theme,
	}
	if g != nil {
		p.Terms = g.Terms()
	}
	return p
}

// SetSize updates the panel dimensions.
func (p *GlossaryPanel) SetSize(width, height int) {
	p.Width = width
	p.Height = height
}

// SetFilter narrows the listed terms to matches for query. An empty
// query restores the full glossary.
func (p *GlossaryPanel) SetFilter(query string) {
	p.Filter = query
	p.Selected = 0
	if p.glossary == nil {
		return
	}
	if strings.TrimSpace(query) == "" {
		p.Terms = p.glossary.Terms()
		return
	}
	p.Terms = p.glossary.Search(query)
}

// MoveUp moves the selection up.
func (p *GlossaryPanel) MoveUp() {
	if p.Selected > 0 {
		p.Selected--
	}
}

// MoveDown moves the selection down.
func (p *GlossaryPanel) MoveDown() {
	if p.Selected < len(p.Terms)-1 {
		p.Selected++
	}
}

// SelectedTerm returns the highlighted term.
func (p *GlossaryPanel) SelectedTerm() (jargon.Term, bool) {
	if p.Selected < 0 || p.Selected >= len(p.Terms) {
		return jargon.Term{}, false
	}
	return p.Terms[p.Selected], true
}

// View renders the panel: the term list on the left, the selected
// term's definition on the right.
func (p *GlossaryPanel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)
	header := titleStyle.Render("Glossary")
	if p.Filter != "" {
		header += lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("  /" + p.Filter)
	}

	if len(p.Terms) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("No terms match.")
		return p.theme.GlossaryPanel.Width(p.Width).Render(header + "\n\n" + empty)
	}

	listWidth := p.Width / 3
	if listWidth < 20 {
		listWidth = 20
	}
	defWidth := p.Width - listWidth - 8
	if defWidth < 20 {
		defWidth = 20
	}

	visible := p.Height - 6
	if visible < 3 {
		visible = 3
	}
	start := 0
	if p.Selected >= visible {
		start = p.Selected - visible + 1
	}
	end := start + visible
	if end > len(p.Terms) {
		end = len(p.Terms)
	}

	var rows []string
	for i := start; i < end; i++ {
		name := p.Terms[i].Term
		if runeLen(name) > listWidth-2 {
			name = string([]rune(name)[:listWidth-5]) + "..."
		}
		if i == p.Selected {
			rows = append(rows, p.theme.SessionItemSelected.Render("> "+name))
		} else {
			rows = append(rows, p.theme.SessionItem.Render("  "+name))
		}
	}
	list := strings.Join(rows, "\n")

	detail := ""
	if term, ok := p.SelectedTerm(); ok {
		detail = p.theme.GlossaryTerm.Render(term.Term) + "\n" +
			p.theme.GlossaryCategory.Render(string(term.Category)) + "\n\n" +
			p.theme.GlossaryBody.Render(wordWrap(term.Definition, defWidth))
	}

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list),
		"  ",
		lipgloss.NewStyle().Width(defWidth).Render(detail),
	)

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("up/down select  / filter  esc close")

	return p.theme.GlossaryPanel.Width(p.Width).Render(header + "\n\n" + columns + "\n\n" + hint)
}
