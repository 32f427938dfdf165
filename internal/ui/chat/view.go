// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the finiq TUI.
package chat

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	var sections []string

	sections = append(sections, m.header.View())

	switch m.overlay {
	case OverlayHistory:
		sections = append(sections, m.centerInViewport(m.historyPanel.View()))
	case OverlayGlossary:
		sections = append(sections, m.centerInViewport(m.glossaryPanel.View()))
	case OverlayHelp:
		sections = append(sections, m.centerInViewport(m.renderHelp()))
	default:
		sections = append(sections, m.viewport.View())
	}

	if m.spinner.Active() {
		sections = append(sections, " "+m.spinner.View())
	}

	if popup := m.completionPopup.View(m.completionState); popup != "" {
		sections = append(sections, popup)
	}

	sections = append(sections, m.theme.InputContainer.Width(m.width-2).Render(m.input.View()))
	sections = append(sections, m.statusBar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// centerInViewport places an overlay in the transcript area.
func (m Model) centerInViewport(content string) string {
	return lipgloss.Place(
		m.viewport.Width,
		m.viewport.Height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// renderHelp builds the command reference overlay from the registry.
func (m Model) renderHelp() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)
	catStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Purple)
	nameStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary).Width(22)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Commands"))
	b.WriteString("\n")

	byCat := m.registry.ByCategory()
	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		b.WriteString("\n")
		b.WriteString(catStyle.Render(cat))
		b.WriteString("\n")
		for _, cmd := range byCat[cat] {
			if cmd.Hidden {
				continue
			}
			usage := cmd.Name
			if cmd.Usage != "" {
				usage = cmd.Usage
			}
			b.WriteString("  ")
			b.WriteString(nameStyle.Render(usage))
			b.WriteString(descStyle.Render(cmd.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	b.WriteString(hintStyle.Render("esc close  tab complete  ctrl+h history  ctrl+g glossary"))

	return m.theme.Container.Render(b.String())
}
