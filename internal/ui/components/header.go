// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with finiq branding
// =============================================================================

// Header is the title bar across the top of the chat screen. It shows
// the brand, the mentor model in use, the active profile, and the
// current session title.
type Header struct {
	Title        string
	ModelName    string
	Profile      string
	SessionTitle string
	Width        int
	theme        *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "finiq",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the mentor model name.
func (h *Header) SetModel(model string) {
	h.ModelName = model
}

// SetProfile updates the active profile name.
func (h *Header) SetProfile(profile string) {
	h.Profile = profile
}

// SetSessionTitle updates the current session title.
func (h *Header) SetSessionTitle(title string) {
	h.SessionTitle = title
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	innerWidth := width - 6

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan)
	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Purple)

	brand := accentStyle.Render("< ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" >")

	var subtitleParts []string
	if h.ModelName != "" {
		modelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		subtitleParts = append(subtitleParts, modelStyle.Render(h.ModelName))
	}
	if h.Profile != "" {
		profileStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		subtitleParts = append(subtitleParts, profileStyle.Render("@"+h.Profile))
	}
	if h.SessionTitle != "" {
		title := h.SessionTitle
		if runeLen(title) > innerWidth/2 {
			title = string([]rune(title)[:innerWidth/2-3]) + "..."
		}
		titleStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
		subtitleParts = append(subtitleParts, titleStyle.Render(title))
	}

	sepStyle := lipgloss.NewStyle().Foreground(styles.OverlayDim)
	subtitle := strings.Join(subtitleParts, sepStyle.Render("  |  "))

	lines := []string{brand}
	if subtitle != "" {
		lines = append(lines, subtitle)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)

	return h.theme.Header.Width(width - 2).Align(lipgloss.Center).Render(content)
}
