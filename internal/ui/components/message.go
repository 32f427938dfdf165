// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/jargon"
	"github.com/finiq-ai/finiq-tui/internal/model"
	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat message. User messages are
// right-aligned blue bubbles, mentor replies are left-aligned cyan
// bubbles with financial terms highlighted inline, and system notices
// are centered amber boxes.
type MessageBubble struct {
	Message         model.Message
	Width           int
	ShowTimestamp   bool
	ShowDefinitions bool

	highlighter *jargon.Highlighter
	theme       *styles.Theme
}

// NewMessageBubble creates a message bubble. A nil highlighter disables
// term annotation; the content renders as plain text.
func NewMessageBubble(msg model.Message, theme *styles.Theme, hl *jargon.Highlighter) *MessageBubble {
	if theme == nil {
		theme = styles.NewTheme()
	}
	return &MessageBubble{
		Message:         msg,
		Width:           80,
		ShowTimestamp:   true,
		ShowDefinitions: true,
		highlighter:     hl,
		theme:           theme,
	}
}

// SetWidth updates the available rendering width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble according to the message role.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderMentorBubble()
	default:
		return b.renderSystemBubble()
	}
}

// =============================================================================
// USER BUBBLE - Blue tones, right-aligned
// =============================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	roleLabel := "you"
	if b.Message.Type == model.TypeVoice {
		roleLabel = "you (voice)"
	}
	headerParts := []string{roleStyle.Render(roleLabel)}
	if b.ShowTimestamp {
		headerParts = append(headerParts, b.renderTimestamp())
	}
	header := strings.Join(headerParts, " ")

	// Right-align with a left margin.
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(
		lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// =============================================================================
// MENTOR BUBBLE - Cyan tones, left-aligned, jargon annotated
// =============================================================================

func (b *MessageBubble) renderMentorBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	// Styling happens after wrapping so ANSI escape sequences never
	// distort the width math.
	styled := b.highlightTerms(wrapped)

	bubble := b.theme.MentorBubble.Width(contentWidth).Render(styled)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	headerParts := []string{roleStyle.Render("mentor")}
	if b.ShowTimestamp {
		headerParts = append(headerParts, b.renderTimestamp())
	}
	header := strings.Join(headerParts, " ")

	result := lipgloss.JoinVertical(lipgloss.Left, header, bubble)

	if footnote := b.renderDefinitions(contentWidth); footnote != "" {
		result = lipgloss.JoinVertical(lipgloss.Left, result, footnote)
	}

	return result
}

// highlightTerms styles every glossary match in the text while keeping
// the plain spans untouched. Returns the input unchanged when no
// highlighter is configured.
func (b *MessageBubble) highlightTerms(text string) string {
	if b.highlighter == nil {
		return text
	}

	var out strings.Builder
	for _, seg := range b.highlighter.Highlight(text) {
		if seg.IsTerm() {
			out.WriteString(b.theme.TermHighlight.Render(seg.Text))
		} else {
			out.WriteString(seg.Text)
		}
	}
	return out.String()
}

// renderDefinitions builds the definitions footnote under a mentor
// reply: one line per distinct term found in the content.
func (b *MessageBubble) renderDefinitions(width int) string {
	if !b.ShowDefinitions || b.highlighter == nil {
		return ""
	}

	terms := b.highlighter.TermsIn(b.Message.Content)
	if len(terms) == 0 {
		return ""
	}

	defWidth := width - 4
	if defWidth < 20 {
		defWidth = 20
	}

	var lines []string
	for _, t := range terms {
		label := b.theme.TermLabel.Render(t.Term)
		body := wordWrap(t.Definition, defWidth)
		lines = append(lines, label+"\n"+b.theme.TermDefinition.Render(body))
	}

	return strings.Join(lines, "\n")
}

// =============================================================================
// SYSTEM BUBBLE - Amber tones, centered
// =============================================================================

func (b *MessageBubble) renderSystemBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "System message"
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-16)

	bubble := b.theme.SystemBubble.
		Width(contentWidth).
		Align(lipgloss.Center).
		Render(wrapped)

	centerStyle := lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center)

	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := labelStyle.Render("system")
	if b.ShowTimestamp {
		header = header + " " + b.renderTimestamp()
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		centerStyle.Render(header),
		centerStyle.Render(bubble),
	)
}

// =============================================================================
// SHARED PIECES
// =============================================================================

func (b *MessageBubble) renderTimestamp() string {
	tsStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	return tsStyle.Render(formatClock(b.Message.Timestamp))
}
