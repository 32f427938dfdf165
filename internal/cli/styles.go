// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Centralized styling for all CLI commands in finiq.
//
// All CLI commands should use these shared styles instead of defining
// their own. Colors are automatically disabled for non-TTY output and
// when NO_COLOR is set.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan).
			MarginBottom(1)

	// SectionStyle is used for section headers within commands
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary).
			MarginTop(1)

	// LabelStyle is used for field labels (left-aligned prompts)
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Width(20)

	// ValueStyle is used for regular values and text
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// SuccessStyle is used for success messages and OK statuses
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// ErrorStyle is used for error messages and failures
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// WarningStyle is used for warnings and cautions
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)

	// MutedStyle is used for hints, timestamps and secondary detail
	MutedStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// TermStyle is used for highlighted financial terms in responses
	TermStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true).
			Underline(true)

	// promptStyle is the REPL input prompt
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	// separatorStyle renders horizontal rules between output blocks
	separatorStyle = lipgloss.NewStyle().
			Foreground(styles.Overlay)
)
