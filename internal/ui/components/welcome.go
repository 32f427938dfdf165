// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the finiq TUI.
package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finiq-ai/finiq-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN COMPONENT
// =============================================================================

const welcomeLogo = `
  __ _       _
 / _(_)_ __ (_) __ _
| |_| | '_ \| |/ _' |
|  _| | | | | | (_| |
|_| |_|_| |_|_|\__, |
                  |_|`

// Welcome is the landing screen shown before the first message.
type Welcome struct {
	version   string
	modelName string
	profile   string
	termCount int

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetModelName sets the mentor model name.
func (w *Welcome) SetModelName(name string) {
	w.modelName = name
}

// SetProfile sets the active profile name.
func (w *Welcome) SetProfile(profile string) {
	w.profile = profile
}

// SetTermCount sets the glossary size shown in the info line.
func (w *Welcome) SetTermCount(n int) {
	w.termCount = n
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen centered in the terminal.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 62
	if boxWidth > width-4 {
		boxWidth = width - 4
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	var lines []string

	lines = append(lines, w.theme.WelcomeLogo.Render(strings.TrimPrefix(welcomeLogo, "\n")))
	lines = append(lines, w.theme.WelcomeVersion.Render("your financial mentor  "+w.version))
	lines = append(lines, "")

	if w.modelName != "" {
		lines = append(lines, w.infoLine("model", w.modelName))
	}
	if w.profile != "" {
		lines = append(lines, w.infoLine("profile", w.profile))
	}
	if w.termCount > 0 {
		lines = append(lines, w.infoLine("glossary", itoa(w.termCount)+" financial terms"))
	}
	lines = append(lines, "")

	lines = append(lines, w.keyLine("enter", "send a question"))
	lines = append(lines, w.keyLine("/help", "list commands"))
	lines = append(lines, w.keyLine("ctrl+g", "browse the glossary"))
	lines = append(lines, w.keyLine("ctrl+c", "quit"))
	lines = append(lines, "")
	lines = append(lines, w.theme.WelcomePressKey.Render("Ask anything about money to begin"))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	box := w.theme.WelcomeBox.Width(boxWidth).Align(lipgloss.Center).Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (w Welcome) infoLine(label, value string) string {
	return w.theme.WelcomeKey.Render(label+":") + " " + w.theme.WelcomeInfo.Render(value)
}

func (w Welcome) keyLine(key, desc string) string {
	return w.theme.WelcomeKey.Render(key) + " " + w.theme.WelcomeInfo.Render(desc)
}

// itoa converts an int to its decimal string without fmt.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
