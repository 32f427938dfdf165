// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - TTY detection, width-aware wrapping, and color control.
//
// CLI output adapts to where it lands: wrapped and colored on a
// terminal, plain when piped. NO_COLOR disables colors outright and
// FORCE_COLOR turns them on even for pipes.
package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

func fdIsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether stdin is a terminal, i.e. whether interactive
// prompts are possible.
func IsTTY() bool { return fdIsTerminal(os.Stdin) }

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool { return fdIsTerminal(os.Stdout) }

// IsStderrTTY reports whether stderr is a terminal.
func IsStderrTTY() bool { return fdIsTerminal(os.Stderr) }

// CanPrompt reports whether interactive prompts are possible.
func CanPrompt() bool { return IsTTY() }

// RequiresTTY returns a TTYRequiredError when stdin is not a terminal.
// Commands that must prompt call this up front.
func RequiresTTY(operation string) error {
	if !IsTTY() {
		return &TTYRequiredError{Operation: operation}
	}
	return nil
}

// TTYRequiredError signals that an interactive operation was attempted
// with stdin redirected.
type TTYRequiredError struct {
	Operation string
}

func (e *TTYRequiredError) Error() string {
	if e.Operation == "" {
		return "stdin is not a terminal; interactive input not available"
	}
	return "stdin is not a terminal; cannot " + e.Operation + " interactively"
}

// =============================================================================
// WIDTH AND WRAPPING
// =============================================================================

const (
	// DefaultTerminalWidth is assumed when the size query fails.
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the narrowest width wrapping will target.
	MinTerminalWidth = 40
)

// GetTerminalWidth returns the stdout width, clamped to
// MinTerminalWidth, or DefaultTerminalWidth when it cannot be read.
func GetTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	switch {
	case err != nil || w <= 0:
		return DefaultTerminalWidth
	case w < MinTerminalWidth:
		return MinTerminalWidth
	default:
		return w
	}
}

// WrapText rewraps text at word boundaries to fit maxWidth, keeping
// existing newlines. A zero or negative maxWidth means the current
// terminal width.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = GetTerminalWidth()
	}
	if maxWidth > 10 {
		maxWidth -= 2 // breathing room at the right edge
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if len(line) <= maxWidth {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line, maxWidth)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	var wrapped []string
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) > width {
			wrapped = append(wrapped, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(wrapped, cur)
}

// =============================================================================
// COLOR CONTROL
// =============================================================================

var colorsOnce = sync.OnceValue(func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return IsStdoutTTY()
})

// ColorsEnabled reports whether output should be colored. The decision
// is made once per process; see the package comment for the rules.
func ColorsEnabled() bool {
	return colorsOnce()
}

// GetColorProfile returns the termenv profile to render with, Ascii
// when colors are off.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// PASSPHRASE INPUT
// =============================================================================

// readPassphrase prompts on stderr and reads a line without echo.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("could not read passphrase: %w", err)
	}
	return string(raw), nil
}
