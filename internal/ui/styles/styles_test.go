// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPaletteDefined(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"Cyan", Cyan},
		{"CyanDeep", CyanDeep},
		{"Purple", Purple},
		{"Emerald", Emerald},
		{"Rose", Rose},
		{"Amber", Amber},
		{"Surface", Surface},
		{"Overlay", Overlay},
		{"TextPrimary", TextPrimary},
		{"TextMuted", TextMuted},
		{"TermFg", TermFg},
		{"TermBg", TermBg},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s should define both light and dark variants", c.name)
		}
		if !strings.HasPrefix(c.color.Light, "#") || !strings.HasPrefix(c.color.Dark, "#") {
			t.Errorf("%s variants should be hex colors, got %q/%q", c.name, c.color.Light, c.color.Dark)
		}
	}
}

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}

	// Styles must be initialized, not zero values
	if !theme.Header.GetBold() {
		t.Error("Header style should be bold")
	}
	if !theme.TermHighlight.GetBold() {
		t.Error("TermHighlight style should be bold")
	}
	if theme.UserBubble.GetMarginLeft() == 0 {
		t.Error("UserBubble should be indented from the left")
	}
	if theme.MentorBubble.GetMarginRight() == 0 {
		t.Error("MentorBubble should be indented from the right")
	}
}

func TestThemeSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize not recorded: %dx%d", theme.Width, theme.Height)
	}
}
