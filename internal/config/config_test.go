// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoadFromPathTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1.0.0"

[mentor]
model = "finiq-mentor-2"
timeout_secs = 30

[ui]
theme = "light"
highlight_terms = true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Mentor.Model != "finiq-mentor-2" {
		t.Errorf("Model = %q", cfg.Mentor.Model)
	}
	if cfg.Mentor.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d", cfg.Mentor.TimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	// Unspecified fields pick up defaults.
	if cfg.Mentor.BaseURL == "" {
		t.Error("BaseURL default not applied")
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"mentor": {"model": "finiq-mentor-2"}, "ui": {"theme": "auto"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Mentor.Model != "finiq-mentor-2" {
		t.Errorf("Model = %q", cfg.Mentor.Model)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestLoadFromPathInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ui]
theme = "neon"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected validation error for unknown theme")
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Mentor.Model = "finiq-mentor-2"
	cfg.UI.CompactMode = true
	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Mentor.Model != "finiq-mentor-2" {
		t.Errorf("Model = %q", loaded.Mentor.Model)
	}
	if !loaded.UI.CompactMode {
		t.Error("CompactMode lost in round-trip")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FINIQ_API_KEY", "sk-test")
	t.Setenv("FINIQ_MODEL", "finiq-mentor-env")
	t.Setenv("FINIQ_DEBUG", "true")
	t.Setenv("FINIQ_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Mentor.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.Mentor.APIKey)
	}
	if cfg.Mentor.Model != "finiq-mentor-env" {
		t.Errorf("Model = %q", cfg.Mentor.Model)
	}
	if !cfg.Logging.Debug {
		t.Error("Debug override not applied")
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "bad base URL",
			mutate: func(c *Config) { c.Mentor.BaseURL = "not a url" },
			field:  "mentor.base_url",
		},
		{
			name:   "timeout too large",
			mutate: func(c *Config) { c.Mentor.TimeoutSecs = 9999 },
			field:  "mentor.timeout_secs",
		},
		{
			name:   "negative retries",
			mutate: func(c *Config) { c.Mentor.MaxRetries = -1 },
			field:  "mentor.max_retries",
		},
		{
			name:   "negative idle timeout",
			mutate: func(c *Config) { c.Session.IdleTimeoutSecs = -5 },
			field:  "session.idle_timeout_secs",
		},
		{
			name:   "bad theme",
			mutate: func(c *Config) { c.UI.Theme = "sepia" },
			field:  "ui.theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestGetSetDotNotation(t *testing.T) {
	cfg := Default()

	if err := cfg.Set("mentor.model", "finiq-mentor-2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := cfg.Get("mentor.model")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "finiq-mentor-2" {
		t.Errorf("Get = %v", got)
	}

	// String-to-int conversion.
	if err := cfg.Set("session.autosave_secs", "45"); err != nil {
		t.Fatalf("Set int: %v", err)
	}
	if cfg.Session.AutosaveSecs != 45 {
		t.Errorf("AutosaveSecs = %d", cfg.Session.AutosaveSecs)
	}

	// String-to-bool conversion.
	if err := cfg.Set("ui.compact_mode", "true"); err != nil {
		t.Fatalf("Set bool: %v", err)
	}
	if !cfg.UI.CompactMode {
		t.Error("CompactMode not set")
	}

	if _, err := cfg.Get("mentor.no_such_field"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := cfg.Set("no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestStringRedactsAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Mentor.APIKey = "sk-super-secret"

	out := cfg.String()
	if strings.Contains(out, "sk-super-secret") {
		t.Error("API key leaked in String output")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("redaction marker missing")
	}
	// Original untouched.
	if cfg.Mentor.APIKey != "sk-super-secret" {
		t.Error("String mutated the config")
	}
}

func TestGetAllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("key %q does not resolve: %v", key, err)
		}
	}
}
