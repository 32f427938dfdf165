// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/finiq-ai/finiq-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete finiq configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Mentor (chat backend) configuration
	Mentor MentorConfig `toml:"mentor" json:"mentor"`

	// Session lifecycle configuration
	Session SessionConfig `toml:"session" json:"session"`

	// History persistence configuration
	History HistoryConfig `toml:"history" json:"history"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// MentorConfig contains the AI mentor backend configuration.
type MentorConfig struct {
	// BaseURL is the chat-completions endpoint base URL
	BaseURL string `toml:"base_url" json:"base_url"`
	// APIKey authenticates requests to the mentor backend
	APIKey string `toml:"api_key" json:"api_key"`
	// Model is the model identifier sent with each request
	Model string `toml:"model" json:"model"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is how many times a failed request is retried
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RequestsPerMinute caps outgoing request rate (0 = unlimited)
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// SessionConfig contains session lifecycle configuration.
type SessionConfig struct {
	// IdleTimeoutSecs is how long a chat may sit idle before it is
	// considered stale and autosaved. 0 disables the idle timer.
	IdleTimeoutSecs int `toml:"idle_timeout_secs" json:"idle_timeout_secs"`
	// AutosaveSecs is the interval between periodic autosaves.
	AutosaveSecs int `toml:"autosave_secs" json:"autosave_secs"`
	// MaxSessions caps how many sessions are retained per user (0 = unlimited)
	MaxSessions int `toml:"max_sessions" json:"max_sessions"`
}

// HistoryConfig contains chat history persistence configuration.
type HistoryConfig struct {
	// Dir is the history directory (empty = default ~/.finiq/history)
	Dir string `toml:"dir" json:"dir"`
	// IndexEnabled enables the local full-text session index
	IndexEnabled bool `toml:"index_enabled" json:"index_enabled"`
	// WatchEnabled enables re-indexing when history files change on disk
	WatchEnabled bool `toml:"watch_enabled" json:"watch_enabled"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Path is the log file path (empty = default ~/.finiq/finiq.log)
	Path string `toml:"path" json:"path"`
	// Debug lowers the log level to debug
	Debug bool `toml:"debug" json:"debug"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// HighlightTerms toggles financial-term highlighting in responses
	HighlightTerms bool `toml:"highlight_terms" json:"highlight_terms"`
	// ShowDefinitions appends definitions of highlighted terms below a response
	ShowDefinitions bool `toml:"show_definitions" json:"show_definitions"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Mentor: MentorConfig{
			BaseURL:           "https://api.finiq.ai/v1",
			APIKey:            "",
			Model:             "finiq-mentor-1",
			TimeoutSecs:       60,
			MaxRetries:        2,
			RequestsPerMinute: 30,
		},

		Session: SessionConfig{
			IdleTimeoutSecs: 1800,
			AutosaveSecs:    30,
			MaxSessions:     0, // unlimited
		},

		History: HistoryConfig{
			Dir:          "",
			IndexEnabled: true,
			WatchEnabled: true,
		},

		Logging: LoggingConfig{
			Path:  "",
			Debug: false,
		},

		UI: UIConfig{
			Theme:           "dark",
			CompactMode:     false,
			HighlightTerms:  true,
			ShowDefinitions: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the finiq configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".finiq"), nil
}

// HistoryDir resolves the chat history directory, honoring history.dir
// when set and falling back to ~/.finiq/history.
func (c *Config) HistoryDir() (string, error) {
	if c.History.Dir != "" {
		return c.History.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finish(cfg)
			}
		}
	}

	// Defaults (with any load error for informational purposes)
	cfg, err = finish(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finish applies env overrides, defaults, and validation to a loaded config.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# finiq configuration file")
	fmt.Fprintln(file, "# Generated by finiq - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Mentor settings
	if c.Mentor.BaseURL != "" {
		if u, err := url.Parse(c.Mentor.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "mentor.base_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Mentor.BaseURL),
			})
		}
	}
	if c.Mentor.TimeoutSecs < 1 || c.Mentor.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "mentor.timeout_secs",
			Message: fmt.Sprintf("must be 1-600, got %d", c.Mentor.TimeoutSecs),
		})
	}
	if c.Mentor.MaxRetries < 0 || c.Mentor.MaxRetries > 10 {
		errs = append(errs, ValidationError{
			Field:   "mentor.max_retries",
			Message: fmt.Sprintf("must be 0-10, got %d", c.Mentor.MaxRetries),
		})
	}
	if c.Mentor.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "mentor.requests_per_minute",
			Message: "cannot be negative",
		})
	}

	// Session settings
	if c.Session.IdleTimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "session.idle_timeout_secs",
			Message: "cannot be negative",
		})
	}
	if c.Session.AutosaveSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "session.autosave_secs",
			Message: "cannot be negative",
		})
	}
	if c.Session.MaxSessions < 0 {
		errs = append(errs, ValidationError{
			Field:   "session.max_sessions",
			Message: "cannot be negative",
		})
	}

	// UI settings
	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Mentor.BaseURL == "" {
		c.Mentor.BaseURL = defaults.Mentor.BaseURL
	}
	if c.Mentor.Model == "" {
		c.Mentor.Model = defaults.Mentor.Model
	}
	if c.Mentor.TimeoutSecs == 0 {
		c.Mentor.TimeoutSecs = defaults.Mentor.TimeoutSecs
	}

	if c.Session.AutosaveSecs == 0 {
		c.Session.AutosaveSecs = defaults.Session.AutosaveSecs
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - FINIQ_API_KEY: overrides mentor.api_key
//   - FINIQ_API_URL: overrides mentor.base_url
//   - FINIQ_MODEL: overrides mentor.model
//   - FINIQ_HISTORY_DIR: overrides history.dir
//   - FINIQ_LOG_PATH: overrides logging.path
//   - FINIQ_DEBUG: set to "1" or "true" to enable debug logging
//   - FINIQ_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("FINIQ_API_KEY"); key != "" {
		c.Mentor.APIKey = key
	}
	if rawURL := os.Getenv("FINIQ_API_URL"); rawURL != "" {
		c.Mentor.BaseURL = rawURL
	}
	if model := os.Getenv("FINIQ_MODEL"); model != "" {
		c.Mentor.Model = model
	}
	if dir := os.Getenv("FINIQ_HISTORY_DIR"); dir != "" {
		c.History.Dir = dir
	}
	if path := os.Getenv("FINIQ_LOG_PATH"); path != "" {
		c.Logging.Path = path
	}
	if debug := os.Getenv("FINIQ_DEBUG"); debug != "" {
		c.Logging.Debug = debug == "1" || strings.ToLower(debug) == "true"
	}
	if theme := os.Getenv("FINIQ_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "mentor.model").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "mentor.model").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	// Handle string input with type conversion
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"mentor.base_url",
		"mentor.api_key",
		"mentor.model",
		"mentor.timeout_secs",
		"mentor.max_retries",
		"mentor.requests_per_minute",
		"session.idle_timeout_secs",
		"session.autosave_secs",
		"session.max_sessions",
		"history.dir",
		"history.index_enabled",
		"history.watch_enabled",
		"logging.path",
		"logging.debug",
		"ui.theme",
		"ui.compact_mode",
		"ui.highlight_terms",
		"ui.show_definitions",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for debugging.
// SECURITY: Redacts the API key to prevent accidental exposure in logs.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Mentor.APIKey != "" {
		safe.Mentor.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
