// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/finiq-ai/finiq-tui/internal/logging"
	"github.com/finiq-ai/finiq-tui/internal/util"
)

// Error variables for profile operations.
var (
	// ErrNotFound indicates no profile exists with the given name.
	ErrNotFound = errors.New("profile not found")

	// ErrExists indicates a profile with the given name already exists.
	ErrExists = errors.New("profile already exists")

	// ErrBadPassphrase indicates passphrase verification failed.
	ErrBadPassphrase = errors.New("incorrect passphrase")

	// ErrBadTOTP indicates TOTP code verification failed.
	ErrBadTOTP = errors.New("invalid verification code")

	// ErrTOTPNotEnabled indicates the profile has no TOTP enrollment.
	ErrTOTPNotEnabled = errors.New("two-factor verification not enabled")
)

// Manager stores profiles in a single JSON file.
// All operations are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	path     string
	profiles map[string]*Profile // keyed by lowercase name
	logger   *zap.Logger
}

// DefaultPath returns the standard profiles file, ~/.finiq/profiles.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".finiq", "profiles.json"), nil
}

// NewManager opens the profile store at path, creating an empty store if
// the file does not exist.
func NewManager(path string) (*Manager, error) {
	m := &Manager{
		path:     path,
		profiles: make(map[string]*Profile),
		logger:   logging.L(),
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// load reads the profiles file. A missing file is an empty store.
func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read profiles: %w", err)
	}

	var list []*Profile
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("failed to parse profiles: %w", err)
	}
	for _, p := range list {
		m.profiles[strings.ToLower(p.Name)] = p
	}
	return nil
}

// save writes the profiles file atomically with owner-only permissions.
func (m *Manager) save() error {
	list := make([]*Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := util.AtomicWriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	return nil
}

// Create adds a new profile. The passphrase may be empty.
func (m *Manager) Create(name, passphrase string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("profile name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := m.profiles[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}

	p, err := New(name, passphrase)
	if err != nil {
		return nil, err
	}
	m.profiles[key] = p

	if err := m.save(); err != nil {
		delete(m.profiles, key)
		return nil, err
	}

	m.logger.Info("profile created",
		zap.String("name", name),
		zap.String("userId", p.UserID))
	return p, nil
}

// Get returns the profile with the given name.
func (m *Manager) Get(name string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p, nil
}

// List returns all profiles sorted by name.
func (m *Manager) List() []*Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Delete removes a profile by name.
func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := m.profiles[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(m.profiles, key)
	return m.save()
}

// Authenticate verifies a passphrase and records the login time.
// Profiles with TOTP enabled additionally require VerifyTOTP.
func (m *Manager) Authenticate(name, passphrase string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if !p.CheckPassphrase(passphrase) {
		m.logger.Warn("passphrase verification failed", zap.String("name", p.Name))
		return nil, ErrBadPassphrase
	}

	p.LastLoginAt = time.Now()
	if err := m.save(); err != nil {
		// Login time is advisory; authentication still succeeds.
		m.logger.Error("failed to persist login time", zap.Error(err))
	}
	return p, nil
}

// EnrollTOTP generates a TOTP secret for the profile and returns the
// secret and the otpauth:// URL for QR enrollment. The enrollment is not
// active until ConfirmTOTP succeeds with a valid code.
func (m *Manager) EnrollTOTP(name string) (secret, url string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "FinIQ",
		AccountName: p.Name,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	p.TOTPSecret = key.Secret()
	p.TOTPEnabled = false
	if err := m.save(); err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ConfirmTOTP activates TOTP after the user proves they hold the secret.
func (m *Manager) ConfirmTOTP(name, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if p.TOTPSecret == "" {
		return ErrTOTPNotEnabled
	}
	if !totp.Validate(code, p.TOTPSecret) {
		return ErrBadTOTP
	}

	p.TOTPEnabled = true
	if err := m.save(); err != nil {
		return err
	}
	m.logger.Info("TOTP enabled", zap.String("name", p.Name))
	return nil
}

// VerifyTOTP checks a TOTP code for a profile with active enrollment.
func (m *Manager) VerifyTOTP(name, code string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if !p.TOTPEnabled || p.TOTPSecret == "" {
		return ErrTOTPNotEnabled
	}
	if !totp.Validate(code, p.TOTPSecret) {
		return ErrBadTOTP
	}
	return nil
}

// DisableTOTP removes TOTP enrollment from a profile.
func (m *Manager) DisableTOTP(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	p.TOTPSecret = ""
	p.TOTPEnabled = false
	return m.save()
}

// Len returns the number of stored profiles.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}
