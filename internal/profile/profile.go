// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// pbkdf2Iterations follows OWASP guidance for PBKDF2-SHA-256.
	pbkdf2Iterations = 600_000

	// saltSize is the random salt length in bytes.
	saltSize = 16

	// keySize is the derived hash length in bytes.
	keySize = 32
)

// GuestUserID is the user ID used when no profile is selected.
const GuestUserID = "guest"

// Profile is a local finiq user identity.
type Profile struct {
	// UserID is the stable identifier that namespaces chat history.
	UserID string `json:"userId"`

	// Name is the human-facing profile name, unique per install.
	Name string `json:"name"`

	// PassphraseHash is the hex-encoded PBKDF2-SHA-256 hash of the
	// passphrase. Empty if the profile has no passphrase.
	PassphraseHash string `json:"passphraseHash,omitempty"`

	// PassphraseSalt is the hex-encoded random salt.
	PassphraseSalt string `json:"passphraseSalt,omitempty"`

	// TOTPSecret is the shared secret for TOTP verification.
	TOTPSecret string `json:"totpSecret,omitempty"`

	// TOTPEnabled indicates the user completed TOTP enrollment.
	TOTPEnabled bool `json:"totpEnabled"`

	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt,omitempty"`
}

// New creates a profile with a fresh user ID. The passphrase may be empty
// for a local-only profile.
func New(name, passphrase string) (*Profile, error) {
	p := &Profile{
		UserID:    "user_" + uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if passphrase != "" {
		if err := p.SetPassphrase(passphrase); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Guest returns the ephemeral profile used when nobody is signed in.
// It is never persisted.
func Guest() *Profile {
	return &Profile{
		UserID:    GuestUserID,
		Name:      "Guest",
		CreatedAt: time.Now(),
	}
}

// HasPassphrase reports whether the profile requires a passphrase.
func (p *Profile) HasPassphrase() bool {
	return p.PassphraseHash != ""
}

// SetPassphrase derives and stores a new passphrase hash with a fresh salt.
func (p *Profile) SetPassphrase(passphrase string) error {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	hash := deriveHash(passphrase, salt)
	p.PassphraseSalt = hex.EncodeToString(salt)
	p.PassphraseHash = hex.EncodeToString(hash)
	return nil
}

// CheckPassphrase verifies a passphrase against the stored hash in
// constant time. A profile without a passphrase accepts any input.
func (p *Profile) CheckPassphrase(passphrase string) bool {
	if !p.HasPassphrase() {
		return true
	}
	salt, err := hex.DecodeString(p.PassphraseSalt)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(p.PassphraseHash)
	if err != nil {
		return false
	}
	got := deriveHash(passphrase, salt)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// deriveHash derives a passphrase hash using PBKDF2-SHA-256.
// NIST SP 800-132 Password-Based Key Derivation.
func deriveHash(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, pbkdf2Iterations, keySize, sha256.New)
}
