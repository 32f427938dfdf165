// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile manages local user profiles for finiq.
//
// Each profile has a stable user ID that namespaces chat history, an
// optional passphrase (PBKDF2-SHA-256, per NIST SP 800-132), and optional
// TOTP two-factor verification. Profiles are stored in
// ~/.finiq/profiles.json with owner-only permissions.
package profile
