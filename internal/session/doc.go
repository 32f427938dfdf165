// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks chat activity: idle timeout, dirty state, and
// periodic autosave of the open conversation.
package session
