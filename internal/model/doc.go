// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// A Session is one titled conversation thread belonging to a single user,
// holding an ordered list of Messages. Messages are exclusively owned by
// their session and are never referenced across sessions or users.
package model
