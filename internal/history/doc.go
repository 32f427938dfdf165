// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists chat sessions per user.
//
// Sessions are stored through a small key-value abstraction with one entry
// per user (key "chat-history-<userID>", value a JSON array of sessions),
// written whole on every mutation. The production implementation keeps one
// file per key under ~/.finiq/history/ and writes it atomically; tests use
// an in-memory fake.
//
// Persistence failures never escape the store's public operations: reads
// degrade to an empty list and writes to a no-op, with the failure logged.
// Concurrent finiq processes are not coordinated - last writer wins, and
// other instances stay stale until they reload.
package history
