// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index maintains a SQLite full-text index over the chat history
// directory for fast session search.
//
// The index reads the per-user history files written by the history
// package, flattens each session's messages into searchable text, and
// keeps itself current by watching the directory for changes (fsnotify
// with a polling fallback). The index is a cache: it can always be
// rebuilt from the history files, so index failures never block chat.
package index
