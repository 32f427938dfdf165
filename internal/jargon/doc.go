// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package jargon recognizes financial vocabulary in mentor responses.
//
// The package has two halves: the Highlighter scans plain text and splits it
// into lossless segments, marking every whole-word occurrence of a known
// term variation so the UI can attach the plain-language definition; the
// Glossary exposes the same term table for browsing, category filtering and
// search.
//
// The term table is static and immutable for the lifetime of the process.
package jargon
