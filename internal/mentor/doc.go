// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mentor provides the client for the FinIQ AI mentor backend.
//
// The mentor backend exposes an OpenAI-style chat-completions API. This
// package implements the client with retries, rate limiting, and a
// financial-education system prompt, and converts the wire format to and
// from the application's message model.
package mentor
