// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the finiq TUI.
package chat

import (
	"context"
	"sync"
)

// =============================================================================
// CANCEL MANAGER
// =============================================================================

// cancelManager tracks the cancel function for the in-flight mentor
// request. It lives behind a pointer so Bubble Tea's model copies never
// copy the mutex.
type cancelManager struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// Set stores the cancel function for the current request, canceling
// any previous one first.
func (c *cancelManager) Set(cancel context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
}

// Cancel cancels the in-flight request if there is one. Returns true
// when something was actually canceled.
func (c *cancelManager) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return false
	}
	c.cancel()
	c.cancel = nil
	return true
}

// Clear drops the stored cancel function without calling it.
func (c *cancelManager) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancel = nil
}

// Active reports whether a request is in flight.
func (c *cancelManager) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
