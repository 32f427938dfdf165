// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// ACTIVITY MANAGER
// =============================================================================

// Manager tracks activity for the open chat. An idle chat is warned,
// then autosaved and closed when the timeout elapses; while the user is
// active, unsaved messages are flushed on the autosave interval.
type Manager struct {
	mu sync.Mutex

	startTime    time.Time
	lastActivity time.Time

	timeout       time.Duration // 0 disables the idle timer
	warningBefore time.Duration
	warningShown  bool

	autoSaveEnabled  bool
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
	isDirty          bool

	onTimeout  func()
	onWarning  func(remaining time.Duration)
	onAutoSave func() error
}

// Config holds configuration for the activity manager.
type Config struct {
	Timeout          time.Duration // idle timeout, 0 to disable
	WarningBefore    time.Duration // warning lead time before the timeout
	AutoSaveEnabled  bool
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default activity configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Minute,
		WarningBefore:    2 * time.Minute,
		AutoSaveEnabled:  true,
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewManager creates a new activity manager.
func NewManager(cfg Config) *Manager {
	now := time.Now()
	return &Manager{
		startTime:        now,
		lastActivity:     now,
		lastAutoSave:     now,
		timeout:          cfg.Timeout,
		warningBefore:    cfg.WarningBefore,
		autoSaveEnabled:  cfg.AutoSaveEnabled,
		autoSaveInterval: cfg.AutoSaveInterval,
	}
}

// =============================================================================
// ACTIVITY STATE
// =============================================================================

// locked state predicates. Callers hold m.mu.

func (m *Manager) expiredLocked() bool {
	return m.timeout > 0 && time.Since(m.lastActivity) >= m.timeout
}

func (m *Manager) warnDueLocked() (time.Duration, bool) {
	if m.timeout <= 0 || m.warningShown {
		return 0, false
	}
	idle := time.Since(m.lastActivity)
	if idle < m.timeout-m.warningBefore || idle >= m.timeout {
		return 0, false
	}
	return m.timeout - idle, true
}

func (m *Manager) saveDueLocked() bool {
	return m.autoSaveEnabled && m.isDirty &&
		time.Since(m.lastAutoSave) >= m.autoSaveInterval
}

// StartTime returns when tracking started.
func (m *Manager) StartTime() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTime
}

// Duration returns how long the chat has been open.
func (m *Manager) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.startTime)
}

// IdleTime returns how long since last activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// RemainingTime returns time until idle timeout, or 0 when expired or
// when the idle timer is off.
func (m *Manager) RemainingTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timeout <= 0 {
		return 0
	}
	return max(m.timeout-time.Since(m.lastActivity), 0)
}

// IsExpired reports whether the chat has been idle past the timeout.
func (m *Manager) IsExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiredLocked()
}

// ShouldShowWarning reports whether an idle warning is due.
func (m *Manager) ShouldShowWarning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, due := m.warnDueLocked()
	return due
}

// ShouldAutoSave reports whether auto-save should trigger.
func (m *Manager) ShouldAutoSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveDueLocked()
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// RecordActivity resets the idle clock. Called on user input. A reset
// clears the warning latch so the next idle stretch warns again.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
	m.warningShown = false
}

// MarkDirty indicates the chat has unsaved messages.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// MarkClean indicates the chat has been saved.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
	m.lastAutoSave = time.Now()
}

// IsDirty reports whether the chat has unsaved messages.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// =============================================================================
// CALLBACKS
// =============================================================================

// SetTimeoutCallback sets the function called when the chat goes idle.
func (m *Manager) SetTimeoutCallback(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTimeout = fn
}

// SetWarningCallback sets the function called ahead of the idle timeout.
func (m *Manager) SetWarningCallback(fn func(remaining time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onWarning = fn
}

// SetAutoSaveCallback sets the function called for auto-save.
func (m *Manager) SetAutoSaveCallback(fn func() error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutoSave = fn
}

// Check evaluates activity state and fires due callbacks, outside the
// lock. Returns true while the chat is live, false once the idle
// timeout has fired.
func (m *Manager) Check() bool {
	m.mu.Lock()
	expired := m.expiredLocked()
	remaining, warn := 0*time.Second, false
	if !expired {
		remaining, warn = m.warnDueLocked()
		if warn {
			m.warningShown = true
		}
	}
	save := m.saveDueLocked()
	onTimeout, onWarning, onAutoSave := m.onTimeout, m.onWarning, m.onAutoSave
	m.mu.Unlock()

	if warn && onWarning != nil {
		onWarning(remaining)
	}
	if save && onAutoSave != nil {
		if err := onAutoSave(); err == nil {
			m.MarkClean()
		}
	}
	if expired && onTimeout != nil {
		onTimeout()
	}
	return !expired
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check activity state.
type TickMsg struct {
	Time time.Time
}

// IdleWarningMsg indicates the chat is about to be closed for inactivity.
type IdleWarningMsg struct {
	Remaining time.Duration
}

// IdleTimeoutMsg indicates the chat went idle past the timeout.
type IdleTimeoutMsg struct{}

// AutoSaveMsg indicates auto-save should occur.
type AutoSaveMsg struct{}

// TickCmd returns a command that ticks once per second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick turns the current activity state into messages and
// re-arms the tick.
func (m *Manager) HandleTick() tea.Cmd {
	var cmds []tea.Cmd

	m.mu.Lock()
	if remaining, warn := m.warnDueLocked(); warn {
		m.warningShown = true
		cmds = append(cmds, func() tea.Msg {
			return IdleWarningMsg{Remaining: remaining}
		})
	}
	expired := m.expiredLocked()
	save := m.saveDueLocked()
	m.mu.Unlock()

	if expired {
		cmds = append(cmds, func() tea.Msg { return IdleTimeoutMsg{} })
	}
	if save {
		cmds = append(cmds, func() tea.Msg { return AutoSaveMsg{} })
	}
	cmds = append(cmds, TickCmd())
	return tea.Batch(cmds...)
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetTimeout updates the idle timeout duration.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

// SetWarningTime updates the warning lead time.
func (m *Manager) SetWarningTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warningBefore = d
}

// SetAutoSaveEnabled enables or disables auto-save.
func (m *Manager) SetAutoSaveEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoSaveEnabled = enabled
}

// SetAutoSaveInterval updates the auto-save interval.
func (m *Manager) SetAutoSaveInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoSaveInterval = d
}

// =============================================================================
// STATUS
// =============================================================================

// Status is a point-in-time snapshot of activity state.
type Status struct {
	StartTime     time.Time
	Duration      time.Duration
	IdleTime      time.Duration
	RemainingTime time.Duration
	IsDirty       bool
	IsExpired     bool
}

// GetStatus returns the current activity status.
func (m *Manager) GetStatus() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	idle := now.Sub(m.lastActivity)
	var remaining time.Duration
	if m.timeout > 0 {
		remaining = max(m.timeout-idle, 0)
	}
	return Status{
		StartTime:     m.startTime,
		Duration:      now.Sub(m.startTime),
		IdleTime:      idle,
		RemainingTime: remaining,
		IsDirty:       m.isDirty,
		IsExpired:     m.timeout > 0 && idle >= m.timeout,
	}
}

// FormatDuration renders a duration as "Ns", "Nm", or "Nm Ns".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
