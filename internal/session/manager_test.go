// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"
	"time"
)

func TestRecordActivityResetsIdle(t *testing.T) {
	m := NewManager(Config{Timeout: 50 * time.Millisecond})

	time.Sleep(60 * time.Millisecond)
	if !m.IsExpired() {
		t.Fatal("expected expiry after idle period")
	}

	m.RecordActivity()
	if m.IsExpired() {
		t.Error("activity did not reset the idle timer")
	}
}

func TestZeroTimeoutDisablesIdleTimer(t *testing.T) {
	m := NewManager(Config{Timeout: 0})

	time.Sleep(10 * time.Millisecond)
	if m.IsExpired() {
		t.Error("zero timeout must never expire")
	}
	if m.ShouldShowWarning() {
		t.Error("zero timeout must never warn")
	}
	if !m.Check() {
		t.Error("Check reported expiry with timer disabled")
	}
}

func TestCheckFiresTimeoutCallback(t *testing.T) {
	m := NewManager(Config{Timeout: 10 * time.Millisecond})

	fired := false
	m.SetTimeoutCallback(func() { fired = true })

	time.Sleep(20 * time.Millisecond)
	if m.Check() {
		t.Error("Check should report expiry")
	}
	if !fired {
		t.Error("timeout callback not invoked")
	}
}

func TestCheckFiresWarningOnce(t *testing.T) {
	m := NewManager(Config{
		Timeout:       100 * time.Millisecond,
		WarningBefore: 90 * time.Millisecond,
	})

	warnings := 0
	m.SetWarningCallback(func(time.Duration) { warnings++ })

	time.Sleep(20 * time.Millisecond)
	m.Check()
	m.Check()
	if warnings != 1 {
		t.Errorf("warnings = %d, want 1", warnings)
	}

	// Activity resets the warning latch.
	m.RecordActivity()
	time.Sleep(20 * time.Millisecond)
	m.Check()
	if warnings != 2 {
		t.Errorf("warnings = %d, want 2", warnings)
	}
}

func TestAutoSave(t *testing.T) {
	m := NewManager(Config{
		Timeout:          time.Hour,
		AutoSaveEnabled:  true,
		AutoSaveInterval: 5 * time.Millisecond,
	})

	saves := 0
	m.SetAutoSaveCallback(func() error { saves++; return nil })

	// Clean chat never autosaves.
	time.Sleep(10 * time.Millisecond)
	m.Check()
	if saves != 0 {
		t.Errorf("saves = %d on clean chat", saves)
	}

	m.MarkDirty()
	time.Sleep(10 * time.Millisecond)
	m.Check()
	if saves != 1 {
		t.Errorf("saves = %d, want 1", saves)
	}
	if m.IsDirty() {
		t.Error("successful autosave should mark clean")
	}
}

func TestAutoSaveErrorKeepsDirty(t *testing.T) {
	m := NewManager(Config{
		Timeout:          time.Hour,
		AutoSaveEnabled:  true,
		AutoSaveInterval: time.Millisecond,
	})
	m.SetAutoSaveCallback(func() error { return errors.New("disk full") })

	m.MarkDirty()
	time.Sleep(5 * time.Millisecond)
	m.Check()
	if !m.IsDirty() {
		t.Error("failed autosave must leave the chat dirty")
	}
}

func TestGetStatus(t *testing.T) {
	m := NewManager(Config{Timeout: time.Hour})
	m.MarkDirty()

	st := m.GetStatus()
	if st.IsExpired {
		t.Error("fresh manager reported expired")
	}
	if !st.IsDirty {
		t.Error("dirty flag lost")
	}
	if st.RemainingTime <= 0 || st.RemainingTime > time.Hour {
		t.Errorf("RemainingTime = %v", st.RemainingTime)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{time.Minute, "1m"},
		{90 * time.Second, "1m 30s"},
		{5 * time.Minute, "5m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
