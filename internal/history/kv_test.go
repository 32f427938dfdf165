// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustFileKV(t *testing.T, dir string) *FileKV {
	t.Helper()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	return kv
}

func TestFileKV_RoundTrip(t *testing.T) {
	kv := mustFileKV(t, t.TempDir())

	if err := kv.Set("chat-history-alice", `[{"id":"session_1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, ok, err := kv.Get("chat-history-alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get reported missing after Set")
	}
	if value != `[{"id":"session_1"}]` {
		t.Errorf("value = %q", value)
	}
}

func TestFileKV_MissingKey(t *testing.T) {
	kv := mustFileKV(t, t.TempDir())

	value, ok, err := kv.Get("chat-history-nobody")
	if err != nil {
		t.Fatalf("Get on missing key: %v", err)
	}
	if ok || value != "" {
		t.Errorf("missing key yielded (%q, %v)", value, ok)
	}
}

func TestFileKV_Overwrite(t *testing.T) {
	kv := mustFileKV(t, t.TempDir())

	kv.Set("k", "old")
	kv.Set("k", "new")

	value, _, _ := kv.Get("k")
	if value != "new" {
		t.Errorf("value = %q, want %q", value, "new")
	}
}

func TestFileKV_Remove(t *testing.T) {
	kv := mustFileKV(t, t.TempDir())

	kv.Set("k", "v")
	if err := kv.Remove("k"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := kv.Get("k"); ok {
		t.Error("key survived Remove")
	}

	// Removing an absent key is not an error.
	if err := kv.Remove("k"); err != nil {
		t.Errorf("Remove on missing key: %v", err)
	}
}

func TestFileKV_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")
	kv := mustFileKV(t, dir)

	if err := kv.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "k.json")); err != nil {
		t.Errorf("backing file missing: %v", err)
	}
}

func TestFileKV_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	kv := mustFileKV(t, dir)
	kv.Set("k", "v")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()

	kv.Set("a", "1")
	kv.Set("b", "2")
	if kv.Len() != 2 {
		t.Errorf("Len = %d, want 2", kv.Len())
	}

	value, ok, err := kv.Get("a")
	if err != nil || !ok || value != "1" {
		t.Errorf("Get(a) = (%q, %v, %v)", value, ok, err)
	}

	kv.Remove("a")
	if _, ok, _ := kv.Get("a"); ok {
		t.Error("key survived Remove")
	}
	if err := kv.Remove("a"); err != nil {
		t.Errorf("Remove on missing key: %v", err)
	}
}
