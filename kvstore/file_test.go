package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFile_GetSet(t *testing.T) {
	ctx := context.Background()
	store := NewFile(t.TempDir())

	t.Run("absent key", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "nothing")
		if err != nil {
			t.Fatalf("Get() error = %v, want nil", err)
		}
		if ok || value != nil {
			t.Errorf("Get(absent) = (%q, %v), want (nil, false)", value, ok)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		if err := store.Set(ctx, "banken.accounts", []byte(`[]`)); err != nil {
			t.Fatalf("Set() error = %v, want nil", err)
		}
		value, ok, err := store.Get(ctx, "banken.accounts")
		if err != nil || !ok {
			t.Fatalf("Get() = (%v, %v), want the stored value", ok, err)
		}
		if string(value) != `[]` {
			t.Errorf("Get() = %q, want %q", value, `[]`)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := store.Set(ctx, "banken.accounts", []byte(`[1]`)); err != nil {
			t.Fatalf("Set() error = %v, want nil", err)
		}
		value, _, err := store.Get(ctx, "banken.accounts")
		if err != nil {
			t.Fatalf("Get() error = %v, want nil", err)
		}
		if string(value) != `[1]` {
			t.Errorf("Get() after overwrite = %q, want %q", value, `[1]`)
		}
	})
}

func TestFile_CreatesDirectory(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "deep", "store")
	store := NewFile(dir)

	if err := store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v, want nil", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "k.json")); err != nil {
		t.Errorf("expected k.json in the store directory: %v", err)
	}
}

func TestFile_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFile(dir)

	for i := 0; i < 3; i++ {
		if err := store.Set(ctx, "k", []byte("v")); err != nil {
			t.Fatalf("Set() error = %v, want nil", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v, want nil", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewFile(t.TempDir())

	if err := store.Set(ctx, "k", []byte("v")); err == nil {
		t.Error("Set() with canceled context succeeded, want error")
	}
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Error("Get() with canceled context succeeded, want error")
	}
}
