package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoadOrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	files := []string{"002_add_index.sql", "001_init.sql", "notes.txt", "abc_bad.sql"}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("SELECT 1"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := NewMigrator(nil, dir, zerolog.Nop())
	migs, err := m.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "init" {
		t.Errorf("first migration = %+v, want 001_init", migs[0])
	}
	if migs[1].Version != 2 || migs[1].Name != "add_index" {
		t.Errorf("second migration = %+v, want 002_add_index", migs[1])
	}
}

func TestLoadRejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"001_one.sql", "001_other.sql"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("SELECT 1"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	m := NewMigrator(nil, dir, zerolog.Nop())
	if _, err := m.load(); err == nil {
		t.Fatal("expected duplicate version error")
	}
}
