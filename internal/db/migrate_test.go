package db

import (
	"testing"
	"testing/fstest"

	"pdv/migrations"
)

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_vendas.sql":  {Data: []byte("CREATE TABLE vendas (id UUID);")},
		"001_catalog.sql": {Data: []byte("CREATE TABLE produtos (id UUID);")},
		"README.md":       {Data: []byte("ignored")},
	}

	got, err := LoadMigrations(fsys)
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d migrations, want 2", len(got))
	}
	if got[0].Version != "001" || got[1].Version != "002" {
		t.Errorf("order = %s, %s; want 001, 002", got[0].Version, got[1].Version)
	}
	if len(got[0].Checksum) != 64 {
		t.Errorf("checksum %q is not a sha256 hex digest", got[0].Checksum)
	}
	if got[0].Checksum == got[1].Checksum {
		t.Error("different files produced the same checksum")
	}
}

func TestLoadMigrationsErrors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no version separator", fstest.MapFS{"init.sql": {Data: []byte("SELECT 1;")}}},
		{"duplicate version", fstest.MapFS{
			"001_a.sql": {Data: []byte("SELECT 1;")},
			"001_b.sql": {Data: []byte("SELECT 2;")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadMigrations(tt.fsys); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	got, err := LoadMigrations(migrations.Files)
	if err != nil {
		t.Fatalf("LoadMigrations(embedded): %v", err)
	}
	if len(got) < 3 {
		t.Fatalf("embedded migrations = %d, want at least 3", len(got))
	}
	if got[0].Version != "001" {
		t.Errorf("first migration version = %s, want 001", got[0].Version)
	}
}
