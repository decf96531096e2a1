package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "employees.db")

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'employees'`).Scan(&name); err != nil {
		t.Fatalf("expected employees table: %v", err)
	}

	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate must be idempotent: %v", err)
	}
}

func TestOpen_RegistersUnicodeLower(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "employees.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer db.Close()

	var got string
	if err := db.QueryRowContext(ctx, `SELECT `+UnicodeLowerFunc+`(?)`, "ÉMILE Ünal").Scan(&got); err != nil {
		t.Fatalf("query returned error: %v", err)
	}
	if got != "émile ünal" {
		t.Fatalf("unexpected folded value: %q", got)
	}
}
