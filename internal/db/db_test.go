package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Senhordim/boilerplate/internal/db"
)

func TestOpen_FreshInstall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	conn, err := db.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer conn.Close()

	version, err := db.CurrentVersion(conn)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != db.LatestVersion() {
		t.Errorf("expected version %d, got %d", db.LatestVersion(), version)
	}

	for _, table := range []string{"generation_runs", "artifact_outcomes"} {
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n); err != nil {
			t.Fatalf("query sqlite_master: %v", err)
		}
		if n != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := db.Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if _, err := first.Exec("INSERT INTO generation_runs (id, started_at, finished_at) VALUES ('r1', '2026-10-18T10:00:00Z', '2026-10-18T10:00:01Z')"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	first.Close()

	second, err := db.Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer second.Close()

	var n int
	if err := second.QueryRow("SELECT COUNT(*) FROM generation_runs").Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected data to survive reopen, got %d rows", n)
	}
}

func TestRunMigrations_UpgradesFromV1(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	conn.SetMaxOpenConns(1)
	defer conn.Close()

	// Simulate a database created before the path index existed.
	_, err = conn.Exec(`
		CREATE TABLE schema_version (version INTEGER PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP);
		INSERT INTO schema_version (version) VALUES (1);
		CREATE TABLE generation_runs (id TEXT PRIMARY KEY, started_at DATETIME NOT NULL, finished_at DATETIME NOT NULL,
			entities INTEGER NOT NULL DEFAULT 0, written INTEGER NOT NULL DEFAULT 0, skipped INTEGER NOT NULL DEFAULT 0, failed INTEGER NOT NULL DEFAULT 0);
		CREATE TABLE artifact_outcomes (run_id TEXT NOT NULL, seq INTEGER NOT NULL, app TEXT NOT NULL, entity TEXT NOT NULL,
			kind TEXT NOT NULL, path TEXT NOT NULL, state TEXT NOT NULL, reason TEXT NOT NULL, error TEXT, PRIMARY KEY (run_id, seq));
	`)
	if err != nil {
		t.Fatalf("seed v1 schema: %v", err)
	}

	if err := db.InitSchema(conn); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	version, err := db.CurrentVersion(conn)
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_artifact_outcomes_path'").Scan(&n); err != nil {
		t.Fatalf("query index: %v", err)
	}
	if n != 1 {
		t.Error("expected path index after migration")
	}
}
