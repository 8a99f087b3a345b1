package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs. It reflects the state
// after all migrations.
//
// This is the single source of truth for the schema: repository tests load it
// through GetSchemaSQL() instead of declaring their own tables. When adding
// columns or tables, add a migration and update SchemaSQL together.
const SchemaSQL = `
-- Generation runs (one row per non-dry-run invocation)
CREATE TABLE IF NOT EXISTS generation_runs (
	id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	entities INTEGER NOT NULL DEFAULT 0,
	written INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_generation_runs_started_at ON generation_runs(started_at);

-- Artifact outcomes (one row per artifact per entity per run)
CREATE TABLE IF NOT EXISTS artifact_outcomes (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	app TEXT NOT NULL,
	entity TEXT NOT NULL,
	kind TEXT NOT NULL,
	path TEXT NOT NULL,
	state TEXT NOT NULL CHECK(state IN ('written', 'skipped', 'failed')),
	reason TEXT NOT NULL CHECK(reason IN ('created', 'appended', 'already_present', 'locked', 'error')),
	error TEXT,
	PRIMARY KEY (run_id, seq),
	FOREIGN KEY (run_id) REFERENCES generation_runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_artifact_outcomes_path ON artifact_outcomes(path);
`

// InitSchema creates the schema on a fresh database or runs pending migrations
// on an existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	// Fresh install: create the current schema and mark every migration applied.
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(conn); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
