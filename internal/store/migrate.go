package store

import "database/sql"

// Migrate creates the schema. It is called explicitly once at process start
// and is idempotent by construction (CREATE IF NOT EXISTS guarded by
// user_version), so there is no shared "already initialized" flag.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS postings (
  id TEXT NOT NULL PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  keywords TEXT NOT NULL DEFAULT '',
  stage TEXT NOT NULL DEFAULT '',
  discarded INTEGER NOT NULL DEFAULT 0,
  expires_at TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS run_meta (
  last_run TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	// run_meta is a single-row slot; seed it exactly once.
	if _, err := tx.Exec(`
INSERT INTO run_meta (last_run)
SELECT ''
WHERE NOT EXISTS (SELECT 1 FROM run_meta);
`); err != nil {
		return err
	}

	// ---- Schema v1: indexes ----

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_postings_stage
ON postings(stage, discarded);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_postings_expires_at
ON postings(expires_at);
`); err != nil {
		return err
	}

	// Mark schema v1
	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
