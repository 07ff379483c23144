package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "interactions: suggestion/response log with context snapshots",
		SQL: `
CREATE TABLE interactions (
    id              TEXT PRIMARY KEY,
    created_at      INTEGER NOT NULL,
    suggestion_type TEXT NOT NULL,
    suggestion      TEXT NOT NULL,
    response        TEXT NOT NULL CHECK (response IN ('accepted', 'rejected', 'modified', 'ignored')),
    target_id       TEXT,
    correction      TEXT,
    hypothesis_id   TEXT,
    context         TEXT NOT NULL
);

CREATE INDEX idx_interactions_created ON interactions(created_at DESC);
CREATE INDEX idx_interactions_type    ON interactions(suggestion_type);
`,
	},
	{
		Version:     2,
		Description: "hypotheses: candidate rules under test",
		SQL: `
CREATE TABLE hypotheses (
    id                  TEXT PRIMARY KEY,
    created_at          INTEGER NOT NULL,
    source_ids          TEXT NOT NULL,
    observation         TEXT NOT NULL,
    hypothesis          TEXT NOT NULL,
    test_approach       TEXT NOT NULL,
    suggestion_type     TEXT NOT NULL,
    matchers            TEXT NOT NULL,
    tests_run           INTEGER NOT NULL DEFAULT 0,
    confirmations       INTEGER NOT NULL DEFAULT 0,
    rejections          INTEGER NOT NULL DEFAULT 0,
    confidence_required INTEGER NOT NULL,
    status              TEXT NOT NULL CHECK (status IN ('testing', 'confirmed', 'rejected', 'stale')),
    resolved_at         INTEGER,
    pattern_id          TEXT
);

CREATE INDEX idx_hypotheses_status ON hypotheses(status);
`,
	},
	{
		Version:     3,
		Description: "patterns: confirmed rules with confidence",
		SQL: `
CREATE TABLE patterns (
    id                      TEXT PRIMARY KEY,
    description             TEXT NOT NULL,
    trigger_type            TEXT NOT NULL,
    suggestion_type         TEXT NOT NULL,
    conditions              TEXT NOT NULL,
    action                  TEXT NOT NULL,
    confidence              REAL NOT NULL,
    confirmed_at            INTEGER NOT NULL,
    hypothesis_id           TEXT NOT NULL,
    application_count       INTEGER NOT NULL DEFAULT 0,
    overrides_since_confirm INTEGER NOT NULL DEFAULT 0,
    last_applied            INTEGER,
    decay_warning_issued    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX idx_patterns_confidence ON patterns(confidence DESC);
`,
	},
	{
		Version:     4,
		Description: "notifications: mailbox for the delivery channel",
		SQL: `
CREATE TABLE notifications (
    id         TEXT PRIMARY KEY,
    type       TEXT NOT NULL CHECK (type IN ('learned', 'auto_action', 'decay_warning')),
    message    TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    dismissed  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX idx_notifications_created ON notifications(created_at DESC);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
