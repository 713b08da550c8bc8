package storage

import (
	"database/sql"
	"fmt"
)

// currentSchemaVersion is stored in PRAGMA user_version.
const currentSchemaVersion = 1

// schemaSteps brings an empty database to currentSchemaVersion.
var schemaSteps = []func(*sql.Tx) error{
	createArtifactsTables,
	createSourceFilesTable,
	createBindingsTables,
}

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	err := db.WithTx(func(tx *sql.Tx) error {
		for _, step := range schemaSteps {
			if err := step(tx); err != nil {
				return err
			}
		}
		return setSchemaVersion(tx, currentSchemaVersion)
	})
	if err != nil {
		return err
	}
	db.logger.Info("Database schema initialized", map[string]interface{}{
		"version": currentSchemaVersion,
	})
	return nil
}

func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}
	switch {
	case version == currentSchemaVersion:
		return nil
	case version > currentSchemaVersion:
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	case version == 0:
		// Unversioned file: every step uses IF NOT EXISTS.
		return db.initializeSchema()
	}
	return nil
}

func (db *DB) getSchemaVersion() (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// setSchemaVersion cannot take a bound parameter; version is a trusted constant.
func setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", version))
	return err
}

// createArtifactsTables creates the artifact registry and its dependency
// lists. seq records registration order and survives re-ingestion.
func createArtifactsTables(tx *sql.Tx) error {
	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS artifacts (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			version TEXT NOT NULL,
			metadata_json TEXT NOT NULL DEFAULT '{}',
			ingested_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create artifacts table: %w", err)
	}

	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS artifact_dependencies (
			artifact_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			dependency_id TEXT NOT NULL,

			PRIMARY KEY (artifact_id, position),
			FOREIGN KEY (artifact_id) REFERENCES artifacts(id) ON DELETE CASCADE
		)
	`); err != nil {
		return fmt.Errorf("failed to create artifact_dependencies table: %w", err)
	}
	return nil
}

func createSourceFilesTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS source_files (
			artifact_id TEXT NOT NULL,
			path TEXT NOT NULL,
			content_hash BLOB NOT NULL,
			data BLOB NOT NULL,
			raw_size INTEGER NOT NULL,
			updated_at TEXT NOT NULL,

			PRIMARY KEY (artifact_id, path),
			FOREIGN KEY (artifact_id) REFERENCES artifacts(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create source_files table: %w", err)
	}
	return nil
}

// createBindingsTables creates the declaration table and its FTS5 index.
// The fts table is external-content and kept in sync by triggers.
func createBindingsTables(tx *sql.Tx) error {
	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS bindings (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			binding TEXT NOT NULL,
			artifact_id TEXT NOT NULL,
			source_path TEXT NOT NULL,
			is_type INTEGER NOT NULL DEFAULT 0,

			UNIQUE (binding, artifact_id),
			FOREIGN KEY (artifact_id, source_path) REFERENCES source_files(artifact_id, path) ON DELETE CASCADE
		)
	`); err != nil {
		return fmt.Errorf("failed to create bindings table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_bindings_file ON bindings(artifact_id, source_path)",
		"CREATE INDEX IF NOT EXISTS idx_bindings_binding ON bindings(binding)",
	}
	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if _, err := tx.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS bindings_fts USING fts5(
			binding,
			content='bindings',
			content_rowid='rowid',
			tokenize='unicode61'
		)
	`); err != nil {
		return fmt.Errorf("failed to create bindings_fts table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS bindings_fts_ai AFTER INSERT ON bindings BEGIN
			INSERT INTO bindings_fts(rowid, binding) VALUES (new.rowid, new.binding);
		END`,
		`CREATE TRIGGER IF NOT EXISTS bindings_fts_ad AFTER DELETE ON bindings BEGIN
			INSERT INTO bindings_fts(bindings_fts, rowid, binding) VALUES ('delete', old.rowid, old.binding);
		END`,
		`CREATE TRIGGER IF NOT EXISTS bindings_fts_au AFTER UPDATE ON bindings BEGIN
			INSERT INTO bindings_fts(bindings_fts, rowid, binding) VALUES ('delete', old.rowid, old.binding);
			INSERT INTO bindings_fts(rowid, binding) VALUES (new.rowid, new.binding);
		END`,
	}
	for _, triggerSQL := range triggers {
		if _, err := tx.Exec(triggerSQL); err != nil {
			return fmt.Errorf("failed to create fts trigger: %w", err)
		}
	}
	return nil
}
