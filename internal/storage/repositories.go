package storage

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"javabrowser/internal/artifacts"
	"javabrowser/internal/binding"
	"javabrowser/internal/errors"
	"javabrowser/internal/source"
)

// ArtifactRecord is a registered artifact
type ArtifactRecord struct {
	ID           string
	Kind         string
	Version      string
	Dependencies []string
	Metadata     artifacts.Metadata
	IngestedAt   time.Time
}

// Classpath returns the artifact followed by its dependencies.
func (a *ArtifactRecord) Classpath() binding.Classpath {
	return append(binding.Classpath{a.ID}, a.Dependencies...)
}

// ArtifactRepository provides access to the artifacts table
type ArtifactRepository struct {
	db *DB
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(db *DB) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// Save registers or updates an artifact. An artifact keeps its original
// registration order when saved again.
func (r *ArtifactRepository) Save(a *ArtifactRecord) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	return r.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO artifacts (id, kind, version, metadata_json, ingested_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind = excluded.kind,
				version = excluded.version,
				metadata_json = excluded.metadata_json,
				ingested_at = excluded.ingested_at
		`, a.ID, a.Kind, a.Version, string(metadata), a.IngestedAt.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to save artifact: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM artifact_dependencies WHERE artifact_id = ?", a.ID); err != nil {
			return fmt.Errorf("failed to clear dependencies: %w", err)
		}
		for i, dep := range a.Dependencies {
			if _, err := tx.Exec(`
				INSERT INTO artifact_dependencies (artifact_id, position, dependency_id)
				VALUES (?, ?, ?)
			`, a.ID, i, dep); err != nil {
				return fmt.Errorf("failed to save dependency: %w", err)
			}
		}
		return nil
	})
}

// Get retrieves an artifact by id. It returns nil when there is none.
func (r *ArtifactRepository) Get(id string) (*ArtifactRecord, error) {
	var a ArtifactRecord
	var metadata, ingestedAt string

	err := r.db.QueryRow(`
		SELECT id, kind, version, metadata_json, ingested_at
		FROM artifacts
		WHERE id = ?
	`, id).Scan(&a.ID, &a.Kind, &a.Version, &metadata, &ingestedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	if err := a.decode(metadata, ingestedAt); err != nil {
		return nil, err
	}

	a.Dependencies, err = r.dependencies(id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns every artifact in registration order.
func (r *ArtifactRepository) List() ([]*ArtifactRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, kind, version, metadata_json, ingested_at
		FROM artifacts
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var out []*ArtifactRecord
	for rows.Next() {
		var a ArtifactRecord
		var metadata, ingestedAt string
		if err := rows.Scan(&a.ID, &a.Kind, &a.Version, &metadata, &ingestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		if err := a.decode(metadata, ingestedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range out {
		if a.Dependencies, err = r.dependencies(a.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Classpath returns the scope classpath of a registered artifact.
func (r *ArtifactRepository) Classpath(id string) (binding.Classpath, error) {
	a, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.Newf(errors.ArtifactNotFound, "artifact %s is not registered", id)
	}
	return a.Classpath(), nil
}

// Delete removes an artifact with its files and declarations.
func (r *ArtifactRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM artifacts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}

func (r *ArtifactRepository) dependencies(id string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT dependency_id FROM artifact_dependencies
		WHERE artifact_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies: %w", err)
	}
	defer rows.Close()

	var deps []string
	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}

func (a *ArtifactRecord) decode(metadata, ingestedAt string) error {
	if err := json.Unmarshal([]byte(metadata), &a.Metadata); err != nil {
		return fmt.Errorf("invalid metadata_json for %s: %w", a.ID, err)
	}
	t, err := time.Parse(time.RFC3339, ingestedAt)
	if err != nil {
		return fmt.Errorf("invalid ingested_at format: %w", err)
	}
	a.IngestedAt = t
	return nil
}

// SourceFileRepository stores annotated source files and their declarations
type SourceFileRepository struct {
	db *DB
}

// NewSourceFileRepository creates a new source file repository
func NewSourceFileRepository(db *DB) *SourceFileRepository {
	return &SourceFileRepository{db: db}
}

// Save stores a file and replaces the declarations recorded for it. It
// reports false without writing when the stored content is identical.
func (r *SourceFileRepository) Save(artifactID, path string, file *source.File) (bool, error) {
	raw, err := source.Encode(file)
	if err != nil {
		return false, err
	}
	hash := contentHash(raw)

	var existing []byte
	err = r.db.QueryRow(`
		SELECT content_hash FROM source_files
		WHERE artifact_id = ? AND path = ?
	`, artifactID, path).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to look up source file: %w", err)
	}
	if err == nil && bytes.Equal(existing, hash) {
		return false, nil
	}

	data, err := compressBlob(raw)
	if err != nil {
		return false, err
	}

	err = r.db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			INSERT INTO source_files (artifact_id, path, content_hash, data, raw_size, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(artifact_id, path) DO UPDATE SET
				content_hash = excluded.content_hash,
				data = excluded.data,
				raw_size = excluded.raw_size,
				updated_at = excluded.updated_at
		`, artifactID, path, hash, data, len(raw), time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("failed to save source file: %w", err)
		}

		if _, err := tx.Exec(`
			DELETE FROM bindings WHERE artifact_id = ? AND source_path = ?
		`, artifactID, path); err != nil {
			return fmt.Errorf("failed to clear bindings: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO bindings (binding, artifact_id, source_path, is_type)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(binding, artifact_id) DO UPDATE SET
				source_path = excluded.source_path,
				is_type = excluded.is_type
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, d := range file.Declarations() {
			if _, err := stmt.Exec(string(d.Binding), artifactID, path, d.Parent == ""); err != nil {
				return fmt.Errorf("failed to insert binding %s: %w", d.Binding, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Load returns a stored file.
func (r *SourceFileRepository) Load(artifactID, path string) (*source.File, error) {
	var data []byte
	var rawSize int
	err := r.db.QueryRow(`
		SELECT data, raw_size FROM source_files
		WHERE artifact_id = ? AND path = ?
	`, artifactID, path).Scan(&data, &rawSize)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.SourceFileNotFound, "%s has no source file %s", artifactID, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load source file: %w", err)
	}

	raw, err := decompressBlob(data, rawSize)
	if err != nil {
		return nil, err
	}
	return source.Decode(raw)
}

// List returns the paths stored for an artifact in lexical order.
func (r *SourceFileRepository) List(artifactID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT path FROM source_files
		WHERE artifact_id = ?
		ORDER BY path
	`, artifactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list source files: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Delete removes a stored file and its declarations.
func (r *SourceFileRepository) Delete(artifactID, path string) error {
	_, err := r.db.Exec("DELETE FROM source_files WHERE artifact_id = ? AND path = ?", artifactID, path)
	if err != nil {
		return fmt.Errorf("failed to delete source file: %w", err)
	}
	return nil
}

// BindingRecord is one stored declaration site
type BindingRecord struct {
	Binding    source.BindingID
	ArtifactID string
	SourcePath string
	IsType     bool
}

// BindingRepository queries the declaration table
type BindingRepository struct {
	db *DB
}

// NewBindingRepository creates a new binding repository
func NewBindingRepository(db *DB) *BindingRepository {
	return &BindingRepository{db: db}
}

// LoadTable builds a resolver over every stored declaration. Artifacts are
// added in registration order, so a binding's declaring artifact is the
// first registered artifact that declares it.
func (r *BindingRepository) LoadTable() (*binding.Table, error) {
	rows, err := r.db.Query(`
		SELECT b.binding, b.artifact_id, b.source_path
		FROM bindings b
		JOIN artifacts a ON a.id = b.artifact_id
		ORDER BY a.seq, b.rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load bindings: %w", err)
	}
	defer rows.Close()

	builder := binding.NewTableBuilder()
	for rows.Next() {
		var id, artifactID, sourcePath string
		if err := rows.Scan(&id, &artifactID, &sourcePath); err != nil {
			return nil, fmt.Errorf("failed to scan binding: %w", err)
		}
		builder.Add(source.BindingID(id), artifactID, sourcePath)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return builder.Build(), nil
}

// Lookup returns every declaration site of a binding in registration order.
func (r *BindingRepository) Lookup(id source.BindingID) ([]BindingRecord, error) {
	rows, err := r.db.Query(`
		SELECT b.binding, b.artifact_id, b.source_path, b.is_type
		FROM bindings b
		JOIN artifacts a ON a.id = b.artifact_id
		WHERE b.binding = ?
		ORDER BY a.seq
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to look up binding: %w", err)
	}
	defer rows.Close()
	return scanBindings(rows)
}

// Types returns the top-level types an artifact declares, ordered by binding.
func (r *BindingRepository) Types(artifactID string) ([]BindingRecord, error) {
	rows, err := r.db.Query(`
		SELECT binding, artifact_id, source_path, is_type
		FROM bindings
		WHERE artifact_id = ? AND is_type = 1
		ORDER BY binding
	`, artifactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	defer rows.Close()
	return scanBindings(rows)
}

func scanBindings(rows *sql.Rows) ([]BindingRecord, error) {
	var out []BindingRecord
	for rows.Next() {
		var rec BindingRecord
		var id string
		if err := rows.Scan(&id, &rec.ArtifactID, &rec.SourcePath, &rec.IsType); err != nil {
			return nil, fmt.Errorf("failed to scan binding: %w", err)
		}
		rec.Binding = source.BindingID(id)
		out = append(out, rec)
	}
	return out, rows.Err()
}
