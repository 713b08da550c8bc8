// Package ingest converts the SCIP index of an artifact into annotated
// source files and stores them with their declarations.
package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"

	"javabrowser/internal/artifacts"
	"javabrowser/internal/errors"
	"javabrowser/internal/highlight"
	"javabrowser/internal/logging"
	"javabrowser/internal/paths"
	"javabrowser/internal/storage"
)

// Result summarizes the ingestion of one artifact.
type Result struct {
	ArtifactID string        `json:"artifactId"`
	Documents  int           `json:"documents"`
	Stored     int           `json:"stored"`
	Unchanged  int           `json:"unchanged"`
	Removed    int           `json:"removed"`
	Failed     []string      `json:"failed,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Ingester writes artifacts into the store.
type Ingester struct {
	artifacts   *storage.ArtifactRepository
	files       *storage.SourceFileRepository
	highlighter *highlight.Highlighter
	logger      *logging.Logger
}

// New creates an ingester over db.
func New(db *storage.DB, logger *logging.Logger) *Ingester {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Ingester{
		artifacts:   storage.NewArtifactRepository(db),
		files:       storage.NewSourceFileRepository(db),
		highlighter: highlight.NewHighlighter(),
		logger:      logger,
	}
}

// Ingest registers the artifact and stores every Java document of its index.
// Files stored by an earlier run that the index no longer lists are removed.
// A document that cannot be read or converted is reported in Result.Failed
// and does not stop the run.
func (in *Ingester) Ingest(ctx context.Context, a artifacts.Artifact) (*Result, error) {
	started := time.Now()
	id := a.ID()
	log := in.logger.With(map[string]interface{}{"artifact": id})

	index, err := LoadIndex(a.Index)
	if err != nil {
		return nil, err
	}

	if err := in.artifacts.Save(&storage.ArtifactRecord{
		ID:           id,
		Kind:         string(a.Kind),
		Version:      a.Version,
		Dependencies: a.Dependencies,
		Metadata:     a.Metadata,
		IngestedAt:   started,
	}); err != nil {
		return nil, err
	}

	previous, err := in.files.List(id)
	if err != nil {
		return nil, err
	}

	conv := NewConverter(index, in.highlighter, log)
	result := &Result{ArtifactID: id}
	present := make(map[string]bool)

	for _, doc := range index.Documents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !isJavaDocument(doc) {
			continue
		}
		result.Documents++
		path := paths.NormalizePath(doc.RelativePath)
		present[path] = true

		changed, err := in.ingestDocument(ctx, conv, a, doc, path)
		if err != nil {
			log.Warn("Failed to ingest document", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			result.Failed = append(result.Failed, path)
			continue
		}
		if changed {
			result.Stored++
		} else {
			result.Unchanged++
		}
	}

	for _, path := range previous {
		if present[path] {
			continue
		}
		if err := in.files.Delete(id, path); err != nil {
			return nil, err
		}
		result.Removed++
	}

	result.Duration = time.Since(started)
	log.Info("Artifact ingested", map[string]interface{}{
		"documents": result.Documents,
		"stored":    result.Stored,
		"unchanged": result.Unchanged,
		"removed":   result.Removed,
		"failed":    len(result.Failed),
	})
	return result, nil
}

func (in *Ingester) ingestDocument(ctx context.Context, conv *Converter, a artifacts.Artifact, doc *scippb.Document, path string) (bool, error) {
	text, err := documentText(a.SourceRoot, doc, path)
	if err != nil {
		return false, err
	}
	file, err := conv.Convert(ctx, doc, text)
	if err != nil {
		return false, err
	}
	return in.files.Save(a.ID(), path, file)
}

// documentText returns the text embedded in the index, or reads the file
// below sourceRoot.
func documentText(sourceRoot string, doc *scippb.Document, path string) (string, error) {
	if doc.Text != "" {
		return doc.Text, nil
	}
	if sourceRoot == "" {
		return "", errors.Newf(errors.SourceFileNotFound, "%s: index carries no text and the artifact has no source root", path)
	}

	full := paths.JoinRootPath(sourceRoot, path)
	if !paths.IsWithinRoot(full, sourceRoot) {
		return "", errors.Newf(errors.SourceFileNotFound, "%s escapes the source root", path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", errors.New(errors.SourceFileNotFound, fmt.Sprintf("failed to read %s", full), err)
	}
	return string(data), nil
}
