package publish

import (
	"context"

	"javabrowser/internal/errors"
	"javabrowser/internal/logging"
	"javabrowser/internal/storage"
)

// FromStore fills a batch with every stored file of an artifact and returns
// it with the artifact's classpath. Files that fail to decode are left out
// of the site and listed as failed in the publish report.
func FromStore(ctx context.Context, db *storage.DB, artifactID string, logger *logging.Logger) (*Batch, *storage.ArtifactRecord, error) {
	artifact, err := storage.NewArtifactRepository(db).Get(artifactID)
	if err != nil {
		return nil, nil, err
	}
	if artifact == nil {
		return nil, nil, errors.Newf(errors.ArtifactNotFound, "artifact %s has not been ingested", artifactID)
	}

	b := NewBatch(logger)
	files := storage.NewSourceFileRepository(db)
	paths, err := files.List(artifactID)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		file, err := files.Load(artifactID, p)
		if err != nil {
			b.Skip(p, err)
			continue
		}
		b.AddSourceFile(p, file)
		for _, d := range file.Declarations() {
			b.RegisterBinding(d.Binding, p)
		}
	}

	types, err := storage.NewBindingRepository(db).Types(artifactID)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range types {
		if _, ok := b.files[t.SourcePath]; ok {
			b.RegisterType(t.Binding)
		}
	}
	return b, artifact, nil
}
