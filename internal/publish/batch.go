// Package publish writes the static site of one artifact: a linked HTML
// document per source file, a package.json manifest and an index page per
// package, and a report of the run.
//
// All accumulation state lives in a Batch. A Batch is filled single-threaded
// and read-only once Publish starts.
package publish

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"javabrowser/internal/binding"
	"javabrowser/internal/errors"
	"javabrowser/internal/logging"
	"javabrowser/internal/source"
)

// Options controls one publishing run.
type Options struct {
	// OutputDir is the artifact's site root. The shared stylesheet goes into
	// its parent directory.
	OutputDir string
	Workers   int
	Gzip      bool

	// Resolver, when set, links references the batch does not declare to
	// the declaring artifact on Classpath.
	Resolver  binding.Resolver
	Classpath binding.Classpath
}

// Report summarizes a publishing run. It is written to ReportFile.
type Report struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Files      int       `json:"files"`
	Written    int       `json:"written"`
	Packages   int       `json:"packages"`
	Failed     []string  `json:"failed,omitempty"`
}

// Batch accumulates the files, declared bindings and types of one run.
type Batch struct {
	RunID string

	files    map[string]*source.File
	bindings map[source.BindingID]string
	types    map[source.BindingID]bool
	skipped  []string
	logger   *logging.Logger
}

// NewBatch creates an empty batch with a fresh run id.
func NewBatch(logger *logging.Logger) *Batch {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	runID := uuid.NewString()
	return &Batch{
		RunID:    runID,
		files:    make(map[string]*source.File),
		bindings: make(map[source.BindingID]string),
		types:    make(map[source.BindingID]bool),
		logger:   logger.With(map[string]interface{}{"runId": runID}),
	}
}

// AddSourceFile queues a file for output. Paths are slash separated and
// relative to the artifact's source root.
func (b *Batch) AddSourceFile(path string, file *source.File) {
	b.files[path] = file
}

// RegisterBinding records that path declares binding. The first
// registration wins.
func (b *Batch) RegisterBinding(id source.BindingID, path string) {
	if _, ok := b.bindings[id]; !ok {
		b.bindings[id] = path
	}
}

// RegisterType marks binding as a type listed in package manifests.
func (b *Batch) RegisterType(id source.BindingID) {
	b.types[id] = true
}

// AddFile queues a file and registers all its declarations and top-level
// types.
func (b *Batch) AddFile(path string, file *source.File) {
	b.AddSourceFile(path, file)
	for _, d := range file.Declarations() {
		b.RegisterBinding(d.Binding, path)
	}
	for _, t := range file.TopLevelTypes() {
		b.RegisterType(t)
	}
}

// Skip records a source file that could not be loaded. It counts towards
// the run's files and is reported as failed.
func (b *Batch) Skip(path string, err error) {
	b.logger.Warn("Skipping unreadable source file", map[string]interface{}{
		"path":  path,
		"error": err.Error(),
	})
	b.skipped = append(b.skipped, path)
}

// Len returns the number of queued files.
func (b *Batch) Len() int {
	return len(b.files)
}

func (b *Batch) paths() []string {
	out := make([]string, 0, len(b.files))
	for p := range b.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Publish writes every queued file, the package pages, the stylesheet and
// the report. A file that cannot be written does not stop the others; the
// returned error is then OUTPUT_WRITE_FAILED and the report lists the
// failures. Only cancellation of ctx aborts the run.
func (b *Batch) Publish(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{RunID: b.RunID, StartedAt: time.Now().UTC(), Files: len(b.files) + len(b.skipped)}

	if err := ensureDir(opts.OutputDir); err != nil {
		return nil, errors.New(errors.OutputWriteFailed, opts.OutputDir, err)
	}

	var mu sync.Mutex
	failed := append([]string(nil), b.skipped...)
	fail := func(path string, err error) {
		b.logger.Warn("Failed to publish file", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		mu.Lock()
		failed = append(failed, path)
		mu.Unlock()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range b.paths() {
		if gctx.Err() != nil {
			break
		}
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := b.publishFile(path, opts); err != nil {
				fail(path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	packages := b.packages()
	for _, pkg := range sortedKeys(packages) {
		if err := b.writePackage(pkg, packages[pkg], opts); err != nil {
			fail(pkg+ManifestFile, err)
		}
	}
	if err := writeStylesheet(filepath.Dir(filepath.Clean(opts.OutputDir))); err != nil {
		fail("../"+StylesheetFile, err)
	}

	sort.Strings(failed)
	report.Failed = failed
	report.Packages = len(packages)
	report.Written = len(b.files) - countFiles(failed, b.files)
	report.FinishedAt = time.Now().UTC()

	if err := writeReport(opts.OutputDir, report); err != nil {
		return report, errors.New(errors.OutputWriteFailed, ReportFile, err)
	}

	b.logger.Info("Publish finished", map[string]interface{}{
		"files":    report.Files,
		"written":  report.Written,
		"packages": report.Packages,
		"failed":   len(report.Failed),
		"duration": report.FinishedAt.Sub(report.StartedAt).String(),
	})

	if len(failed) > 0 {
		return report, errors.Newf(errors.OutputWriteFailed, "%d outputs could not be written", len(failed)).
			WithDetails(map[string]interface{}{"failed": failed})
	}
	return report, nil
}

func countFiles(failed []string, files map[string]*source.File) int {
	n := 0
	for _, f := range failed {
		if _, ok := files[f]; ok {
			n++
		}
	}
	return n
}
