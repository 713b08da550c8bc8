package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"javabrowser/internal/artifacts"
	"javabrowser/internal/errors"
	"javabrowser/internal/ingest"
	"javabrowser/internal/storage"
)

var (
	ingestArtifactsFile string
	ingestFormat        string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [artifact-id...]",
	Short: "Ingest SCIP indexes into the database",
	Long: `Read the batch definition and store every listed artifact's annotated
sources and declarations. With arguments only the named artifacts are
ingested. Re-ingesting an artifact replaces its rows; unchanged files are
skipped.

Examples:
  javabrowser ingest
  javabrowser ingest java/21 --artifacts batch/artifacts.yaml`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestArtifactsFile, "artifacts", "", "Batch definition file (default: artifactsFile from config)")
	ingestCmd.Flags().StringVar(&ingestFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	path := ws.cfg.ArtifactsPath(ws.root)
	if ingestArtifactsFile != "" {
		path = ingestArtifactsFile
	}
	batch, err := artifacts.Load(path)
	if err != nil {
		return err
	}

	selected, err := selectArtifacts(batch, args)
	if err != nil {
		return err
	}

	db, err := ws.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ingester := ingest.New(db, ws.logger)
	ctx := newContext()
	results := make([]*ingest.Result, 0, len(selected))
	for _, a := range selected {
		res, err := ingester.Ingest(ctx, a)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	if err := storage.NewBindingRepository(db).Optimize(ctx); err != nil {
		ws.logger.Warn("Search index optimize failed", map[string]interface{}{"error": err.Error()})
	}

	if OutputFormat(ingestFormat) == FormatJSON {
		return printJSON(results)
	}
	fmt.Print(formatIngestHuman(results))
	return nil
}

// selectArtifacts returns the named artifacts in batch order, or all of
// them when ids is empty.
func selectArtifacts(batch *artifacts.Batch, ids []string) ([]artifacts.Artifact, error) {
	if len(ids) == 0 {
		return batch.Artifacts, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := batch.Find(id); !ok {
			return nil, errors.Newf(errors.ArtifactNotFound, "%s is not listed in %s", id, batch.Path())
		}
		want[id] = true
	}
	var out []artifacts.Artifact
	for _, a := range batch.Artifacts {
		if want[a.ID()] {
			out = append(out, a)
		}
	}
	return out, nil
}

func formatIngestHuman(results []*ingest.Result) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s: %d documents, %d stored, %d unchanged, %d removed (%s)\n",
			r.ArtifactID, r.Documents, r.Stored, r.Unchanged, r.Removed, r.Duration.Round(time.Millisecond))
		for _, f := range r.Failed {
			fmt.Fprintf(&b, "  ! %s\n", f)
		}
	}
	return b.String()
}
