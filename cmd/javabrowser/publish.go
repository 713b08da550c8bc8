package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"javabrowser/internal/publish"
)

var (
	publishOut     string
	publishWorkers int
	publishGzip    bool
	publishFormat  string
)

var publishCmd = &cobra.Command{
	Use:   "publish <artifact-id>",
	Short: "Write the static site of an artifact",
	Long: `Write one linked HTML page per source file of an ingested artifact, with
package manifests and index pages. References into other artifacts on the
classpath link to their absolute URIs.

Files that cannot be written are listed in publish-report.json; every other
file is still written and the command exits with status 1.

Examples:
  javabrowser publish java/21
  javabrowser publish com.google.guava/guava/33.0-jre --out /srv/site/guava --gzip`,
	Args: cobra.ExactArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishOut, "out", "", "Output directory (default: <publish.outputDir>/<artifact-id>)")
	publishCmd.Flags().IntVar(&publishWorkers, "workers", 0, "Parallel file writers (default: publish.workers)")
	publishCmd.Flags().BoolVar(&publishGzip, "gzip", false, "Also write .gz siblings (default: publish.gzip)")
	publishCmd.Flags().StringVar(&publishFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	artifactID := args[0]

	db, err := ws.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := newContext()
	batch, artifact, err := publish.FromStore(ctx, db, artifactID, ws.logger)
	if err != nil {
		return err
	}
	table, err := resolverTable(db)
	if err != nil {
		return err
	}

	opts := publish.Options{
		OutputDir: publishOut,
		Workers:   ws.cfg.Publish.Workers,
		Gzip:      ws.cfg.Publish.Gzip || publishGzip,
		Resolver:  table,
		Classpath: artifact.Classpath(),
	}
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join(ws.cfg.OutputDir(ws.root), filepath.FromSlash(artifactID))
	}
	if publishWorkers > 0 {
		opts.Workers = publishWorkers
	}

	report, publishErr := batch.Publish(ctx, opts)
	if report != nil {
		if OutputFormat(publishFormat) == FormatJSON {
			if err := printJSON(report); err != nil {
				return err
			}
		} else {
			fmt.Printf("Published %d of %d files and %d packages to %s\n",
				report.Written, report.Files, report.Packages, opts.OutputDir)
			for _, f := range report.Failed {
				fmt.Printf("  ! %s\n", f)
			}
		}
	}
	return publishErr
}
