package main

import (
	"os"

	"github.com/spf13/cobra"

	"javabrowser/internal/binding"
	"javabrowser/internal/errors"
	"javabrowser/internal/source"
	"javabrowser/internal/storage"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-artifact-id> <new-artifact-id> <path>",
	Short: "Print the line diff of one file between two artifacts",
	Long: `Render the aligned diff of a source file present in two artifacts. When
the file exists on one side only, it is shown fully inserted or deleted.

Examples:
  javabrowser diff java/17 java/21 java/util/List.java`,
	Args: cobra.ExactArgs(3),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

// loadSide loads one side of a diff. A missing file is nil, not an error.
func loadSide(db *storage.DB, artifactID, path string) (*source.File, binding.ScopeInfo, error) {
	file, scope, err := loadScope(db, artifactID, path)
	if errors.IsCode(err, errors.SourceFileNotFound) {
		return nil, scope, nil
	}
	return file, scope, err
}

func runDiff(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	db, err := ws.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	oldFile, oldScope, err := loadSide(db, args[0], args[2])
	if err != nil {
		return err
	}
	newFile, newScope, err := loadSide(db, args[1], args[2])
	if err != nil {
		return err
	}
	if oldFile == nil && newFile == nil {
		return errors.Newf(errors.SourceFileNotFound, "%s exists in neither %s nor %s", args[2], args[0], args[1])
	}

	renderer, err := ws.renderer(db)
	if err != nil {
		return err
	}
	return renderer.RenderDiff(os.Stdout, oldScope, newScope, oldFile, newFile, ws.viewOptions())
}
