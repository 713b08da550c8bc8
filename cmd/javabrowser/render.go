package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"javabrowser/internal/binding"
	"javabrowser/internal/diff"
	"javabrowser/internal/markup"
	"javabrowser/internal/source"
	"javabrowser/internal/storage"
	"javabrowser/internal/view"
)

var (
	renderTree        bool
	renderNoOverlay   bool
	renderLineMarkers bool
	outlineFormat     string
)

var renderCmd = &cobra.Command{
	Use:   "render <artifact-id> <path>",
	Short: "Print the linked HTML of one source file",
	Long: `Render one stored source file to the inner content of its <pre> block.
The default streams the markup; --tree builds it as a tree first. Both
produce the same HTML.

Examples:
  javabrowser render java/21 java/util/List.java
  javabrowser render java/21 java/util/List.java --tree --no-overlay`,
	Args: cobra.ExactArgs(2),
	RunE: runRender,
}

var outlineCmd = &cobra.Command{
	Use:   "outline <artifact-id> <path>",
	Short: "Print the declaration tree of one source file",
	Args:  cobra.ExactArgs(2),
	RunE:  runOutline,
}

func init() {
	renderCmd.Flags().BoolVar(&renderTree, "tree", false, "Build a markup tree instead of streaming")
	renderCmd.Flags().BoolVar(&renderNoOverlay, "no-overlay", false, "Omit the show-refs controls")
	renderCmd.Flags().BoolVar(&renderLineMarkers, "line-markers", true, "Emit a line anchor in front of every line")
	outlineCmd.Flags().StringVar(&outlineFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(outlineCmd)
}

// viewOptions derives render options from the config and flags.
func (w *workspace) viewOptions() view.Options {
	return view.Options{
		HasOverlay:       w.cfg.Render.HasOverlay && !renderNoOverlay,
		ReferenceThisURL: w.cfg.Render.ReferenceThisURL,
	}
}

func (w *workspace) renderer(db *storage.DB) (*view.Renderer, error) {
	table, err := resolverTable(db)
	if err != nil {
		return nil, err
	}
	return view.NewRenderer(table, w.logger, diff.Options{MaxCells: w.cfg.Diff.MaxCells}), nil
}

// loadScope returns a stored file with the scope it renders in.
func loadScope(db *storage.DB, artifactID, path string) (*source.File, binding.ScopeInfo, error) {
	classpath, err := storage.NewArtifactRepository(db).Classpath(artifactID)
	if err != nil {
		return nil, binding.ScopeInfo{}, err
	}
	scope := binding.ScopeInfo{ArtifactID: artifactID, Classpath: classpath}
	file, err := storage.NewSourceFileRepository(db).Load(artifactID, path)
	if err != nil {
		return nil, scope, err
	}
	return file, scope, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	db, err := ws.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	file, scope, err := loadScope(db, args[0], args[1])
	if err != nil {
		return err
	}
	renderer, err := ws.renderer(db)
	if err != nil {
		return err
	}

	if !renderTree {
		return renderer.RenderFile(os.Stdout, scope, file, ws.viewOptions(), renderLineMarkers)
	}
	nodes, err := renderer.RenderTree(scope, file, ws.viewOptions(), renderLineMarkers)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, markup.Render(nodes))
	return err
}

func runOutline(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	db, err := ws.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	file, _, err := loadScope(db, args[0], args[1])
	if err != nil {
		return err
	}
	outline, err := view.Outline(file)
	if err != nil {
		return err
	}

	if OutputFormat(outlineFormat) == FormatJSON {
		return printJSON(convertOutline(outline))
	}
	fmt.Print(formatOutlineHuman(outline))
	return nil
}
