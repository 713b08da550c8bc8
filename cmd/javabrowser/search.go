package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"javabrowser/internal/binding"
	"javabrowser/internal/storage"
)

var (
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search declarations by binding",
	Long: `Search the declarations of all ingested artifacts.

Search semantics:
  - Exact token phrase matches first, then token prefixes, then substrings
  - Types rank before members within a tier

Examples:
  javabrowser search ArrayList
  javabrowser search java.util.Map --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(searchCmd)
}

// SearchResponseCLI contains search results for CLI output
type SearchResponseCLI struct {
	Query   string            `json:"query"`
	Results []SearchResultCLI `json:"results"`
}

// SearchResultCLI is one matched declaration
type SearchResultCLI struct {
	Binding    string `json:"binding"`
	ArtifactID string `json:"artifactId"`
	SourcePath string `json:"sourcePath"`
	URI        string `json:"uri"`
	IsType     bool   `json:"isType"`
	MatchType  string `json:"matchType"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	db, err := ws.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := storage.NewBindingRepository(db).Search(newContext(), args[0], searchLimit)
	if err != nil {
		return err
	}
	resp := convertSearchResponse(args[0], results)

	ws.logger.Debug("Search query completed", map[string]interface{}{
		"query":    args[0],
		"results":  len(results),
		"duration": time.Since(start).Milliseconds(),
	})

	if OutputFormat(searchFormat) == FormatJSON {
		return printJSON(resp)
	}
	fmt.Print(formatSearchHuman(resp))
	return nil
}

func convertSearchResponse(query string, results []storage.SearchResult) *SearchResponseCLI {
	resp := &SearchResponseCLI{Query: query, Results: make([]SearchResultCLI, 0, len(results))}
	for _, r := range results {
		loc := binding.Location{ArtifactID: r.ArtifactID, SourcePath: r.SourcePath}
		resp.Results = append(resp.Results, SearchResultCLI{
			Binding:    string(r.Binding),
			ArtifactID: r.ArtifactID,
			SourcePath: r.SourcePath,
			URI:        loc.URI(r.Binding),
			IsType:     r.IsType,
			MatchType:  r.MatchType,
		})
	}
	return resp
}

func formatSearchHuman(resp *SearchResponseCLI) string {
	if len(resp.Results) == 0 {
		return fmt.Sprintf("No declarations match %q\n", resp.Query)
	}
	var b strings.Builder
	for _, r := range resp.Results {
		fmt.Fprintf(&b, "%-10s %s\n           %s\n", r.MatchType, r.Binding, r.URI)
	}
	return b.String()
}
