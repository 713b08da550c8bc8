package ingest

import (
	"fmt"
	"os"
	"strings"

	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"javabrowser/internal/errors"
)

// LoadIndex reads a SCIP index from disk.
func LoadIndex(path string) (*scippb.Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewBrowserError(
			errors.IndexMissing,
			fmt.Sprintf("SCIP index not found at %s", path),
			err,
			errors.GetSuggestedFixes(errors.IndexMissing),
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.InternalError, fmt.Sprintf("failed to read SCIP index from %s", path), err)
	}

	var index scippb.Index
	if err := proto.Unmarshal(data, &index); err != nil {
		return nil, errors.NewBrowserError(
			errors.IndexMissing,
			fmt.Sprintf("failed to parse SCIP index from %s", path),
			err,
			[]errors.FixAction{{
				Type:        errors.RunCommand,
				Command:     "scip print --json " + path,
				Safe:        true,
				Description: "Verify the SCIP index is valid",
			}},
		)
	}
	return &index, nil
}

// isJavaDocument reports whether doc holds Java source.
func isJavaDocument(doc *scippb.Document) bool {
	if strings.EqualFold(doc.Language, "java") {
		return true
	}
	return strings.HasSuffix(doc.RelativePath, ".java")
}
