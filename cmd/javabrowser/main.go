package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"javabrowser/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err and the suggested fixes of a coded error.
func reportError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var be *errors.BrowserError
	if !stderrors.As(err, &be) {
		return
	}
	for _, fix := range be.SuggestedFixes {
		switch fix.Type {
		case errors.RunCommand:
			fmt.Fprintf(os.Stderr, "  try: %s  (%s)\n", fix.Command, fix.Description)
		case errors.OpenDocs:
			fmt.Fprintf(os.Stderr, "  see: %s\n", fix.URL)
		}
	}
}
