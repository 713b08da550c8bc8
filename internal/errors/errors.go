package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// StructuralViolation indicates a broken entry nesting or declaration outline
	StructuralViolation ErrorCode = "STRUCTURAL_VIOLATION"
	// MissingAlternative indicates one side of a diff has no source model
	MissingAlternative ErrorCode = "MISSING_ALTERNATIVE"
	// OutputWriteFailed indicates a static output file could not be written
	OutputWriteFailed ErrorCode = "OUTPUT_WRITE_FAILED"
	// IndexMissing indicates the SCIP index of an artifact was not found
	IndexMissing ErrorCode = "INDEX_MISSING"
	// ArtifactNotFound indicates an unknown artifact id
	ArtifactNotFound ErrorCode = "ARTIFACT_NOT_FOUND"
	// SourceFileNotFound indicates an artifact has no file at the requested path
	SourceFileNotFound ErrorCode = "SOURCE_FILE_NOT_FOUND"
	// DuplicateArtifact indicates the batch definition lists an artifact twice
	DuplicateArtifact ErrorCode = "DUPLICATE_ARTIFACT"
	// InvalidConfig indicates an invalid configuration or batch definition
	InvalidConfig ErrorCode = "INVALID_CONFIG"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// BrowserError represents an error with code, message, and suggestions
type BrowserError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// NewBrowserError creates a new BrowserError
func NewBrowserError(code ErrorCode, message string, cause error, suggestedFixes []FixAction) *BrowserError {
	return &BrowserError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
	}
}

// New creates a BrowserError carrying the default fixes for its code
func New(code ErrorCode, message string, cause error) *BrowserError {
	return NewBrowserError(code, message, cause, GetSuggestedFixes(code))
}

// Newf is New with a formatted message and no cause
func Newf(code ErrorCode, format string, args ...interface{}) *BrowserError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *BrowserError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *BrowserError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *BrowserError) WithDetails(details interface{}) *BrowserError {
	e.Details = details
	return e
}

// IsCode reports whether any error in err's chain is a BrowserError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var be *BrowserError
	for err != nil {
		if !errors.As(err, &be) {
			return false
		}
		if be.Code == code {
			return true
		}
		err = be.cause
	}
	return false
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	StructuralViolation: {
		{
			Type:        RunCommand,
			Command:     "javabrowser ingest --artifacts ${artifacts_file}",
			Safe:        true,
			Description: "Re-ingest the artifact; the producer emitted overlapping entries",
		},
	},
	IndexMissing: {
		{
			Type:        RunCommand,
			Command:     "scip-java index",
			Safe:        true,
			Description: "Generate the SCIP index for the artifact",
		},
	},
	ArtifactNotFound: {
		{
			Type:        RunCommand,
			Command:     "javabrowser ingest",
			Safe:        true,
			Description: "Ingest the artifacts listed in artifacts.toml",
		},
	},
	InvalidConfig: {
		{
			Type:        RunCommand,
			Command:     "javabrowser config show",
			Safe:        true,
			Description: "Inspect the effective configuration",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
