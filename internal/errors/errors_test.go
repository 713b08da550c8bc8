package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewBrowserError(t *testing.T) {
	cause := errors.New("underlying error")
	fixes := []FixAction{{Type: RunCommand, Command: "javabrowser ingest"}}

	err := NewBrowserError(IndexMissing, "SCIP index not found", cause, fixes)

	if err.Code != IndexMissing {
		t.Errorf("Code = %v, want %v", err.Code, IndexMissing)
	}
	if err.Message != "SCIP index not found" {
		t.Errorf("Message = %q, want %q", err.Message, "SCIP index not found")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestBrowserError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      OutputWriteFailed,
			message:   "cannot write a/B.html",
			cause:     errors.New("permission denied"),
			wantParts: []string{"OUTPUT_WRITE_FAILED", "cannot write a/B.html", "permission denied"},
		},
		{
			name:      "without cause",
			code:      StructuralViolation,
			message:   "entry [3,9) partially overlaps [0,5)",
			wantParts: []string{"STRUCTURAL_VIOLATION", "partially overlaps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBrowserError(tt.code, tt.message, tt.cause, nil).Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestBrowserError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := New(OutputWriteFailed, "write failed", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestIsCode(t *testing.T) {
	inner := Newf(StructuralViolation, "bad nesting in %s", "A.java")
	outer := New(InternalError, "render failed", inner)
	wrapped := fmt.Errorf("publish: %w", outer)

	if !IsCode(wrapped, InternalError) {
		t.Error("IsCode should match the outer code through fmt wrapping")
	}
	if !IsCode(wrapped, StructuralViolation) {
		t.Error("IsCode should match a nested BrowserError")
	}
	if IsCode(wrapped, IndexMissing) {
		t.Error("IsCode matched an absent code")
	}
	if IsCode(errors.New("plain"), InternalError) {
		t.Error("IsCode matched a plain error")
	}
}

func TestGetSuggestedFixes(t *testing.T) {
	if fixes := GetSuggestedFixes(StructuralViolation); len(fixes) == 0 {
		t.Error("expected fixes for StructuralViolation")
	}
	if fixes := GetSuggestedFixes(MissingAlternative); fixes != nil {
		t.Errorf("expected no fixes for MissingAlternative, got %v", fixes)
	}
}
