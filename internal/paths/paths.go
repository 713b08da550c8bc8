// Package paths knows the on-disk layout of a javabrowser workspace.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the state directory inside a workspace root.
const DirName = ".javabrowser"

const (
	databaseFile = "javabrowser.db"
	configFile   = "config.json"
	siteDir      = "site"
)

// StateDir returns the state directory of a workspace.
func StateDir(root string) string {
	return filepath.Join(root, DirName)
}

// EnsureStateDir creates the state directory if needed.
func EnsureStateDir(root string) (string, error) {
	dir := StateDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", DirName, err)
	}
	return dir, nil
}

// DatabasePath returns the default sqlite database path.
func DatabasePath(root string) string {
	return filepath.Join(StateDir(root), databaseFile)
}

// ConfigPath returns the workspace config file path.
func ConfigPath(root string) string {
	return filepath.Join(StateDir(root), configFile)
}

// DefaultSiteDir returns the default static publishing directory.
func DefaultSiteDir(root string) string {
	return filepath.Join(StateDir(root), siteDir)
}

// Resolve makes p absolute against root unless it already is.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// CanonicalizePath converts an absolute path to a slash-separated path
// relative to root. Symlinks are resolved on both sides when they exist.
func CanonicalizePath(absolutePath string, root string) (string, error) {
	resolved, err := evalIfExists(absolutePath)
	if err != nil {
		return "", err
	}
	rootResolved, err := evalIfExists(root)
	if err != nil {
		return "", err
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(relativePath), nil
}

func evalIfExists(p string) (string, error) {
	resolved, err := filepath.EvalSymlinks(p)
	if os.IsNotExist(err) {
		return p, nil
	}
	return resolved, err
}

// IsWithinRoot checks if a path is within root
func IsWithinRoot(path string, root string) bool {
	canonical, err := CanonicalizePath(path, root)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// NormalizePath normalizes a path by converting backslashes to forward slashes
// This is useful for paths that are already relative but need normalization
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// JoinRootPath joins a root with a canonical path
func JoinRootPath(root string, canonicalPath string) string {
	// Ensure we use forward slashes in the canonical path
	normalizedPath := strings.ReplaceAll(canonicalPath, "\\", "/")
	// Convert to OS-specific path separator for joining
	parts := strings.Split(normalizedPath, "/")
	return filepath.Join(append([]string{root}, parts...)...)
}
