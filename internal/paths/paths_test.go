package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLayout(t *testing.T) {
	root := "/work"
	tests := []struct {
		got, want string
	}{
		{StateDir(root), "/work/.javabrowser"},
		{DatabasePath(root), "/work/.javabrowser/javabrowser.db"},
		{ConfigPath(root), "/work/.javabrowser/config.json"},
		{DefaultSiteDir(root), "/work/.javabrowser/site"},
		{Resolve(root, "out"), "/work/out"},
		{Resolve(root, "/abs/out"), "/abs/out"},
		{Resolve(root, ""), ""},
	}
	for _, tt := range tests {
		if tt.got != filepath.FromSlash(tt.want) {
			t.Errorf("got %s, want %s", tt.got, tt.want)
		}
	}
}

func TestEnsureStateDir(t *testing.T) {
	root := t.TempDir()
	dir, err := EnsureStateDir(root)
	if err != nil {
		t.Fatalf("EnsureStateDir: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("state dir not created: %v", err)
	}
}

func realTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCanonicalizePath(t *testing.T) {
	root := realTempDir(t)
	file := filepath.Join(root, "java", "util", "List.java")

	got, err := CanonicalizePath(file, root)
	if err != nil {
		t.Fatal(err)
	}
	if got != "java/util/List.java" {
		t.Errorf("CanonicalizePath = %q", got)
	}
}

func TestIsWithinRoot(t *testing.T) {
	root := realTempDir(t)
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "a", "B.java"), true},
		{filepath.Join(root, "..", "escape.java"), false},
		{filepath.Join(root, "..foo", "ok.java"), true},
	}
	for _, tt := range tests {
		if got := IsWithinRoot(tt.path, root); got != tt.want {
			t.Errorf("IsWithinRoot(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestJoinRootPath(t *testing.T) {
	got := JoinRootPath("/src", "java/lang/Object.java")
	if got != filepath.Join("/src", "java", "lang", "Object.java") {
		t.Errorf("JoinRootPath = %q", got)
	}
}
