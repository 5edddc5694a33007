package subpath_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tejash-9/spacedrive/internal/subpath"
)

func TestResolveDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "docs", "guides"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	resolved, err := subpath.Resolve(root, "docs/guides")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := resolved.ChildPrefix(); got != "/docs/guides/" {
		t.Fatalf("unexpected child prefix %q", got)
	}
	if got := resolved.MaterializedPath(); got != "/docs/" {
		t.Fatalf("unexpected materialized path %q", got)
	}
	if got := resolved.Name(); got != "guides" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestResolveTopLevelDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "docs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	resolved, err := subpath.Resolve(root, "docs")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := resolved.MaterializedPath(); got != "/" {
		t.Fatalf("unexpected materialized path %q", got)
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	root := t.TempDir()
	for _, sub := range []string{"..", "../outside", "/etc", ""} {
		if _, err := subpath.Resolve(root, sub); !errors.Is(err, subpath.ErrInvalidSubPath) {
			t.Fatalf("expected ErrInvalidSubPath for %q, got %v", sub, err)
		}
	}
}

func TestResolveRejectsFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := subpath.Resolve(root, "notes.txt"); !errors.Is(err, subpath.ErrInvalidSubPath) {
		t.Fatalf("expected ErrInvalidSubPath, got %v", err)
	}
}

func TestResolveMissing(t *testing.T) {
	if _, err := subpath.Resolve(t.TempDir(), "missing"); !errors.Is(err, subpath.ErrSubPathNotFound) {
		t.Fatalf("expected ErrSubPathNotFound, got %v", err)
	}
}

func TestMaterializedFor(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "library")
	cases := []struct {
		parent string
		want   string
	}{
		{root, "/"},
		{filepath.Join(root, "docs"), "/docs/"},
		{filepath.Join(root, "docs", "guides"), "/docs/guides/"},
	}
	for _, tc := range cases {
		got, err := subpath.MaterializedFor(root, tc.parent)
		if err != nil {
			t.Fatalf("MaterializedFor(%q) failed: %v", tc.parent, err)
		}
		if got != tc.want {
			t.Fatalf("MaterializedFor(%q) = %q, want %q", tc.parent, got, tc.want)
		}
	}

	if _, err := subpath.MaterializedFor(root, filepath.Dir(root)); err == nil {
		t.Fatal("expected error for parent outside root")
	}
}

func TestEntryPath(t *testing.T) {
	if got := subpath.EntryPath("/docs/", "readme", "md"); got != "docs/readme.md" {
		t.Fatalf("unexpected entry path %q", got)
	}
	if got := subpath.EntryPath("/", "Makefile", ""); got != "Makefile" {
		t.Fatalf("unexpected entry path %q", got)
	}
}
