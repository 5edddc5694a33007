package walker_test

import (
	"context"
	"testing"

	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/subpath"
	"github.com/tejash-9/spacedrive/internal/testsupport"
	"github.com/tejash-9/spacedrive/internal/walker"
)

func TestScanIndexesTree(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	loc := testsupport.NewLocation(t, store, "home", t.TempDir())

	testsupport.SeedTree(t, loc.Path, map[string]string{
		"readme.md":         "hello",
		"docs/guide.txt":    "guide",
		"docs/img/logo.png": "png",
		".hidden.txt":       "secret",
		".cache/blob":       "cached",
		"docs/.draft.md":    "draft",
	})

	result, err := walker.Scan(context.Background(), store, nil, loc)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	// 3 files plus the docs and docs/img directories.
	if result.Indexed != 5 {
		t.Fatalf("expected 5 indexed entries, got %d", result.Indexed)
	}
	if result.Skipped != 3 {
		t.Fatalf("expected 3 hidden entries skipped, got %d", result.Skipped)
	}

	orphans, err := store.CountOrphanFilePaths(context.Background(), loc.ID, "")
	if err != nil {
		t.Fatalf("CountOrphanFilePaths: %v", err)
	}
	if orphans != 3 {
		t.Fatalf("expected 3 orphan files, got %d", orphans)
	}
}

func TestScanMaterializedPaths(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	loc := testsupport.NewLocation(t, store, "home", t.TempDir())

	testsupport.SeedTree(t, loc.Path, map[string]string{
		"top.txt":           "a",
		"docs/guides/b.txt": "b",
	})
	if _, err := walker.Scan(context.Background(), store, nil, loc); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	batch, err := store.OrphanFilePathBatch(context.Background(), loc.ID, 0, "", 10)
	if err != nil {
		t.Fatalf("OrphanFilePathBatch: %v", err)
	}
	paths := map[string]library.FilePath{}
	for _, fp := range batch {
		paths[fp.MaterializedPath+fp.Name] = fp
	}

	top, ok := paths["/top"]
	if !ok {
		t.Fatalf("missing root entry, have %v", paths)
	}
	if top.Extension != "txt" {
		t.Fatalf("expected extension split, got %q", top.Extension)
	}
	if _, ok := paths["/docs/guides/b"]; !ok {
		t.Fatalf("missing nested entry, have %v", paths)
	}

	dirExists, err := store.DirectoryExists(context.Background(), loc.ID, "/docs/", "guides")
	if err != nil {
		t.Fatalf("DirectoryExists: %v", err)
	}
	if !dirExists {
		t.Fatal("expected guides directory row")
	}
}

func TestScanKeepsTrailingDotNames(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	loc := testsupport.NewLocation(t, store, "home", t.TempDir())

	testsupport.SeedTree(t, loc.Path, map[string]string{
		"notes.":      "dot",
		"archive.tar": "tar",
	})
	if _, err := walker.Scan(context.Background(), store, nil, loc); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	batch, err := store.OrphanFilePathBatch(context.Background(), loc.ID, 0, "", 10)
	if err != nil {
		t.Fatalf("OrphanFilePathBatch: %v", err)
	}
	rows := map[string]library.FilePath{}
	for _, fp := range batch {
		rows[fp.Name] = fp
	}

	dotted, ok := rows["notes."]
	if !ok {
		t.Fatalf("expected the trailing dot kept in the name, have %v", rows)
	}
	if dotted.Extension != "" {
		t.Fatalf("expected no extension for a bare trailing dot, got %q", dotted.Extension)
	}
	if got := subpath.EntryPath(dotted.MaterializedPath, dotted.Name, dotted.Extension); got != "notes." {
		t.Fatalf("reconstructed %q, want %q", got, "notes.")
	}
	if rows["archive"].Extension != "tar" {
		t.Fatalf("expected normal extensions still split, have %v", rows)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	loc := testsupport.NewLocation(t, store, "home", t.TempDir())

	testsupport.SeedTree(t, loc.Path, map[string]string{"a.txt": "a", "b.txt": "b"})

	first, err := walker.Scan(context.Background(), store, nil, loc)
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	if first.Indexed != 2 || first.Reused != 0 {
		t.Fatalf("unexpected first pass %+v", first)
	}

	testsupport.SeedTree(t, loc.Path, map[string]string{"c.txt": "c"})
	second, err := walker.Scan(context.Background(), store, nil, loc)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if second.Indexed != 1 || second.Reused != 2 {
		t.Fatalf("unexpected second pass %+v", second)
	}

	total, err := store.CountFilePaths(context.Background(), loc.ID)
	if err != nil {
		t.Fatalf("CountFilePaths: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 rows, got %d", total)
	}
}
