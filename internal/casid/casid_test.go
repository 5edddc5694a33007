package casid_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tejash-9/spacedrive/internal/casid"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestIdenticalContentYieldsIdenticalID(t *testing.T) {
	dir := t.TempDir()
	content := []byte("the same bytes in two different places")
	writeFile(t, filepath.Join(dir, "a", "first.txt"), content)
	writeFile(t, filepath.Join(dir, "b", "второй.md"), content)

	ctx := context.Background()
	idA, metaA, err := casid.Compute(ctx, filepath.Join(dir, "a", "first.txt"))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	idB, _, err := casid.Compute(ctx, filepath.Join(dir, "b", "второй.md"))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if idA != idB {
		t.Fatalf("expected identical ids, got %q and %q", idA, idB)
	}
	if metaA.SizeBytes != int64(len(content)) {
		t.Fatalf("unexpected size %d", metaA.SizeBytes)
	}
	if metaA.Kind != "text" {
		t.Fatalf("unexpected kind %q", metaA.Kind)
	}
}

func TestDifferentContentYieldsDifferentID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.txt"), []byte("content one"))
	writeFile(t, filepath.Join(dir, "two.txt"), []byte("content two"))

	ctx := context.Background()
	idOne, _, err := casid.Compute(ctx, filepath.Join(dir, "one.txt"))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	idTwo, _, err := casid.Compute(ctx, filepath.Join(dir, "two.txt"))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if idOne == idTwo {
		t.Fatal("expected different ids for different content")
	}
}

func TestLargeFileSamplingIsStable(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("0123456789abcdef"), 64*1024) // 1 MiB
	writeFile(t, filepath.Join(dir, "large.bin"), content)
	writeFile(t, filepath.Join(dir, "copy.bin"), content)

	ctx := context.Background()
	first, _, err := casid.Compute(ctx, filepath.Join(dir, "large.bin"))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	again, _, err := casid.Compute(ctx, filepath.Join(dir, "large.bin"))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	copied, _, err := casid.Compute(ctx, filepath.Join(dir, "copy.bin"))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if first != again {
		t.Fatal("expected repeated computation to match")
	}
	if first != copied {
		t.Fatal("expected identical large files to share an id")
	}

	// Same sampled regions but a different size must not collide.
	writeFile(t, filepath.Join(dir, "longer.bin"), append(content, content[:sampleTail]...))
	longer, _, err := casid.Compute(ctx, filepath.Join(dir, "longer.bin"))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if longer == first {
		t.Fatal("expected differing sizes to produce differing ids")
	}
}

const sampleTail = 128 * 1024

func TestComputeMissingFile(t *testing.T) {
	if _, _, err := casid.Compute(context.Background(), filepath.Join(t.TempDir(), "gone.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestKindForPath(t *testing.T) {
	cases := map[string]string{
		"movie.MKV":  "video",
		"track.flac": "audio",
		"readme.md":  "text",
		"data.bin":   "unknown",
		"Makefile":   "unknown",
	}
	for path, want := range cases {
		if got := casid.KindForPath(path); got != want {
			t.Fatalf("KindForPath(%q) = %q, want %q", path, got, want)
		}
	}
}
