// Package walker populates file_path rows by walking a location root. New
// entries are inserted as orphans for the identifier to pick up; entries
// already indexed are left untouched, so re-scanning is idempotent.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tejash-9/spacedrive/internal/library"
	"github.com/tejash-9/spacedrive/internal/logging"
	"github.com/tejash-9/spacedrive/internal/subpath"
)

// Result summarizes one scan pass.
type Result struct {
	Indexed int64
	Reused  int64
	Skipped int64
}

// Scan walks location's root and upserts a file_path row for every visible
// file and directory. Hidden entries and everything beneath hidden
// directories are skipped. Unreadable entries are counted and skipped, not
// fatal; only storage failures abort the scan.
func Scan(ctx context.Context, store *library.Store, logger *slog.Logger, location *library.Location) (*Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	result := &Result{}

	err := filepath.WalkDir(location.Path, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			result.Skipped++
			logger.Warn("scan entry unreadable", logging.String("path", path), logging.Error(err))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == location.Path {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") {
			result.Skipped++
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		materialized, err := subpath.MaterializedFor(location.Path, filepath.Dir(path))
		if err != nil {
			return err
		}

		row := &library.FilePath{
			LocationID:       location.ID,
			MaterializedPath: materialized,
			Name:             entry.Name(),
			IsDir:            entry.IsDir(),
		}
		if !entry.IsDir() {
			// A bare trailing dot is not an extension; splitting it would
			// drop the dot from the stored name and the reconstructed
			// absolute path would point at a different file.
			if ext := filepath.Ext(entry.Name()); ext != "" && ext != "." {
				row.Extension = strings.TrimPrefix(ext, ".")
				row.Name = strings.TrimSuffix(entry.Name(), ext)
			}
			info, err := entry.Info()
			if err != nil {
				result.Skipped++
				logger.Warn("scan entry stat failed", logging.String("path", path), logging.Error(err))
				return nil
			}
			row.SizeBytes = info.Size()
			modTime := info.ModTime().UTC()
			row.ModTime = &modTime
		}

		_, created, err := store.UpsertFilePath(ctx, row)
		if err != nil {
			return fmt.Errorf("index %q: %w", path, err)
		}
		if created {
			result.Indexed++
		} else {
			result.Reused++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan location %q: %w", location.Path, err)
	}

	logger.Info("scan finished",
		logging.Int64("indexed", result.Indexed),
		logging.Int64("reused", result.Reused),
		logging.Int64("skipped", result.Skipped))
	return result, nil
}
