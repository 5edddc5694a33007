// Package subpath resolves sub-tree scopes against a location root and
// computes the materialized paths stored on file_path rows.
//
// A materialized path encodes an entry's parent directory relative to the
// location root with leading and trailing slashes, so "/" for entries
// directly under the root and "/docs/guides/" for entries two levels deep.
// Prefix matching on this string selects whole subtrees in a single query.
package subpath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidSubPath reports a scope that escapes the location root or does
// not name a directory.
var ErrInvalidSubPath = errors.New("invalid sub path")

// ErrSubPathNotFound reports a scope that does not exist on disk or has no
// indexed file_path row.
var ErrSubPathNotFound = errors.New("sub path not found")

// Resolved is a validated sub-tree scope within a location.
type Resolved struct {
	// relative is the cleaned scope path relative to the location root,
	// slash-separated, without leading or trailing slashes.
	relative string
}

// Resolve validates that sub names a directory inside locationRoot and
// returns its scope representation. An empty or "." sub path is rejected;
// callers express "whole location" by not using a scope at all.
func Resolve(locationRoot, sub string) (*Resolved, error) {
	cleaned := path.Clean(strings.TrimSpace(filepath.ToSlash(sub)))
	if cleaned == "" || cleaned == "." {
		return nil, fmt.Errorf("%w: empty scope", ErrInvalidSubPath)
	}
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return nil, fmt.Errorf("%w: %q escapes the location root", ErrInvalidSubPath, sub)
	}

	full := filepath.Join(locationRoot, filepath.FromSlash(cleaned))
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrSubPathNotFound, sub)
		}
		return nil, fmt.Errorf("stat sub path %q: %w", sub, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", ErrInvalidSubPath, sub)
	}

	return &Resolved{relative: cleaned}, nil
}

// ChildPrefix returns the materialized-path prefix carried by every entry
// underneath the scope directory, including nested ones.
func (r *Resolved) ChildPrefix() string {
	return "/" + r.relative + "/"
}

// MaterializedPath returns the materialized path of the scope directory's own
// file_path row.
func (r *Resolved) MaterializedPath() string {
	parent := path.Dir(r.relative)
	if parent == "." {
		return "/"
	}
	return "/" + parent + "/"
}

// Name returns the scope directory's base name.
func (r *Resolved) Name() string {
	return path.Base(r.relative)
}

// RelativePath returns the cleaned scope path relative to the location root.
func (r *Resolved) RelativePath() string {
	return r.relative
}

// MaterializedFor computes the materialized path for an entry whose parent
// directory is parentDir, relative to the location root.
func MaterializedFor(root, parentDir string) (string, error) {
	rel, err := filepath.Rel(root, parentDir)
	if err != nil {
		return "", fmt.Errorf("relativize %q against %q: %w", parentDir, root, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "/", nil
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %q is outside the location root", ErrInvalidSubPath, parentDir)
	}
	return "/" + rel + "/", nil
}

// EntryPath converts a file_path row back into a path relative to the
// location root.
func EntryPath(materializedPath, name, extension string) string {
	full := name
	if extension != "" {
		full += "." + extension
	}
	return strings.TrimPrefix(materializedPath, "/") + full
}
