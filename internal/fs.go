package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileCandidate is one file met during traversal, discarded after
// classification.
type FileCandidate struct {
	Path  string // absolute
	Dir   string // containing directory
	Ext   string // as on disk, with dot; may be empty
	Depth int    // segments between root and Dir; root-level files have 0
}

// WalkTree walks root and invokes fn for every file within the depth limit.
// Order is filepath.WalkDir's: lexicographic per directory, descending into
// a subdirectory before moving on to later siblings. Listing errors go to
// the observer and the entry is skipped; only ctx cancellation or fn stop
// the walk.
func WalkTree(ctx context.Context, root string, maxDepth int, obs Observer, fn func(FileCandidate) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			obs.OnFileError(path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && maxDepth >= 0 && dirDepth(root, path) > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		dir := filepath.Dir(path)
		depth := dirDepth(root, dir)
		if maxDepth >= 0 && depth > maxDepth {
			return nil
		}
		return fn(FileCandidate{
			Path:  path,
			Dir:   dir,
			Ext:   filepath.Ext(path),
			Depth: depth,
		})
	})
}

// dirDepth counts path segments between root and dir using Rel, not string
// lengths, so separators behave the same on every platform.
func dirDepth(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(os.PathSeparator)) + 1
}
