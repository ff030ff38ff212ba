// Package walker enumerates the files a grouping pass will consider.
//
// Walks yield root-relative, slash-separated paths in sorted order so the
// downstream routing and joining stay deterministic across platforms and
// filesystem iteration orders.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options controls which files a walk yields.
type Options struct {
	// Include restricts the walk to paths matching at least one glob
	// (doublestar syntax, evaluated against the root-relative path).
	// Empty means everything is included.
	Include []string
	// Exclude drops paths matching any glob; applied after Include.
	Exclude []string
}

// Walk enumerates regular files under root and returns their root-relative
// slash-separated paths, sorted. Hidden directories are skipped.
func Walk(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	files := make([]string, 0)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		keep, err := selected(rel, opts)
		if err != nil {
			return err
		}
		if keep {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// selected applies the include and exclude globs to one relative path.
func selected(rel string, opts Options) (bool, error) {
	if len(opts.Include) > 0 {
		matched := false
		for _, glob := range opts.Include {
			ok, err := doublestar.Match(glob, rel)
			if err != nil {
				return false, fmt.Errorf("invalid include pattern %q: %w", glob, err)
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return false, nil
		}
	}
	for _, glob := range opts.Exclude {
		ok, err := doublestar.Match(glob, rel)
		if err != nil {
			return false, fmt.Errorf("invalid exclude pattern %q: %w", glob, err)
		}
		if ok {
			return false, nil
		}
	}
	return true, nil
}
