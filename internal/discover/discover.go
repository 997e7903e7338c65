// Package discover finds test files under a directory tree.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSuffix is the file name suffix identifying test files.
const DefaultSuffix = ".test"

// Files returns every file under root whose name ends with suffix, including
// symlinks to regular files,
// sorted lexicographically. Subdirectories are searched recursively.
// A tree with no matching files yields an empty slice and a nil error;
// a missing or non-directory root is an error.
func Files(root, suffix string) ([]string, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	files := []string{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		if isFile(path, d) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir already visits in lexical order per directory, but a full sort
	// keeps the order independent of separator placement ("a/b" vs "a.b").
	sort.Strings(files)
	return files, nil
}

// isFile reports whether d is a regular file or a symlink resolving to one.
// Dangling links and links to directories are left out.
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Filter returns the paths containing substr, preserving order.
// An empty substr returns paths unchanged.
func Filter(paths []string, substr string) []string {
	if substr == "" {
		return paths
	}
	filtered := []string{}
	for _, p := range paths {
		if strings.Contains(p, substr) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
