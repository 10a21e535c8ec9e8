package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// SourceExts are the extensions collected when none are given.
var SourceExts = []string{".cs"}

// DefaultExcludes are base-name patterns skipped while walking directories.
var DefaultExcludes = []string{".git", ".vs", "bin", "obj", "node_modules", "*.g.cs", "*.Designer.cs"}

// ListFiles expands paths into a sorted, de-duplicated list of source files.
// Directories are walked recursively; entries whose base name matches an
// exclude pattern (filepath.Match syntax) are skipped together with their
// subtrees. Files named explicitly are kept whatever their extension.
func ListFiles(ctx context.Context, paths, exts, excludes []string) ([]string, error) {
	if exts == nil {
		exts = SourceExts
	}
	if excludes == nil {
		excludes = DefaultExcludes
	}
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if path != p && excluded(d.Name(), excludes) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if slices.ContainsFunc(exts, func(ext string) bool { return strings.EqualFold(filepath.Ext(path), ext) }) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func excluded(name string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// commonDir returns the deepest directory containing every path; it is the
// FileSet base for relative output.
func commonDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	dirOf := func(p string) string {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs
		}
		return filepath.Dir(abs)
	}
	base := dirOf(paths[0])
	for _, p := range paths[1:] {
		d := dirOf(p)
		for base != d && !strings.HasPrefix(d, base+string(filepath.Separator)) {
			parent := filepath.Dir(base)
			if parent == base {
				return base
			}
			base = parent
		}
	}
	return base
}
