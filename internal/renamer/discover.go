package renamer

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Discover walks root and returns every sidecar path (file names ending in
// "."+ext, compared case-insensitively) sorted lexicographically for a
// deterministic processing order. Trash directories and the exclude subtrees
// are pruned.
func Discover(root, ext string, exclude ...string) ([]string, error) {
	suffix := "." + strings.ToLower(ext)
	skip := make(map[string]bool, len(exclude))
	for _, dir := range exclude {
		if abs, err := filepath.Abs(dir); err == nil {
			skip[abs] = true
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (isTrashDir(d.Name()) || excluded(path, skip)) {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// isTrashDir matches per-volume trash directories (.Trash, .Trash-1000).
func isTrashDir(name string) bool {
	return name == ".Trash" || strings.HasPrefix(name, ".Trash-")
}

func excluded(path string, skip map[string]bool) bool {
	if len(skip) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && skip[abs]
}

// splitSidecar returns the group base and the sidecar's own suffix (with its
// on-disk casing) for a discovered sidecar file name.
func splitSidecar(name, ext string) (base, suffix string) {
	cut := len(name) - len(ext) - 1
	return name[:cut], name[cut+1:]
}
