// Package fsutil provides pattern-based file enumeration and the small
// filesystem helpers shared by the batch executor and scaffold agent.
package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandPatterns resolves glob patterns against a root directory and
// returns the matching regular files as sorted, slash-separated paths
// relative to root. Patterns support `**` for any number of path segments.
//
// Expansion is deterministic: the same tree and patterns always yield the
// same candidate set, so a dry run and the following real run agree.
func ExpandPatterns(root string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if pattern == "" {
			continue
		}

		if !strings.Contains(pattern, "**") {
			matches, err := filepath.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				info, err := os.Stat(m)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				rel, err := filepath.Rel(root, m)
				if err != nil {
					continue
				}
				seen[filepath.ToSlash(rel)] = true
			}
			continue
		}

		// Validate the per-segment syntax up front so a malformed pattern
		// fails instead of silently matching nothing.
		for _, seg := range strings.Split(pattern, "/") {
			if seg == "**" {
				continue
			}
			if _, err := path.Match(seg, "probe"); err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
		}

		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // unreadable subtree, skip
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/")) {
				seen[rel] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files, nil
}

// matchSegments matches pattern segments against path segments, with "**"
// matching zero or more segments.
func matchSegments(pattern, segs []string) bool {
	if len(pattern) == 0 {
		return len(segs) == 0
	}

	if pattern[0] == "**" {
		for i := 0; i <= len(segs); i++ {
			if matchSegments(pattern[1:], segs[i:]) {
				return true
			}
		}
		return false
	}

	if len(segs) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], segs[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], segs[1:])
}

// CopyFile copies src to dst, creating parent directories as needed. The
// file mode and modification time carry over so mtime-based comparisons
// keep working on the copy.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// WalkFiles returns every regular file under root as slash-separated
// paths relative to root.
func WalkFiles(root string) (map[string]os.FileInfo, error) {
	files := make(map[string]os.FileInfo)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = info
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
