package batch

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/vibecodehq/vibe/internal/fsutil"
)

// Duplicate-group keep policies.
const (
	KeepFirst  = "first"
	KeepNewest = "newest"
	KeepOldest = "oldest"
)

// DedupeDetails reports a deduplication pass.
type DedupeDetails struct {
	// Groups is the number of duplicate groups found.
	Groups int
	// DuplicatesFound counts non-kept files across all groups.
	DuplicatesFound int
	// Deleted counts files actually removed (0 on a dry run).
	Deleted int
	// SpaceSaved is the summed size of all non-kept duplicates.
	SpaceSaved int64
	// Duplicates lists the non-kept files and what they duplicate.
	Duplicates []DuplicateFile
}

// DuplicateFile is one non-kept member of a duplicate group.
type DuplicateFile struct {
	// Path is the duplicate file, relative to the project root.
	Path string `json:"file"`
	// DuplicateOf is the kept file it matches.
	DuplicateOf string `json:"duplicate_of"`
	// Size is the duplicate's size in bytes.
	Size int64 `json:"size"`
}

// deduplicate hashes every matched file and groups by content. Within a
// group exactly one file survives per the keep policy; the rest are
// deleted unless this is a dry run. Deletion is best-effort: the data is
// already confirmed duplicated, so a failed delete is logged and skipped
// rather than aborting the batch.
func (e *Executor) deduplicate(targets []string, opts Options) (*Result, error) {
	keep := opts.Keep
	if keep == "" {
		keep = KeepFirst
	}
	if keep != KeepFirst && keep != KeepNewest && keep != KeepOldest {
		return nil, precondition("unknown keep policy %q", keep)
	}

	files, err := fsutil.ExpandPatterns(e.root, targets)
	if err != nil {
		return nil, err
	}

	res := &Result{DryRun: opts.DryRun, Dedupe: &DedupeDetails{}}

	groups := make(map[string][]string)
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(rel)))
		if err != nil {
			// Unreadable files simply drop out of the grouping.
			continue
		}
		sum := sha256.Sum256(data)
		key := hex.EncodeToString(sum[:])
		groups[key] = append(groups[key], rel)
	}

	// Deterministic group ordering for stable reports.
	keys := make([]string, 0, len(groups))
	for k := range groups {
		if len(groups[k]) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]
		res.Dedupe.Groups++

		kept := e.selectKeep(group, keep)
		for _, rel := range group {
			if rel == kept {
				continue
			}
			res.Dedupe.DuplicatesFound++

			full := filepath.Join(e.root, filepath.FromSlash(rel))
			var size int64
			if info, err := os.Stat(full); err == nil {
				size = info.Size()
			}
			res.Dedupe.SpaceSaved += size
			res.Dedupe.Duplicates = append(res.Dedupe.Duplicates, DuplicateFile{
				Path:        rel,
				DuplicateOf: kept,
				Size:        size,
			})

			if opts.DryRun {
				continue
			}
			if err := os.Remove(full); err != nil {
				log.Printf("[batch] dedupe: remove %s: %v", rel, err)
				continue
			}
			res.Dedupe.Deleted++
		}
	}

	res.Success = true
	return res, nil
}

// selectKeep picks the surviving file of a duplicate group. "first" is
// lexicographic by path; "newest" and "oldest" compare modification
// times.
func (e *Executor) selectKeep(group []string, keep string) string {
	if keep == KeepFirst {
		sorted := append([]string(nil), group...)
		sort.Strings(sorted)
		return sorted[0]
	}

	byMtime := append([]string(nil), group...)
	sort.Slice(byMtime, func(i, j int) bool {
		iInfo, iErr := os.Stat(filepath.Join(e.root, filepath.FromSlash(byMtime[i])))
		jInfo, jErr := os.Stat(filepath.Join(e.root, filepath.FromSlash(byMtime[j])))
		if iErr != nil || jErr != nil {
			return byMtime[i] < byMtime[j]
		}
		if iInfo.ModTime().Equal(jInfo.ModTime()) {
			return byMtime[i] < byMtime[j]
		}
		return iInfo.ModTime().Before(jInfo.ModTime())
	})

	if keep == KeepNewest {
		return byMtime[len(byMtime)-1]
	}
	return byMtime[0]
}
