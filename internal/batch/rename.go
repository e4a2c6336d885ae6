package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vibecodehq/vibe/internal/fsutil"
)

// DefaultDateFormat is the {date} layout when none is configured.
const DefaultDateFormat = "20060102"

// RenameDetails reports a bulk rename pass.
type RenameDetails struct {
	// Renamed lists performed (or would-be) renames in source order.
	Renamed []RenamePair
	// Count is len(Renamed).
	Count int
	// RollbackAvailable is true when a new undo entry was pushed.
	RollbackAvailable bool
}

// RenamePair is one rename, relative to the project root.
type RenamePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// rename applies a name template over the matched files. Iteration is
// sorted by path: renames must be reproducible and collision-checked, so
// pool ordering is not acceptable here. The counter advances once per
// attempted file, including files skipped on collision, so generated
// names stay stable regardless of which targets already exist.
func (e *Executor) rename(targets []string, opts Options) (*Result, error) {
	template := opts.Template
	if template == "" {
		template = "{name}{ext}"
	}
	counter := opts.CounterStart
	if counter <= 0 {
		counter = 1
	}
	dateFormat := opts.DateFormat
	if dateFormat == "" {
		dateFormat = DefaultDateFormat
	}

	files, err := fsutil.ExpandPatterns(e.root, targets)
	if err != nil {
		return nil, err
	}

	res := &Result{DryRun: opts.DryRun, Rename: &RenameDetails{}}
	if len(files) == 0 {
		res.Success = true
		res.Message = "no files matched"
		return res, nil
	}

	now := time.Now()
	var inverse []RenamePair

	for _, rel := range files {
		newName := expandTemplate(template, rel, counter, now, dateFormat)
		counter++

		// Carry the extension when the template drops it.
		if filepath.Ext(newName) == "" {
			if ext := filepath.Ext(rel); ext != "" {
				newName += ext
			}
		}

		dir := filepath.Dir(filepath.FromSlash(rel))
		newRel := filepath.ToSlash(filepath.Join(dir, newName))
		oldPath := filepath.Join(e.root, filepath.FromSlash(rel))
		newPath := filepath.Join(e.root, filepath.FromSlash(newRel))

		if newRel == rel {
			continue
		}

		if opts.DryRun {
			res.Rename.Renamed = append(res.Rename.Renamed, RenamePair{From: rel, To: newRel})
			continue
		}

		// An existing target is a per-file error, never an overwrite.
		if _, err := os.Stat(newPath); err == nil {
			res.Errors = append(res.Errors, UnitError{File: rel, Err: fmt.Sprintf("target exists: %s", newRel)})
			continue
		}
		if err := os.Rename(oldPath, newPath); err != nil {
			res.Errors = append(res.Errors, UnitError{File: rel, Err: err.Error()})
			continue
		}

		res.Rename.Renamed = append(res.Rename.Renamed, RenamePair{From: rel, To: newRel})
		inverse = append(inverse, RenamePair{From: newRel, To: rel})
	}

	if len(inverse) > 0 {
		e.pushUndo(undoEntry{operation: OpRename, renames: inverse})
		res.Rename.RollbackAvailable = true
	}

	res.Rename.Count = len(res.Rename.Renamed)
	e.opCount += res.Rename.Count
	res.Success = len(res.Errors) == 0
	return res, nil
}

// expandTemplate substitutes the rename placeholders for one file.
func expandTemplate(template, rel string, counter int, now time.Time, dateFormat string) string {
	base := filepath.Base(rel)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	parent := filepath.Base(filepath.Dir(filepath.FromSlash(rel)))
	if parent == "." {
		parent = ""
	}

	r := strings.NewReplacer(
		"{name}", name,
		"{ext}", ext,
		"{counter}", strconv.Itoa(counter),
		"{counter_pad}", fmt.Sprintf("%04d", counter),
		"{date}", now.Format(dateFormat),
		"{timestamp}", strconv.FormatInt(now.Unix(), 10),
		"{parent}", parent,
	)
	return r.Replace(template)
}
