package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/vibecodehq/vibe/internal/fsutil"
)

// TransformDetails reports a parallel transform pass.
type TransformDetails struct {
	// TotalFiles is the size of the expanded candidate set.
	TotalFiles int
	// Transformed counts files with at least one match (written, or
	// would-be written on a dry run).
	Transformed int
	// Skipped counts files with no match.
	Skipped int
	// Files lists the per-file outcomes for transformed files.
	Files []TransformFile
	// RollbackAvailable is true when a new undo entry was pushed.
	RollbackAvailable bool
}

// TransformFile is one file's transform outcome.
type TransformFile struct {
	// Path is the file path relative to the project root.
	Path string `json:"file"`
	// Matches is the number of find-pattern occurrences.
	Matches int `json:"matches"`
}

// transformSlot is one worker's result. Slots are pre-sized per file so
// workers never share mutable accumulation state.
type transformSlot struct {
	path     string
	matches  int
	preimage []byte
	written  bool
	err      error
}

// transform runs the parallel find/replace pass. The candidate set is
// expanded synchronously and deterministically before any worker starts;
// per-file failures are isolated and collected.
func (e *Executor) transform(targets []string, opts Options) (*Result, error) {
	if opts.Find == "" {
		return nil, precondition("find pattern required")
	}

	var re *regexp.Regexp
	if opts.Regex {
		var err error
		re, err = regexp.Compile(opts.Find)
		if err != nil {
			return nil, precondition("bad find regexp: %v", err)
		}
	}

	files, err := fsutil.ExpandPatterns(e.root, targets)
	if err != nil {
		return nil, err
	}

	res := &Result{DryRun: opts.DryRun, Transform: &TransformDetails{TotalFiles: len(files)}}
	if len(files) == 0 {
		res.Success = true
		res.Message = "no files matched"
		return res, nil
	}

	slots := make([]transformSlot, len(files))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e.transformOne(&slots[i], files[i], re, opts)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// The pool has joined; assemble the result and the undo entry from
	// the pre-sized slots.
	var preimages []filePreimage
	for i := range slots {
		s := &slots[i]
		if s.err != nil {
			res.Errors = append(res.Errors, UnitError{File: s.path, Err: s.err.Error()})
			continue
		}
		if s.matches == 0 {
			res.Transform.Skipped++
			continue
		}
		res.Transform.Transformed++
		res.Transform.Files = append(res.Transform.Files, TransformFile{Path: s.path, Matches: s.matches})
		if s.written {
			preimages = append(preimages, filePreimage{path: s.path, content: s.preimage})
		}
	}

	if len(preimages) > 0 && !opts.DryRun {
		e.pushUndo(undoEntry{operation: OpTransform, preimages: preimages})
		res.Transform.RollbackAvailable = true
	}
	e.opCount += res.Transform.Transformed

	res.Success = len(res.Errors) == 0
	return res, nil
}

// transformOne is the per-file worker body. It never panics across the
// pool boundary: failures land in the slot as tagged errors.
func (e *Executor) transformOne(slot *transformSlot, rel string, re *regexp.Regexp, opts Options) {
	defer func() {
		if r := recover(); r != nil {
			slot.err = fmt.Errorf("worker panic: %v", r)
		}
	}()

	slot.path = rel
	full := filepath.Join(e.root, filepath.FromSlash(rel))

	content, err := os.ReadFile(full)
	if err != nil {
		slot.err = err
		return
	}

	var matches int
	var updated string
	text := string(content)
	if re != nil {
		matches = len(re.FindAllStringIndex(text, -1))
		if matches > 0 {
			updated = re.ReplaceAllString(text, opts.Replace)
		}
	} else {
		matches = strings.Count(text, opts.Find)
		if matches > 0 {
			updated = strings.ReplaceAll(text, opts.Find, opts.Replace)
		}
	}

	slot.matches = matches
	if matches == 0 || opts.DryRun {
		return
	}

	info, err := os.Stat(full)
	if err != nil {
		slot.err = err
		return
	}
	if err := os.WriteFile(full, []byte(updated), info.Mode().Perm()); err != nil {
		slot.err = err
		return
	}
	slot.preimage = content
	slot.written = true
}
