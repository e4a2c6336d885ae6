package batch

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vibecodehq/vibe/internal/fsutil"
)

// SyncDetails reports a one-way mirror pass.
type SyncDetails struct {
	// Copied counts files that existed only in the source.
	Copied int
	// Updated counts files overwritten because the source was strictly
	// newer by modification time.
	Updated int
	// Deleted counts destination-only files removed (only when
	// DeleteExtra was requested).
	Deleted int
}

// sync mirrors the source tree into the destination. Comparison is by
// modification time only; content hashing belongs to deduplicate.
func (e *Executor) sync(_ []string, opts Options) (*Result, error) {
	if opts.Source == "" || opts.Destination == "" {
		return nil, precondition("source and destination required")
	}

	src := e.resolve(opts.Source)
	dst := e.resolve(opts.Destination)

	if _, err := os.Stat(src); err != nil {
		return nil, precondition("source not found: %s", src)
	}

	res := &Result{DryRun: opts.DryRun, Sync: &SyncDetails{}}

	srcFiles, err := fsutil.WalkFiles(src)
	if err != nil {
		return nil, err
	}

	for rel, info := range srcFiles {
		srcPath := filepath.Join(src, filepath.FromSlash(rel))
		dstPath := filepath.Join(dst, filepath.FromSlash(rel))

		dstInfo, statErr := os.Stat(dstPath)
		switch {
		case statErr != nil:
			if !opts.DryRun {
				if err := fsutil.CopyFile(srcPath, dstPath); err != nil {
					res.Errors = append(res.Errors, UnitError{File: rel, Err: err.Error()})
					continue
				}
			}
			res.Sync.Copied++
		case info.ModTime().After(dstInfo.ModTime()):
			if !opts.DryRun {
				if err := fsutil.CopyFile(srcPath, dstPath); err != nil {
					res.Errors = append(res.Errors, UnitError{File: rel, Err: err.Error()})
					continue
				}
			}
			res.Sync.Updated++
		}
	}

	if opts.DeleteExtra {
		if dstFiles, err := fsutil.WalkFiles(dst); err == nil {
			for rel := range dstFiles {
				if _, inSource := srcFiles[rel]; inSource {
					continue
				}
				if !opts.DryRun {
					if err := os.Remove(filepath.Join(dst, filepath.FromSlash(rel))); err != nil {
						res.Errors = append(res.Errors, UnitError{File: rel, Err: err.Error()})
						continue
					}
				}
				res.Sync.Deleted++
			}
		}
	}

	res.Success = len(res.Errors) == 0
	return res, nil
}

// resolve turns a possibly relative path into an absolute one under the
// project root.
func (e *Executor) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(e.root, p)
}

// watchDebounce batches filesystem events before re-running the mirror.
const watchDebounce = 500 * time.Millisecond

// Watch keeps the destination mirrored until the context is cancelled.
// It runs one initial sync, then re-runs whenever the source tree
// changes. Per-pass unit errors are logged, not fatal: the watch only
// stops on context cancellation or a watcher failure.
func (e *Executor) Watch(ctx context.Context, opts Options) error {
	if opts.Source == "" || opts.Destination == "" {
		return precondition("source and destination required")
	}
	opts.DryRun = false

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	src := e.resolve(opts.Source)
	if err := watchTree(watcher, src); err != nil {
		return err
	}

	runPass := func() {
		res, err := e.Execute(OpSync, nil, opts)
		if err != nil {
			log.Printf("[batch] watch sync: %v", err)
			return
		}
		for _, ue := range res.Errors {
			log.Printf("[batch] watch sync %s: %s", ue.File, ue.Err)
		}
	}
	runPass()

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories need their own watches.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, ev.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		case <-pending:
			runPass()
		}
	}
}

// watchTree registers a watch on every directory under root.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
