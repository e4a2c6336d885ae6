package batch

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// filePreimage is the captured original content of one transformed file.
type filePreimage struct {
	path    string
	content []byte
}

// undoEntry is one recorded, reversible batch mutation. Entries form a
// strict LIFO of distinct runs: pushing does not invalidate older
// entries, but only the top entry is ever popped.
type undoEntry struct {
	operation Operation
	preimages []filePreimage // parallel_transform pre-images
	renames   []RenamePair   // bulk_rename inverse (new -> old) pairs
	timestamp time.Time
}

// pushUndo records a completed mutating run on the undo stack.
func (e *Executor) pushUndo(entry undoEntry) {
	entry.timestamp = time.Now()
	e.undoStack = append(e.undoStack, entry)
}

// RollbackDetails reports a rollback pass.
type RollbackDetails struct {
	// RolledBack is the operation whose entry was replayed.
	RolledBack Operation
	// Restored counts files returned to their previous state.
	Restored int
}

// rollbackLast pops the most recent undo entry and replays it: pre-images
// are rewritten verbatim, inverse rename pairs are applied as renames.
// Rollback itself is not undoable and an empty stack is a failure, not a
// no-op success.
func (e *Executor) rollbackLast(_ []string, _ Options) (*Result, error) {
	if len(e.undoStack) == 0 {
		return nil, ErrNothingToRollback
	}

	entry := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]

	log.Printf("[batch] rolling back %s (%d units)", entry.operation, len(entry.preimages)+len(entry.renames))

	res := &Result{Rollback: &RollbackDetails{RolledBack: entry.operation}}

	for _, pre := range entry.preimages {
		full := filepath.Join(e.root, filepath.FromSlash(pre.path))
		if err := os.WriteFile(full, pre.content, 0644); err != nil {
			res.Errors = append(res.Errors, UnitError{File: pre.path, Err: err.Error()})
			continue
		}
		res.Rollback.Restored++
	}

	for _, pair := range entry.renames {
		from := filepath.Join(e.root, filepath.FromSlash(pair.From))
		to := filepath.Join(e.root, filepath.FromSlash(pair.To))
		if err := os.Rename(from, to); err != nil {
			res.Errors = append(res.Errors, UnitError{File: pair.From, Err: err.Error()})
			continue
		}
		res.Rollback.Restored++
	}

	res.Success = len(res.Errors) == 0
	return res, nil
}

// StatusDetails reports executor counters.
type StatusDetails struct {
	// OperationsCount is the running total of mutated units.
	OperationsCount int
	// UndoDepth is the current undo stack depth.
	UndoDepth int
	// RollbackAvailable is true when the stack is non-empty.
	RollbackAvailable bool
	// Workers is the transform pool width.
	Workers int
	// Root is the project root.
	Root string
}

// status reports the executor's counters without side effects.
func (e *Executor) status(_ []string, _ Options) (*Result, error) {
	return &Result{
		Success: true,
		Status: &StatusDetails{
			OperationsCount:   e.opCount,
			UndoDepth:         len(e.undoStack),
			RollbackAvailable: len(e.undoStack) > 0,
			Workers:           e.workers,
			Root:              e.root,
		},
	}, nil
}
