// Package batch executes reversible bulk file operations against a
// project tree: parallel transforms, renames, sync, archiving,
// deduplication, organization, and sequential pipelines of those.
package batch

import (
	"errors"
	"fmt"
	"time"
)

// Operation identifies one batch operation kind. The set is closed:
// Execute rejects unknown tags before any side effect.
type Operation string

const (
	// OpTransform is the parallel find/replace transform.
	OpTransform Operation = "parallel_transform"
	// OpRename is the template-driven bulk rename.
	OpRename Operation = "bulk_rename"
	// OpSync is the one-way directory mirror.
	OpSync Operation = "sync"
	// OpArchive bundles matched files into a container.
	OpArchive Operation = "archive"
	// OpExtract unpacks a container into a directory.
	OpExtract Operation = "extract"
	// OpDeduplicate finds and removes content-identical files.
	OpDeduplicate Operation = "deduplicate"
	// OpOrganize moves files into per-category folders by extension.
	OpOrganize Operation = "organize"
	// OpPipeline runs a list of sub-operations sequentially.
	OpPipeline Operation = "pipeline"
	// OpRollback reverses the most recent mutating operation.
	OpRollback Operation = "rollback"
	// OpStatus reports executor counters.
	OpStatus Operation = "status"
)

// Valid returns true if the operation is a known value.
func (o Operation) Valid() bool {
	_, ok := operations[o]
	return ok
}

// Sentinel errors for the batch error taxonomy.
var (
	// ErrUnknownOperation is returned for operation tags outside the
	// closed set.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrPrecondition marks a missing required option, reported before
	// anything is attempted.
	ErrPrecondition = errors.New("precondition failed")
	// ErrNothingToRollback is returned when the undo stack is empty.
	ErrNothingToRollback = errors.New("no operations to rollback")
)

// DefaultWorkers is the worker pool width for the parallel transform when
// the executor is created with a non-positive count.
const DefaultWorkers = 4

// Options carries the per-operation settings. Each operation reads only
// the fields it documents; the zero value is a valid starting point.
type Options struct {
	// DryRun reports would-be results without mutating the tree or the
	// undo stack.
	DryRun bool

	// Find is the transform search pattern (literal, or regexp when
	// Regex is set). Required for OpTransform.
	Find string
	// Replace is the transform replacement text.
	Replace string
	// Regex interprets Find as a regular expression.
	Regex bool

	// Template is the rename template. Placeholders: {name}, {ext},
	// {counter}, {counter_pad}, {date}, {timestamp}, {parent}.
	Template string
	// CounterStart is the first {counter} value, default 1.
	CounterStart int
	// DateFormat is the Go time layout for {date}, default "20060102".
	DateFormat string

	// Source is the sync source directory. Required for OpSync.
	Source string
	// Destination is the target directory for sync, extract, and
	// organize.
	Destination string
	// DeleteExtra removes destination-only files during sync.
	DeleteExtra bool

	// Output is the archive file to write, default "archive.zip".
	Output string
	// Format is the archive container format: "zip" (default) or
	// "tar.gz".
	Format string
	// Archive is the container to extract. Required for OpExtract.
	Archive string

	// Keep selects the survivor within a duplicate group: "first"
	// (by name, default), "newest", or "oldest".
	Keep string

	// Steps is the pipeline step list. Required for OpPipeline.
	Steps []PipelineStep
}

// UnitError is one isolated per-file failure. Unit errors never abort
// sibling units; they are collected and reported with the result.
type UnitError struct {
	// File is the path the failure relates to.
	File string `json:"file"`
	// Err is the failure description.
	Err string `json:"error"`
}

// Result is the outcome of one batch operation. Exactly one detail field
// is set, matching the operation that ran.
type Result struct {
	// Operation is the operation that produced this result.
	Operation Operation
	// Success is true when no unit errors occurred.
	Success bool
	// DryRun echoes the dry-run flag the operation ran under.
	DryRun bool
	// Duration is the operation wall time.
	Duration time.Duration
	// Message carries informational notes such as "no files matched".
	Message string
	// Errors lists isolated per-unit failures.
	Errors []UnitError

	Transform *TransformDetails
	Rename    *RenameDetails
	Sync      *SyncDetails
	Archive   *ArchiveDetails
	Dedupe    *DedupeDetails
	Organize  *OrganizeDetails
	Pipeline  *PipelineDetails
	Rollback  *RollbackDetails
	Status    *StatusDetails
}

// Executor runs batch operations against a project root.
//
// The undo stack and operation counter are owned by the instance; they
// are not process globals. An Executor assumes a single in-process caller
// issuing one operation at a time; concurrent callers must serialize
// externally or use separate instances.
type Executor struct {
	root    string
	workers int

	undoStack []undoEntry
	opCount   int
}

// opFunc is the handler signature in the operation table.
type opFunc func(e *Executor, targets []string, opts Options) (*Result, error)

// operations is the closed dispatch table from operation tag to handler.
// It is populated in init because pipeline dispatches its sub-operations
// back through Execute, which reads the table.
var operations map[Operation]opFunc

func init() {
	operations = map[Operation]opFunc{
		OpTransform:   (*Executor).transform,
		OpRename:      (*Executor).rename,
		OpSync:        (*Executor).sync,
		OpArchive:     (*Executor).archive,
		OpExtract:     (*Executor).extract,
		OpDeduplicate: (*Executor).deduplicate,
		OpOrganize:    (*Executor).organize,
		OpPipeline:    (*Executor).pipeline,
		OpRollback:    (*Executor).rollbackLast,
		OpStatus:      (*Executor).status,
	}
}

// NewExecutor creates an Executor rooted at the given project directory.
// workers sets the transform pool width; non-positive selects
// DefaultWorkers.
func NewExecutor(root string, workers int) *Executor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Executor{root: root, workers: workers}
}

// Root returns the project root the executor operates on.
func (e *Executor) Root() string {
	return e.root
}

// Execute runs one batch operation. targets are glob patterns resolved
// against the project root; operations that take no patterns ignore them.
// Unknown operation tags fail with ErrUnknownOperation before any side
// effect.
func (e *Executor) Execute(op Operation, targets []string, opts Options) (*Result, error) {
	fn, ok := operations[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	start := time.Now()
	res, err := fn(e, targets, opts)
	if err != nil {
		return nil, err
	}
	res.Operation = op
	res.Duration = time.Since(start)
	return res, nil
}

// precondition builds a precondition failure for a missing option.
func precondition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
