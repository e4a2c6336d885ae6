package batch

import (
	"fmt"
	"strings"
)

// Summary renders a one-glance text summary of the result.
func (r *Result) Summary() string {
	var b strings.Builder

	prefix := ""
	if r.DryRun {
		prefix = "[dry run] "
	}

	switch {
	case r.Transform != nil:
		fmt.Fprintf(&b, "%stransformed %d of %d file(s)", prefix, r.Transform.Transformed, r.Transform.TotalFiles)
	case r.Rename != nil:
		fmt.Fprintf(&b, "%srenamed %d file(s)", prefix, len(r.Rename.Renamed))
	case r.Sync != nil:
		fmt.Fprintf(&b, "%ssynced: %d copied, %d updated, %d deleted", prefix, r.Sync.Copied, r.Sync.Updated, r.Sync.Deleted)
	case r.Archive != nil:
		fmt.Fprintf(&b, "%s%d file(s) in %s", prefix, r.Archive.FileCount, r.Archive.Path)
	case r.Dedupe != nil:
		fmt.Fprintf(&b, "%s%d duplicate group(s), %d duplicate(s), %d deleted, %d bytes reclaimable",
			prefix, r.Dedupe.Groups, r.Dedupe.DuplicatesFound, r.Dedupe.Deleted, r.Dedupe.SpaceSaved)
	case r.Organize != nil:
		fmt.Fprintf(&b, "%sorganized %d file(s) into %d categorie(s)", prefix, r.Organize.Organized, len(r.Organize.ByCategory))
	case r.Pipeline != nil:
		if r.Pipeline.FailedStep > 0 {
			fmt.Fprintf(&b, "%spipeline aborted at step %d of %d", prefix, r.Pipeline.FailedStep, len(r.Pipeline.Results))
		} else {
			fmt.Fprintf(&b, "%spipeline completed %d step(s)", prefix, r.Pipeline.StepsCompleted)
		}
	case r.Rollback != nil:
		fmt.Fprintf(&b, "rolled back %s: %d file(s) restored", r.Rollback.RolledBack, r.Rollback.Restored)
	case r.Status != nil:
		fmt.Fprintf(&b, "%d operation(s) this session, undo depth %d, %d worker(s)",
			r.Status.OperationsCount, r.Status.UndoDepth, r.Status.Workers)
	default:
		fmt.Fprintf(&b, "%s%s done", prefix, r.Operation)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(&b, " (%d error(s))", len(r.Errors))
	}
	return b.String()
}
