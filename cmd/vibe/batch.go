package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vibecodehq/vibe/internal/batch"
)

var batchOpts struct {
	dryRun bool

	find    string
	replace string
	regex   bool

	template     string
	counterStart int
	dateFormat   string

	source      string
	destination string
	deleteExtra bool
	watch       bool

	output  string
	format  string
	archive string

	keep string
}

var batchCmd = &cobra.Command{
	Use:   "batch <operation> [patterns...]",
	Short: "Bulk file operations with rollback",
	Long: `Run one bulk file operation against the current project tree.

Operations:
  parallel_transform  find/replace across matched files (--find, --replace, --regex)
  bulk_rename         template-driven rename (--template, --counter-start, --date-format)
  sync                one-way directory mirror (--source, --destination, --delete-extra, --watch)
  archive             bundle matched files (--output, --format zip|tar.gz)
  extract             unpack a container (--archive, --destination)
  deduplicate         remove content-identical files (--keep first|newest|oldest)
  organize            sort files into per-category folders (--destination)
  rollback            undo the most recent mutating operation
  status              show session counters

Patterns support ** globs, e.g. "**/*.txt". Mutating operations push an
undo entry; 'vibe batch rollback' reverses the most recent one within
the same session.

Examples:
  vibe batch parallel_transform "**/*.md" --find draft --replace final
  vibe batch bulk_rename "*.png" --template "shot_{counter_pad}{ext}" --dry-run
  vibe batch sync --source ./site --destination ./backup --watch
  vibe batch deduplicate "**/*" --keep newest`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.BoolVar(&batchOpts.dryRun, "dry-run", false, "Report without changing anything")

	f.StringVar(&batchOpts.find, "find", "", "Transform search pattern")
	f.StringVar(&batchOpts.replace, "replace", "", "Transform replacement text")
	f.BoolVar(&batchOpts.regex, "regex", false, "Treat --find as a regular expression")

	f.StringVar(&batchOpts.template, "template", "", "Rename template ({name}, {ext}, {counter}, {date}, ...)")
	f.IntVar(&batchOpts.counterStart, "counter-start", 0, "First {counter} value")
	f.StringVar(&batchOpts.dateFormat, "date-format", "", "Go time layout for {date}")

	f.StringVar(&batchOpts.source, "source", "", "Sync source directory")
	f.StringVar(&batchOpts.destination, "destination", "", "Target directory")
	f.BoolVar(&batchOpts.deleteExtra, "delete-extra", false, "Delete destination-only files during sync")
	f.BoolVar(&batchOpts.watch, "watch", false, "Keep syncing as the source changes")

	f.StringVar(&batchOpts.output, "output", "", "Archive file to write")
	f.StringVar(&batchOpts.format, "format", "", "Archive format: zip or tar.gz")
	f.StringVar(&batchOpts.archive, "archive", "", "Container to extract")

	f.StringVar(&batchOpts.keep, "keep", "", "Duplicate survivor: first, newest, or oldest")
}

func runBatch(cmd *cobra.Command, args []string) error {
	op := batch.Operation(args[0])
	if !op.Valid() {
		return fmt.Errorf("unknown operation %q", args[0])
	}
	targets := args[1:]

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	opts := batch.Options{
		DryRun:       batchOpts.dryRun,
		Find:         batchOpts.find,
		Replace:      batchOpts.replace,
		Regex:        batchOpts.regex,
		Template:     batchOpts.template,
		CounterStart: batchOpts.counterStart,
		DateFormat:   batchOpts.dateFormat,
		Source:       batchOpts.source,
		Destination:  batchOpts.destination,
		DeleteExtra:  batchOpts.deleteExtra,
		Output:       batchOpts.output,
		Format:       batchOpts.format,
		Archive:      batchOpts.archive,
		Keep:         batchOpts.keep,
	}

	executor := a.orch.BatchExecutor()

	if op == batch.OpSync && batchOpts.watch {
		ctx, stop := cmdContext()
		defer stop()
		fmt.Printf("Watching %s, press Ctrl+C to stop...\n", batchOpts.source)
		return executor.Watch(ctx, opts)
	}

	res, err := executor.Execute(op, targets, opts)
	if err != nil {
		return err
	}

	fmt.Println(res.Summary())
	for _, ue := range res.Errors {
		fmt.Printf("  %s %s: %s\n", color.RedString("!"), ue.File, ue.Err)
	}
	if res.DryRun {
		fmt.Println("Re-run without --dry-run to apply.")
	}
	return batchResultErr(res)
}

// batchResultErr maps a completed-but-failed result onto the command
// error so the process exits non-zero.
func batchResultErr(res *batch.Result) error {
	if res.Success {
		return nil
	}
	if res.Pipeline != nil && res.Pipeline.FailedStep > 0 {
		return fmt.Errorf("pipeline failed at step %d", res.Pipeline.FailedStep)
	}
	return fmt.Errorf("%s finished with %d error(s)", res.Operation, len(res.Errors))
}
