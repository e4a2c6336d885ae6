// Package workflow loads declarative multi-step workflow definitions and
// executes them with dependency ordering, retries, and variable
// interpolation.
package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vibecodehq/vibe/pkg/models"
)

// DefaultStepTimeout bounds a single step attempt when neither the
// definition nor the run options specify one.
const DefaultStepTimeout = 300 * time.Second

// AgentAuto lets the router pick the handler for a step.
const AgentAuto = "auto"

// Step is one unit of work in a workflow definition.
type Step struct {
	// ID uniquely identifies the step within its workflow.
	ID string `yaml:"id"`
	// Name is the display name, defaulting to ID.
	Name string `yaml:"name"`
	// Description is optional explanatory text.
	Description string `yaml:"description"`
	// Agent is the target handler, or "auto" to route by prompt.
	Agent string `yaml:"agent"`
	// Prompt is the prompt template. It may reference ${var} and
	// ${outputs.stepKey}.
	Prompt string `yaml:"prompt"`
	// DependsOn lists step IDs that must complete before this step runs.
	DependsOn []string `yaml:"depends_on"`
	// Timeout bounds one attempt, not the whole retry budget. Zero
	// defers to the engine's configured default.
	Timeout time.Duration `yaml:"timeout"`
	// Retry is the number of extra attempts beyond the first.
	Retry int `yaml:"retry"`
	// SaveOutput publishes the step result under this key when set.
	SaveOutput string `yaml:"save_output"`
}

// Definition is an immutable workflow loaded from YAML.
type Definition struct {
	// Name is the workflow's display name.
	Name string `yaml:"name"`
	// Description summarizes what the workflow does.
	Description string `yaml:"description"`
	// Version is the workflow version string.
	Version string `yaml:"version"`
	// Author is the optional workflow author.
	Author string `yaml:"author"`
	// Tags are optional labels.
	Tags []string `yaml:"tags"`
	// Variables maps variable names to default values.
	Variables map[string]string `yaml:"variables"`
	// Steps is the ordered step list. Execution order is declaration
	// order; there is no topological re-sort.
	Steps []Step `yaml:"steps"`
}

// Load reads and validates a workflow definition from a YAML file.
// A missing or malformed file is a hard error, never retried.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow %s: %w", path, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse workflow %s: %w", path, err)
	}

	if err := def.validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow %s: %w", path, err)
	}

	def.applyDefaults()
	return &def, nil
}

// validate enforces structural invariants: at least one step, unique step
// IDs, known dependency references, valid handler names, and non-negative
// retry budgets.
func (d *Definition) validate() error {
	if d.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("workflow has no steps")
	}

	seen := make(map[string]bool, len(d.Steps))
	for i, s := range d.Steps {
		if s.ID == "" {
			return fmt.Errorf("step %d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate step id %q", s.ID)
		}
		seen[s.ID] = true

		if s.Retry < 0 {
			return fmt.Errorf("step %q: retry must be non-negative", s.ID)
		}
		if s.Agent != "" && s.Agent != AgentAuto && !models.Handler(s.Agent).Valid() {
			return fmt.Errorf("step %q: unknown agent %q", s.ID, s.Agent)
		}
	}

	// Dependencies may only reference declared steps.
	for _, s := range d.Steps {
		for _, dep := range s.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("step %q depends on unknown step %q", s.ID, dep)
			}
		}
	}

	return nil
}

// applyDefaults fills per-step defaults after a successful parse.
func (d *Definition) applyDefaults() {
	if d.Version == "" {
		d.Version = "1.0.0"
	}
	for i := range d.Steps {
		if d.Steps[i].Name == "" {
			d.Steps[i].Name = d.Steps[i].ID
		}
		if d.Steps[i].Agent == "" {
			d.Steps[i].Agent = AgentAuto
		}
	}
}

// Step returns the step with the given ID, or nil.
func (d *Definition) Step(id string) *Step {
	for i := range d.Steps {
		if d.Steps[i].ID == id {
			return &d.Steps[i]
		}
	}
	return nil
}

// ListEntry describes one workflow file found by List.
type ListEntry struct {
	// File is the file name relative to the listed directory.
	File string
	// Name is the parsed workflow name, empty when Err is set.
	Name string
	// Description is the parsed description.
	Description string
	// Steps is the number of steps.
	Steps int
	// Version is the workflow version.
	Version string
	// Err holds the parse error for malformed files.
	Err error
}

// List enumerates the workflow files in a directory. Malformed files are
// reported per entry rather than failing the listing.
func List(dir string) ([]ListEntry, error) {
	var paths []string
	for _, pat := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return nil, fmt.Errorf("list workflows in %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	entries := make([]ListEntry, 0, len(paths))
	for _, p := range paths {
		entry := ListEntry{File: filepath.Base(p)}
		def, err := Load(p)
		if err != nil {
			entry.Err = err
		} else {
			entry.Name = def.Name
			entry.Description = def.Description
			entry.Steps = len(def.Steps)
			entry.Version = def.Version
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
