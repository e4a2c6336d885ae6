package workflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleWorkflow = `name: Feature Development
description: Plan then implement a feature
version: 1.2.0
variables:
  feature_name: login
steps:
  - id: plan
    name: Plan the feature
    agent: api
    prompt: "Plan ${feature_name}"
    save_output: plan
    retry: 1
    timeout: 60s
  - id: implement
    agent: cli
    prompt: "Implement per ${outputs.plan}"
    depends_on: [plan]
`

func writeWorkflow(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write workflow: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeWorkflow(t, t.TempDir(), "feature.yaml", sampleWorkflow)

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if def.Name != "Feature Development" {
		t.Errorf("Name = %q", def.Name)
	}
	if def.Version != "1.2.0" {
		t.Errorf("Version = %q", def.Version)
	}
	if len(def.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(def.Steps))
	}
	if def.Steps[0].Timeout != 60*time.Second {
		t.Errorf("step timeout = %v, want 60s", def.Steps[0].Timeout)
	}
	// Defaults fill in after parse.
	if def.Steps[1].Name != "implement" {
		t.Errorf("step name default = %q, want id", def.Steps[1].Name)
	}
	// An undeclared timeout stays zero; the engine applies its configured
	// default at run time.
	if def.Steps[1].Timeout != 0 {
		t.Errorf("step timeout = %v, want 0 (engine default applies)", def.Steps[1].Timeout)
	}
	if def.Variables["feature_name"] != "login" {
		t.Errorf("variables = %v", def.Variables)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() of missing file succeeded, want error")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "name: [unclosed"},
		{"no steps", "name: empty\nsteps: []\n"},
		{"duplicate step ids", "name: dup\nsteps:\n  - id: a\n  - id: a\n"},
		{"unknown dependency", "name: dep\nsteps:\n  - id: a\n    depends_on: [ghost]\n"},
		{"negative retry", "name: retry\nsteps:\n  - id: a\n    retry: -1\n"},
		{"unknown agent", "name: agent\nsteps:\n  - id: a\n    agent: swarm\n"},
		{"step without id", "name: noid\nsteps:\n  - name: anonymous\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWorkflow(t, t.TempDir(), "wf.yaml", tt.content)
			if _, err := Load(path); err == nil {
				t.Errorf("Load() succeeded, want error")
			}
		})
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "good.yaml", sampleWorkflow)
	writeWorkflow(t, dir, "broken.yaml", "name: [unclosed")
	writeWorkflow(t, dir, "notes.txt", "not a workflow")

	entries, err := List(dir)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	// Sorted by file name: broken before good.
	if entries[0].File != "broken.yaml" || entries[0].Err == nil {
		t.Errorf("entries[0] = %+v, want broken.yaml with error", entries[0])
	}
	if entries[1].File != "good.yaml" || entries[1].Err != nil {
		t.Errorf("entries[1] = %+v, want good.yaml without error", entries[1])
	}
	if entries[1].Steps != 2 {
		t.Errorf("good.yaml steps = %d, want 2", entries[1].Steps)
	}
}

func TestDefinition_Step(t *testing.T) {
	def := twoStepDef(0)

	if s := def.Step("first"); s == nil || s.ID != "first" {
		t.Errorf("Step(first) = %+v", s)
	}
	if s := def.Step("ghost"); s != nil {
		t.Errorf("Step(ghost) = %+v, want nil", s)
	}
}
