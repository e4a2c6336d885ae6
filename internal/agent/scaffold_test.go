package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScaffold_BasicTemplate(t *testing.T) {
	root := t.TempDir()
	a := NewScaffoldAgent(root)

	res, err := a.Scaffold("myapp", "basic", false)
	if err != nil {
		t.Fatalf("Scaffold() error = %v", err)
	}

	for _, dir := range []string{"src", "tests", "docs"} {
		info, err := os.Stat(filepath.Join(root, "myapp", dir))
		if err != nil || !info.IsDir() {
			t.Errorf("missing dir %s: %v", dir, err)
		}
	}

	readme, err := os.ReadFile(filepath.Join(root, "myapp", "README.md"))
	if err != nil {
		t.Fatalf("README missing: %v", err)
	}
	if !strings.HasPrefix(string(readme), "# myapp") {
		t.Errorf("README = %q, want project name substituted", readme)
	}

	if res.Template != "basic" || res.ProjectPath != "myapp" {
		t.Errorf("result = %+v", res)
	}
	if len(res.Created) != 5 {
		t.Errorf("Created = %d entries, want 5", len(res.Created))
	}
}

func TestScaffold_DryRun(t *testing.T) {
	root := t.TempDir()
	a := NewScaffoldAgent(root)

	res, err := a.Scaffold("ghost", "python", true)
	if err != nil {
		t.Fatal(err)
	}

	if len(res.Created) == 0 {
		t.Error("dry run reported nothing")
	}
	if _, err := os.Stat(filepath.Join(root, "ghost")); !os.IsNotExist(err) {
		t.Error("dry run created the project directory")
	}
}

func TestScaffold_UnknownTemplate(t *testing.T) {
	a := NewScaffoldAgent(t.TempDir())

	_, err := a.Scaffold("x", "fortran", false)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "fortran") {
		t.Errorf("error = %v", err)
	}
}

func TestScaffold_Defaults(t *testing.T) {
	root := t.TempDir()
	a := NewScaffoldAgent(root)

	res, err := a.Scaffold("", "", false)
	if err != nil {
		t.Fatal(err)
	}
	if res.ProjectPath != "new-project" || res.Template != "basic" {
		t.Errorf("defaults = %+v", res)
	}
}

func TestScaffold_TemplateNamesSorted(t *testing.T) {
	a := NewScaffoldAgent(t.TempDir())
	names := a.Templates()
	want := []string{"api", "basic", "nextjs", "python"}
	if len(names) != len(want) {
		t.Fatalf("Templates() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Templates()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
