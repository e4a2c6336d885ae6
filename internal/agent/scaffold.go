package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Template describes one scaffold layout. File contents may reference
// {name}, which expands to the project name.
type Template struct {
	// Dirs are created first, in order.
	Dirs []string
	// Files maps relative paths to their initial contents.
	Files map[string]string
}

var scaffoldTemplates = map[string]Template{
	"basic": {
		Dirs: []string{"src", "tests", "docs"},
		Files: map[string]string{
			"README.md":  "# {name}\n\nProject description here.\n",
			".gitignore": ".env\ndist/\n",
		},
	},
	"python": {
		Dirs: []string{"src", "tests", "docs", "scripts"},
		Files: map[string]string{
			"README.md":         "# {name}\n\nPython project.\n",
			"requirements.txt":  "",
			"setup.py":          "from setuptools import setup\nsetup(name=\"{name}\")\n",
			"src/__init__.py":   "",
			"tests/__init__.py": "",
			".gitignore":        "*.pyc\n__pycache__/\n.env\nvenv/\ndist/\n*.egg-info/\n",
		},
	},
	"nextjs": {
		Dirs: []string{"src/app", "src/components", "src/lib", "public"},
		Files: map[string]string{
			"README.md":    "# {name}\n\nNext.js project.\n",
			"package.json": "{\"name\": \"{name}\", \"version\": \"1.0.0\"}\n",
			".gitignore":   "node_modules/\n.next/\n.env.local\n",
		},
	},
	"api": {
		Dirs: []string{"src/routes", "src/models", "src/services", "tests"},
		Files: map[string]string{
			"README.md":  "# {name}\n\nAPI project.\n",
			"src/app.py": "# Main application entry point\n",
			".gitignore": "*.pyc\n__pycache__/\n.env\nvenv/\n",
		},
	},
}

// CreatedEntry is one directory or file produced by a scaffold run.
type CreatedEntry struct {
	// Type is "dir" or "file".
	Type string
	// Path is relative to the scaffold root.
	Path string
}

// ScaffoldResult reports a scaffold run.
type ScaffoldResult struct {
	// Template is the layout that was applied.
	Template string
	// ProjectPath is the created project directory, relative to root.
	ProjectPath string
	// Created lists everything written, dirs before files.
	Created []CreatedEntry
	// DryRun is true when nothing was written.
	DryRun bool
}

// ScaffoldAgent writes new project skeletons from named templates.
type ScaffoldAgent struct {
	root string
}

// NewScaffoldAgent creates a scaffolder rooted at root.
func NewScaffoldAgent(root string) *ScaffoldAgent {
	return &ScaffoldAgent{root: root}
}

// Templates lists the available template names, sorted.
func (a *ScaffoldAgent) Templates() []string {
	names := make([]string, 0, len(scaffoldTemplates))
	for name := range scaffoldTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scaffold creates the named project from a template under the agent's
// root. On a dry run it reports what would be created without touching
// the filesystem.
func (a *ScaffoldAgent) Scaffold(name, template string, dryRun bool) (*ScaffoldResult, error) {
	if name == "" {
		name = "new-project"
	}
	if template == "" {
		template = "basic"
	}

	t, ok := scaffoldTemplates[template]
	if !ok {
		return nil, fmt.Errorf("unknown template %q (available: %s)", template, strings.Join(a.Templates(), ", "))
	}

	res := &ScaffoldResult{Template: template, ProjectPath: name, DryRun: dryRun}
	projectPath := filepath.Join(a.root, name)

	if !dryRun {
		if err := os.MkdirAll(projectPath, 0755); err != nil {
			return nil, fmt.Errorf("create project dir: %w", err)
		}
	}

	for _, dir := range t.Dirs {
		if !dryRun {
			if err := os.MkdirAll(filepath.Join(projectPath, dir), 0755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		res.Created = append(res.Created, CreatedEntry{Type: "dir", Path: filepath.ToSlash(filepath.Join(name, dir))})
	}

	// Deterministic file order.
	files := make([]string, 0, len(t.Files))
	for rel := range t.Files {
		files = append(files, rel)
	}
	sort.Strings(files)

	for _, rel := range files {
		content := strings.ReplaceAll(t.Files[rel], "{name}", name)
		if !dryRun {
			path := filepath.Join(projectPath, filepath.FromSlash(rel))
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("create %s: %w", rel, err)
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return nil, fmt.Errorf("write %s: %w", rel, err)
			}
		}
		res.Created = append(res.Created, CreatedEntry{Type: "file", Path: filepath.ToSlash(filepath.Join(name, rel))})
	}

	return res, nil
}
