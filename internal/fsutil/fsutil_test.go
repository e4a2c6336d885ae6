package fsutil

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// makeTree writes a set of empty files under a temp root.
func makeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(f), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestExpandPatterns(t *testing.T) {
	root := makeTree(t,
		"main.go",
		"readme.md",
		"src/app.go",
		"src/app_test.go",
		"src/nested/deep.go",
		"docs/guide.md",
	)

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"plain glob", []string{"*.go"}, []string{"main.go"}},
		{"single dir glob", []string{"src/*.go"}, []string{"src/app.go", "src/app_test.go"}},
		{"doublestar", []string{"**/*.go"}, []string{"main.go", "src/app.go", "src/app_test.go", "src/nested/deep.go"}},
		{"doublestar mid-pattern", []string{"src/**/*.go"}, []string{"src/app.go", "src/app_test.go", "src/nested/deep.go"}},
		{"multiple patterns dedup", []string{"*.go", "**/*.go"}, []string{"main.go", "src/app.go", "src/app_test.go", "src/nested/deep.go"}},
		{"markdown only", []string{"**/*.md"}, []string{"docs/guide.md", "readme.md"}},
		{"no match", []string{"*.rs"}, []string{}},
		{"empty pattern ignored", []string{""}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPatterns(root, tt.patterns)
			if err != nil {
				t.Fatalf("ExpandPatterns() error = %v", err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandPatterns(%v) = %v, want %v", tt.patterns, got, tt.want)
			}
		})
	}
}

func TestExpandPatterns_Deterministic(t *testing.T) {
	root := makeTree(t, "b.txt", "a.txt", "c/d.txt")

	first, err := ExpandPatterns(root, []string{"**/*.txt"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := ExpandPatterns(root, []string{"**/*.txt"})
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expansion not deterministic: %v vs %v", first, second)
	}
	if !sortedAsc(first) {
		t.Errorf("expansion not sorted: %v", first)
	}
}

func sortedAsc(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestExpandPatterns_BadPattern(t *testing.T) {
	root := makeTree(t, "a.txt")

	if _, err := ExpandPatterns(root, []string{"[unclosed"}); err == nil {
		t.Error("plain bad pattern accepted, want error")
	}
	if _, err := ExpandPatterns(root, []string{"**/[unclosed"}); err == nil {
		t.Error("doublestar bad pattern accepted, want error")
	}
}

func TestCopyFile_PreservesModTime(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src.txt")
	dst := filepath.Join(root, "sub", "dst.txt")

	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}
	srcInfo, _ := os.Stat(src)

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("copied content = %q", data)
	}

	dstInfo, _ := os.Stat(dst)
	if !dstInfo.ModTime().Equal(srcInfo.ModTime()) {
		t.Errorf("mtime not preserved: src %v dst %v", srcInfo.ModTime(), dstInfo.ModTime())
	}
}

func TestWalkFiles(t *testing.T) {
	root := makeTree(t, "a.txt", "sub/b.txt", "sub/deep/c.txt")

	files, err := WalkFiles(root)
	if err != nil {
		t.Fatalf("WalkFiles() error = %v", err)
	}

	for _, want := range []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"} {
		if _, ok := files[want]; !ok {
			t.Errorf("WalkFiles missing %q; got %v", want, files)
		}
	}
	if len(files) != 3 {
		t.Errorf("len(files) = %d, want 3", len(files))
	}
}
