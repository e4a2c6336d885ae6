package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOrganize_ByExtension(t *testing.T) {
	e, root := writeTree(t, map[string]string{
		"photo.jpg":   "jpg",
		"report.pdf":  "pdf",
		"main.go":     "go",
		"data.json":   "json",
		"mystery.xyz": "???",
	})

	res, err := e.Execute(OpOrganize, []string{"*"}, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Success {
		t.Fatalf("Success = false: %+v", res.Errors)
	}

	if res.Organize.Organized != 5 {
		t.Errorf("Organized = %d, want 5", res.Organize.Organized)
	}
	wantBuckets := map[string]string{
		"photo.jpg":   "images",
		"report.pdf":  "documents",
		"main.go":     "code",
		"data.json":   "data",
		"mystery.xyz": CategoryOther,
	}
	for name, bucket := range wantBuckets {
		dest := filepath.Join(root, "organized", bucket, name)
		if _, err := os.Stat(dest); err != nil {
			t.Errorf("%s not moved to %s: %v", name, bucket, err)
		}
		if _, err := os.Stat(filepath.Join(root, name)); !os.IsNotExist(err) {
			t.Errorf("%s still at its original location", name)
		}
	}
	for bucket, count := range res.Organize.ByCategory {
		if count != 1 {
			t.Errorf("ByCategory[%s] = %d, want 1", bucket, count)
		}
	}
}

func TestOrganize_CustomDestination(t *testing.T) {
	e, root := writeTree(t, map[string]string{"song.mp3": "audio"})

	res, err := e.Execute(OpOrganize, []string{"*.mp3"}, Options{Destination: "sorted"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Organize.Moves[0].Destination != "sorted/audio/song.mp3" {
		t.Errorf("Destination = %q", res.Organize.Moves[0].Destination)
	}
	if _, err := os.Stat(filepath.Join(root, "sorted", "audio", "song.mp3")); err != nil {
		t.Errorf("moved file missing: %v", err)
	}
}

func TestOrganize_DryRunLeavesTree(t *testing.T) {
	e, root := writeTree(t, map[string]string{"photo.png": "img"})

	res, err := e.Execute(OpOrganize, []string{"*.png"}, Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}

	if res.Organize.Organized != 1 {
		t.Errorf("Organized = %d, want 1", res.Organize.Organized)
	}
	if res.Organize.Moves[0].Category != "images" {
		t.Errorf("Category = %q, want images", res.Organize.Moves[0].Category)
	}
	if _, err := os.Stat(filepath.Join(root, "photo.png")); err != nil {
		t.Error("dry run moved the file")
	}
	if _, err := os.Stat(filepath.Join(root, "organized")); !os.IsNotExist(err) {
		t.Error("dry run created the destination tree")
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".JPG", "images"},
		{".tar", "archives"},
		{".flac", "audio"},
		{".mkv", "video"},
		{".unknown", CategoryOther},
		{"", CategoryOther},
	}
	for _, tt := range tests {
		if got := categorize(tt.ext); got != tt.want {
			t.Errorf("categorize(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
