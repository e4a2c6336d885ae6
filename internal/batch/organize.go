package batch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/vibecodehq/vibe/internal/fsutil"
)

// CategoryOther is the fallback bucket for unrecognized extensions.
const CategoryOther = "other"

// category is one extension bucket. Buckets are checked in declaration
// order.
type category struct {
	name       string
	extensions []string
}

var categories = []category{
	{"images", []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg", ".webp"}},
	{"documents", []string{".pdf", ".doc", ".docx", ".txt", ".rtf", ".odt"}},
	{"code", []string{".py", ".js", ".ts", ".java", ".cpp", ".c", ".go", ".rs"}},
	{"data", []string{".json", ".xml", ".yaml", ".yml", ".csv", ".sql"}},
	{"archives", []string{".zip", ".tar", ".gz", ".rar", ".7z"}},
	{"audio", []string{".mp3", ".wav", ".flac", ".aac", ".ogg"}},
	{"video", []string{".mp4", ".avi", ".mkv", ".mov", ".webm"}},
}

// OrganizeDetails reports an organize-by-type pass.
type OrganizeDetails struct {
	// Organized counts moved (or would-be moved) files.
	Organized int
	// ByCategory breaks Organized down per bucket.
	ByCategory map[string]int
	// Moves lists the per-file destinations.
	Moves []OrganizedFile
}

// OrganizedFile is one file's organize outcome.
type OrganizedFile struct {
	// Path is the original file, relative to the project root.
	Path string `json:"file"`
	// Destination is where the file was (or would be) moved.
	Destination string `json:"destination"`
	// Category is the bucket the file was classified into.
	Category string `json:"category"`
}

// organize classifies every matched file by extension and moves it under
// destination/category, creating directories as needed.
func (e *Executor) organize(targets []string, opts Options) (*Result, error) {
	destination := opts.Destination
	if destination == "" {
		destination = "organized"
	}

	files, err := fsutil.ExpandPatterns(e.root, targets)
	if err != nil {
		return nil, err
	}

	res := &Result{DryRun: opts.DryRun, Organize: &OrganizeDetails{ByCategory: make(map[string]int)}}

	for _, rel := range files {
		bucket := categorize(filepath.Ext(rel))

		newRel := filepath.ToSlash(filepath.Join(destination, bucket, filepath.Base(rel)))
		oldPath := filepath.Join(e.root, filepath.FromSlash(rel))
		newPath := filepath.Join(e.root, filepath.FromSlash(newRel))

		if !opts.DryRun {
			if err := os.MkdirAll(filepath.Dir(newPath), 0755); err != nil {
				res.Errors = append(res.Errors, UnitError{File: rel, Err: err.Error()})
				continue
			}
			if err := os.Rename(oldPath, newPath); err != nil {
				res.Errors = append(res.Errors, UnitError{File: rel, Err: err.Error()})
				continue
			}
		}

		res.Organize.Organized++
		res.Organize.ByCategory[bucket]++
		res.Organize.Moves = append(res.Organize.Moves, OrganizedFile{
			Path:        rel,
			Destination: newRel,
			Category:    bucket,
		})
	}

	e.opCount += res.Organize.Organized
	res.Success = len(res.Errors) == 0
	return res, nil
}

// categorize maps a file extension to its bucket.
func categorize(ext string) string {
	ext = strings.ToLower(ext)
	for _, c := range categories {
		for _, e := range c.extensions {
			if ext == e {
				return c.name
			}
		}
	}
	return CategoryOther
}
