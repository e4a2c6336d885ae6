package batch

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vibecodehq/vibe/internal/fsutil"
)

// Supported archive container formats.
const (
	FormatZip   = "zip"
	FormatTarGz = "tar.gz"
)

// ArchiveDetails reports an archive or extract pass.
type ArchiveDetails struct {
	// Path is the container written (archive) or read (extract).
	Path string
	// Destination is the extract target directory.
	Destination string
	// Format is the container format used.
	Format string
	// FileCount is the number of files bundled or unpacked; on a dry
	// run it is the would-be count.
	FileCount int
	// Size is the container size in bytes after a real archive pass.
	Size int64
}

// archive bundles the matched file set into a single container,
// preserving paths relative to the project root.
func (e *Executor) archive(targets []string, opts Options) (*Result, error) {
	output := opts.Output
	if output == "" {
		output = "archive.zip"
	}
	format := opts.Format
	if format == "" {
		format = formatForName(output)
	}
	if format != FormatZip && format != FormatTarGz {
		return nil, precondition("unsupported archive format %q", format)
	}

	files, err := fsutil.ExpandPatterns(e.root, targets)
	if err != nil {
		return nil, err
	}

	res := &Result{DryRun: opts.DryRun, Archive: &ArchiveDetails{
		Path:      output,
		Format:    format,
		FileCount: len(files),
	}}
	if len(files) == 0 {
		res.Success = true
		res.Message = "no files to archive"
		return res, nil
	}
	if opts.DryRun {
		res.Success = true
		return res, nil
	}

	outputPath := e.resolve(output)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, err
	}

	switch format {
	case FormatZip:
		err = e.writeZip(outputPath, files)
	case FormatTarGz:
		err = e.writeTarGz(outputPath, files)
	}
	if err != nil {
		return nil, fmt.Errorf("write archive %s: %w", output, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		res.Archive.Size = info.Size()
	}
	res.Success = true
	return res, nil
}

func (e *Executor) writeZip(outputPath string, files []string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, rel := range files {
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		if err := copyFileInto(w, filepath.Join(e.root, filepath.FromSlash(rel))); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (e *Executor) writeTarGz(outputPath string, files []string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for _, rel := range files {
		full := filepath.Join(e.root, filepath.FromSlash(rel))
		info, err := os.Stat(full)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if err := copyFileInto(tw, full); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

func copyFileInto(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// extract unpacks a container into a destination directory. A dry run
// reports the entry count without writing anything.
func (e *Executor) extract(_ []string, opts Options) (*Result, error) {
	if opts.Archive == "" {
		return nil, precondition("archive path required")
	}
	destination := opts.Destination
	if destination == "" {
		destination = "."
	}

	archivePath := e.resolve(opts.Archive)
	destPath := e.resolve(destination)

	if _, err := os.Stat(archivePath); err != nil {
		return nil, precondition("archive not found: %s", archivePath)
	}

	format := formatForName(opts.Archive)
	res := &Result{DryRun: opts.DryRun, Archive: &ArchiveDetails{
		Path:        opts.Archive,
		Destination: destination,
		Format:      format,
	}}

	var count int
	var err error
	switch format {
	case FormatZip:
		count, err = extractZip(archivePath, destPath, opts.DryRun)
	default:
		count, err = extractTar(archivePath, destPath, opts.DryRun)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", opts.Archive, err)
	}

	res.Archive.FileCount = count
	res.Success = true
	return res, nil
}

// formatForName infers the container format from a file name, defaulting
// to zip.
func formatForName(name string) string {
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"), strings.HasSuffix(name, ".tar"):
		return FormatTarGz
	default:
		return FormatZip
	}
}

func extractZip(archivePath, destPath string, dryRun bool) (int, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	count := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		count++
		if dryRun {
			continue
		}

		target, err := safeJoin(destPath, f.Name)
		if err != nil {
			return count, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return count, err
		}

		rc, err := f.Open()
		if err != nil {
			return count, err
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm())
		if err != nil {
			rc.Close()
			return count, err
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func extractTar(archivePath, destPath string, dryRun bool) (int, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if !strings.HasSuffix(archivePath, ".tar") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, err
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	count := 0
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		count++
		if dryRun {
			continue
		}

		target, err := safeJoin(destPath, hdr.Name)
		if err != nil {
			return count, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return count, err
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode).Perm())
		if err != nil {
			return count, err
		}
		_, err = io.Copy(out, tr)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return count, err
		}
	}
}

// safeJoin joins an archive entry name under dest, rejecting entries that
// escape the destination tree.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}
