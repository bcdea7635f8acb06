// Package media manages the directory holding finished MP4 files and the
// staging area for in-flight raw downloads. Filenames are keyed by job id so
// no two workers ever touch the same file.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPermissions = 0o755

	// OutputExtension is the container every finished job is normalized to
	OutputExtension = ".mp4"

	stagingSubdir = "staging"
)

// Dir is the filesystem area for job output files
type Dir struct {
	root    string
	staging string
}

// NewDir creates the output and staging directories if needed
func NewDir(root string) (*Dir, error) {
	staging := filepath.Join(root, stagingSubdir)
	for _, dir := range []string{root, staging} {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("create media dir %s: %w", dir, err)
		}
	}
	return &Dir{root: root, staging: staging}, nil
}

// Root returns the output directory path
func (d *Dir) Root() string {
	return d.root
}

// StagingDir returns the directory raw downloads are fetched into
func (d *Dir) StagingDir() string {
	return d.staging
}

// OutputFilename derives the served filename for a job
func (d *Dir) OutputFilename(jobID string) string {
	return jobID + OutputExtension
}

// OutputPath resolves a served filename to an absolute path. Names with path
// separators or dot components are rejected so requests cannot escape the
// output directory. Backslashes are refused too since they are separators on
// the platforms some clients run on.
func (d *Dir) OutputPath(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`) || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return filepath.Join(d.root, filename), nil
}

// Open opens a finished output file for serving
func (d *Dir) Open(filename string) (*os.File, error) {
	path, err := d.OutputPath(filename)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a finished output file. A missing file is not an error.
func (d *Dir) Remove(filename string) error {
	path, err := d.OutputPath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveStaged deletes any staging artifacts left behind by a job. The raw
// file extension depends on what the extractor picked, so this matches on the
// job id prefix.
func (d *Dir) RemoveStaged(jobID string) {
	matches, err := filepath.Glob(filepath.Join(d.staging, jobID+".*"))
	if err != nil {
		return
	}
	for _, path := range matches {
		_ = os.Remove(path)
	}
}

// Writable probes whether the output directory accepts writes
func (d *Dir) Writable() bool {
	probe := filepath.Join(d.root, ".health_check")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	_ = os.Remove(probe)
	return true
}
