package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDir_CreatesDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "downloads")

	d, err := NewDir(root)
	if err != nil {
		t.Fatalf("NewDir failed: %v", err)
	}

	if _, err := os.Stat(d.Root()); err != nil {
		t.Errorf("Expected root dir to exist: %v", err)
	}
	if _, err := os.Stat(d.StagingDir()); err != nil {
		t.Errorf("Expected staging dir to exist: %v", err)
	}
}

func TestOutputFilename(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir failed: %v", err)
	}

	got := d.OutputFilename("abc-123")
	if got != "abc-123.mp4" {
		t.Errorf("Expected abc-123.mp4, got %s", got)
	}
}

func TestOutputPath_RejectsTraversal(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir failed: %v", err)
	}

	invalid := []string{
		"",
		".",
		"..",
		"../etc/passwd",
		"a/b.mp4",
		"..\\..\\secret",
	}

	for _, name := range invalid {
		if _, err := d.OutputPath(name); err == nil {
			t.Errorf("Expected OutputPath(%q) to be rejected", name)
		}
	}

	if _, err := d.OutputPath("job-1.mp4"); err != nil {
		t.Errorf("Expected plain filename to be accepted, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir failed: %v", err)
	}

	path, _ := d.OutputPath("job-1.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	if err := d.Remove("job-1.mp4"); err != nil {
		t.Errorf("Remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file to be removed")
	}

	// Removing again is not an error
	if err := d.Remove("job-1.mp4"); err != nil {
		t.Errorf("Remove of missing file should not fail: %v", err)
	}
}

func TestRemoveStaged(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir failed: %v", err)
	}

	staged := filepath.Join(d.StagingDir(), "job-1.webm")
	other := filepath.Join(d.StagingDir(), "job-2.webm")
	for _, path := range []string{staged, other} {
		if err := os.WriteFile(path, []byte("raw"), 0o644); err != nil {
			t.Fatalf("write test file: %v", err)
		}
	}

	d.RemoveStaged("job-1")

	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("Expected job-1 staging file to be removed")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("Expected job-2 staging file to be untouched")
	}
}

func TestWritable(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir failed: %v", err)
	}

	if !d.Writable() {
		t.Error("Expected temp dir to be writable")
	}
}
