package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRotatingWriterRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	w, err := NewRotatingWriter(path, 16, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	for _, line := range []string{"first line\n", "second line\n", "third line\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if string(current) != "third line\n" {
		t.Errorf("expected current file to hold the last line, got %q", current)
	}

	first, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("read archive 1: %v", err)
	}
	if string(first) != "second line\n" {
		t.Errorf("expected .1 to hold the second line, got %q", first)
	}

	second, err := os.ReadFile(path + ".2")
	if err != nil {
		t.Fatalf("read archive 2: %v", err)
	}
	if !strings.HasPrefix(string(second), "first") {
		t.Errorf("expected .2 to hold the first line, got %q", second)
	}
}

func TestRotatingWriterDropsOldestArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	w, err := NewRotatingWriter(path, 8, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	for _, line := range []string{"aaaaaa\n", "bbbbbb\n", "cccccc\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if _, err := os.Stat(path + ".2"); !os.IsNotExist(err) {
		t.Errorf("expected no second archive, got err=%v", err)
	}
	archive, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(archive) != "bbbbbb\n" {
		t.Errorf("expected archive to hold the previous line, got %q", archive)
	}
}

func TestRotatingWriterRecoversAfterFailedReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	path := filepath.Join(dir, "test.log")
	w, err := NewRotatingWriter(path, 8, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	if _, err := w.Write([]byte("aaaaaa\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// With the directory gone the rotated file cannot be reopened.
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("bbbbbb\n")); err != nil {
		t.Fatalf("expected write to fall back to stderr, got %v", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("ok\n")); err != nil {
		t.Fatalf("write after recovery: %v", err)
	}

	current, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if string(current) != "ok\n" {
		t.Errorf("expected the log file to be reopened, got %q", current)
	}
}
