package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	LogFileName  = "mousekm.log"
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

// Setup sends the standard logger to a rotating file in dir when file logging
// is enabled, and to stderr otherwise. The returned closer releases the file.
func Setup(enableFileLogging bool, dir string) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if !enableFileLogging {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil)
	}

	w, err := NewRotatingWriter(filepath.Join(dir, LogFileName), maxSizeBytes, maxArchives)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil)
	}
	log.SetOutput(w)
	return w
}

// RotatingWriter appends to a file and rotates it to .1, .2, ... once it
// would grow past maxSize.
type RotatingWriter struct {
	mu       sync.Mutex
	path     string
	maxSize  int64
	archives int
	f        *os.File
}

func NewRotatingWriter(path string, maxSize int64, archives int) (*RotatingWriter, error) {
	w := &RotatingWriter{path: path, maxSize: maxSize, archives: archives}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	w.rotateIfNeeded(0)
	f, err := w.open()
	if err != nil {
		return nil, err
	}
	w.f = f
	return w, nil
}

// Write falls back to stderr while the log file cannot be reopened and
// retries the file on the next call.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f != nil {
		if st, err := w.f.Stat(); err == nil && st.Size()+int64(len(p)) > w.maxSize {
			_ = w.f.Close()
			w.f = nil
			w.rotateIfNeeded(int64(len(p)))
		}
	}
	if w.f == nil {
		f, err := w.open()
		if err != nil {
			return os.Stderr.Write(p)
		}
		w.f = f
	}
	return w.f.Write(p)
}

func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

func (w *RotatingWriter) open() (*os.File, error) {
	return os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// rotateIfNeeded shifts archives when the current file plus pending bytes
// exceeds maxSize; the oldest archive is discarded.
func (w *RotatingWriter) rotateIfNeeded(pending int64) {
	st, err := os.Stat(w.path)
	if err != nil || st.Size()+pending <= w.maxSize {
		return
	}
	_ = os.Remove(w.archiveName(w.archives))
	for i := w.archives - 1; i >= 1; i-- {
		_ = os.Rename(w.archiveName(i), w.archiveName(i+1))
	}
	_ = os.Rename(w.path, w.archiveName(1))
}

func (w *RotatingWriter) archiveName(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}
