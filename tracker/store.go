package tracker

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store persists the total distance in meters as a plain decimal number.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is the counter file under the user config directory, or the
// working directory when no config directory is available.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		return filepath.Join(".", ".mouse_distance.txt")
	}
	return filepath.Join(configDir, "mousekm", "mouse_distance.txt")
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored meters. A missing file yields zero; an unreadable
// number yields zero and an error so the caller can log it.
func (s *Store) Load() (float64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	meters, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || meters < 0 {
		return 0, fmt.Errorf("invalid counter in %s: %q", s.path, strings.TrimSpace(string(data)))
	}
	return meters, nil
}

// Save writes meters atomically through a uniquely named temp file in the
// same directory.
func (s *Store) Save(meters float64) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create counter dir: %w", err)
	}

	data := strconv.FormatFloat(meters, 'f', -1, 64)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp counter: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write counter: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write counter: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to persist counter: %w", err)
	}
	return nil
}
