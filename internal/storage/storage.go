package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Storage handles writing output files into one directory
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dataDir = "."
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved output directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the full path for a file name inside the directory.
// Absolute names are returned unchanged.
func (s *Storage) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dataDir, name)
}

// WriteAtomic writes a file through write and renames it into place,
// overwriting any existing file. It returns the final path.
func (s *Storage) WriteAtomic(name string, write func(io.Writer) error) (string, error) {
	path := s.Path(name)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on every failure path
	committed := false
	defer func() {
		if !committed {
			tmp.Close()        // nolint:errcheck
			os.Remove(tmpName) // nolint:errcheck
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("flushing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("renaming into %s: %w", path, err)
	}

	committed = true
	return path, nil
}

// WriteFile writes data atomically
func (s *Storage) WriteFile(name string, data []byte) (string, error) {
	return s.WriteAtomic(name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
