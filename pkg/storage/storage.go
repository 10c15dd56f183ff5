package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// PartSuffix marks a file that is still being written.
const PartSuffix = ".part"

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func (s *Storage) HasFile(fn string) bool {
	return fileExists(fn)
}

// PartPath is where dest is written before it is complete.
func (s *Storage) PartPath(dest string) string {
	return dest + PartSuffix
}

// Create opens path for writing, truncating leftovers of an earlier attempt
// and creating parent directories as needed.
func (s *Storage) Create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	return f, nil
}

// Commit moves a completed part file into place, replacing dest.
func (s *Storage) Commit(part, dest string) error {
	if err := os.Rename(part, dest); err != nil {
		return fmt.Errorf("error moving %s into place: %w", part, err)
	}
	return nil
}

// Discard removes a part file; a missing file is not an error.
func (s *Storage) Discard(part string) {
	_ = os.Remove(part)
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
	}, nil
}
