package duckdb

import (
	"errors"
	"os"
	"time"
)

// ErrNotRegular is returned when a path cannot be fingerprinted because it
// is not a regular file (stdin, pipes, directories).
var ErrNotRegular = errors.New("not a regular file")

// FileFingerprint identifies a source file by path, size and modification time.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile fingerprints the GenBank file at path.
func StatFile(path string) (FileFingerprint, error) {
	if path == "-" {
		return FileFingerprint{}, ErrNotRegular
	}
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	if !info.Mode().IsRegular() {
		return FileFingerprint{}, ErrNotRegular
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
