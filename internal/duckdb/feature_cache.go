package duckdb

import (
	"crypto/sha1"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/inodb/genmapper/internal/genbank"
)

// FeatureCache manages gob-serialized feature tables on disk, one pair of
// files per source record:
//
//	{dir}/{key}.gob       (serialized features)
//	{dir}/{key}.gob.meta  (source file fingerprint)
//
// The key is derived from the absolute source path.
type FeatureCache struct {
	dir string
}

// NewFeatureCache creates a feature cache rooted at dir.
func NewFeatureCache(dir string) *FeatureCache {
	return &FeatureCache{dir: dir}
}

// Dir returns the cache directory.
func (fc *FeatureCache) Dir() string {
	return fc.dir
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := sha1.Sum([]byte(path))
	return hex.EncodeToString(sum[:])
}

func (fc *FeatureCache) gobPath(src string) string {
	return filepath.Join(fc.dir, cacheKey(src)+".gob")
}

func (fc *FeatureCache) metaPath(src string) string {
	return fc.gobPath(src) + ".meta"
}

// Valid checks whether the cached features match the current source file.
func (fc *FeatureCache) Valid(src FileFingerprint) bool {
	meta, err := fc.readMeta(src.Path)
	if err != nil {
		return false
	}

	checks := []struct{ key, val string }{
		{"size", strconv.FormatInt(src.Size, 10)},
		{"modtime", src.ModTime.UTC().Format(time.RFC3339Nano)},
	}
	for _, c := range checks {
		if meta[c.key] != c.val {
			return false
		}
	}

	if _, err := os.Stat(fc.gobPath(src.Path)); err != nil {
		return false
	}
	return true
}

// Load reads the cached features of the source file at path.
func (fc *FeatureCache) Load(path string) (*genbank.Features, error) {
	f, err := os.Open(fc.gobPath(path))
	if err != nil {
		return nil, fmt.Errorf("open feature cache: %w", err)
	}
	defer f.Close()

	var features genbank.Features
	if err := gob.NewDecoder(f).Decode(&features); err != nil {
		return nil, fmt.Errorf("decode feature cache: %w", err)
	}
	return &features, nil
}

// Write serializes features parsed from src to disk.
func (fc *FeatureCache) Write(src FileFingerprint, features *genbank.Features) error {
	if features == nil {
		return genbank.ErrNoFeatures
	}
	if err := os.MkdirAll(fc.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	gobPath := fc.gobPath(src.Path)
	f, err := os.Create(gobPath)
	if err != nil {
		return fmt.Errorf("create feature cache: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(features); err != nil {
		f.Close()
		os.Remove(gobPath)
		return fmt.Errorf("encode feature cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close feature cache: %w", err)
	}

	return fc.writeMeta(src)
}

// Remove deletes the cached files of a single source.
func (fc *FeatureCache) Remove(path string) {
	os.Remove(fc.gobPath(path))
	os.Remove(fc.metaPath(path))
}

// Clear removes every cached feature table.
func (fc *FeatureCache) Clear() error {
	matches, err := filepath.Glob(filepath.Join(fc.dir, "*.gob*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", m, err)
		}
	}
	return nil
}

func (fc *FeatureCache) writeMeta(src FileFingerprint) error {
	abs, err := filepath.Abs(src.Path)
	if err != nil {
		abs = src.Path
	}
	lines := []string{
		"path=" + abs,
		"size=" + strconv.FormatInt(src.Size, 10),
		"modtime=" + src.ModTime.UTC().Format(time.RFC3339Nano),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}
	return os.WriteFile(fc.metaPath(src.Path), []byte(strings.Join(lines, "\n")), 0644)
}

func (fc *FeatureCache) readMeta(path string) (map[string]string, error) {
	data, err := os.ReadFile(fc.metaPath(path))
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
