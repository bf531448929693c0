package genbank

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/pgzip"
	"go.uber.org/zap"
)

// gzipReadCloser closes both the decompressor and the underlying file.
type gzipReadCloser struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

// Open opens a GenBank file for reading. Gzip-compressed files are
// detected by their magic bytes. The path "-" reads from stdin.
// The caller must close the returned reader.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genbank file: %w", err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	var magic [2]byte
	n, err := io.ReadFull(file, magic[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read genbank header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek genbank file: %w", err)
	}

	if n == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := pgzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return &gzipReadCloser{Reader: gz, file: file}, nil
	}
	return file, nil
}

// FileParser parses GenBank files from disk.
type FileParser struct {
	bufferSize int
	logger     *zap.Logger
}

// NewFileParser creates a file parser whose cursors use bufferSize bytes.
// A non-positive size selects DefaultBufferSize.
func NewFileParser(bufferSize int) *FileParser {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &FileParser{
		bufferSize: bufferSize,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger passed on to each Reader.
func (p *FileParser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// ParseFile reads the feature table of the file at path.
// It returns nil, nil when the file holds no usable feature table.
func (p *FileParser) ParseFile(path string) (*Features, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	c, err := NewCursor(rc, p.bufferSize)
	if err != nil {
		return nil, err
	}
	r := NewReader(c)
	r.SetLogger(p.logger.With(zap.String("path", path)))

	f, err := r.ReadFeatures()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return f, nil
}
