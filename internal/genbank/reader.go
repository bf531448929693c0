package genbank

import (
	"bytes"
	"io"

	"go.uber.org/zap"
)

// Reader extracts Features from the feature table under a Cursor.
type Reader struct {
	cursor *Cursor
	buf    []byte
	logger *zap.Logger
}

// NewReader creates a reader that consumes lines from c.
func NewReader(c *Cursor) *Reader {
	return &Reader{
		cursor: c,
		buf:    make([]byte, LineLength-KeyIndent),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for skipped-line diagnostics.
func (r *Reader) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Parse reads the feature table from src using a default-sized Cursor.
func Parse(src io.Reader) (*Features, error) {
	c, err := NewCursor(src, DefaultBufferSize)
	if err != nil {
		return nil, err
	}
	return NewReader(c).ReadFeatures()
}

// ReadFeatures locates the feature table and reads it in a single pass.
//
// It returns nil, nil when there is no feature table, or when the table
// has no source feature with an /organism qualifier. Malformed lines are
// skipped. A read error is returned as-is and no partial result is kept.
func (r *Reader) ReadFeatures() (*Features, error) {
	c := r.cursor
	if !FindFeatureTable(c) {
		return nil, c.Err()
	}
	r.logger.Debug("found feature table", zap.Int("line", c.Line()))

	var (
		features *Features
		location FeatureLocation
		located  bool
		source   bool
	)

	for c.NextLine() {
		indent := c.SkipConsecutive(' ')

		switch {
		case indent == 0:
			return r.result(features)

		case indent == KeyIndent:
			n := c.ReadChars(r.buf)
			if n < KeyColumnWidth {
				located, source = false, false
				r.logger.Debug("skipping short feature key line", zap.Int("line", c.Line()))
				continue
			}
			location, located = ParseLocation(r.buf[KeyColumnWidth:n])
			if !located {
				source = false
				r.logger.Debug("skipping unparsable location",
					zap.Int("line", c.Line()),
					zap.ByteString("location", bytes.TrimSpace(r.buf[KeyColumnWidth:n])))
				continue
			}
			source = bytes.HasPrefix(r.buf[:n], []byte(sourceKey))

		case indent == QualifierIndent && located:
			n := c.ReadChars(r.buf)
			line := r.buf[:n]
			if source {
				if features == nil && n > len(organismQualifier) && bytes.HasPrefix(line, []byte(organismQualifier)) {
					organism, ok := ExtractQuoted(line[len(organismQualifier):])
					if !ok || organism == "" {
						r.logger.Debug("skipping malformed organism qualifier", zap.Int("line", c.Line()))
						continue
					}
					features = newFeatures(organism, location.End)
				}
			} else if features != nil && n > len(geneQualifier) && bytes.HasPrefix(line, []byte(geneQualifier)) {
				gene, ok := ExtractQuoted(line[len(geneQualifier):])
				if !ok || gene == "" {
					r.logger.Debug("skipping malformed gene qualifier", zap.Int("line", c.Line()))
					continue
				}
				if !features.addGene(gene, location) {
					r.logger.Debug("ignoring repeated gene",
						zap.String("gene", gene),
						zap.Int("line", c.Line()))
				}
			}
		}
	}

	return r.result(features)
}

func (r *Reader) result(features *Features) (*Features, error) {
	if err := r.cursor.Err(); err != nil {
		return nil, err
	}
	return features, nil
}
