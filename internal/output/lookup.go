package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/genmapper/internal/duckdb"
)

// HitWriter writes gene lookup results from the record index.
type HitWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewHitWriter creates a new tab-delimited hit writer.
func NewHitWriter(w io.Writer) *HitWriter {
	return &HitWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Gene",
			"Organism",
			"Location",
			"Strand",
			"Base_positions",
			"Path",
		},
	}
}

// WriteHeader writes the header line.
func (hw *HitWriter) WriteHeader() error {
	_, err := hw.w.WriteString(strings.Join(hw.columns, "\t") + "\n")
	return err
}

// Write writes a single hit.
func (hw *HitWriter) Write(h duckdb.GeneHit) error {
	organism := h.Organism
	if organism == "" {
		organism = "-"
	}
	values := []string{
		h.Gene,
		organism,
		h.Location.String(),
		h.Location.Strand(),
		strconv.FormatInt(h.BasePositions, 10),
		h.Path,
	}
	_, err := hw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (hw *HitWriter) Flush() error {
	return hw.w.Flush()
}
