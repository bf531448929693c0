// Package output provides tab-delimited writers for parsed feature tables.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/genmapper/internal/genbank"
)

// FeatureWriter writes gene locations in tab-delimited format.
type FeatureWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewFeatureWriter creates a new tab-delimited feature writer.
func NewFeatureWriter(w io.Writer) *FeatureWriter {
	return &FeatureWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Gene",
			"Start",
			"End",
			"Strand",
			"Length",
		},
	}
}

// WriteHeader writes the record metadata lines and the column header.
func (fw *FeatureWriter) WriteHeader(f *genbank.Features) error {
	if _, err := fmt.Fprintf(fw.w, "## organism=%s\n## base_positions=%d\n## genes=%d\n",
		f.Organism, f.BasePositions, f.GeneCount()); err != nil {
		return err
	}
	_, err := fw.w.WriteString(strings.Join(fw.columns, "\t") + "\n")
	return err
}

// Write writes a single gene location.
func (fw *FeatureWriter) Write(gene string, loc genbank.FeatureLocation) error {
	values := []string{
		gene,
		strconv.FormatInt(loc.Start, 10),
		strconv.FormatInt(loc.End, 10),
		loc.Strand(),
		strconv.FormatInt(loc.Len(), 10),
	}
	_, err := fw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteAll writes the header and every gene of f in name order.
func (fw *FeatureWriter) WriteAll(f *genbank.Features) error {
	if err := fw.WriteHeader(f); err != nil {
		return err
	}
	for _, gene := range f.Genes() {
		if err := fw.Write(gene, f.Locations[gene]); err != nil {
			return err
		}
	}
	return fw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (fw *FeatureWriter) Flush() error {
	return fw.w.Flush()
}
