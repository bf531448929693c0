package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/genmapper/internal/genbank"
)

// RecordResult pairs a parsed feature table with the file it came from.
type RecordResult struct {
	Source   FileFingerprint
	Features *genbank.Features
}

// GeneHit is one stored location of a gene.
type GeneHit struct {
	Path          string
	Organism      string
	BasePositions int64
	Gene          string
	Location      genbank.FeatureLocation
}

// WriteRecords stores parsed records under batchID using the Appender API.
// Records already stored for the same path are replaced.
func (s *Store) WriteRecords(batchID string, records []RecordResult) error {
	if len(records) == 0 {
		return nil
	}

	// Keep the last record per path so the primary keys stay unique.
	byPath := make(map[string]int, len(records))
	deduped := make([]RecordResult, 0, len(records))
	for _, r := range records {
		if r.Features == nil {
			continue
		}
		if i, ok := byPath[r.Source.Path]; ok {
			deduped[i] = r
			continue
		}
		byPath[r.Source.Path] = len(deduped)
		deduped = append(deduped, r)
	}

	for _, r := range deduped {
		if err := s.deleteRecord(r.Source.Path); err != nil {
			return err
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	now := time.Now().UTC()
	if err := appendRows(conn.Raw, "records", func(a *goduckdb.Appender) error {
		for _, r := range deduped {
			if err := a.AppendRow(
				r.Source.Path, batchID, r.Features.Organism, r.Features.BasePositions,
				r.Source.Size, r.Source.ModTime.UTC(), now,
			); err != nil {
				return fmt.Errorf("append record %s: %w", r.Source.Path, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return appendRows(conn.Raw, "gene_locations", func(a *goduckdb.Appender) error {
		for _, r := range deduped {
			for _, gene := range r.Features.Genes() {
				loc := r.Features.Locations[gene]
				if err := a.AppendRow(r.Source.Path, gene, loc.Start, loc.End, loc.Complement); err != nil {
					return fmt.Errorf("append gene %s: %w", gene, err)
				}
			}
		}
		return nil
	})
}

// appendRows opens an appender on table, runs fill and flushes the rows.
func appendRows(raw func(func(any) error) error, table string, fill func(*goduckdb.Appender) error) error {
	var appender *goduckdb.Appender
	if err := raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	return appender.Flush()
}

func (s *Store) deleteRecord(path string) error {
	if _, err := s.db.Exec("DELETE FROM gene_locations WHERE path=?", path); err != nil {
		return fmt.Errorf("delete genes of %s: %w", path, err)
	}
	if _, err := s.db.Exec("DELETE FROM records WHERE path=?", path); err != nil {
		return fmt.Errorf("delete record %s: %w", path, err)
	}
	return nil
}

// ClearRecords removes all indexed records.
func (s *Store) ClearRecords() error {
	if _, err := s.db.Exec("DELETE FROM gene_locations"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM records")
	return err
}

// IsIndexed reports whether the file was indexed with the same size and
// modification time.
func (s *Store) IsIndexed(fp FileFingerprint) (bool, error) {
	var size int64
	var modTime time.Time
	err := s.db.QueryRow("SELECT file_size, mod_time FROM records WHERE path=?", fp.Path).Scan(&size, &modTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query record: %w", err)
	}
	// DuckDB timestamps carry microseconds.
	return size == fp.Size && modTime.Equal(fp.ModTime.UTC().Truncate(time.Microsecond)), nil
}

// RecordCount returns the number of indexed records.
func (s *Store) RecordCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// LookupGene returns every stored location of gene, ordered by path.
func (s *Store) LookupGene(gene string) ([]GeneHit, error) {
	rows, err := s.db.Query(`SELECT
		r.path, r.organism, r.base_positions,
		g.gene, g.start_pos, g.end_pos, g.complement
		FROM gene_locations g
		JOIN records r ON r.path = g.path
		WHERE g.gene=?
		ORDER BY r.path`, gene)
	if err != nil {
		return nil, fmt.Errorf("query gene: %w", err)
	}
	defer rows.Close()

	var hits []GeneHit
	for rows.Next() {
		var h GeneHit
		if err := rows.Scan(
			&h.Path, &h.Organism, &h.BasePositions,
			&h.Gene, &h.Location.Start, &h.Location.End, &h.Location.Complement,
		); err != nil {
			return nil, fmt.Errorf("scan gene: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genes: %w", err)
	}
	return hits, nil
}

// Organisms returns the distinct organisms across indexed records.
func (s *Store) Organisms() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT organism FROM records ORDER BY organism")
	if err != nil {
		return nil, fmt.Errorf("query organisms: %w", err)
	}
	defer rows.Close()

	var organisms []string
	for rows.Next() {
		var o string
		if err := rows.Scan(&o); err != nil {
			return nil, fmt.Errorf("scan organism: %w", err)
		}
		organisms = append(organisms, o)
	}
	return organisms, rows.Err()
}
