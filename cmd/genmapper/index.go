package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/genmapper/internal/duckdb"
	"github.com/inodb/genmapper/internal/genbank"
)

func newIndexCmd(a *app) *cobra.Command {
	var (
		dbPath  string
		workers int
		force   bool
		reset   bool
	)

	cmd := &cobra.Command{
		Use:   "index <files...>",
		Short: "Parse GenBank files in parallel and store their genes in DuckDB",
		Long: `Parse the FEATURES table of each file and store organism, record length
and gene locations in a DuckDB database for 'genmapper lookup'. Files whose
size and modification time are unchanged since the last run are skipped.`,
		Example: `  genmapper index genomes/*.gb.gz
  genmapper index --workers 4 --db genes.duckdb a.gb b.gb`,
		Args: minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				a.cfg.Index.DB = dbPath
			}
			if cmd.Flags().Changed("workers") {
				a.cfg.Index.Workers = workers
			}
			return a.runIndex(cmd, args, force, reset)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database path (default from config index.db)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "parser goroutines (0 = all CPUs)")
	cmd.Flags().BoolVar(&force, "force", false, "re-index files even if they are unchanged")
	cmd.Flags().BoolVar(&reset, "clear", false, "remove all indexed records first")
	return cmd
}

func (a *app) runIndex(cmd *cobra.Command, paths []string, force, reset bool) error {
	store, err := duckdb.Open(a.cfg.Index.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	if reset {
		if err := store.ClearRecords(); err != nil {
			return fmt.Errorf("clear records: %w", err)
		}
	}

	var (
		todo     []string
		prints   []duckdb.FileFingerprint
		skipped  int
		failures int
	)
	for _, path := range paths {
		fp, err := duckdb.StatFile(path)
		if err != nil {
			a.logger.Warn("cannot index file", zap.String("path", path), zap.Error(err))
			failures++
			continue
		}
		if !force {
			ok, err := store.IsIndexed(fp)
			if err != nil {
				return err
			}
			if ok {
				a.logger.Debug("skipping unchanged file", zap.String("path", path))
				skipped++
				continue
			}
		}
		todo = append(todo, path)
		prints = append(prints, fp)
	}

	parser := genbank.NewFileParser(a.cfg.Parser.BufferSize)
	parser.SetLogger(a.logger)

	var records []duckdb.RecordResult
	results := parser.ParallelParse(genbank.PathItems(todo), a.cfg.Index.Workers)
	err = genbank.OrderedCollect(results, func(r genbank.WorkResult) error {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		switch {
		case r.Err != nil:
			a.logger.Warn("cannot parse file", zap.String("path", r.Path), zap.Error(r.Err))
			failures++
		case r.Features == nil:
			a.logger.Warn("no feature table", zap.String("path", r.Path))
			failures++
		default:
			records = append(records, duckdb.RecordResult{Source: prints[r.Seq], Features: r.Features})
		}
		return nil
	})
	if err != nil {
		return err
	}

	batchID := uuid.NewString()
	if err := store.WriteRecords(batchID, records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}

	total, err := store.RecordCount()
	if err != nil {
		return err
	}
	organisms, err := store.Organisms()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Indexed %d records (batch %s), skipped %d unchanged, %d failed; %d records in %s\n",
		len(records), batchID, skipped, failures, total, store.Path())
	if len(organisms) > 0 {
		fmt.Fprintf(out, "Organisms: %s\n", strings.Join(organisms, ", "))
	}

	if failures > 0 && len(records) == 0 && skipped == 0 {
		return fmt.Errorf("no files could be indexed")
	}
	return nil
}
