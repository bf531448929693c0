package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/genmapper/internal/duckdb"
	"github.com/inodb/genmapper/internal/output"
)

func newLookupCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:     "lookup <gene...>",
		Short:   "Print the stored locations of genes across indexed records",
		Example: `  genmapper lookup thrA thrB`,
		Args:    minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				a.cfg.Index.DB = dbPath
			}
			return a.runLookup(cmd, args)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database path (default from config index.db)")
	return cmd
}

func (a *app) runLookup(cmd *cobra.Command, genes []string) error {
	if _, err := os.Stat(a.cfg.Index.DB); err != nil {
		return fmt.Errorf("open index %s: %w (run 'genmapper index' first)", a.cfg.Index.DB, err)
	}

	store, err := duckdb.Open(a.cfg.Index.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	w := output.NewHitWriter(cmd.OutOrStdout())
	if err := w.WriteHeader(); err != nil {
		return err
	}

	for _, gene := range genes {
		hits, err := store.LookupGene(gene)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			a.logger.Warn("gene not found in index", zap.String("gene", gene))
			continue
		}
		for _, h := range hits {
			if err := w.Write(h); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}
