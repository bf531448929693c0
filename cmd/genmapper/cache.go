package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/genmapper/internal/duckdb"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the parsed feature cache",
		Long:  "The feature cache keeps parsed feature tables so 'map' and 'inspect' skip re-parsing unchanged files.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "clear",
		Short:   "Remove all cached feature tables",
		Example: `  genmapper cache clear`,
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc := duckdb.NewFeatureCache(a.cfg.Cache.Dir)
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared feature cache in %s\n", fc.Dir())
			return nil
		},
	})
	return cmd
}
