package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/genmapper/internal/genbank"
	"github.com/inodb/genmapper/internal/output"
)

func newInspectCmd(a *app) *cobra.Command {
	var at int64

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Print the organism and gene table of a GenBank file",
		Example: `  genmapper inspect NC_000913.gb
  genmapper inspect --at 337 NC_000913.gb`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("at") && at < 1 {
				return &usageError{fmt.Errorf("--at must be a positive base position, got %d", at)}
			}
			return a.runInspect(cmd, args[0], at)
		},
	}

	cmd.Flags().Int64Var(&at, "at", 0, "only list genes overlapping this 1-based position")
	return cmd
}

func (a *app) runInspect(cmd *cobra.Command, input string, at int64) error {
	f, err := a.loadFeatures(input, true)
	if err != nil {
		return err
	}

	w := output.NewFeatureWriter(cmd.OutOrStdout())
	if at == 0 {
		return w.WriteAll(f)
	}

	if at > f.BasePositions {
		return fmt.Errorf("position %d is past the record end (%d bp)", at, f.BasePositions)
	}

	if err := w.WriteHeader(f); err != nil {
		return err
	}
	for _, gl := range genbank.NewLocationIndex(f).FindOverlaps(at) {
		if err := w.Write(gl.Gene, gl.Location); err != nil {
			return err
		}
	}
	return w.Flush()
}
