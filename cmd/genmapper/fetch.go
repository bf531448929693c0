package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/genmapper/internal/ncbi"
)

func newFetchCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "fetch <accession>",
		Short: "Download a GenBank flat file from NCBI",
		Long: `Download a nucleotide record in GenBank flat-file format with the NCBI
E-utilities efetch service. Set ncbi.api_key to raise the request rate limit.`,
		Example: `  genmapper fetch NC_001422.1
  genmapper fetch -o ecoli.gb NC_000913.3
  genmapper fetch -o - NC_001422.1 | genmapper map - phix.png`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFetch(cmd, args[0], outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file, '-' for stdout (default <accession>.gb)")
	return cmd
}

func (a *app) runFetch(cmd *cobra.Command, accession, outPath string) error {
	client := ncbi.NewClient(a.cfg.NCBI.BaseURL, a.cfg.NCBI.APIKey)
	client.SetLogger(a.logger)

	if outPath == "-" {
		_, err := client.Fetch(cmd.Context(), accession, cmd.OutOrStdout())
		return err
	}

	if outPath == "" {
		outPath = accession + ".gb"
	}
	client.SetProgress(cmd.ErrOrStderr())

	n, err := client.Download(cmd.Context(), accession, outPath)
	if err != nil {
		return err
	}
	a.logger.Info("downloaded record",
		zap.String("accession", accession),
		zap.String("path", outPath),
		zap.String("size", ncbi.FormatSize(n)))
	return nil
}
