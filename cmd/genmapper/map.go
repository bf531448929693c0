package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/genmapper/internal/render"
)

func newMapCmd(a *app) *cobra.Command {
	var (
		noCache bool
		size    int
	)

	cmd := &cobra.Command{
		Use:   "map <input> <output>",
		Short: "Draw a circular genome map as PNG",
		Long: `Parse the FEATURES table of a GenBank file and draw a circular map of its
genes. Forward-strand genes are drawn outside the feature ring and
complement-strand genes inside it. Use '-' to read the GenBank file from stdin.`,
		Example: `  genmapper map NC_000913.gb ecoli.png
  genmapper map --size 2048 NC_000913.gb.gz ecoli.png
  cat NC_001422.gb | genmapper map - phix.png`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := a.cfg.Map
			if cmd.Flags().Changed("size") {
				settings = scaleSettings(settings, size)
			}
			return a.runMap(cmd, args[0], args[1], settings, !noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always parse the input, ignoring the feature cache")
	cmd.Flags().IntVar(&size, "size", 0, "image width and height in pixels (scales the whole layout)")
	return cmd
}

func (a *app) runMap(cmd *cobra.Command, input, output string, settings render.Settings, useCache bool) error {
	r, err := render.NewRenderer(settings)
	if err != nil {
		return err
	}
	r.SetLogger(a.logger)

	f, err := a.loadFeatures(input, useCache)
	if err != nil {
		return err
	}

	if err := r.SavePNG(output, f); err != nil {
		return fmt.Errorf("draw %s: %w", output, err)
	}

	a.logger.Info("wrote map",
		zap.String("organism", f.Organism),
		zap.Int("genes", f.GeneCount()),
		zap.Int64("base_positions", f.BasePositions),
		zap.String("output", output))
	return nil
}

// scaleSettings resizes the layout of s proportionally to a new image size.
func scaleSettings(s render.Settings, size int) render.Settings {
	if size <= 0 || s.Size <= 0 {
		s.Size = size
		return s
	}
	k := float64(size) / float64(s.Size)
	s.Size = size
	s.FeatureRingRadius *= k
	s.FeatureWidth *= k
	s.FeatureLabelFontSize *= k
	s.FeatureLabelOffset *= k
	s.MarkerRingRadius *= k
	s.MarkLength *= k
	s.MarkLabelFontSize *= k
	s.MarkLabelOffset *= k
	s.OrganismLabelFontSize *= k
	return s
}
