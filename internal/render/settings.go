// Package render draws circular genome maps from parsed feature tables.
package render

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Settings controls the layout and colours of a circular map.
// Colours are hex strings: #rgb, #rrggbb or #rrggbbaa.
type Settings struct {
	Size        int    `mapstructure:"size" yaml:"size"`
	Background  string `mapstructure:"background" yaml:"background"`
	LabelColour string `mapstructure:"label_colour" yaml:"label_colour"`

	FeatureRingRadius    float64 `mapstructure:"feature_ring_radius" yaml:"feature_ring_radius"`
	FeatureWidth         float64 `mapstructure:"feature_width" yaml:"feature_width"`
	FeatureLabelFontSize float64 `mapstructure:"feature_label_font_size" yaml:"feature_label_font_size"`
	FeatureLabelOffset   float64 `mapstructure:"feature_label_offset" yaml:"feature_label_offset"`
	FeatureStrokeColour  string  `mapstructure:"feature_stroke_colour" yaml:"feature_stroke_colour"`
	FeatureFillColour    string  `mapstructure:"feature_fill_colour" yaml:"feature_fill_colour"`

	MarkerRingRadius  float64 `mapstructure:"marker_ring_radius" yaml:"marker_ring_radius"`
	MarkCount         int     `mapstructure:"mark_count" yaml:"mark_count"`
	MarkLength        float64 `mapstructure:"mark_length" yaml:"mark_length"`
	MarkLabelFontSize float64 `mapstructure:"mark_label_font_size" yaml:"mark_label_font_size"`
	MarkLabelOffset   float64 `mapstructure:"mark_label_offset" yaml:"mark_label_offset"`

	OrganismLabelFontSize float64 `mapstructure:"organism_label_font_size" yaml:"organism_label_font_size"`
}

// DefaultSettings returns the standard 1024x1024 layout.
func DefaultSettings() Settings {
	return Settings{
		Size:        1024,
		Background:  "#ffffff",
		LabelColour: "#000000",

		FeatureRingRadius:    325,
		FeatureWidth:         25,
		FeatureLabelFontSize: 15,
		FeatureLabelOffset:   10,
		FeatureStrokeColour:  "#461919",
		FeatureFillColour:    "#46191964",

		MarkerRingRadius:  150,
		MarkCount:         8,
		MarkLength:        15,
		MarkLabelFontSize: 12,
		MarkLabelOffset:   10,

		OrganismLabelFontSize: 17,
	}
}

// Validate checks that sizes are positive and colours parse.
func (s Settings) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("size must be positive, got %d", s.Size)
	}
	if s.MarkCount < 0 {
		return fmt.Errorf("mark_count must not be negative, got %d", s.MarkCount)
	}

	positive := []struct {
		name  string
		value float64
	}{
		{"feature_ring_radius", s.FeatureRingRadius},
		{"feature_width", s.FeatureWidth},
		{"feature_label_font_size", s.FeatureLabelFontSize},
		{"marker_ring_radius", s.MarkerRingRadius},
		{"mark_label_font_size", s.MarkLabelFontSize},
		{"organism_label_font_size", s.OrganismLabelFontSize},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %g", p.name, p.value)
		}
	}

	colours := []struct{ name, value string }{
		{"background", s.Background},
		{"label_colour", s.LabelColour},
		{"feature_stroke_colour", s.FeatureStrokeColour},
		{"feature_fill_colour", s.FeatureFillColour},
	}
	for _, c := range colours {
		if !validHexColour(c.value) {
			return fmt.Errorf("%s: invalid colour %q", c.name, c.value)
		}
	}
	return nil
}

// validHexColour accepts the formats understood by gg.Context.SetHexColor.
func validHexColour(s string) bool {
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6, 8:
	default:
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
