package render

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/inodb/genmapper/internal/genbank"
)

func testFeatures() *genbank.Features {
	return &genbank.Features{
		Organism:      "Escherichia coli",
		BasePositions: 5000,
		Locations: map[string]genbank.FeatureLocation{
			"thrA": {Start: 1, End: 2500},
			"yaaA": {Start: 2501, End: 3750, Complement: true},
			"past": {Start: 4000, End: 6000},
		},
	}
}

func TestMarkInterval(t *testing.T) {
	tests := []struct {
		name          string
		basePositions int64
		markCount     int
		want          int64
	}{
		{"no marks", 5000, 0, 0},
		{"negative marks", 5000, -1, 0},
		{"empty record", 0, 8, 0},
		{"fewer bases than marks", 7, 8, 0},
		{"tiny interval", 24, 8, 1},
		{"small interval", 64, 8, 5},
		{"two digit interval", 296, 8, 36},
		{"exact", 5000, 8, 625},
		{"rounded down", 16569, 8, 2000},
		{"large genome", 4641652, 8, 575000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkInterval(tt.basePositions, tt.markCount))
		})
	}
}

func TestAngle(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, Angle(0, 5000), 1e-9, "0 bp at 12 o'clock")
	assert.InDelta(t, 0, Angle(1250, 5000), 1e-9, "quarter at 3 o'clock")
	assert.InDelta(t, math.Pi/2, Angle(2500, 5000), 1e-9, "half at 6 o'clock")
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 1024, s.Size)
	assert.Equal(t, 325.0, s.FeatureRingRadius)
	assert.Equal(t, 150.0, s.MarkerRingRadius)
	assert.Equal(t, 8, s.MarkCount)
	assert.Equal(t, 15.0, s.MarkLength)
	assert.Equal(t, "#46191964", s.FeatureFillColour)
}

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"zero size", func(s *Settings) { s.Size = 0 }},
		{"negative mark count", func(s *Settings) { s.MarkCount = -2 }},
		{"zero ring radius", func(s *Settings) { s.FeatureRingRadius = 0 }},
		{"zero font", func(s *Settings) { s.OrganismLabelFontSize = 0 }},
		{"bad colour", func(s *Settings) { s.LabelColour = "black" }},
		{"bad hex digits", func(s *Settings) { s.FeatureFillColour = "#zz1919" }},
		{"bad length", func(s *Settings) { s.Background = "#fffff" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.Error(t, s.Validate())

			_, err := NewRenderer(s)
			assert.Error(t, err)
		})
	}
}

func TestValidHexColour(t *testing.T) {
	for _, c := range []string{"#fff", "#000000", "#46191964", "abc", "ABCDEF"} {
		assert.True(t, validHexColour(c), c)
	}
	for _, c := range []string{"", "#", "#ff", "#ggg", "#1234567"} {
		assert.False(t, validHexColour(c), c)
	}
}

func isWhite(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestDraw(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r, err := NewRenderer(DefaultSettings())
	require.NoError(t, err)
	r.SetLogger(zap.New(core))

	img, err := r.Draw(testFeatures())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1024, 1024), img.Bounds())

	s := DefaultSettings()
	cx, cy := 512.0, 512.0

	// thrA covers 3 o'clock, outside the ring.
	out := s.FeatureRingRadius + s.FeatureWidth/2
	assert.False(t, isWhite(img, int(cx+out), int(cy)), "forward feature filled outside the ring")

	// yaaA covers 7 o'clock region, inside the ring.
	a := Angle(3125, 5000)
	in := s.FeatureRingRadius - s.FeatureWidth/2
	assert.False(t, isWhite(img, int(cx+in*math.Cos(a)), int(cy+in*math.Sin(a))), "complement feature filled inside the ring")

	// Nothing is drawn outside the ring at 9 o'clock.
	assert.True(t, isWhite(img, int(cx-out), int(cy)))

	skipped := logs.FilterMessage("skipping feature past record end").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "past", skipped[0].ContextMap()["gene"])
}

func TestDraw_NoFeatures(t *testing.T) {
	r, err := NewRenderer(DefaultSettings())
	require.NoError(t, err)

	_, err = r.Draw(nil)
	assert.ErrorIs(t, err, genbank.ErrNoFeatures)

	_, err = r.Draw(&genbank.Features{Organism: "x"})
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	s := DefaultSettings()
	s.Size = 512
	s.FeatureRingRadius = 160
	s.FeatureWidth = 12
	s.MarkerRingRadius = 75

	r, err := NewRenderer(s)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WritePNG(&buf, testFeatures()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 512, img.Bounds().Dy())
}

func TestSavePNG(t *testing.T) {
	r, err := NewRenderer(DefaultSettings())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, r.SavePNG(path, testFeatures()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Width)

	// A failed render leaves no file behind.
	bad := filepath.Join(t.TempDir(), "bad.png")
	assert.Error(t, r.SavePNG(bad, nil))
	_, err = os.Stat(bad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
