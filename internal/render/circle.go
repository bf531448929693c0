package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/inodb/genmapper/internal/genbank"
)

const tau = 2 * math.Pi

// Renderer draws circular maps. It caches font faces and is not safe
// for concurrent use.
type Renderer struct {
	settings Settings
	font     *truetype.Font
	faces    map[float64]font.Face
	logger   *zap.Logger
}

// NewRenderer creates a renderer for the given settings.
func NewRenderer(s Settings) (*Renderer, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid map settings: %w", err)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	return &Renderer{
		settings: s,
		font:     f,
		faces:    make(map[float64]font.Face),
		logger:   zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for skipped-feature messages.
func (r *Renderer) SetLogger(l *zap.Logger) {
	r.logger = l
}

func (r *Renderer) face(size float64) font.Face {
	if f, ok := r.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(r.font, &truetype.Options{Size: size})
	r.faces[size] = f
	return f
}

// Draw renders the map of f.
func (r *Renderer) Draw(f *genbank.Features) (image.Image, error) {
	if f == nil {
		return nil, genbank.ErrNoFeatures
	}
	if f.BasePositions < 1 {
		return nil, fmt.Errorf("record length must be positive, got %d", f.BasePositions)
	}

	s := r.settings
	dc := gg.NewContext(s.Size, s.Size)
	dc.SetHexColor(s.Background)
	dc.Clear()

	cx, cy := float64(s.Size)/2, float64(s.Size)/2
	r.drawFeatureRing(dc, f, cx, cy)
	r.drawMarkerRing(dc, f.BasePositions, cx, cy)
	r.drawOrganism(dc, f, cx, cy)

	return dc.Image(), nil
}

// WritePNG renders the map of f and encodes it as PNG to w.
func (r *Renderer) WritePNG(w io.Writer, f *genbank.Features) error {
	img, err := r.Draw(f)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG renders the map of f to a PNG file at path.
func (r *Renderer) SavePNG(path string, f *genbank.Features) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := r.WritePNG(out, f); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// Angle maps a base position to radians: 0 bp at 12 o'clock, clockwise.
func Angle(pos, basePositions int64) float64 {
	return float64(pos)/float64(basePositions)*tau - math.Pi/2
}

// MarkInterval returns the spacing in bases between marker ring ticks,
// rounded to a readable value. Zero means no ticks are drawn.
func MarkInterval(basePositions int64, markCount int) int64 {
	if markCount < 1 || basePositions < 1 {
		return 0
	}

	interval := basePositions / int64(markCount)
	switch {
	case interval == 0:
		return 0
	case interval < 5:
		return 1
	case interval < 10:
		return 5
	}

	// Largest power of ten below the interval.
	current, next := int64(10), int64(100)
	for next < interval {
		current = next
		next *= 10
	}

	current /= 4
	return interval / current * current
}

func (r *Renderer) drawFeatureRing(dc *gg.Context, f *genbank.Features, cx, cy float64) {
	s := r.settings
	inner := s.FeatureRingRadius - s.FeatureWidth
	outer := s.FeatureRingRadius + s.FeatureWidth

	dc.SetFontFace(r.face(s.FeatureLabelFontSize))
	dc.SetLineWidth(1)

	for _, gene := range f.Genes() {
		loc := f.Locations[gene]
		if loc.End > f.BasePositions {
			r.logger.Debug("skipping feature past record end",
				zap.String("gene", gene),
				zap.Int64("end", loc.End),
				zap.Int64("base_positions", f.BasePositions))
			continue
		}

		start := Angle(loc.Start, f.BasePositions)
		end := Angle(loc.End, f.BasePositions)

		// Forward features sit outside the ring, complement features inside.
		edge := outer
		if loc.Complement {
			edge = inner
		}

		dc.NewSubPath()
		dc.DrawArc(cx, cy, s.FeatureRingRadius, start, end)
		dc.DrawArc(cx, cy, edge, end, start)
		dc.ClosePath()
		dc.SetHexColor(s.FeatureFillColour)
		dc.FillPreserve()
		dc.SetHexColor(s.FeatureStrokeColour)
		dc.Stroke()

		r.drawFeatureLabel(dc, gene, loc.Complement, start, edge, cx, cy)
	}

	dc.SetHexColor(s.LabelColour)
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, s.FeatureRingRadius)
	dc.Stroke()
}

// drawFeatureLabel writes label radially at angle a, running outward from
// radius for forward features and inward for complement ones.
func (r *Renderer) drawFeatureLabel(dc *gg.Context, label string, complement bool, a, radius, cx, cy float64) {
	if complement {
		radius -= r.settings.FeatureLabelOffset
	} else {
		radius += r.settings.FeatureLabelOffset
	}
	x := cx + radius*math.Cos(a)
	y := cy + radius*math.Sin(a)

	// Flip labels on the left half so they stay upright.
	flip := math.Cos(a) < 0
	rotation := a
	if flip {
		rotation += math.Pi
	}
	ax := 0.0
	if flip != complement {
		ax = 1
	}

	dc.SetHexColor(r.settings.LabelColour)
	dc.Push()
	dc.RotateAbout(rotation, x, y)
	dc.DrawStringAnchored(label, x, y, ax, 0.5)
	dc.Pop()
}

func (r *Renderer) drawMarkerRing(dc *gg.Context, basePositions int64, cx, cy float64) {
	s := r.settings
	dc.SetHexColor(s.LabelColour)
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, s.MarkerRingRadius)
	dc.Stroke()

	interval := MarkInterval(basePositions, s.MarkCount)
	if interval == 0 {
		return
	}

	outer := s.MarkerRingRadius + s.MarkLength
	labelRadius := outer + s.MarkLabelOffset
	dc.SetFontFace(r.face(s.MarkLabelFontSize))

	for i := range s.MarkCount {
		pos := int64(i) * interval
		a := Angle(pos, basePositions)
		cos, sin := math.Cos(a), math.Sin(a)

		dc.DrawLine(cx+s.MarkerRingRadius*cos, cy+s.MarkerRingRadius*sin, cx+outer*cos, cy+outer*sin)
		dc.Stroke()

		ax := 0.0
		if cos < 0 {
			ax = 1
		}
		dc.DrawStringAnchored(fmt.Sprintf("%d bp", pos), cx+labelRadius*cos, cy+labelRadius*sin, ax, 0.5)
	}
}

func (r *Renderer) drawOrganism(dc *gg.Context, f *genbank.Features, cx, cy float64) {
	s := r.settings
	dc.SetFontFace(r.face(s.OrganismLabelFontSize))
	dc.SetHexColor(s.LabelColour)

	_, h := dc.MeasureString(f.Organism)
	dc.DrawStringAnchored(f.Organism, cx, cy, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%d bp", f.BasePositions), cx, cy+1.5*h, 0.5, 0.5)
}
