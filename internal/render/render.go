// Package render turns a dataset into coloured silhouettes on a surface.
package render

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/paulmach/orb/geojson"

	"sradmap/internal/colormap"
	"sradmap/internal/geom"
	"sradmap/internal/surface"
)

// ErrEmptySurface is returned when the viewport leaves no pixels to draw on.
var ErrEmptySurface = errors.New("render: empty viewport")

// Options control colouring and outlines.
type Options struct {
	Mode   ValueMode
	Field  string
	Fields []string

	Ramp     colormap.Ramp
	MinValue float64
	MaxValue float64

	Stroke      color.NRGBA
	StrokeWidth float64
}

// DefaultOptions averages the monthly medians over the spectral ramp.
func DefaultOptions() Options {
	return Options{
		Mode:        Average,
		Field:       MonthlyFields[0],
		Fields:      MonthlyFields,
		Ramp:        colormap.GetColor,
		MinValue:    0,
		MaxValue:    25500,
		Stroke:      color.NRGBA{A: 64},
		StrokeWidth: 1,
	}
}

// Shape is one drawn ring and the attributes of the feature it came from.
type Shape struct {
	Path       *surface.Path
	BBox       geom.BBox
	Properties geojson.Properties
	// Value is the unclamped representative scalar, NaN when missing.
	Value float64
	Color colormap.Color
	// Feature is the index of the source feature in the dataset.
	Feature int
}

// BuildShapes draws every ring of every feature onto s, fill then stroke, and
// returns the shapes in drawing order together with the scale used.
func BuildShapes(ds *geom.Dataset, s *surface.Surface, proj geom.Projection, opts Options) ([]Shape, float64) {
	ramp := opts.Ramp
	if ramp == nil {
		ramp = colormap.GetColor
	}
	shapes := make([]Shape, 0, ds.RingCount())
	for i, f := range ds.Features {
		v := FeatureValue(f.Properties, opts.Mode, opts.Field, opts.Fields)
		c := ramp(Clamp(v, opts.MinValue, opts.MaxValue), opts.MinValue, opts.MaxValue)
		fill := c.NRGBA()

		for _, ring := range f.Rings {
			if len(ring) == 0 {
				continue
			}
			p := surface.NewPath()
			p.MoveTo(proj.Project(ring[0][0], ring[0][1]))
			for _, pt := range ring {
				p.LineTo(proj.Project(pt[0], pt[1]))
			}
			s.Stroke(p, opts.Stroke, opts.StrokeWidth)
			s.Fill(p, fill)

			shapes = append(shapes, Shape{
				Path:       p,
				BBox:       f.BBox,
				Properties: f.Properties,
				Value:      v,
				Color:      c,
				Feature:    i,
			})
		}
	}
	return shapes, proj.Scale
}

// Result is a fully drawn dataset.
type Result struct {
	Surface    *surface.Surface
	Shapes     []Shape
	Projection geom.Projection
}

// Draw fits ds into a viewW x viewH viewport oversampled by k, allocates the
// surface and draws every shape on it.
func Draw(ds *geom.Dataset, viewW, viewH, k float64, opts Options) (*Result, error) {
	if viewW <= 0 || viewH <= 0 || k <= 0 {
		return nil, fmt.Errorf("%w: %gx%g at %g", ErrEmptySurface, viewW, viewH, k)
	}
	proj := geom.Projection{BBox: ds.BBox, Scale: geom.FitScale(ds.BBox, viewW, viewH, k)}
	w, h := proj.Size()
	s, err := surface.New(w, h)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	shapes, _ := BuildShapes(ds, s, proj, opts)
	return &Result{Surface: s, Shapes: shapes, Projection: proj}, nil
}
