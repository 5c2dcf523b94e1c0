// Package inspect finds the shapes under a point and describes them.
package inspect

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"sradmap/internal/render"
	"sradmap/internal/surface"
)

// HighlightColor is the neutral fill of an inspected shape.
var HighlightColor = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

// HitTest returns the indices of every shape containing (x, y), in drawing
// order. The scan never stops early.
func HitTest(shapes []render.Shape, x, y float64) []int {
	var hits []int
	for i := range shapes {
		if shapes[i].Path.Contains(x, y) {
			hits = append(hits, i)
		}
	}
	return hits
}

// MonthValue is one labelled monthly property.
type MonthValue struct {
	Month string  `json:"month"`
	Field string  `json:"field"`
	Value float64 `json:"value"`
	Known bool    `json:"known"`
}

// Info is what the panel shows for one shape.
type Info struct {
	Lon    float64      `json:"lon"`
	Lat    float64      `json:"lat"`
	Value  float64      `json:"value"`
	Months []MonthValue `json:"months"`
}

// Describe extracts the panel data of a shape: the centre of its bbox and
// the monthly values.
func Describe(s *render.Shape) Info {
	lon, lat := s.BBox.Center()
	info := Info{Lon: lon, Lat: lat, Value: s.Value, Months: make([]MonthValue, len(render.MonthlyFields))}
	for i, f := range render.MonthlyFields {
		v, ok := render.Scalar(s.Properties[f])
		info.Months[i] = MonthValue{Month: render.MonthNames[i], Field: f, Value: v, Known: ok}
	}
	return info
}

// Text formats info for the panel.
func (info Info) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Longitude: %.2f, Latitude: %.2f\n", info.Lon, info.Lat)
	b.WriteString("Monthly Solar Radiation:\n")
	parts := make([]string, len(info.Months))
	for i, m := range info.Months {
		parts[i] = m.Month + ": " + m.Display()
	}
	b.WriteString(strings.Join(parts, ", "))
	return b.String()
}

// Display renders the value, or "-" when the property is missing.
func (m MonthValue) Display() string {
	if !m.Known {
		return "-"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// Result is the outcome of one click.
type Result struct {
	X, Y float64
	// Hits are shape indices in scan order.
	Hits []int
	// Info describes the last hit; nil without hits.
	Info *Info
}

// Inspector hit-tests clicks and repaints hits on the surface. It owns the
// panel text, which only changes when something is hit.
type Inspector struct {
	shapes      []render.Shape
	surface     *surface.Surface
	highlight   color.Color
	stroke      color.Color
	strokeWidth float64

	panel string
	last  int
}

// NewInspector works on shapes drawn on s. A nil highlight uses HighlightColor.
func NewInspector(shapes []render.Shape, s *surface.Surface, highlight color.Color, stroke color.Color, strokeWidth float64) *Inspector {
	if highlight == nil {
		highlight = HighlightColor
	}
	return &Inspector{
		shapes:      shapes,
		surface:     s,
		highlight:   highlight,
		stroke:      stroke,
		strokeWidth: strokeWidth,
		last:        -1,
	}
}

// Click scans every shape at surface position (x, y). Each hit is filled with
// the highlight, outlined again and written to the panel, so with
// overlapping shapes the last one in drawing order stays visible.
func (in *Inspector) Click(x, y float64) Result {
	res := Result{X: x, Y: y, Hits: HitTest(in.shapes, x, y)}
	for _, i := range res.Hits {
		s := &in.shapes[i]
		if in.surface != nil {
			in.surface.Fill(s.Path, in.highlight)
			if in.stroke != nil {
				in.surface.Stroke(s.Path, in.stroke, in.strokeWidth)
			}
		}
		info := Describe(s)
		res.Info = &info
		in.panel = info.Text()
		in.last = i
	}
	return res
}

// Panel is the current info text, empty until the first hit.
func (in *Inspector) Panel() string { return in.panel }

// Selected is the index of the last shape written to the panel, -1 if none.
func (in *Inspector) Selected() int { return in.last }

// Shape returns shape i.
func (in *Inspector) Shape(i int) *render.Shape { return &in.shapes[i] }
