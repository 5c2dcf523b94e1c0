package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BBox is [MinX, MinY, MaxX, MaxY] in geographic units (lon/lat).
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// BBoxFromBound converts an orb bound.
func BBoxFromBound(b orb.Bound) BBox {
	return BBox{MinX: b.Min[0], MinY: b.Min[1], MaxX: b.Max[0], MaxY: b.Max[1]}
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Valid reports whether the box has a positive, finite extent on both axes.
func (b BBox) Valid() bool {
	w, h := b.Width(), b.Height()
	return w > 0 && h > 0 && !math.IsInf(w, 0) && !math.IsInf(h, 0)
}

// Center returns the midpoint of the box.
func (b BBox) Center() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Union grows b to also cover o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// Array returns the box in GeoJSON member order.
func (b BBox) Array() [4]float64 {
	return [4]float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
}

// Feature is one polygon record. Rings holds every ring of the geometry in
// document order; for a MultiPolygon the polygons are flattened.
type Feature struct {
	BBox       BBox
	Rings      []orb.Ring
	Properties geojson.Properties
}

// Dataset is a decoded feature collection ready for drawing.
type Dataset struct {
	BBox     BBox
	Features []Feature
	// Skipped counts features whose geometry is not a (multi)polygon.
	Skipped int
}

// RingCount is the number of shapes the dataset will produce.
func (d *Dataset) RingCount() int {
	n := 0
	for _, f := range d.Features {
		n += len(f.Rings)
	}
	return n
}
