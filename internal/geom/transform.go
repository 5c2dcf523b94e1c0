package geom

import "math"

// MaxScale is the oversampling factor applied on top of the fit-to-viewport
// scale. The surface is drawn MaxScale times larger than the viewport and then
// shown at 1/MaxScale, so zooming in stays sharp up to MaxScale/6.
const MaxScale = 12.0

// CalculateScale fits b into a width x height viewport with MaxScale oversampling.
func CalculateScale(b BBox, width, height float64) float64 {
	return FitScale(b, width, height, MaxScale)
}

// FitScale returns k times the largest scale at which b fits the viewport,
// i.e. the scale of the tighter axis.
func FitScale(b BBox, width, height, k float64) float64 {
	sx := width / b.Width()
	sy := height / b.Height()
	if sx < sy {
		return k * sx
	}
	return k * sy
}

// Projection maps geographic coordinates onto a drawing surface whose origin
// is the top-left corner of the bbox. Latitude grows upward, surface y grows
// downward, hence the inversion.
type Projection struct {
	BBox  BBox
	Scale float64
}

func (p Projection) Project(lon, lat float64) (x, y float64) {
	return (lon - p.BBox.MinX) * p.Scale, (p.BBox.MaxY - lat) * p.Scale
}

func (p Projection) Unproject(x, y float64) (lon, lat float64) {
	return p.BBox.MinX + x/p.Scale, p.BBox.MaxY - y/p.Scale
}

// Size is the pixel size of a surface holding the whole bbox.
func (p Projection) Size() (w, h int) {
	return pixels(p.BBox.Width() * p.Scale), pixels(p.BBox.Height() * p.Scale)
}

// pixels rounds up, ignoring float noise such as 1200.0000000002.
func pixels(v float64) int {
	return int(math.Ceil(v - 1e-6))
}
