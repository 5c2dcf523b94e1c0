// Package surface is a fixed-resolution raster drawing surface with
// canvas-like paths: fill, stroke and point-in-path tests.
package surface

import (
	"image"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Path is a silhouette made of straight segments in surface coordinates.
// MoveTo starts a new subpath; every subpath is implicitly closed.
type Path struct {
	subpaths []orb.Ring
	bound    orb.Bound
	empty    bool
}

func NewPath() *Path {
	return &Path{empty: true}
}

func (p *Path) MoveTo(x, y float64) {
	p.subpaths = append(p.subpaths, orb.Ring{{x, y}})
	p.extend(x, y)
}

// LineTo appends a segment to the current subpath. Without a current subpath
// it behaves like MoveTo. Repeating the current point is a no-op.
func (p *Path) LineTo(x, y float64) {
	if len(p.subpaths) == 0 {
		p.MoveTo(x, y)
		return
	}
	cur := &p.subpaths[len(p.subpaths)-1]
	if last := (*cur)[len(*cur)-1]; last[0] == x && last[1] == y {
		return
	}
	*cur = append(*cur, orb.Point{x, y})
	p.extend(x, y)
}

func (p *Path) extend(x, y float64) {
	pt := orb.Point{x, y}
	if p.empty {
		p.bound = orb.Bound{Min: pt, Max: pt}
		p.empty = false
		return
	}
	p.bound = p.bound.Extend(pt)
}

// Subpaths exposes the recorded rings; callers must not modify them.
func (p *Path) Subpaths() []orb.Ring { return p.subpaths }

// Bound is the extent of the path, zero for an empty path.
func (p *Path) Bound() orb.Bound { return p.bound }

// Contains reports whether (x, y) lies inside any subpath. Points on an edge
// count as inside.
func (p *Path) Contains(x, y float64) bool {
	pt := orb.Point{x, y}
	if p.empty || !p.bound.Contains(pt) {
		return false
	}
	for _, r := range p.subpaths {
		if len(r) < 3 {
			continue
		}
		if planar.RingContains(r, pt) {
			return true
		}
	}
	return false
}

// pixelBounds is the integer rectangle covering the path grown by pad pixels.
func (p *Path) pixelBounds(pad float64) image.Rectangle {
	if p.empty {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math.Floor(p.bound.Min[0]-pad)),
		int(math.Floor(p.bound.Min[1]-pad)),
		int(math.Ceil(p.bound.Max[0]+pad)),
		int(math.Ceil(p.bound.Max[1]+pad)),
	)
}
