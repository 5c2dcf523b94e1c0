package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// ErrEmpty is returned for a surface without pixels.
var ErrEmpty = errors.New("surface: empty size")

// maxPixels bounds the allocation; a 12x oversampled full-screen viewport
// easily exceeds what a terminal or window needs.
const maxPixels = 1 << 28

// Surface is an RGBA raster. Shapes are drawn once and the result is shown
// through a presentation transform; only highlights repaint it later.
type Surface struct {
	img      *image.RGBA
	revision uint64
}

// New allocates a transparent w x h surface.
func New(w, h int) (*Surface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmpty, w, h)
	}
	if int64(w)*int64(h) > maxPixels {
		return nil, fmt.Errorf("surface: %dx%d exceeds %d pixels, lower the scale", w, h, maxPixels)
	}
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Image returns the backing raster. It is shared, not copied.
func (s *Surface) Image() *image.RGBA { return s.img }

// Revision increases on every paint so viewers know when to re-upload.
func (s *Surface) Revision() uint64 { return s.revision }

// Sample returns the pixel nearest to (x, y); ok is false outside the surface.
func (s *Surface) Sample(x, y float64) (c color.RGBA, ok bool) {
	px, py := int(math.Floor(x)), int(math.Floor(y))
	if !(image.Point{X: px, Y: py}).In(s.img.Rect) {
		return color.RGBA{}, false
	}
	return s.img.RGBAAt(px, py), true
}

// Fill paints the inside of p with c using the non-zero winding rule.
func (s *Surface) Fill(p *Path, c color.Color) {
	pb := p.pixelBounds(0)
	s.paint(pb, c, func(z *vector.Rasterizer, off [2]float32) {
		for _, r := range p.Subpaths() {
			if len(r) < 3 {
				continue
			}
			z.MoveTo(float32(r[0][0])-off[0], float32(r[0][1])-off[1])
			for _, pt := range r[1:] {
				z.LineTo(float32(pt[0])-off[0], float32(pt[1])-off[1])
			}
			z.ClosePath()
		}
	})
}

// Stroke paints the outline of p, closing segment included, width pixels wide.
func (s *Surface) Stroke(p *Path, c color.Color, width float64) {
	if width <= 0 {
		return
	}
	half := width / 2
	pb := p.pixelBounds(half + 1)
	s.paint(pb, c, func(z *vector.Rasterizer, off [2]float32) {
		for _, r := range p.Subpaths() {
			n := len(r)
			if n < 2 {
				continue
			}
			for i := 0; i < n; i++ {
				a, b := r[i], r[(i+1)%n]
				dx, dy := b[0]-a[0], b[1]-a[1]
				l := math.Hypot(dx, dy)
				if l == 0 {
					continue
				}
				nx, ny := -dy/l*half, dx/l*half
				quad := [4][2]float64{
					{a[0] + nx, a[1] + ny},
					{b[0] + nx, b[1] + ny},
					{b[0] - nx, b[1] - ny},
					{a[0] - nx, a[1] - ny},
				}
				z.MoveTo(float32(quad[0][0])-off[0], float32(quad[0][1])-off[1])
				for _, q := range quad[1:] {
					z.LineTo(float32(q[0])-off[0], float32(q[1])-off[1])
				}
				z.ClosePath()
			}
		}
	})
}

// paint rasterises a coverage mask over pb and composites c through it.
func (s *Surface) paint(pb image.Rectangle, c color.Color, build func(z *vector.Rasterizer, off [2]float32)) {
	clip := pb.Intersect(s.img.Rect)
	if clip.Empty() {
		return
	}
	z := vector.NewRasterizer(pb.Dx(), pb.Dy())
	build(z, [2]float32{float32(pb.Min.X), float32(pb.Min.Y)})

	mask := image.NewAlpha(pb)
	z.DrawOp = draw.Src
	z.Draw(mask, pb, image.Opaque, image.Point{})

	draw.DrawMask(s.img, clip, image.NewUniform(c), image.Point{}, mask, clip.Min, draw.Over)
	s.revision++
}
