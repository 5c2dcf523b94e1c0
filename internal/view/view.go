package view

import (
	"math"
	"strconv"
)

// DefaultZoomFactor is the per-notch wheel zoom step.
const DefaultZoomFactor = 1.1

// Point is a position in viewer (screen) coordinates.
type Point struct {
	X, Y float64
}

// ViewState is the page-lifetime presentation state.
type ViewState struct {
	ZoomScale float64
	PanX      float64
	PanY      float64
	State     State
	// Anchor is the pointer position minus the pan offset at press time.
	Anchor Point
	// Press is where the pointer went down.
	Press Point
}

// Controller turns pointer and wheel events into presentation changes. The
// drawn surface is never touched; only zoom and pan move.
type Controller struct {
	vs         ViewState
	maxScale   float64
	zoomFactor float64
}

// NewController starts fully zoomed out at 1/maxScale, the level at which an
// oversampled surface fits the viewport.
func NewController(maxScale, zoomFactor float64) *Controller {
	if maxScale <= 0 {
		maxScale = 12
	}
	if zoomFactor <= 1 {
		zoomFactor = DefaultZoomFactor
	}
	return &Controller{
		vs:         ViewState{ZoomScale: 1 / maxScale},
		maxScale:   maxScale,
		zoomFactor: zoomFactor,
	}
}

// View returns a copy of the current state.
func (c *Controller) View() ViewState { return c.vs }

func (c *Controller) MinZoom() float64 { return 1 / c.maxScale }
func (c *Controller) MaxZoom() float64 { return c.maxScale / 6 }

// Outcome reports what an event did.
type Outcome struct {
	// Click is set on a release that should be hit-tested.
	Click bool
	// Moved is set when the pan offset changed.
	Moved bool
}

// Handle feeds one pointer event at (x, y) through the state machine.
func (c *Controller) Handle(k EventKind, x, y float64) Outcome {
	displaced := x != c.vs.Press.X || y != c.vs.Press.Y
	next, click := Next(c.vs.State, k, displaced)
	var out Outcome
	switch k {
	case Down:
		c.vs.Press = Point{X: x, Y: y}
		c.vs.Anchor = Point{X: x - c.vs.PanX, Y: y - c.vs.PanY}
	case Move:
		if next == Panning {
			c.vs.PanX = x - c.vs.Anchor.X
			c.vs.PanY = y - c.vs.Anchor.Y
			out.Moved = true
		}
	case Up:
		out.Click = click
	}
	c.vs.State = next
	return out
}

func (c *Controller) MouseDown(x, y float64) { c.Handle(Down, x, y) }

func (c *Controller) MouseMove(x, y float64) bool { return c.Handle(Move, x, y).Moved }

func (c *Controller) MouseUp(x, y float64) (click bool) { return c.Handle(Up, x, y).Click }

// Wheel zooms around (x, y): negative deltaY zooms in, positive zooms out.
// The surface point under the cursor stays put. It returns false when the
// zoom is already at its limit.
func (c *Controller) Wheel(deltaY, x, y float64) bool {
	if deltaY == 0 {
		return false
	}
	sx, sy := c.ToSurface(x, y)
	z := c.vs.ZoomScale
	if deltaY < 0 {
		if z >= c.MaxZoom() {
			return false
		}
		z = math.Min(z*c.zoomFactor, c.MaxZoom())
	} else {
		if z <= c.MinZoom() {
			return false
		}
		z = math.Max(z/c.zoomFactor, c.MinZoom())
	}
	c.vs.ZoomScale = z
	c.vs.PanX = x - sx*z
	c.vs.PanY = y - sy*z
	return true
}

// PanBy shifts the presentation by (dx, dy) screen units.
func (c *Controller) PanBy(dx, dy float64) {
	c.vs.PanX += dx
	c.vs.PanY += dy
}

// ToSurface maps a screen position onto the untransformed surface.
func (c *Controller) ToSurface(x, y float64) (sx, sy float64) {
	return (x - c.vs.PanX) / c.vs.ZoomScale, (y - c.vs.PanY) / c.vs.ZoomScale
}

// ToScreen maps a surface position onto the screen.
func (c *Controller) ToScreen(sx, sy float64) (x, y float64) {
	return sx*c.vs.ZoomScale + c.vs.PanX, sy*c.vs.ZoomScale + c.vs.PanY
}

// Transform renders the presentation as a CSS transform (origin 0 0).
func (c *Controller) Transform() string {
	return "translate(" + cssNumber(c.vs.PanX) + "px, " + cssNumber(c.vs.PanY) + "px) scale(" + cssNumber(c.vs.ZoomScale) + ")"
}

// cssNumber formats v without an exponent, which CSS lengths do not accept.
func cssNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
