// Package session ties a loaded dataset, its drawn surface, the presentation
// controller and the inspector together. Every front end drives one.
package session

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"sradmap/internal/colormap"
	"sradmap/internal/geom"
	"sradmap/internal/inspect"
	"sradmap/internal/logging"
	"sradmap/internal/metrics"
	"sradmap/internal/render"
	"sradmap/internal/surface"
	"sradmap/internal/view"
)

// ErrNotBuilt is returned by operations that need a drawn surface.
var ErrNotBuilt = errors.New("session: surface not built")

type Options struct {
	// MaxScale is the oversampling factor K.
	MaxScale   float64
	ZoomFactor float64
	Render     render.Options
	Highlight  color.Color
	Logger     logging.Logger
	Metrics    *metrics.Metrics
}

func (o *Options) defaults() {
	if o.MaxScale <= 0 {
		o.MaxScale = geom.MaxScale
	}
	if o.ZoomFactor <= 1 {
		o.ZoomFactor = view.DefaultZoomFactor
	}
	switch {
	case o.Render.MaxValue <= o.Render.MinValue:
		o.Render = render.DefaultOptions()
	case o.Render.Ramp == nil:
		o.Render.Ramp = colormap.GetColor
	}
	if o.Render.Mode == "" {
		o.Render.Mode = render.Average
	}
	if o.Render.Mode == render.Average && len(o.Render.Fields) == 0 {
		o.Render.Fields = render.MonthlyFields
	}
	if o.Highlight == nil {
		o.Highlight = inspect.HighlightColor
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
}

type Session struct {
	opts   Options
	log    logging.Logger
	source string

	ds   *geom.Dataset
	res  *render.Result
	ctrl *view.Controller
	insp *inspect.Inspector
}

// Load reads src, a path or an http(s) URL, and logs how long it took.
func Load(ctx context.Context, src string, log logging.Logger, m *metrics.Metrics) (*geom.Dataset, error) {
	if log == nil {
		log = logging.Nop()
	}
	start := time.Now()
	ds, err := geom.Load(ctx, src)
	if err != nil {
		log.Error("dataset load failed", logging.String("source", src), logging.Err(err))
		return nil, err
	}
	took := time.Since(start)
	if m != nil {
		m.LoadSeconds.Observe(took.Seconds())
	}
	log.Info("dataset fetched",
		logging.String("source", src),
		logging.Duration("took", took),
		logging.Int("features", len(ds.Features)),
		logging.Int("skipped", ds.Skipped),
		logging.Any("bbox", ds.BBox.Array()),
	)
	return ds, nil
}

// New wraps a decoded dataset. Nothing is drawn until Build.
func New(source string, ds *geom.Dataset, opts Options) *Session {
	opts.defaults()
	return &Session{
		opts:   opts,
		log:    opts.Logger.Named("session"),
		source: source,
		ds:     ds,
		ctrl:   view.NewController(opts.MaxScale, opts.ZoomFactor),
	}
}

// Open loads src and builds it for a viewW x viewH viewport.
func Open(ctx context.Context, src string, viewW, viewH float64, opts Options) (*Session, error) {
	ds, err := Load(ctx, src, opts.Logger, opts.Metrics)
	if err != nil {
		return nil, err
	}
	s := New(src, ds, opts)
	if err := s.Build(viewW, viewH); err != nil {
		return nil, err
	}
	return s, nil
}

// Build draws every shape for a viewW x viewH viewport and resets the
// presentation. Earlier highlights are lost with the old surface.
func (s *Session) Build(viewW, viewH float64) error {
	start := time.Now()
	res, err := render.Draw(s.ds, viewW, viewH, s.opts.MaxScale, s.opts.Render)
	if err != nil {
		return fmt.Errorf("session: build: %w", err)
	}
	took := time.Since(start)

	s.res = res
	s.ctrl = view.NewController(s.opts.MaxScale, s.opts.ZoomFactor)
	s.insp = inspect.NewInspector(res.Shapes, res.Surface, s.opts.Highlight, s.opts.Render.Stroke, s.opts.Render.StrokeWidth)

	if m := s.opts.Metrics; m != nil {
		m.BuildSeconds.Observe(took.Seconds())
		m.Shapes.Set(float64(len(res.Shapes)))
	}
	s.log.Info("shapes built",
		logging.Duration("took", took),
		logging.Int("shapes", len(res.Shapes)),
		logging.Float64("scale", res.Projection.Scale),
		logging.Int("width", res.Surface.Width()),
		logging.Int("height", res.Surface.Height()),
	)
	return nil
}

func (s *Session) Controller() *view.Controller { return s.ctrl }
func (s *Session) Built() bool                  { return s.res != nil }

// Result is the drawn state, nil before Build.
func (s *Session) Result() *render.Result { return s.res }

// Surface is the drawn raster, nil before Build.
func (s *Session) Surface() *surface.Surface {
	if s.res == nil {
		return nil
	}
	return s.res.Surface
}

// Pointer is the outcome of one pointer event.
type Pointer struct {
	view.Outcome
	State view.State
	// Click holds the hit test of a release that was a click.
	Click *inspect.Result
}

// Pointer feeds a screen-space pointer event to the controller and hit-tests
// clicks at the surface position under the pointer.
func (s *Session) Pointer(k view.EventKind, x, y float64) (Pointer, error) {
	if s.res == nil {
		return Pointer{}, ErrNotBuilt
	}
	out := s.ctrl.Handle(k, x, y)
	p := Pointer{Outcome: out, State: s.ctrl.View().State}
	if out.Click {
		sx, sy := s.ctrl.ToSurface(x, y)
		res := s.Click(sx, sy)
		p.Click = &res
	}
	return p, nil
}

// Wheel zooms around the screen position (x, y).
func (s *Session) Wheel(deltaY, x, y float64) bool {
	return s.ctrl.Wheel(deltaY, x, y)
}

// Click hit-tests surface position (sx, sy), highlighting every hit.
func (s *Session) Click(sx, sy float64) inspect.Result {
	if s.insp == nil {
		return inspect.Result{X: sx, Y: sy}
	}
	start := time.Now()
	res := s.insp.Click(sx, sy)
	took := time.Since(start)
	if m := s.opts.Metrics; m != nil {
		m.HitTestSeconds.Observe(took.Seconds())
		m.Clicks.Inc()
		m.Hits.Add(float64(len(res.Hits)))
	}
	s.log.Debug("click response",
		logging.Duration("took", took),
		logging.Float64("x", sx),
		logging.Float64("y", sy),
		logging.Int("matches", len(res.Hits)),
	)
	return res
}

// Inspect describes every shape at surface position (sx, sy) without
// painting or touching the panel.
func (s *Session) Inspect(sx, sy float64) []inspect.Info {
	if s.res == nil {
		return nil
	}
	hits := inspect.HitTest(s.res.Shapes, sx, sy)
	out := make([]inspect.Info, len(hits))
	for i, h := range hits {
		out[i] = inspect.Describe(&s.res.Shapes[h])
	}
	return out
}

// Panel is the info text of the last hit.
func (s *Session) Panel() string {
	if s.insp == nil {
		return ""
	}
	return s.insp.Panel()
}

// Selected is the last hit shape, nil if none.
func (s *Session) Selected() *render.Shape {
	if s.insp == nil || s.insp.Selected() < 0 {
		return nil
	}
	return s.insp.Shape(s.insp.Selected())
}

// LonLat converts a screen position to dataset coordinates.
func (s *Session) LonLat(x, y float64) (lon, lat float64, ok bool) {
	if s.res == nil {
		return 0, 0, false
	}
	sx, sy := s.ctrl.ToSurface(x, y)
	lon, lat = s.res.Projection.Unproject(sx, sy)
	return lon, lat, true
}

// Summary describes the session.
type Summary struct {
	Source    string     `json:"source"`
	BBox      [4]float64 `json:"bbox"`
	Features  int        `json:"features"`
	Skipped   int        `json:"skipped"`
	Shapes    int        `json:"shapes"`
	Scale     float64    `json:"scale"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Zoom      float64    `json:"zoom"`
	Transform string     `json:"transform"`
	State     string     `json:"state"`
}

func (s *Session) Summary() Summary {
	sum := Summary{
		Source:    s.source,
		Zoom:      s.ctrl.View().ZoomScale,
		Transform: s.ctrl.Transform(),
		State:     s.ctrl.View().State.String(),
	}
	if s.ds != nil {
		sum.BBox = s.ds.BBox.Array()
		sum.Features = len(s.ds.Features)
		sum.Skipped = s.ds.Skipped
	}
	if s.res != nil {
		sum.Shapes = len(s.res.Shapes)
		sum.Scale = s.res.Projection.Scale
		sum.Width = s.res.Surface.Width()
		sum.Height = s.res.Surface.Height()
	}
	return sum
}
