package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	"sradmap/internal/inspect"
	"sradmap/internal/logging"
	"sradmap/internal/session"
	"sradmap/internal/view"
)

// Handler serves one session. net/http runs handlers concurrently, so every
// access to the session goes through mu.
type Handler struct {
	mu      sync.Mutex
	sess    *session.Session
	version string
	log     logging.Logger
}

func NewHandler(sess *session.Session, version string, log logging.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{sess: sess, version: version, log: log}
}

func (h *Handler) Register(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/surface.png", h.GetSurface, huma.OperationTags("map"))
	huma.Post(api, "/api/v1/pointer", h.PostPointer, huma.OperationTags("map"))
	huma.Get(api, "/api/v1/inspect", h.GetInspect, huma.OperationTags("map"))
}

// Types

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"Service version"`
	Ready   bool   `json:"ready" doc:"Whether a dataset is drawn"`
}

type InfoOutput struct {
	Body session.Summary
}

type SurfaceOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type PointerBody struct {
	Type   string  `json:"type" enum:"down,move,up,wheel" doc:"Pointer event type"`
	X      float64 `json:"x" doc:"Viewer x in pixels"`
	Y      float64 `json:"y" doc:"Viewer y in pixels"`
	DeltaY float64 `json:"deltaY,omitempty" doc:"Wheel delta, negative zooms in"`
}

type PointerResult struct {
	State     string        `json:"state" doc:"Pointer state after the event"`
	Transform string        `json:"transform" doc:"Presentation transform, origin 0 0"`
	Zoom      float64       `json:"zoom" doc:"Zoom scale"`
	PanX      float64       `json:"panX" doc:"Horizontal pan in pixels"`
	PanY      float64       `json:"panY" doc:"Vertical pan in pixels"`
	Clicked   bool          `json:"clicked" doc:"Whether the event was a click"`
	Hits      []int         `json:"hits,omitempty" doc:"Shape indices under the click in drawing order"`
	Info      *inspect.Info `json:"info,omitempty" doc:"Panel data of the last hit"`
	Panel     string        `json:"panel" doc:"Current info panel text"`
}

type InspectInput struct {
	X float64 `query:"x" required:"true" doc:"Surface x in pixels"`
	Y float64 `query:"y" required:"true" doc:"Surface y in pixels"`
}

type InspectBody struct {
	Matches []inspect.Info `json:"matches" doc:"Shapes containing the point, last one wins"`
}

// Handlers

func (h *Handler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	h.mu.Lock()
	ready := h.sess != nil && h.sess.Built()
	h.mu.Unlock()
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: h.version, Ready: ready}}, nil
}

// locked runs fn with the session, or fails with 503 when none is drawn.
func (h *Handler) locked(fn func(s *session.Session) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sess == nil || !h.sess.Built() {
		return huma.Error503ServiceUnavailable("no dataset loaded")
	}
	return fn(h.sess)
}

func (h *Handler) GetInfo(ctx context.Context, input *struct{}) (*InfoOutput, error) {
	out := &InfoOutput{}
	err := h.locked(func(s *session.Session) error {
		out.Body = s.Summary()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *Handler) GetSurface(ctx context.Context, input *struct{}) (*SurfaceOutput, error) {
	var buf bytes.Buffer
	err := h.locked(func(s *session.Session) error {
		return png.Encode(&buf, s.Surface().Image())
	})
	if err != nil {
		var se huma.StatusError
		if errors.As(err, &se) {
			return nil, err
		}
		h.log.Error("png encode failed", logging.Err(err))
		return nil, huma.Error500InternalServerError("encode surface", err)
	}
	return &SurfaceOutput{ContentType: "image/png", Body: buf.Bytes()}, nil
}

func eventKind(t string) (view.EventKind, error) {
	switch t {
	case "down":
		return view.Down, nil
	case "move":
		return view.Move, nil
	case "up":
		return view.Up, nil
	}
	return 0, fmt.Errorf("unknown pointer event %q", t)
}

func (h *Handler) PostPointer(ctx context.Context, input *struct{ Body PointerBody }) (*struct{ Body PointerResult }, error) {
	in := input.Body
	out := &struct{ Body PointerResult }{}
	err := h.locked(func(s *session.Session) error {
		if in.Type == "wheel" {
			s.Wheel(in.DeltaY, in.X, in.Y)
		} else {
			k, err := eventKind(in.Type)
			if err != nil {
				return huma.Error400BadRequest(err.Error())
			}
			p, err := s.Pointer(k, in.X, in.Y)
			if err != nil {
				return huma.Error503ServiceUnavailable(err.Error())
			}
			if p.Click != nil {
				out.Body.Clicked = true
				out.Body.Hits = p.Click.Hits
				out.Body.Info = p.Click.Info
			}
		}
		vs := s.Controller().View()
		out.Body.State = vs.State.String()
		out.Body.Transform = s.Controller().Transform()
		out.Body.Zoom = vs.ZoomScale
		out.Body.PanX = vs.PanX
		out.Body.PanY = vs.PanY
		out.Body.Panel = s.Panel()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *Handler) GetInspect(ctx context.Context, input *InspectInput) (*struct{ Body InspectBody }, error) {
	out := &struct{ Body InspectBody }{}
	err := h.locked(func(s *session.Session) error {
		out.Body.Matches = s.Inspect(input.X, input.Y)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Body.Matches == nil {
		out.Body.Matches = []inspect.Info{}
	}
	return out, nil
}
