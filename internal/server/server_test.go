package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sradmap/internal/geom"
	"sradmap/internal/metrics"
	"sradmap/internal/session"
)

func square(x0, y0, x1, y1 float64) orb.Ring {
	return orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

// newSession draws two squares into a 600x600 surface shown at zoom 1/6.
func newSession(t *testing.T) *session.Session {
	t.Helper()
	ds := &geom.Dataset{
		BBox: geom.BBox{MaxX: 10, MaxY: 10},
		Features: []geom.Feature{
			{
				BBox:       geom.BBox{MinX: 1, MinY: 1, MaxX: 4, MaxY: 4},
				Rings:      []orb.Ring{square(1, 1, 4, 4)},
				Properties: geojson.Properties{"_median": 20000.0},
			},
			{
				BBox:       geom.BBox{MinX: 6, MinY: 6, MaxX: 9, MaxY: 9},
				Rings:      []orb.Ring{square(6, 6, 9, 9)},
				Properties: geojson.Properties{"_median": 5000.0},
			},
		},
	}
	s := session.New("mem", ds, session.Options{MaxScale: 6})
	require.NoError(t, s.Build(100, 100))
	return s
}

func newAPI(t *testing.T, s *session.Session) humatest.TestAPI {
	_, api := humatest.New(t)
	NewHandler(s, "test", nil).Register(api)
	return api
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newAPI(t, nil)
	resp := api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[HealthBody](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.Ready)
}

func TestNoSession(t *testing.T) {
	api := newAPI(t, nil)
	assert.Equal(t, http.StatusServiceUnavailable, api.Get("/api/v1/info").Code)
	assert.Equal(t, http.StatusServiceUnavailable, api.Get("/api/v1/surface.png").Code)
	assert.Equal(t, http.StatusServiceUnavailable, api.Post("/api/v1/pointer", map[string]any{"type": "down", "x": 0, "y": 0}).Code)
}

func TestInfo(t *testing.T) {
	api := newAPI(t, newSession(t))
	resp := api.Get("/api/v1/info")
	require.Equal(t, http.StatusOK, resp.Code)
	sum := decode[session.Summary](t, resp)
	assert.Equal(t, 2, sum.Shapes)
	assert.Equal(t, 60.0, sum.Scale)
	assert.Equal(t, [4]float64{0, 0, 10, 10}, sum.BBox)
	assert.Equal(t, "idle", sum.State)
}

func TestSurfacePNG(t *testing.T) {
	api := newAPI(t, newSession(t))
	resp := api.Get("/api/v1/surface.png")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
}

func TestPointer_ClickReturnsInfo(t *testing.T) {
	api := newAPI(t, newSession(t))

	resp := api.Post("/api/v1/pointer", map[string]any{"type": "down", "x": 25, "y": 75})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "mousedown", decode[PointerResult](t, resp).State)

	resp = api.Post("/api/v1/pointer", map[string]any{"type": "up", "x": 25, "y": 75})
	require.Equal(t, http.StatusOK, resp.Code)
	res := decode[PointerResult](t, resp)
	assert.True(t, res.Clicked)
	assert.Equal(t, []int{0}, res.Hits)
	require.NotNil(t, res.Info)
	assert.Equal(t, 2.5, res.Info.Lon)
	assert.Equal(t, 20000.0, res.Info.Months[0].Value)
	assert.Contains(t, res.Panel, "Longitude: 2.50, Latitude: 2.50")
	assert.Equal(t, "idle", res.State)
}

func TestPointer_DragAndWheel(t *testing.T) {
	api := newAPI(t, newSession(t))

	api.Post("/api/v1/pointer", map[string]any{"type": "down", "x": 10, "y": 10})
	resp := api.Post("/api/v1/pointer", map[string]any{"type": "move", "x": 30, "y": 10})
	assert.Equal(t, "panning", decode[PointerResult](t, resp).State)
	resp = api.Post("/api/v1/pointer", map[string]any{"type": "up", "x": 30, "y": 10})
	res := decode[PointerResult](t, resp)
	assert.False(t, res.Clicked)
	assert.Equal(t, 20.0, res.PanX)
	assert.Empty(t, res.Panel)

	resp = api.Post("/api/v1/pointer", map[string]any{"type": "wheel", "x": 50, "y": 50, "deltaY": -100})
	res = decode[PointerResult](t, resp)
	assert.InDelta(t, 1.1/6, res.Zoom, 1e-12)
}

func TestPointer_BadType(t *testing.T) {
	api := newAPI(t, newSession(t))
	resp := api.Post("/api/v1/pointer", map[string]any{"type": "tap", "x": 1, "y": 1})
	assert.GreaterOrEqual(t, resp.Code, 400)
	assert.Less(t, resp.Code, 500)
}

func TestInspect(t *testing.T) {
	api := newAPI(t, newSession(t))

	resp := api.Get("/api/v1/inspect?x=450&y=150")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[InspectBody](t, resp)
	require.Len(t, body.Matches, 1)
	assert.Equal(t, 7.5, body.Matches[0].Lon)

	resp = api.Get("/api/v1/inspect?x=300&y=300")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decode[InspectBody](t, resp).Matches)
}

func TestServer_Metrics(t *testing.T) {
	m := metrics.New(false)
	srv := New(Config{Addr: "127.0.0.1:0", Version: "test"}, newSession(t), m, nil)

	for _, body := range []string{`{"type":"down","x":25,"y":75}`, `{"type":"up","x":25,"y":75}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/pointer", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sradmap_shapes")
}
