package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersInstruments(t *testing.T) {
	m := New(false)
	m.Clicks.Inc()
	m.Hits.Add(2)
	m.Shapes.Set(7)
	m.LoadSeconds.Observe(0.2)
	m.BuildSeconds.Observe(0.3)
	m.HitTestSeconds.Observe(0.001)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Clicks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Hits))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.Shapes))

	n, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestNew_Independent(t *testing.T) {
	a, b := New(false), New(false)
	a.Clicks.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Clicks))
}

func TestHandler(t *testing.T) {
	m := New(true)
	m.Shapes.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "sradmap_shapes 3")
	assert.Contains(t, body, "sradmap_load_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}
