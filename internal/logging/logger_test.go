package logging

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sradmap.log")
	l, err := New(Config{Level: "debug", Format: "console", OutputPaths: []string{path}})
	require.NoError(t, err)
	l.Info("loaded", Int("features", 3))
	require.NoError(t, l.Sync())
	assert.FileExists(t, path)
}

func TestNew_BadSink(t *testing.T) {
	_, err := New(Config{OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "dir", "x.log")}})
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromCore(core).Named("session").With(String("source", "hex.json"))

	l.Debug("built",
		Int("shapes", 4),
		Float64("scale", 120),
		Any("highlight", true),
		Duration("took", 2*time.Millisecond),
		Err(errors.New("boom")),
		Any("bbox", [4]float64{0, 0, 1, 1}),
	)

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "session", e.LoggerName)
	assert.Equal(t, "built", e.Message)
	m := e.ContextMap()
	assert.Equal(t, "hex.json", m["source"])
	assert.Equal(t, int64(4), m["shapes"])
	assert.Equal(t, 120.0, m["scale"])
	assert.Equal(t, true, m["highlight"])
	assert.Equal(t, 2*time.Millisecond, m["took"])
	assert.Equal(t, "boom", m["error"])
}

func TestDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(FromCore(core))
	SetDefault(nil)
	Default().Info("hello")
	Default().Debug("filtered")
	assert.Equal(t, 1, logs.Len())
}

func TestNop(t *testing.T) {
	l := Nop().With(String("a", "b")).Named("x")
	l.Debug("m")
	l.Info("m")
	l.Warn("m")
	l.Error("m")
	assert.NoError(t, l.Sync())
}
