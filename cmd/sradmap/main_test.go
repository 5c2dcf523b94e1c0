package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleDoc = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[5,5],[0,0]]]},
      "properties": {"_median": 12000}
    }
  ]
}`

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestConfigCmd(t *testing.T) {
	out := run(t, "config", "--source", "flag.geo.json")
	assert.Contains(t, out, "source: flag.geo.json")
	assert.Contains(t, out, "max_scale: 12")
}

func TestOpenAPICmd(t *testing.T) {
	out := run(t, "openapi")
	assert.Contains(t, out, "/api/v1/pointer")
	assert.Contains(t, out, "/api/v1/surface.png")
}

func TestRenderCmd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tri.geo.json")
	require.NoError(t, os.WriteFile(src, []byte(triangleDoc), 0o644))
	out := filepath.Join(dir, "map.png")

	run(t, "render", "--source", src, "--out", out, "--width", "100", "--height", "100", "--log-level", "error")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}
