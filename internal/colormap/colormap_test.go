package colormap

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColor_Endpoints(t *testing.T) {
	start := GetColor(0, 0, 100)
	assert.Equal(t, Color{R: 0, G: 0, B: 255, A: 1}, start)
	assert.Equal(t, "rgba(0, 0, 255, 1)", start.String())

	end := GetColor(100, 0, 100)
	assert.InDelta(t, 255, end.R, 1e-9)
	assert.InDelta(t, 0, end.G, 1e-9)
	assert.InDelta(t, 0, end.B, 1e-9)
	assert.Equal(t, "rgba(255, 0, 0, 1)", end.String())
}

func TestGetColor_ContinuousAtBreakpoints(t *testing.T) {
	const eps = 1e-9
	for _, br := range []float64{lowBreak, highBreak} {
		below := GetColor(br-eps, 0, 1)
		at := GetColor(br, 0, 1)
		assert.InDelta(t, below.R, at.R, 1e-3, "red at %v", br)
		assert.InDelta(t, below.G, at.G, 1e-3, "green at %v", br)
		assert.InDelta(t, below.B, at.B, 1e-3, "blue at %v", br)
	}
}

func TestGetColor_Monotonic(t *testing.T) {
	prev := GetColor(0, 0, 1)
	for i := 1; i <= 100; i++ {
		r := float64(i) / 100
		c := GetColor(r, 0, 1)
		switch {
		case r < lowBreak:
			assert.GreaterOrEqual(t, c.G, prev.G)
			assert.LessOrEqual(t, c.B, prev.B)
			assert.Zero(t, c.R)
		case r < highBreak:
			assert.GreaterOrEqual(t, c.R, prev.R)
			assert.Equal(t, 255.0, c.G)
			assert.Zero(t, c.B)
		default:
			assert.Equal(t, 255.0, c.R)
			assert.LessOrEqual(t, c.G, prev.G)
			assert.Zero(t, c.B)
		}
		prev = c
	}
}

func TestGetColor_OutOfRangeExtrapolates(t *testing.T) {
	c := GetColor(200, 0, 100)
	assert.Less(t, c.G, 0.0, "green keeps falling past the end of the ramp")
	assert.Equal(t, uint8(0), c.NRGBA().G)

	low := GetColor(-50, 0, 100)
	assert.Less(t, low.G, 0.0)
	assert.Greater(t, low.B, 255.0)
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: 255, A: 255}, low.NRGBA())
}

func TestRedBlue(t *testing.T) {
	assert.Equal(t, Color{R: 0, G: 0, B: 255, A: 0.9}, RedBlue(0, 0, 25500))
	assert.Equal(t, Color{R: 255, G: 0, B: 0, A: 0.9}, RedBlue(99999, 0, 25500))
	assert.Equal(t, Color{R: 0, G: 0, B: 255, A: 0.9}, RedBlue(math.NaN(), 0, 25500))
	assert.Equal(t, "rgba(100, 0, 155, 0.9)", RedBlue(10000, 0, 25500).String())
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		r, err := Lookup(name)
		require.NoError(t, err, name)
		require.NotNil(t, r)
	}
	_, err := Lookup("viridis")
	assert.ErrorContains(t, err, "spectral, redblue")
}

func TestHexAndParse(t *testing.T) {
	assert.Equal(t, "#00ff00", Color{R: 0, G: 255, B: 0, A: 1}.Hex())
	assert.Equal(t, "#ff0000", Color{R: 300, G: -4, B: 0, A: 1}.Hex())

	c, err := ParseHex("#cccccc", 1)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 255}, c)

	_, err = ParseHex("grey", 1)
	assert.Error(t, err)
}
