package surface

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New(64, 48)
	require.NoError(t, err)
	assert.Equal(t, 64, s.Width())
	assert.Equal(t, 48, s.Height())
	assert.Zero(t, s.Revision())

	_, err = New(0, 10)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = New(1<<15, 1<<15)
	assert.Error(t, err)
}

func TestFill(t *testing.T) {
	s, err := New(64, 64)
	require.NoError(t, err)

	red := color.NRGBA{R: 255, A: 255}
	s.Fill(triangle(), red)
	assert.Equal(t, uint64(1), s.Revision())

	in, ok := s.Sample(30, 20)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, in)

	out, ok := s.Sample(60, 60)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{}, out)

	_, ok = s.Sample(-1, 3)
	assert.False(t, ok)
}

func TestFill_TranslucentOver(t *testing.T) {
	s, err := New(64, 64)
	require.NoError(t, err)

	s.Fill(triangle(), color.NRGBA{B: 255, A: 255})
	s.Fill(triangle(), color.NRGBA{R: 255, A: 128})

	c, _ := s.Sample(30, 20)
	assert.InDelta(t, 128, int(c.R), 2)
	assert.InDelta(t, 127, int(c.B), 2)
	assert.Equal(t, uint8(255), c.A)
}

func TestFill_ClipsAtEdges(t *testing.T) {
	s, err := New(20, 20)
	require.NoError(t, err)

	p := NewPath()
	p.MoveTo(-10, -10)
	p.LineTo(30, -10)
	p.LineTo(30, 30)
	p.LineTo(-10, 30)
	s.Fill(p, color.NRGBA{G: 255, A: 255})

	for _, pt := range [][2]float64{{0, 0}, {19, 19}, {10, 5}} {
		c, ok := s.Sample(pt[0], pt[1])
		require.True(t, ok)
		assert.Equal(t, uint8(255), c.G, "pixel %v", pt)
	}
}

func TestStroke(t *testing.T) {
	s, err := New(64, 64)
	require.NoError(t, err)

	s.Stroke(triangle(), color.NRGBA{A: 255}, 2)
	edge, _ := s.Sample(30, 10)
	assert.Equal(t, uint8(255), edge.A, "top edge is stroked")
	centre, _ := s.Sample(30, 20)
	assert.Equal(t, uint8(0), centre.A, "interior stays empty")

	before := s.Revision()
	s.Stroke(triangle(), color.NRGBA{A: 255}, 0)
	assert.Equal(t, before, s.Revision(), "zero width draws nothing")
}
