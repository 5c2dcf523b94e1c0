// Package colormap maps scalar values onto fill colours.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Breakpoints of the spectral ramp, as ratios of the value domain.
const (
	lowBreak  = 0.33
	highBreak = 0.67
)

// Color is an RGBA colour with channels on a 0-255 scale and alpha on 0-1.
// Channels are not clamped: a value outside the ramp domain extrapolates the
// end segment and can leave the gamut. Use NRGBA or Hex to get a drawable colour.
type Color struct {
	R, G, B float64
	A       float64
}

// Ramp maps value within [min, max] to a colour.
type Ramp func(value, min, max float64) Color

// GetColor is the spectral ramp: blue, green, yellow, then red through orange.
// The caller must clamp value into [min, max].
func GetColor(value, min, max float64) Color {
	ratio := (value - min) / (max - min)
	switch {
	case ratio < lowBreak:
		g := 255 * ratio / lowBreak
		return Color{R: 0, G: g, B: 255 - g, A: 1}
	case ratio < highBreak:
		return Color{R: 255 * (ratio - lowBreak) / (highBreak - lowBreak), G: 255, B: 0, A: 1}
	default:
		return Color{R: 255, G: 255 - 255*(ratio-highBreak)/(1-highBreak), B: 0, A: 1}
	}
}

// RedBlue is the older two-channel ramp: blue for low values, red for high.
// It clamps internally and maps NaN to the low end.
func RedBlue(value, min, max float64) Color {
	c := 255 * (value - min) / (max - min)
	if c < 0 || math.IsNaN(c) {
		c = 0
	} else if c > 255 {
		c = 255
	}
	return Color{R: c, G: 0, B: 255 - c, A: 0.9}
}

var ramps = map[string]Ramp{
	"spectral": GetColor,
	"redblue":  RedBlue,
}

// Lookup returns the ramp registered under name.
func Lookup(name string) (Ramp, error) {
	r, ok := ramps[name]
	if !ok {
		return nil, fmt.Errorf("colormap: unknown ramp %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return r, nil
}

// Names lists the registered ramps.
func Names() []string {
	return []string{"spectral", "redblue"}
}

// String renders the colour the way a canvas fill style expects it.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%s, %s, %s, %s)",
		channel(c.R), channel(c.G), channel(c.B),
		strconv.FormatFloat(c.A, 'f', -1, 64))
}

func channel(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
}

// NRGBA clamps the channels and converts to a non-premultiplied colour.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: clamp8(c.R),
		G: clamp8(c.G),
		B: clamp8(c.B),
		A: clamp8(c.A * 255),
	}
}

// Hex returns the clamped colour as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	cf := colorful.Color{R: c.R / 255, G: c.G / 255, B: c.B / 255}
	return cf.Clamped().Hex()
}

// ParseHex reads a #rgb or #rrggbb colour and applies alpha.
func ParseHex(s string, alpha float64) (color.NRGBA, error) {
	cf, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colormap: parse %q: %w", s, err)
	}
	r, g, b := cf.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: clamp8(alpha * 255)}, nil
}

func clamp8(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(math.Round(v))
	}
}
