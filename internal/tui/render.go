package tui

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sradmap/internal/colormap"
)

// Each terminal cell stands for a cellW x cellH block of viewer pixels and
// shows two of them with an upper half block: the top half as foreground,
// the bottom half as background.
const (
	cellW = 2
	cellH = 4
)

// viewport is the viewer size in pixels of a w x h cell map.
func viewport(w, h int) (float64, float64) {
	return float64(w * cellW), float64(h * cellH)
}

// cellCenter is the viewer pixel a pointer in cell (cx, cy) points at.
func cellCenter(cx, cy int) (float64, float64) {
	return float64(cx*cellW) + cellW/2, float64(cy*cellH) + cellH/2
}

// cellColor samples the surface pixel shown by one half of a cell.
func (m Model) cellColor(cx, cy int, lower bool) (lipgloss.Color, bool) {
	y := float64(cy*cellH) + cellH/4
	if lower {
		y += cellH / 2
	}
	sx, sy := m.sess.Controller().ToSurface(float64(cx*cellW)+cellW/2, y)
	c, ok := m.sess.Surface().Sample(sx, sy)
	if !ok || c.A == 0 {
		return "", false
	}
	return hexColor(c), true
}

func hexColor(c color.RGBA) lipgloss.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return lipgloss.Color(colormap.Color{R: float64(n.R), G: float64(n.G), B: float64(n.B), A: 1}.Hex())
}

type cell struct {
	top, bottom       lipgloss.Color
	hasTop, hasBottom bool
}

func (c cell) render(s string) string {
	st := lipgloss.NewStyle()
	switch {
	case c.hasTop && c.hasBottom:
		st = st.Foreground(c.top).Background(c.bottom)
	case c.hasTop:
		st = st.Foreground(c.top)
	case c.hasBottom:
		st = st.Foreground(c.bottom)
	default:
		return s
	}
	return st.Render(s)
}

func (c cell) glyph() string {
	switch {
	case c.hasTop:
		return "▀"
	case c.hasBottom:
		return "▄"
	}
	return " "
}

// renderMap paints the surface through the current presentation into a
// w x h block of half-block characters. Runs of equal cells share one
// style.
func (m Model) renderMap(w, h int) string {
	if m.sess == nil || !m.sess.Built() {
		return ""
	}
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		var run cell
		var glyphs strings.Builder
		flush := func() {
			if glyphs.Len() > 0 {
				b.WriteString(run.render(glyphs.String()))
				glyphs.Reset()
			}
		}
		for x := 0; x < w; x++ {
			var c cell
			c.top, c.hasTop = m.cellColor(x, y, false)
			c.bottom, c.hasBottom = m.cellColor(x, y, true)
			if x > 0 && c != run {
				flush()
			}
			run = c
			glyphs.WriteString(c.glyph())
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
