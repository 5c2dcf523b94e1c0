package tui

import (
	"errors"
	"image/color"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sradmap/internal/geom"
	"sradmap/internal/session"
	"sradmap/internal/view"
)

const squaresDoc = `{
  "type": "FeatureCollection",
  "bbox": [0, 0, 10, 10],
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[1,1],[4,1],[4,4],[1,4],[1,1]]]},
      "properties": {"_median": 20000, "_median_3": 21000}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Polygon", "coordinates": [[[6,6],[9,6],[9,9],[6,9],[6,6]]]},
      "properties": {"_median": 5000}
    }
  ]
}`

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func loaded(t *testing.T) Model {
	t.Helper()
	ds, err := geom.Decode([]byte(squaresDoc))
	require.NoError(t, err)

	m := New(Options{Session: session.Options{MaxScale: 6}})
	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = step(t, m, loadedMsg{src: "squares.geo.json", ds: ds})
	require.NotNil(t, m.Session())
	require.True(t, m.Session().Built())
	return m
}

func TestLoad_BuildsForMapArea(t *testing.T) {
	m := loaded(t)
	assert.Equal(t, 45, m.mapW)
	assert.Equal(t, 21, m.mapH)
	assert.Contains(t, m.status, "features=2 shapes=2")
	assert.Equal(t, 504, m.Session().Surface().Width())
	assert.NotEmpty(t, m.View())
}

func TestLoad_Error(t *testing.T) {
	m := New(Options{})
	m = step(t, m, loadedMsg{src: "x.json", err: errors.New("boom")})
	assert.Nil(t, m.Session())
	assert.Equal(t, "load error: boom", m.status)
}

func TestMouse_ClickInspects(t *testing.T) {
	m := loaded(t)
	m = step(t, m, tea.MouseMsg{X: 10, Y: 16, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.True(t, m.hoverHasGeo)
	m = step(t, m, tea.MouseMsg{X: 10, Y: 16, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	assert.Contains(t, m.Session().Panel(), "Longitude: 2.50, Latitude: 2.50")
	assert.Contains(t, m.status, "matches=1")
	rows := m.tbl.Rows()
	require.Len(t, rows, 12)
	assert.Equal(t, "Jan", rows[0][0])
	assert.Equal(t, "20000", rows[0][1])
	assert.Equal(t, "-", rows[1][1])
	assert.Contains(t, m.View(), "Selected")
}

func TestMouse_DragPans(t *testing.T) {
	m := loaded(t)
	m = step(t, m, tea.MouseMsg{X: 10, Y: 16, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = step(t, m, tea.MouseMsg{X: 12, Y: 16, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.Equal(t, view.Panning, m.Session().Controller().View().State)
	m = step(t, m, tea.MouseMsg{X: 12, Y: 16, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	vs := m.Session().Controller().View()
	assert.Equal(t, view.Idle, vs.State)
	assert.Equal(t, 4.0, vs.PanX)
	assert.Empty(t, m.Session().Panel())
}

func TestMouse_WheelZooms(t *testing.T) {
	m := loaded(t)
	before := m.Session().Controller().View().ZoomScale
	m = step(t, m, tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Greater(t, m.Session().Controller().View().ZoomScale, before)
	m = step(t, m, tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.InDelta(t, before, m.Session().Controller().View().ZoomScale, 1e-12)
}

func TestKeys(t *testing.T) {
	m := loaded(t)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, -float64(panStep), m.Session().Controller().View().PanX)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	assert.Contains(t, m.status, "zoom:")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	assert.False(t, m.showInfo)
	assert.Equal(t, 80, m.mapW, "hiding the panel widens the map")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#ff8000"), hexColor(color.RGBA{R: 255, G: 128, A: 255}))
	// premultiplied half-transparent red
	assert.Equal(t, lipgloss.Color("#ff0000"), hexColor(color.RGBA{R: 128, A: 128}))
}
