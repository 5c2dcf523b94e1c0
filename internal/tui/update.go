package tui

import (
	"fmt"
	"path/filepath"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"sradmap/internal/logging"
	"sradmap/internal/session"
	"sradmap/internal/view"
)

// panStep is how far one arrow key moves the map, in viewer pixels.
const panStep = 4 * cellW

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuild()
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "load error: " + msg.err.Error()
			return m, nil
		}
		m.sess = session.New(msg.src, msg.ds, m.opts)
		m.mapW, m.mapH = 0, 0
		m.tbl.SetRows(nil)
		m.rebuild()
		if m.sess.Built() {
			m.status = fmt.Sprintf("loaded: %s  features=%d shapes=%d",
				filepath.Base(msg.src), len(msg.ds.Features), len(m.sess.Result().Shapes))
		}
	case tea.KeyMsg:
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			m.zoomAtCenter(-1)
		case "-", "_":
			m.zoomAtCenter(1)
		case "up":
			m.pan(0, panStep)
		case "down":
			m.pan(0, -panStep)
		case "left":
			m.pan(panStep, 0)
		case "right":
			m.pan(-panStep, 0)
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
			m.rebuild()
		case "i":
			m.showInfo = !m.showInfo
			m.rebuild()
		case "h":
			m.helpVisible = !m.helpVisible
		case "r":
			if m.selPath != "" && !m.loading {
				return m, m.openPath(m.selPath)
			}
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					return m, m.openPath(it.path)
				}
			}
		}
	case tea.MouseMsg:
		m.mouse(msg)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// rebuild redraws the surface when the map area changed size.
func (m *Model) rebuild() {
	if m.sess == nil || m.width == 0 || m.height == 0 {
		return
	}
	l := m.layout()
	if l.mapW == m.mapW && l.mapH == m.mapH && m.sess.Built() {
		return
	}
	w, h := viewport(l.mapW, l.mapH)
	if err := m.sess.Build(w, h); err != nil {
		m.status = "build error: " + err.Error()
		m.log.Error("build failed", logging.Err(err))
		return
	}
	m.mapW, m.mapH = l.mapW, l.mapH
	m.tbl.SetRows(nil)
}

func (m *Model) zoomAtCenter(deltaY float64) {
	if m.sess == nil || !m.sess.Built() {
		return
	}
	w, h := viewport(m.mapW, m.mapH)
	if m.sess.Wheel(deltaY, w/2, h/2) {
		m.status = fmt.Sprintf("zoom: %.3f", m.sess.Controller().View().ZoomScale)
	}
}

func (m *Model) pan(dx, dy float64) {
	if m.sess == nil {
		return
	}
	m.sess.Controller().PanBy(dx, dy)
}

// mouse drives hover readout, wheel zoom and the press/drag/release state
// machine. Positions are converted to viewer pixels of the map area.
func (m *Model) mouse(msg tea.MouseMsg) {
	if m.sess == nil || !m.sess.Built() {
		return
	}
	l := m.layout()
	cx, cy := msg.X-l.mapX, msg.Y-l.mapY
	inside := cx >= 0 && cx < l.mapW && cy >= 0 && cy < l.mapH
	x, y := cellCenter(cx, cy)

	m.hoverHasGeo = false
	if inside {
		m.hoverLon, m.hoverLat, m.hoverHasGeo = m.sess.LonLat(x, y)
	}

	state := m.sess.Controller().View().State
	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside:
		m.sess.Wheel(-1, x, y)
	case msg.Button == tea.MouseButtonWheelDown && inside:
		m.sess.Wheel(1, x, y)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		_, _ = m.sess.Pointer(view.Down, x, y)
	case msg.Action == tea.MouseActionMotion && state != view.Idle:
		_, _ = m.sess.Pointer(view.Move, x, y)
	case msg.Action == tea.MouseActionRelease && state != view.Idle:
		p, err := m.sess.Pointer(view.Up, x, y)
		if err != nil || p.Click == nil {
			return
		}
		if p.Click.Info == nil {
			m.status = "no hexagon here"
			return
		}
		m.refreshMonths()
		m.status = fmt.Sprintf("inspected lon=%.2f lat=%.2f  matches=%d", p.Click.Info.Lon, p.Click.Info.Lat, len(p.Click.Hits))
	}
}
