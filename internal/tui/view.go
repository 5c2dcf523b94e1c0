package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	sidebarWidth = 28
	infoWidth    = 34
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen split shared by View and the mouse handler.
type layout struct {
	contentW, contentH int
	// map origin and size in cells
	mapX, mapY int
	mapW, mapH int
}

func (m Model) layout() layout {
	var l layout
	l.contentH = max(4, m.height-headerHeight-footerHeight)
	l.contentW = max(10, m.width)
	l.mapW = l.contentW
	if m.showSidebar {
		l.mapX = sidebarWidth + 1
		l.mapW -= sidebarWidth + 1
	}
	if m.showInfo {
		l.mapW -= infoWidth + 1
	}
	l.mapW = max(8, l.mapW)
	l.mapY = headerHeight
	l.mapH = l.contentH
	return l
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	header := titleStyle.Render(" sradmap ─ solar radiation hex map ")
	header = lipgloss.NewStyle().Width(l.contentW).Render(header)

	var mapBody string
	switch {
	case m.loading:
		mapBody = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, dimStyle.Render("loading…"))
	case m.sess == nil:
		mapBody = lipgloss.Place(l.mapW, l.mapH, lipgloss.Center, lipgloss.Center, dimStyle.Render("Tab to open a GeoJSON file"))
	default:
		mapBody = m.renderMap(l.mapW, l.mapH)
	}
	mapBody = lipgloss.NewStyle().Width(l.mapW).Height(l.mapH).Render(mapBody)

	cols := []string{}
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, l.contentH-2)
		cols = append(cols, lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View()), " ")
	}
	cols = append(cols, mapBody)
	if m.showInfo {
		cols = append(cols, " ", m.renderInfo(l.contentH))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, l.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(l.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(l.contentW).Height(m.height).Render(ui)
}

// renderInfo is the panel of the last clicked shape.
func (m Model) renderInfo(h int) string {
	inner := infoWidth - 2
	var content string
	if m.sess == nil || m.sess.Panel() == "" {
		content = dimStyle.Render("Click a hexagon to see\nits monthly solar radiation.")
	} else {
		first, _, _ := strings.Cut(m.sess.Panel(), "\n")
		coord := strings.ReplaceAll(first, ", ", "\n")
		content = lipgloss.JoinVertical(lipgloss.Left,
			accentStyle.Render("Selected"),
			coord,
			"",
			m.tbl.View(),
		)
	}
	return boxStyle.Width(inner).Height(max(1, h-2)).Render(content)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"drag pan",
		"wheel,+/- zoom",
		"click inspect",
		"↑↓←→ pan",
		"Tab files",
		"Enter open",
		"i info",
		"r reload",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
