package tui

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"sradmap/internal/geom"
	"sradmap/internal/logging"
	"sradmap/internal/session"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".geojson" || ext == ".json" || ext == ".wkt" {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no GeoJSON or WKT files in current directory"
	}
}

// loadedMsg carries a decoded dataset back to Update.
type loadedMsg struct {
	src string
	ds  *geom.Dataset
	err error
}

// loadCmd decodes src off the event loop.
func loadCmd(src string, log logging.Logger) tea.Cmd {
	return func() tea.Msg {
		ds, err := session.Load(context.Background(), src, log, nil)
		return loadedMsg{src: src, ds: ds, err: err}
	}
}

// openPath starts loading p.
func (m *Model) openPath(p string) tea.Cmd {
	m.selPath = p
	m.loading = true
	m.status = "loading " + filepath.Base(p)
	return loadCmd(p, m.log)
}
