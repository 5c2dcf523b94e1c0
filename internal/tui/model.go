package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"sradmap/internal/logging"
	"sradmap/internal/session"
)

// Options configure a Model.
type Options struct {
	// Source is loaded at start when non-empty.
	Source  string
	Session session.Options
	Logger  logging.Logger
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showInfo    bool

	status string
	log    logging.Logger
	opts   session.Options

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	loading bool
	sess    *session.Session

	// map size in cells the surface was built for
	mapW int
	mapH int

	// hover state
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// monthly values of the selected shape
	tbl table.Model
}

func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	opts.Session.Logger = opts.Logger
	m := Model{
		helpVisible: true,
		showInfo:    true,
		status:      "sradmap ready",
		log:         opts.Logger.Named("tui"),
		opts:        opts.Session,
		selPath:     opts.Source,
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.tbl = table.New(
		table.WithColumns([]table.Column{{Title: "Month", Width: 6}, {Title: "Median", Width: 10}}),
		table.WithHeight(13),
	)
	m.refreshDir()
	if m.selPath != "" {
		m.loading = true
		m.status = "loading " + m.selPath
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.selPath == "" {
		return nil
	}
	return loadCmd(m.selPath, m.log)
}

// Session is the loaded session, nil while nothing is loaded.
func (m Model) Session() *session.Session { return m.sess }
