package tui

import (
	table "github.com/charmbracelet/bubbles/table"

	"sradmap/internal/inspect"
)

// refreshMonths fills the table with the monthly values of the selected
// shape. Missing months show as "-".
func (m *Model) refreshMonths() {
	s := m.sess.Selected()
	if s == nil {
		m.tbl.SetRows(nil)
		return
	}
	info := inspect.Describe(s)
	rows := make([]table.Row, 0, len(info.Months))
	for _, mv := range info.Months {
		rows = append(rows, table.Row{mv.Month, mv.Display()})
	}
	m.tbl.SetRows(rows)
}
