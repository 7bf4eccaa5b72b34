package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tableTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 0, 1, 1)

	tableBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	tableHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 0, 0, 1)
)

const (
	maxColumnWidth = 48
	tableHeight    = 15
	headerHeight   = 3
)

type tableModel struct {
	title string
	table table.Model
}

func newTableModel(title string, columns []string, rows [][]string) tableModel {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c, Width: columnWidth(i, c, rows)}
	}
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(min(tableHeight, len(rows)+headerHeight)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("24")).
		Bold(false)
	t.SetStyles(styles)

	return tableModel{title: title, table: t}
}

// columnWidth fits column i to its widest cell, capped at maxColumnWidth.
func columnWidth(i int, title string, rows [][]string) int {
	w := lipgloss.Width(title)
	for _, r := range rows {
		if i < len(r) {
			w = max(w, lipgloss.Width(r[i]))
		}
	}
	return min(w, maxColumnWidth)
}

func (m tableModel) Init() tea.Cmd {
	return nil
}

func (m tableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m tableModel) View() string {
	return tableTitleStyle.Render(m.title) + "\n" +
		tableBorderStyle.Render(m.table.View()) + "\n" +
		tableHintStyle.Render("↑/↓/j/k scroll  q back") + "\n"
}

// RunTable shows rows in a scrollable table until the user quits.
func RunTable(title string, columns []string, rows [][]string) error {
	_, err := tea.NewProgram(newTableModel(title, columns, rows)).Run()
	return err
}
