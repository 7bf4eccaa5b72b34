package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/amishk599/jobstat/internal/model"
)

var (
	sectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(0, 1)

	tableCellStyle = lipgloss.NewStyle().Padding(0, 1)

	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 0, 0, 2)
)

var _ model.Reporter = (*TableReporter)(nil)

// TableReporter renders each query result as a bordered table.
type TableReporter struct {
	out io.Writer
}

// NewTableReporter returns a reporter that writes tables to out.
func NewTableReporter(out io.Writer) *TableReporter {
	return &TableReporter{out: out}
}

// Report writes one titled table per section.
func (r *TableReporter) Report(rep model.Report) error {
	for _, s := range Sections(rep) {
		if _, err := fmt.Fprintln(r.out, RenderSection(s)); err != nil {
			return fmt.Errorf("writing %s: %w", s.Title, err)
		}
	}
	return nil
}

// RenderSection renders s with its title above the table.
func RenderSection(s Section) string {
	title := sectionTitleStyle.Render(fmt.Sprintf("%s (%d)", s.Title, len(s.Rows)))
	if len(s.Rows) == 0 {
		return title + "\n" + emptyStyle.Render("(none)")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers(s.Columns...).
		Rows(s.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	return title + "\n" + t.String()
}
