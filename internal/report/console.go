package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	consoleHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	consoleCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	consoleNumberStyle = consoleCellStyle.Align(lipgloss.Right)
	consoleBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// RenderConsole renders the table for a terminal.
func RenderConsole(t *Table) string {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := []string{r.SubjectID}
		for _, v := range r.Values() {
			row = append(row, strconv.FormatFloat(v, 'f', 4, 64))
		}
		rows[i] = row
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(consoleBorderStyle).
		Headers(t.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return consoleHeaderStyle
			case col == 0:
				return consoleCellStyle
			default:
				return consoleNumberStyle
			}
		}).
		Render()
}
