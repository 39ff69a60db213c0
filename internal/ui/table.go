package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Table renders rows under headers with a normal border. Colors are only
// applied while color output is enabled.
func Table(headers []string, rows [][]string) string {
	colored := IsColorEnabled()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow && colored {
				return headerStyle
			}
			return cellStyle
		})
	if colored {
		t = t.BorderStyle(borderStyle)
	}

	return t.String()
}
