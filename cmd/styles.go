package main

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	appStyle = lipgloss.NewStyle().Margin(1, 1)

	// Color palette (ANSI colors for broad terminal support)
	colorPrimary   = lipgloss.Color("5") // Magenta/Purple
	colorSecondary = lipgloss.Color("4") // Blue
	colorAccent    = lipgloss.Color("6") // Cyan
	colorSuccess   = lipgloss.Color("2") // Green
	colorError     = lipgloss.Color("1") // Red
	colorWarning   = lipgloss.Color("3") // Yellow
	colorFaint     = lipgloss.Color("8") // Gray

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	tableTitleStyle  = lipgloss.NewStyle().Foreground(colorSecondary).Padding(0, 1).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(colorFaint)
	noItemsStyle     = lipgloss.NewStyle().Faint(true).Margin(1, 0).Foreground(colorFaint)
	helpGlobalStyle  = lipgloss.NewStyle().Foreground(colorFaint)
	filterInputStyle = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	detailsBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(colorAccent).Padding(1, 2).MarginTop(1)
	scanningStyle    = lipgloss.NewStyle().Foreground(colorAccent)

	statusMessageBaseStyle = lipgloss.NewStyle().MarginTop(1)
	errorStyle             = statusMessageBaseStyle.Foreground(colorError).Bold(true)
	successStyle           = statusMessageBaseStyle.Foreground(colorSuccess).Bold(true)
	infoStyle              = statusMessageBaseStyle.Foreground(colorFaint)

	pollingOnStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	pollingOffStyle = lipgloss.NewStyle().Foreground(colorError)

	signalExcellentStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	signalGoodStyle      = lipgloss.NewStyle().Foreground(colorWarning)
	signalWeakStyle      = lipgloss.NewStyle().Foreground(colorError)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorFaint).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(colorPrimary).
		Bold(false)
	return s
}

// rowStyles tints the selected row by the dBm grade of its record.
func rowStyles(dbm int) table.Styles {
	s := tableStyles()
	s.Selected = s.Selected.Foreground(dbmStyle(dbm).GetForeground())
	return s
}
