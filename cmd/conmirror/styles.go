package main

import "github.com/charmbracelet/lipgloss"

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	updateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	propertyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("248"))
)

// styleForKind maps a console kind to its display style.
func styleForKind(kind string) lipgloss.Style {
	switch kind {
	case "error", "assert":
		return errorStyle
	case "warning", "warn":
		return warnStyle
	case "info":
		return infoStyle
	case "debug", "trace":
		return debugStyle
	default:
		return kindStyle
	}
}
