// Package style holds the lipgloss and pterm styles used for terminal output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Italic(true)
)

// Indicators
const (
	SuccessMark = "✓"
	ErrorMark   = "✗"
	WarningMark = "!"
	SkipMark    = "○"
)

// CategoryStyle returns the style for a template category
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := CategoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return MutedStyle
}

// StatusStyle returns the pterm style for a harness stage status
func StatusStyle(status string) *pterm.Style {
	switch status {
	case "passed":
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case "failed":
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case "skipped":
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// StatusMark returns the indicator for a harness stage status
func StatusMark(status string) string {
	switch status {
	case "passed":
		return SuccessMark
	case "failed":
		return ErrorMark
	case "skipped":
		return SkipMark
	}
	return WarningMark
}
