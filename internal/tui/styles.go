package tui

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	Foreground = "#FCFCFA"

	Red     = "#FF6188" // Errors, danger
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success
	Blue    = "#AB9DF2" // Links
	Magenta = "#FF6188" // Titles, emphasis

	Comment = "#727072" // Dim text, help
)

// Common styles
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))

	domainStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Yellow))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))
	targetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue))
	atomStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))
)
