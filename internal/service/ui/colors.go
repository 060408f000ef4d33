package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is ANSI 6 (cyan), readable on light and dark terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is dimmed gray for descriptions
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// ValueStyle highlights numbers in maintenance reports
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)
