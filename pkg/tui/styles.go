// Package tui реализует терминальный чат-интерфейс на Bubble Tea.
package tui

import "github.com/charmbracelet/lipgloss"

// ColorScheme определяет цвета элементов интерфейса.
type ColorScheme struct {
	StatusBackground lipgloss.Color
	StatusForeground lipgloss.Color
	SystemMessage    lipgloss.Color
	UserMessage      lipgloss.Color
	AIMessage        lipgloss.Color
	ToolMessage      lipgloss.Color
	ErrorMessage     lipgloss.Color
	Border           lipgloss.Color
}

// DefaultScheme — схема по умолчанию для 256-цветных терминалов.
var DefaultScheme = ColorScheme{
	StatusBackground: lipgloss.Color("62"),
	StatusForeground: lipgloss.Color("255"),
	SystemMessage:    lipgloss.Color("242"),
	UserMessage:      lipgloss.Color("226"),
	AIMessage:        lipgloss.Color("86"),
	ToolMessage:      lipgloss.Color("99"),
	ErrorMessage:     lipgloss.Color("196"),
	Border:           lipgloss.Color("240"),
}

// styles — готовые lipgloss стили, собранные из схемы.
type styles struct {
	header lipgloss.Style
	system lipgloss.Style
	user   lipgloss.Style
	ai     lipgloss.Style
	tool   lipgloss.Style
	errMsg lipgloss.Style
	border lipgloss.Style
}

func newStyles(scheme ColorScheme) styles {
	return styles{
		header: lipgloss.NewStyle().
			Foreground(scheme.StatusForeground).
			Background(scheme.StatusBackground).
			Padding(0, 1).
			Bold(true),
		system: lipgloss.NewStyle().Foreground(scheme.SystemMessage),
		user:   lipgloss.NewStyle().Foreground(scheme.UserMessage).Bold(true),
		ai:     lipgloss.NewStyle().Foreground(scheme.AIMessage),
		tool:   lipgloss.NewStyle().Foreground(scheme.ToolMessage),
		errMsg: lipgloss.NewStyle().Foreground(scheme.ErrorMessage).Bold(true),
		border: lipgloss.NewStyle().Foreground(scheme.Border),
	}
}
