package ui

import "github.com/charmbracelet/lipgloss"

// ANSI256 color codes matching the Ayu palette.
var (
	colorAccent  = lipgloss.Color("74")  // blue
	colorCmd     = lipgloss.Color("250") // light gray
	colorMuted   = lipgloss.Color("245") // medium gray
	colorSuccess = lipgloss.Color("114") // green
	colorWarning = lipgloss.Color("179") // amber
	colorDanger  = lipgloss.Color("203") // red
)

var (
	accentStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	cmdStyle     = lipgloss.NewStyle().Foreground(colorCmd)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	dangerStyle  = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

var noColor bool

func render(style lipgloss.Style, s string) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(accentStyle, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(mutedStyle, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(cmdStyle, s) }

// RenderTitle returns s in bold.
func RenderTitle(s string) string { return render(titleStyle, s) }

// RenderLevel styles s by a notification level: "success", "warning",
// "danger", anything else as info.
func RenderLevel(level, s string) string {
	switch level {
	case "success":
		return render(successStyle, s)
	case "warning":
		return render(warningStyle, s)
	case "danger":
		return render(dangerStyle, s)
	default:
		return render(accentStyle, s)
	}
}

// RenderStatus styles a status badge: green when completed, amber otherwise.
func RenderStatus(completed bool, s string) string {
	if completed {
		return render(successStyle, s)
	}
	return render(warningStyle, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
