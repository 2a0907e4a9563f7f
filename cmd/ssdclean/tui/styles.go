// Package tui provides the interactive monitor for ssdclean. It shows live
// CPU, memory and disk utilization with short histories, lists inactive
// programs, and runs cleanup, optimization and uninstalls on request.
package tui

import "github.com/charmbracelet/lipgloss"

// Utilization levels at which gauges change color.
const (
	busyLevel     = 70.0
	criticalLevel = 90.0
)

var (
	purple = lipgloss.Color("#9D7CD8")
	cyan   = lipgloss.Color("#7DCFFF")
	green  = lipgloss.Color("#9ECE6A")
	amber  = lipgloss.Color("#E0AF68")
	red    = lipgloss.Color("#F7768E")
	white  = lipgloss.Color("#C0CAF5")
	grey   = lipgloss.Color("#565F89")
	slate  = lipgloss.Color("#3B4261")
	night  = lipgloss.Color("#24283B")
)

var (
	outerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(purple).
			Padding(0, 1)
	dividerStyle = lipgloss.NewStyle().Foreground(slate)

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(purple)
	mutedTextStyle   = lipgloss.NewStyle().Foreground(grey)
	errorTextStyle   = lipgloss.NewStyle().Foreground(red)
	successTextStyle = lipgloss.NewStyle().Foreground(green)
	warningTextStyle = lipgloss.NewStyle().Foreground(amber)
)

// Gauges: a fixed-width label, the bar, then a right-aligned percentage.
var (
	gaugeLabelStyle = lipgloss.NewStyle().Width(5).Bold(true).Foreground(white)
	gaugeValueStyle = lipgloss.NewStyle().Width(7).Align(lipgloss.Right).Foreground(cyan)
)

// levelStyle colors a reading by how close it is to saturation.
func levelStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= criticalLevel:
		return errorTextStyle
	case percent >= busyLevel:
		return warningTextStyle
	default:
		return successTextStyle
	}
}

// Program list.
var (
	selectedItemStyle = lipgloss.NewStyle().Background(night).Foreground(white).Bold(true)
	normalItemStyle   = lipgloss.NewStyle().Foreground(white)
	cursorStyle       = lipgloss.NewStyle().Foreground(purple).Bold(true)
	ageStyle          = lipgloss.NewStyle().Width(12).Align(lipgloss.Right).Foreground(amber)
)

var (
	logTimeStyle      = lipgloss.NewStyle().Foreground(grey)
	logComponentStyle = lipgloss.NewStyle().Foreground(cyan)
	logDebugStyle     = lipgloss.NewStyle().Foreground(grey)
	logInfoStyle      = lipgloss.NewStyle().Foreground(green)
	logWarnStyle      = lipgloss.NewStyle().Foreground(amber)
	logErrorStyle     = lipgloss.NewStyle().Foreground(red).Bold(true)

	keyStyle     = lipgloss.NewStyle().Foreground(purple).Bold(true)
	keyDescStyle = lipgloss.NewStyle().Foreground(grey)
)

// Confirmation dialog. Destructive actions get the red button.
var (
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(amber).
			Padding(1, 2).
			Width(56)
	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(amber)
	dialogTextStyle  = lipgloss.NewStyle().Foreground(white)

	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).Margin(0, 1)
	activeButtonStyle   = buttonStyle.Background(red).Foreground(night).Bold(true)
	inactiveButtonStyle = buttonStyle.Background(slate).Foreground(white)
)

// renderDivider creates a horizontal divider line.
func renderDivider(width int) string {
	return dividerStyle.Render(repeatChar('─', width))
}

// repeatChar repeats a character n times.
func repeatChar(char rune, n int) string {
	if n <= 0 {
		return ""
	}
	result := make([]rune, n)
	for i := range result {
		result[i] = char
	}
	return string(result)
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}

// truncatePath truncates a path to fit within maxLen, preserving the end.
func truncatePath(path string, maxLen int) string {
	r := []rune(path)
	if len(r) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return string(r[len(r)-max(maxLen, 0):])
	}
	return "..." + string(r[len(r)-(maxLen-3):])
}
