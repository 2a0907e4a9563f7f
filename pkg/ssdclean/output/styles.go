package output

import "github.com/charmbracelet/lipgloss"

// Palette, ANSI 256 codes so reports look the same in any terminal theme.
const (
	ColorAccent  = lipgloss.Color("75")
	ColorCaution = lipgloss.Color("178")
	ColorDim     = lipgloss.Color("244")
	ColorText    = lipgloss.Color("252")
)

var (
	// HeaderBox frames the report title and summary fields.
	HeaderBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(0, 1).
			MarginBottom(1)

	// WarningBox frames per-item failures below the table.
	WarningBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorCaution).
			PaddingLeft(1).
			MarginTop(1)

	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	LabelStyle   = lipgloss.NewStyle().Foreground(ColorDim)
	ValueStyle   = lipgloss.NewStyle().Foreground(ColorText)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorCaution)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorDim).Italic(true)

	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(ColorDim)
	TableCellStyle   = lipgloss.NewStyle().Foreground(ColorText)
)
