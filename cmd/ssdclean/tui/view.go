package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// logPanelHeight is the number of rows the log panel occupies when open.
const logPanelHeight = 8

// maxDetailLines caps the failure lines shown under the status line.
const maxDetailLines = 3

// View renders the current state.
func (m Model) View() string {
	if m.state == StateConfirm {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderConfirmDialog())
	}
	return m.renderDashboard()
}

func (m Model) contentWidth() int {
	return max(m.width-4, 20)
}

func (m Model) renderDashboard() string {
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(titleStyle.Render("ssdclean"))
	b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  disk %s  every %s", m.opts.Sampler.Disk(), m.opts.Interval)))
	b.WriteString("\n")
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	b.WriteString(m.renderGauges(width))
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	b.WriteString(m.renderPrograms(width))
	b.WriteString(renderDivider(width))
	b.WriteString("\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	if details := m.renderDetails(width); details != "" {
		b.WriteString(details)
		b.WriteString("\n")
	}

	if m.showLogs {
		b.WriteString(renderDivider(width))
		b.WriteString("\n")
		b.WriteString(renderLogPanel(m.opts.Logs, m.logLevel, width, logPanelHeight))
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpBar())
	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderGauges renders one row per metric: label, bar, value and the
// recent history as a sparkline.
func (m Model) renderGauges(width int) string {
	latest, _ := m.opts.History.Latest()
	cpu, ram, disk := m.opts.History.Series()

	// label(5) value(7) and two separators
	avail := width - 5 - 7 - 2
	sparkWidth := min(m.opts.History.Cap(), avail/2)
	barWidth := avail - sparkWidth - 1

	rows := []struct {
		label  string
		value  float64
		series []float64
	}{
		{"CPU", latest.CPUPercent, cpu},
		{"RAM", latest.RAMPercent, ram},
		{"DISK", latest.DiskPercent, disk},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(gaugeLabelStyle.Render(r.label))
		b.WriteString(" ")
		b.WriteString(m.renderGaugeBar(r.value, barWidth))
		b.WriteString(gaugeValueStyle.Render(types.FormatPercent(r.value)))
		b.WriteString(" ")
		b.WriteString(levelStyle(r.value).Render(renderSparkline(r.series, sparkWidth)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderGaugeBar(percent float64, width int) string {
	if width < 10 {
		return renderBar(percent, max(width, 0))
	}
	g := m.gauge
	g.Width = width
	return g.ViewAs(percent / 100)
}

func (m Model) listRows() int {
	// header, gauges, dividers, status, help and borders
	used := 2 + 3 + 3 + 1 + 1 + 1 + 2 + 1
	if m.showLogs {
		used += logPanelHeight + 1
	}
	if n := len(m.details); n > 0 {
		used += min(n, maxDetailLines) + 1
	}
	return max(m.height-used, 3)
}

func (m Model) renderPrograms(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Inactive programs (> %d days)", m.opts.Days)))
	b.WriteString("\n")

	rows := m.listRows()
	switch {
	case !m.scanned:
		b.WriteString(mutedTextStyle.Render("  press s to scan installed programs"))
		b.WriteString("\n")
		return b.String()
	case len(m.programs) == 0:
		b.WriteString(mutedTextStyle.Render("  no inactive programs found"))
		b.WriteString("\n")
		return b.String()
	}

	now := time.Now()
	end := min(len(m.programs), m.offset+rows)
	nameWidth := max((width-16)/2, 10)
	for i := m.offset; i < end; i++ {
		p := m.programs[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
			style = selectedItemStyle
		}
		name := lipgloss.NewStyle().Width(nameWidth).Render(truncate(p.Name, nameWidth))
		age := ageStyle.Render(fmt.Sprintf("%dd", p.InactiveDays(now)))
		loc := mutedTextStyle.Render(" " + truncatePath(p.InstallLocation, max(width-nameWidth-16, 5)))
		b.WriteString(cursor + style.Render(name) + age + loc)
		b.WriteString("\n")
	}
	if len(m.programs) > rows {
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(m.programs))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatus() string {
	switch {
	case m.busy != "":
		return m.spinner.View() + " " + m.busy + "..."
	case m.status == "":
		return mutedTextStyle.Render("ready")
	case m.statusErr:
		return errorTextStyle.Render(m.status)
	default:
		return successTextStyle.Render(m.status)
	}
}

// renderDetails lists the last operation's failures. Lines past
// maxDetailLines are only counted; every failure is also logged.
func (m Model) renderDetails(width int) string {
	if len(m.details) == 0 {
		return ""
	}
	shown := m.details[:min(len(m.details), maxDetailLines)]
	lines := make([]string, 0, len(shown)+1)
	for _, d := range shown {
		lines = append(lines, errorTextStyle.Render("  "+truncate(d, width-2)))
	}
	if more := len(m.details) - len(shown); more > 0 {
		lines = append(lines, mutedTextStyle.Render(fmt.Sprintf("  and %d more, press l for the log", more)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelpBar() string {
	keys := []struct{ key, desc string }{
		{"s", "scan"},
		{"c", "clean"},
		{"o", "optimize"},
		{"u", "uninstall"},
		{"↑↓", "select"},
		{"l", "logs"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = keyStyle.Render("["+k.key+"]") + " " + keyDescStyle.Render(k.desc)
	}
	help := strings.Join(parts, "  ")
	if m.unseen > 0 {
		help += "  " + warningTextStyle.Render(fmt.Sprintf("%d new warnings", m.unseen))
	}
	return help
}

// renderConfirmDialog renders the confirmation dialog for the pending
// action.
func (m Model) renderConfirmDialog() string {
	var title, text, button string
	switch m.pending {
	case actionOptimize:
		title = "Confirm Optimization"
		text = "Trim or defragment fixed drives, remove ALL startup entries and disable the configured services?"
		button = "Optimize"
	case actionUninstall:
		p, _ := m.selected()
		title = "Confirm Uninstall"
		text = fmt.Sprintf("Uninstall %s?\n%s", p.Name, truncatePath(p.InstallLocation, 48))
		button = "Uninstall"
	}

	var b strings.Builder
	b.WriteString(dialogTitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(dialogTextStyle.Width(50).Render(text))
	b.WriteString("\n\n")

	cancelBtn := inactiveButtonStyle.Render("Cancel")
	confirmBtn := inactiveButtonStyle.Render(button)
	if m.confirmFocused == 0 {
		cancelBtn = activeButtonStyle.Background(purple).Render("Cancel")
	} else {
		confirmBtn = activeButtonStyle.Render(button)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, "  ", confirmBtn))

	return dialogBoxStyle.Render(b.String())
}
