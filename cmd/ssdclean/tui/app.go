package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/monitor"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// Sampler takes utilization readings.
type Sampler interface {
	Snapshot() types.Snapshot
	Disk() string
}

// Inventory lists and removes installed programs.
type Inventory interface {
	ListInactive(days int) []types.InstalledProgram
	Uninstall(ctx context.Context, cmd string) bool
}

// Maintainer runs cleanup and optimization.
type Maintainer interface {
	CleanTempFiles() types.CleanupResult
	OptimizeSystem(ctx context.Context) types.OptimizationReport
}

// Options configures the TUI application.
type Options struct {
	Sampler    Sampler
	History    *monitor.History
	Interval   time.Duration
	Inventory  Inventory
	Maintainer Maintainer
	// Days is the inactivity threshold for the program list.
	Days int
	// Logs feeds the log panel; nil disables it.
	Logs *logging.LogBuffer
	// LogEvents, when set, wakes the view as entries arrive so the panel
	// and the unseen-warnings counter stay current between samples.
	LogEvents <-chan logging.LogEntry
}

// AppState represents the current state of the application.
type AppState int

const (
	StateDashboard AppState = iota
	StateConfirm
)

// action is an operation that needs confirmation.
type action int

const (
	actionNone action = iota
	actionOptimize
	actionUninstall
)

type (
	tickMsg      time.Time
	sampleMsg    types.Snapshot
	programsMsg  []types.InstalledProgram
	cleanDoneMsg types.CleanupResult
	optimizeMsg  types.OptimizationReport
	uninstallMsg struct {
		program types.InstalledProgram
		ok      bool
	}
	logEntryMsg logging.LogEntry
)

// Model is the Bubble Tea model for the monitor.
type Model struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc
	log    *logging.Logger

	state AppState

	// Confirmation dialog state
	pending        action
	confirmFocused int // 0 = cancel, 1 = confirm

	// busy names the running operation; empty when idle.
	busy    string
	spinner spinner.Model
	gauge   progress.Model

	programs []types.InstalledProgram
	scanned  bool
	cursor   int
	offset   int

	status    string
	statusErr bool
	// details lists the per-item failures of the last operation.
	details []string

	showLogs bool
	logLevel logging.Level
	// unseen counts warnings and errors logged while the panel was closed.
	unseen int

	width  int
	height int
}

// NewModel creates a new TUI model with the given options.
func NewModel(opts Options) Model {
	if opts.History == nil {
		opts.History = monitor.NewHistory(monitor.DefaultHistorySize)
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cyan)

	return Model{
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		log:      logging.Get("tui"),
		state:    StateDashboard,
		spinner:  s,
		gauge:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		logLevel: logging.LevelInfo,
		width:    80,
		height:   24,
	}
}

// Init samples immediately and starts the sampling clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.sample(), m.waitForLog())
}

// waitForLog blocks on the next log entry. It returns nil, which Bubble
// Tea ignores, when there is no subscription.
func (m Model) waitForLog() tea.Cmd {
	ch := m.opts.LogEvents
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return nil
		}
		return logEntryMsg(entry)
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) sample() tea.Cmd {
	sampler := m.opts.Sampler
	return func() tea.Msg {
		return sampleMsg(sampler.Snapshot())
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		return m, m.sample()

	case sampleMsg:
		m.opts.History.Add(types.Snapshot(msg))
		return m, m.tick()

	case logEntryMsg:
		if !m.showLogs && msg.Level >= logging.LevelWarn {
			m.unseen++
		}
		return m, m.waitForLog()

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case programsMsg:
		m.busy = ""
		m.programs = msg
		m.scanned = true
		m.cursor, m.offset = 0, 0
		m.setStatus(false, "%d programs unused for more than %d days", len(msg), m.opts.Days)
		return m, nil

	case cleanDoneMsg:
		m.busy = ""
		res := types.CleanupResult(msg)
		m.details = res.Errors
		if len(res.Errors) > 0 {
			m.setStatus(true, "freed %s, %d items could not be deleted", res.HumanFreed(), len(res.Errors))
		} else {
			m.setStatus(false, "freed %s", res.HumanFreed())
		}
		return m, nil

	case optimizeMsg:
		m.busy = ""
		rep := types.OptimizationReport(msg)
		m.details = nil
		for _, a := range rep.Failures() {
			m.details = append(m.details, a.String())
		}
		if failed := len(rep.Failures()); failed > 0 {
			m.setStatus(true, "optimization finished: %d of %d steps failed", failed, len(rep.Actions))
		} else {
			m.setStatus(false, "optimization finished: %d steps", len(rep.Actions))
		}
		return m, nil

	case uninstallMsg:
		m.busy = ""
		if !msg.ok {
			m.setStatus(true, "uninstall of %s failed", msg.program.Name)
			return m, nil
		}
		m.removeProgram(msg.program.Name)
		m.setStatus(false, "uninstalled %s", msg.program.Name)
		return m, nil
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.cancel()
		return m, tea.Quit
	}

	if m.state == StateConfirm {
		switch key {
		case "q", "esc", "n":
			m.state = StateDashboard
			m.pending = actionNone
		case "left", "h":
			m.confirmFocused = 0
		case "right", "l":
			m.confirmFocused = 1
		case "tab":
			m.confirmFocused = (m.confirmFocused + 1) % 2
		case "enter":
			if m.confirmFocused == 1 {
				return m.runPending()
			}
			m.state = StateDashboard
			m.pending = actionNone
		case "y":
			return m.runPending()
		}
		return m, nil
	}

	switch key {
	case "q", "esc":
		m.cancel()
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "l":
		m.showLogs = !m.showLogs
		if m.showLogs {
			m.unseen = 0
		}
	case "1", "2", "3", "4":
		if m.showLogs {
			m.logLevel = logging.Level(key[0] - '1')
		}
	case "s":
		return m.start("Scanning programs", m.scanPrograms())
	case "c":
		return m.start("Cleaning temp files", m.cleanTemp())
	case "o":
		if m.busy == "" {
			m.ask(actionOptimize)
		}
	case "u":
		if m.busy == "" && len(m.programs) > 0 {
			m.ask(actionUninstall)
		}
	}
	return m, nil
}

func (m *Model) ask(a action) {
	m.state = StateConfirm
	m.pending = a
	m.confirmFocused = 0
}

func (m Model) runPending() (tea.Model, tea.Cmd) {
	a := m.pending
	m.state = StateDashboard
	m.pending = actionNone

	switch a {
	case actionOptimize:
		return m.start("Optimizing", m.optimize())
	case actionUninstall:
		if p, ok := m.selected(); ok {
			return m.start("Uninstalling "+p.Name, m.uninstall(p))
		}
	}
	return m, nil
}

// start runs one operation at a time; requests while busy are ignored.
func (m Model) start(label string, op tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy != "" {
		m.setStatus(true, "%s in progress", m.busy)
		return m, nil
	}
	m.busy = label
	m.status = ""
	m.details = nil
	m.log.Info("operation started", "operation", label)
	return m, tea.Batch(m.spinner.Tick, op)
}

func (m Model) scanPrograms() tea.Cmd {
	inv, days := m.opts.Inventory, m.opts.Days
	return func() tea.Msg {
		return programsMsg(inv.ListInactive(days))
	}
}

func (m Model) cleanTemp() tea.Cmd {
	maint := m.opts.Maintainer
	return func() tea.Msg {
		return cleanDoneMsg(maint.CleanTempFiles())
	}
}

func (m Model) optimize() tea.Cmd {
	maint, ctx := m.opts.Maintainer, m.ctx
	return func() tea.Msg {
		return optimizeMsg(maint.OptimizeSystem(ctx))
	}
}

func (m Model) uninstall(p types.InstalledProgram) tea.Cmd {
	inv, ctx := m.opts.Inventory, m.ctx
	return func() tea.Msg {
		return uninstallMsg{program: p, ok: inv.Uninstall(ctx, p.UninstallCommand)}
	}
}

func (m *Model) setStatus(isErr bool, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = isErr
}

func (m Model) selected() (types.InstalledProgram, bool) {
	if m.cursor < 0 || m.cursor >= len(m.programs) {
		return types.InstalledProgram{}, false
	}
	return m.programs[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	if len(m.programs) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.programs)-1, m.cursor+delta))
	rows := m.listRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *Model) removeProgram(name string) {
	kept := m.programs[:0:0]
	for _, p := range m.programs {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	m.programs = kept
	if m.cursor >= len(m.programs) {
		m.cursor = max(0, len(m.programs)-1)
	}
	m.offset = min(m.offset, m.cursor)
}

// Run starts the TUI application.
func Run(opts Options) error {
	model := NewModel(opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
