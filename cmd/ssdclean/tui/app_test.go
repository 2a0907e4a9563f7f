package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/monitor"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

type fakeSampler struct{ snap types.Snapshot }

func (f fakeSampler) Snapshot() types.Snapshot { return f.snap }
func (f fakeSampler) Disk() string             { return "/" }

type fakeInventory struct {
	mu          sync.Mutex
	programs    []types.InstalledProgram
	days        []int
	uninstalled []string
	fail        bool
}

func (f *fakeInventory) ListInactive(days int) []types.InstalledProgram {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, days)
	return f.programs
}

func (f *fakeInventory) Uninstall(_ context.Context, cmd string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uninstalled = append(f.uninstalled, cmd)
	return !f.fail
}

type fakeMaintainer struct {
	cleaned   int
	optimized int
}

func (f *fakeMaintainer) CleanTempFiles() types.CleanupResult {
	f.cleaned++
	return types.CleanupResult{BytesFreed: 2048, Errors: []string{}}
}

func (f *fakeMaintainer) OptimizeSystem(context.Context) types.OptimizationReport {
	f.optimized++
	return types.OptimizationReport{Actions: []types.Action{
		{Kind: types.ActionTrim, Target: "C:", Message: "TRIM completed"},
		{Kind: types.ActionService, Target: "DiagTrack", Message: "cannot disable service", Err: "denied"},
	}}
}

type rig struct {
	inv   *fakeInventory
	maint *fakeMaintainer
	model Model
}

func newRig() *rig {
	inv := &fakeInventory{programs: []types.InstalledProgram{
		{Name: "Old Editor", InstallLocation: "/opt/editor", UninstallCommand: "editor-uninstall", LastAccess: time.Now().Add(-90 * 24 * time.Hour)},
		{Name: "Old Game", InstallLocation: "/opt/game", UninstallCommand: "game-uninstall", LastAccess: time.Now().Add(-60 * 24 * time.Hour)},
	}}
	maint := &fakeMaintainer{}
	m := NewModel(Options{
		Sampler:    fakeSampler{snap: types.Snapshot{CPUPercent: 25, RAMPercent: 50, DiskPercent: 75}},
		History:    monitor.NewHistory(5),
		Interval:   time.Second,
		Inventory:  inv,
		Maintainer: maint,
		Days:       30,
	})
	return &rig{inv: inv, maint: maint, model: m}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the model and returns the updated model.
func (r *rig) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := r.model.Update(msg)
	m, ok := next.(Model)
	require.True(t, ok)
	r.model = m
	return cmd
}

// operationMsgs runs cmd and returns the messages it produces, expanding
// batches and dropping spinner ticks.
func operationMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, operationMsgs(c)...)
		}
		return out
	}
	if _, ok := msg.(spinner.TickMsg); ok {
		return nil
	}
	return []tea.Msg{msg}
}

// run sends a key and then feeds the operation results back in.
func (r *rig) run(t *testing.T, k string) {
	t.Helper()
	for _, msg := range operationMsgs(r.send(t, key(k))) {
		r.send(t, msg)
	}
}

func TestSamplingFillsHistory(t *testing.T) {
	r := newRig()

	for i := 0; i < 8; i++ {
		msgs := operationMsgs(r.model.sample())
		require.Len(t, msgs, 1)
		cmd := r.send(t, msgs[0])
		assert.NotNil(t, cmd, "next tick is scheduled")
	}

	assert.Equal(t, 5, r.model.opts.History.Len())
	latest, ok := r.model.opts.History.Latest()
	require.True(t, ok)
	assert.Equal(t, 25.0, latest.CPUPercent)
}

func TestTickRequestsSample(t *testing.T) {
	r := newRig()
	msgs := operationMsgs(r.send(t, tickMsg(time.Now())))
	require.Len(t, msgs, 1)
	assert.IsType(t, sampleMsg{}, msgs[0])
}

func TestScanPrograms(t *testing.T) {
	r := newRig()
	r.run(t, "s")

	assert.Equal(t, []int{30}, r.inv.days)
	assert.True(t, r.model.scanned)
	assert.Len(t, r.model.programs, 2)
	assert.Empty(t, r.model.busy)
	assert.Contains(t, r.model.status, "2 programs")
}

func TestClean(t *testing.T) {
	r := newRig()
	r.run(t, "c")

	assert.Equal(t, 1, r.maint.cleaned)
	assert.Equal(t, "freed 2.0 KiB", r.model.status)
	assert.False(t, r.model.statusErr)
}

func TestOptimizeRequiresConfirmation(t *testing.T) {
	r := newRig()

	r.send(t, key("o"))
	assert.Equal(t, StateConfirm, r.model.state)
	assert.Contains(t, r.model.View(), "Confirm Optimization")

	// Enter on the default (cancel) button dismisses the dialog.
	r.run(t, "enter")
	assert.Equal(t, StateDashboard, r.model.state)
	assert.Zero(t, r.maint.optimized)

	r.send(t, key("o"))
	r.send(t, key("tab"))
	r.run(t, "enter")
	assert.Equal(t, 1, r.maint.optimized)
	assert.True(t, r.model.statusErr)
	assert.Contains(t, r.model.status, "1 of 2 steps failed")
}

func TestOptimizeCancelledWithN(t *testing.T) {
	r := newRig()
	r.send(t, key("o"))
	r.run(t, "n")

	assert.Equal(t, StateDashboard, r.model.state)
	assert.Zero(t, r.maint.optimized)
}

func TestUninstallSelected(t *testing.T) {
	r := newRig()
	r.run(t, "u")
	assert.Equal(t, StateDashboard, r.model.state, "nothing to uninstall before a scan")

	r.run(t, "s")
	r.send(t, key("down"))
	r.send(t, key("u"))
	require.Equal(t, StateConfirm, r.model.state)
	assert.Contains(t, r.model.View(), "Uninstall Old Game?")

	r.run(t, "y")

	assert.Equal(t, []string{"game-uninstall"}, r.inv.uninstalled)
	require.Len(t, r.model.programs, 1)
	assert.Equal(t, "Old Editor", r.model.programs[0].Name)
	assert.Equal(t, 0, r.model.cursor)
	assert.Equal(t, "uninstalled Old Game", r.model.status)
}

func TestUninstallFailureKeepsProgram(t *testing.T) {
	r := newRig()
	r.inv.fail = true
	r.run(t, "s")
	r.send(t, key("u"))
	r.run(t, "y")

	assert.Len(t, r.model.programs, 2)
	assert.True(t, r.model.statusErr)
	assert.Equal(t, "uninstall of Old Editor failed", r.model.status)
}

func TestOneOperationAtATime(t *testing.T) {
	r := newRig()

	first := r.send(t, key("s"))
	require.NotNil(t, first)
	assert.Equal(t, "Scanning programs", r.model.busy)

	assert.Nil(t, r.send(t, key("c")))
	assert.Contains(t, r.model.status, "in progress")

	r.send(t, key("o"))
	assert.Equal(t, StateDashboard, r.model.state, "no dialog while busy")
	assert.Zero(t, r.maint.cleaned)
}

func TestCursorStaysInRange(t *testing.T) {
	r := newRig()
	r.run(t, "s")

	for i := 0; i < 5; i++ {
		r.send(t, key("down"))
	}
	assert.Equal(t, 1, r.model.cursor)

	for i := 0; i < 5; i++ {
		r.send(t, key("k"))
	}
	assert.Equal(t, 0, r.model.cursor)
}

func TestQuit(t *testing.T) {
	r := newRig()
	cmd := r.send(t, key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Error(t, r.model.ctx.Err(), "quitting cancels running operations")
}

func TestViewRendersDashboard(t *testing.T) {
	r := newRig()
	r.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})
	r.send(t, sampleMsg(types.Snapshot{CPUPercent: 25, RAMPercent: 50, DiskPercent: 75}))

	view := r.model.View()
	assert.Contains(t, view, "CPU")
	assert.Contains(t, view, "25.0%")
	assert.Contains(t, view, "75.0%")
	assert.Contains(t, view, "press s to scan")

	r.send(t, key("l"))
	assert.Contains(t, r.model.View(), "Logs [info]")
}

func TestLogEventsCountUnseenWarnings(t *testing.T) {
	events := make(chan logging.LogEntry, 4)
	r := newRig()
	r.model.opts.LogEvents = events

	events <- logging.LogEntry{Level: logging.LevelWarn, Component: "cleaner", Message: "cannot delete"}
	msg := r.model.waitForLog()()
	require.IsType(t, logEntryMsg{}, msg)
	next := r.send(t, msg)
	assert.NotNil(t, next, "keeps listening")

	r.send(t, logEntryMsg{Level: logging.LevelInfo})
	r.send(t, logEntryMsg{Level: logging.LevelError})
	assert.Equal(t, 2, r.model.unseen)
	assert.Contains(t, r.model.renderHelpBar(), "2 new warnings")

	r.send(t, key("l"))
	assert.Zero(t, r.model.unseen)
	r.send(t, logEntryMsg{Level: logging.LevelError})
	assert.Zero(t, r.model.unseen, "open panel shows entries directly")

	close(events)
	assert.Nil(t, r.model.waitForLog()())
}

func TestWaitForLogWithoutSubscription(t *testing.T) {
	assert.Nil(t, newRig().model.waitForLog())
}

func TestCleanFailuresAreListed(t *testing.T) {
	r := newRig()
	r.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})

	errs := []string{
		"cannot delete /tmp/locked.tmp: permission denied",
		"cannot delete /tmp/a.tmp: permission denied",
		"cannot delete /tmp/b.tmp: permission denied",
		"cannot read folder /tmp/sealed: permission denied",
	}
	r.send(t, cleanDoneMsg(types.CleanupResult{BytesFreed: 10, Errors: errs}))

	view := r.model.View()
	assert.Contains(t, view, "4 items could not be deleted")
	assert.Contains(t, view, "/tmp/locked.tmp")
	assert.Contains(t, view, "/tmp/b.tmp")
	assert.NotContains(t, view, "/tmp/sealed", "only the first lines are shown")
	assert.Contains(t, view, "and 1 more")

	// A new operation clears the previous failures.
	r.send(t, key("s"))
	assert.NotContains(t, r.model.View(), "/tmp/locked.tmp")
}

func TestOptimizeFailuresAreListed(t *testing.T) {
	r := newRig()
	r.send(t, tea.WindowSizeMsg{Width: 100, Height: 30})

	r.send(t, optimizeMsg(types.OptimizationReport{Actions: []types.Action{
		{Kind: types.ActionTrim, Target: "C:", Message: "TRIM completed"},
		{Kind: types.ActionService, Target: "DiagTrack", Message: "disable failed", Err: "access denied"},
	}}))

	view := r.model.View()
	assert.Contains(t, view, "1 of 2 steps failed")
	assert.Contains(t, view, "DiagTrack")
	assert.Contains(t, view, "access denied")
	assert.NotContains(t, view, "TRIM completed")
}
