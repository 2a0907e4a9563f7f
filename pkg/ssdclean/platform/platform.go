// Package platform isolates the operating-system services ssdclean drives:
// the installed-software catalog, volume enumeration and media probing,
// the per-user auto-run list, and external maintenance tools.
//
// Everything is reached through small interfaces so the inventory and
// cleanup pipelines can be exercised with fakes. Native returns the
// implementations for the running OS.
package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result is the outcome of an external command.
type Result struct {
	ExitCode int
	Output   string
}

// maxErrorOutput caps, in characters, how much tool output an ExitError
// message carries.
const maxErrorOutput = 200

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Name   string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
	}
	if r := []rune(out); len(r) > maxErrorOutput {
		out = string(r[:maxErrorOutput]) + "..."
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Name, e.Code, out)
}

// Runner starts external processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs commands with os/exec. The process inherits the
// caller's environment and runs to completion unless ctx is cancelled.
type ExecRunner struct {
	// Timeout bounds each command. Zero means no deadline.
	Timeout time.Duration
}

// Run executes name with args and captures combined output. A non-zero
// exit is returned as *ExitError alongside the populated Result.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	prepareCommand(cmd)

	out, err := cmd.CombinedOutput()
	res := Result{Output: string(out)}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, &ExitError{Name: name, Code: res.ExitCode, Output: res.Output}
	}
	res.ExitCode = -1
	return res, fmt.Errorf("starting %s: %w", name, err)
}

// Exec runs an argv slice through r.
func Exec(ctx context.Context, r Runner, argv []string) (Result, error) {
	if len(argv) == 0 {
		return Result{ExitCode: -1}, errors.New("empty command")
	}
	return r.Run(ctx, argv[0], argv[1:]...)
}

// ErrNoCatalog is returned by catalogs on platforms without an
// installed-software registry.
var ErrNoCatalog = errors.New("no installed-software catalog on this platform")

// CatalogEntry holds the raw fields of one installed-software record.
// Any field may be empty.
type CatalogEntry struct {
	Key              string
	DisplayName      string
	InstallLocation  string
	InstallDate      string
	UninstallCommand string
}

// Catalog enumerates installed software.
type Catalog interface {
	// Keys lists entry keys in enumeration order. An error means the
	// catalog as a whole could not be opened.
	Keys() ([]string, error)
	// Read returns the entry stored under key.
	Read(key string) (CatalogEntry, error)
}

// VolumeKind classifies a volume by how it is attached.
type VolumeKind int

// Volume kinds.
const (
	VolumeOther VolumeKind = iota
	VolumeFixed
	VolumeRemovable
)

func (k VolumeKind) String() string {
	switch k {
	case VolumeFixed:
		return "fixed"
	case VolumeRemovable:
		return "removable"
	default:
		return "other"
	}
}

// Volume is a mounted filesystem.
type Volume struct {
	// Mount is the drive root or mount point, e.g. `C:\` or /home.
	Mount string
	// Device is the drive letter (C:) or block device (/dev/sda1).
	Device string
	Kind   VolumeKind
}

// Name returns the identifier used in reports.
func (v Volume) Name() string {
	if v.Device != "" {
		return v.Device
	}
	return v.Mount
}

// Disks enumerates volumes and probes the media behind them.
type Disks interface {
	Volumes() ([]Volume, error)
	// MediaType returns a descriptor of the storage backing v, such as
	// "SSD" or "HDD".
	MediaType(ctx context.Context, v Volume) (string, error)
}

// IsSSD reports whether a media descriptor names solid-state storage.
func IsSSD(media string) bool {
	return strings.Contains(strings.ToUpper(media), "SSD")
}

// AutorunStore is the current user's list of programs started at login.
type AutorunStore interface {
	List() ([]string, error)
	// Clear removes every entry and returns how many were removed.
	Clear() (int, error)
}

// Commands builds argv slices for the platform's maintenance tools.
type Commands struct {
	Defrag         func(v Volume) []string
	Trim           func(v Volume) []string
	DisableService func(name string) []string
	StopService    func(name string) []string
	// Shell wraps a full command line for the platform shell.
	Shell func(cmdline string) []string
}

// Toolset bundles the platform collaborators.
type Toolset struct {
	Runner   Runner
	Catalog  Catalog
	Disks    Disks
	Autorun  AutorunStore
	Commands Commands
}
