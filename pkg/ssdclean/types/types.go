// Package types provides the core data types for ssdclean.
// It includes the installed-program record produced by inventory scans,
// the reports returned by cleanup and optimization runs, utilization
// snapshots, and helpers for parsing and formatting sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// InstalledProgram describes a catalog entry whose install location existed
// when the inventory was scanned. Values are derived on every scan and never
// cached.
type InstalledProgram struct {
	// Name is the display name from the software catalog.
	Name string `json:"name" yaml:"name"`

	// InstallLocation is the directory the program was installed into.
	InstallLocation string `json:"install_location" yaml:"install_location"`

	// LastAccess is the last-access time of InstallLocation.
	LastAccess time.Time `json:"last_access" yaml:"last_access"`

	// UninstallCommand is the opaque command line registered by the installer.
	UninstallCommand string `json:"uninstall_command" yaml:"uninstall_command"`

	// InstallDate is the raw install date string from the catalog, if any.
	InstallDate string `json:"install_date,omitempty" yaml:"install_date,omitempty"`

	// Source is the catalog key the entry was read from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// InactiveFor returns how long the program has gone unused as of now.
func (p InstalledProgram) InactiveFor(now time.Time) time.Duration {
	return now.Sub(p.LastAccess)
}

// InactiveDays returns the whole number of days since LastAccess.
func (p InstalledProgram) InactiveDays(now time.Time) int {
	return int(p.InactiveFor(now) / (24 * time.Hour))
}

// CleanupResult is the outcome of a temp-file cleanup run.
type CleanupResult struct {
	// ID correlates the run with its log lines.
	ID string `json:"id" yaml:"id"`

	// BytesFreed is the sum of the sizes of files that were actually deleted.
	BytesFreed int64 `json:"bytes_freed" yaml:"bytes_freed"`

	// FilesRemoved is the number of files deleted.
	FilesRemoved int64 `json:"files_removed" yaml:"files_removed"`

	// DirsRemoved is the number of subdirectories removed.
	DirsRemoved int64 `json:"dirs_removed" yaml:"dirs_removed"`

	// Errors holds one message per item that could not be removed,
	// in the order they were encountered.
	Errors []string `json:"errors" yaml:"errors"`

	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// HumanFreed returns BytesFreed formatted with binary units.
func (r CleanupResult) HumanFreed() string {
	return FormatSize(r.BytesFreed)
}

// FolderEstimate is the reclaimable content found under one temp folder.
type FolderEstimate struct {
	Path  string `json:"path" yaml:"path"`
	Files int64  `json:"files" yaml:"files"`
	Dirs  int64  `json:"dirs" yaml:"dirs"`
	Bytes int64  `json:"bytes" yaml:"bytes"`
	// Missing is set when the folder does not exist.
	Missing bool `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// CleanupEstimate is a dry-run preview of a cleanup run.
type CleanupEstimate struct {
	Folders []FolderEstimate `json:"folders" yaml:"folders"`
	Files   int64            `json:"files" yaml:"files"`
	Bytes   int64            `json:"bytes" yaml:"bytes"`
	Elapsed time.Duration    `json:"elapsed" yaml:"elapsed"`
}

// ActionKind identifies the kind of optimization step an Action records.
type ActionKind string

// Optimization action kinds.
const (
	ActionVolumes ActionKind = "volumes"
	ActionDefrag  ActionKind = "defrag"
	ActionTrim    ActionKind = "trim"
	ActionAutorun ActionKind = "autorun"
	ActionService ActionKind = "service"
)

// Action is a single entry in an optimization report.
type Action struct {
	Kind    ActionKind `json:"kind" yaml:"kind"`
	Target  string     `json:"target" yaml:"target"`
	Message string     `json:"message" yaml:"message"`
	// Err is empty when the step succeeded.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the step failed.
func (a Action) Failed() bool {
	return a.Err != ""
}

// String renders the action as a single log line.
func (a Action) String() string {
	if a.Failed() {
		return fmt.Sprintf("%s %s: %s: %s", a.Kind, a.Target, a.Message, a.Err)
	}
	return fmt.Sprintf("%s %s: %s", a.Kind, a.Target, a.Message)
}

// OptimizationReport is the ordered log of optimization steps.
type OptimizationReport struct {
	ID      string        `json:"id" yaml:"id"`
	Actions []Action      `json:"actions" yaml:"actions"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Lines returns the human-readable action log in encounter order.
func (r OptimizationReport) Lines() []string {
	lines := make([]string, len(r.Actions))
	for i, a := range r.Actions {
		lines[i] = a.String()
	}
	return lines
}

// Count returns the number of actions of the given kind.
func (r OptimizationReport) Count(kind ActionKind) int {
	n := 0
	for _, a := range r.Actions {
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// Failures returns the failed actions.
func (r OptimizationReport) Failures() []Action {
	var failed []Action
	for _, a := range r.Actions {
		if a.Failed() {
			failed = append(failed, a)
		}
	}
	return failed
}

// Snapshot is a point-in-time reading of system utilization. All values are
// percentages in [0, 100].
type Snapshot struct {
	Time        time.Time `json:"time" yaml:"time"`
	CPUPercent  float64   `json:"cpu_percent" yaml:"cpu_percent"`
	RAMPercent  float64   `json:"ram_percent" yaml:"ram_percent"`
	DiskPercent float64   `json:"disk_percent" yaml:"disk_percent"`
}

// SystemInfo describes the host.
type SystemInfo struct {
	Hostname      string `json:"hostname" yaml:"hostname"`
	OS            string `json:"os" yaml:"os"`
	Platform      string `json:"platform" yaml:"platform"`
	Version       string `json:"version" yaml:"version"`
	Arch          string `json:"arch" yaml:"arch"`
	PhysicalCores int    `json:"physical_cores" yaml:"physical_cores"`
	LogicalCores  int    `json:"logical_cores" yaml:"logical_cores"`
	TotalMemory   uint64 `json:"total_memory" yaml:"total_memory"`
	Uptime        uint64 `json:"uptime_seconds" yaml:"uptime_seconds"`
}

// DiskUsage describes one mounted partition.
type DiskUsage struct {
	Device      string  `json:"device" yaml:"device"`
	Mountpoint  string  `json:"mountpoint" yaml:"mountpoint"`
	Fstype      string  `json:"fstype" yaml:"fstype"`
	Total       uint64  `json:"total" yaml:"total"`
	Used        uint64  `json:"used" yaml:"used"`
	Free        uint64  `json:"free" yaml:"free"`
	UsedPercent float64 `json:"used_percent" yaml:"used_percent"`
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string ("10MB", "512K", "1GiB")
// and returns the size in bytes. Units are binary.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	unit := strings.ToUpper(matches[2])
	unit = strings.TrimSuffix(unit, "IB")
	unit = strings.TrimSuffix(unit, "B")

	var multiplier int64
	switch unit {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, unit)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary units, e.g. "1.5 MiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatPercent renders a utilization percentage with one decimal.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}
