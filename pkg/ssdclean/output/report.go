package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// programsData is the structured payload for a program listing.
type programsData struct {
	Days     int                      `json:"days" yaml:"days"`
	Count    int                      `json:"count" yaml:"count"`
	Programs []types.InstalledProgram `json:"programs" yaml:"programs"`
}

// Programs builds a report listing programs unused for more than days.
func Programs(progs []types.InstalledProgram, days int, now time.Time) *Report {
	if progs == nil {
		progs = []types.InstalledProgram{}
	}
	r := &Report{
		Kind:    "programs",
		Title:   fmt.Sprintf("Programs unused for more than %d days", days),
		Fields:  []Field{{"Found:", strconv.Itoa(len(progs))}},
		Columns: []string{"NAME", "LAST ACCESS", "INACTIVE", "LOCATION"},
		Empty:   "No inactive programs found",
		Data:    programsData{Days: days, Count: len(progs), Programs: progs},
	}
	for _, p := range progs {
		r.Rows = append(r.Rows, []string{
			p.Name,
			p.LastAccess.Format("2006-01-02"),
			humanize.RelTime(p.LastAccess, now, "ago", "from now"),
			p.InstallLocation,
		})
	}
	return r
}

// uninstallData is the structured payload for an uninstall attempt.
type uninstallData struct {
	Program string `json:"program" yaml:"program"`
	Command string `json:"command" yaml:"command"`
	Success bool   `json:"success" yaml:"success"`
}

// Uninstall builds a report for one uninstall attempt.
func Uninstall(name, command string, ok bool) *Report {
	result := "uninstalled"
	var warnings []string
	if !ok {
		result = "failed"
		warnings = []string{fmt.Sprintf("uninstaller for %s did not complete", name)}
	}
	return &Report{
		Kind:     "uninstall",
		Title:    "Uninstall " + name,
		Fields:   []Field{{"Command:", command}},
		Columns:  []string{"PROGRAM", "RESULT"},
		Rows:     [][]string{{name, result}},
		Warnings: warnings,
		Data:     uninstallData{Program: name, Command: command, Success: ok},
	}
}

// Cleanup builds a report for a cleanup run. Deletion errors are
// surfaced as warnings.
func Cleanup(res types.CleanupResult) *Report {
	return &Report{
		Kind:  "cleanup",
		Title: "Temporary files cleaned",
		Fields: []Field{
			{"Freed:", res.HumanFreed()},
			{"Elapsed:", FormatDuration(res.Elapsed)},
		},
		Columns: []string{"FREED", "BYTES", "FILES", "DIRS", "ERRORS"},
		Rows: [][]string{{
			res.HumanFreed(),
			strconv.FormatInt(res.BytesFreed, 10),
			strconv.FormatInt(res.FilesRemoved, 10),
			strconv.FormatInt(res.DirsRemoved, 10),
			strconv.Itoa(len(res.Errors)),
		}},
		Warnings: res.Errors,
		Data:     res,
	}
}

// Estimate builds a dry-run report of what a cleanup would remove.
func Estimate(est types.CleanupEstimate) *Report {
	r := &Report{
		Kind:  "estimate",
		Title: "Cleanup preview (nothing deleted)",
		Fields: []Field{
			{"Reclaimable:", types.FormatSize(est.Bytes)},
			{"Files:", strconv.FormatInt(est.Files, 10)},
		},
		Columns: []string{"FOLDER", "FILES", "DIRS", "SIZE"},
		Empty:   "No temp folders configured",
		Data:    est,
	}
	for _, f := range est.Folders {
		if f.Missing {
			r.Rows = append(r.Rows, []string{f.Path, "-", "-", "missing"})
			continue
		}
		r.Rows = append(r.Rows, []string{
			f.Path,
			strconv.FormatInt(f.Files, 10),
			strconv.FormatInt(f.Dirs, 10),
			types.FormatSize(f.Bytes),
		})
	}
	return r
}

// Optimization builds a report from an optimization run. Failed steps are
// repeated as warnings.
func Optimization(rep types.OptimizationReport) *Report {
	r := &Report{
		Kind:    "optimize",
		Title:   "System optimization",
		Fields:  []Field{{"Steps:", strconv.Itoa(len(rep.Actions))}, {"Elapsed:", FormatDuration(rep.Elapsed)}},
		Columns: []string{"KIND", "TARGET", "RESULT", "ERROR"},
		Empty:   "Nothing to optimize",
		Data:    rep,
	}
	for _, a := range rep.Actions {
		r.Rows = append(r.Rows, []string{string(a.Kind), a.Target, a.Message, a.Err})
	}
	for _, a := range rep.Failures() {
		r.Warnings = append(r.Warnings, a.String())
	}
	return r
}

// snapshotData is the structured payload for a utilization snapshot.
type snapshotData struct {
	types.Snapshot `yaml:",inline"`
	Disk           string `json:"disk" yaml:"disk"`
}

// Snapshot builds a report for a single utilization reading of disk.
func Snapshot(snap types.Snapshot, disk string) *Report {
	return &Report{
		Kind:    "snapshot",
		Title:   "System utilization",
		Fields:  []Field{{"Disk:", disk}, {"Time:", snap.Time.Format(time.RFC3339)}},
		Columns: []string{"CPU", "RAM", "DISK"},
		Rows: [][]string{{
			types.FormatPercent(snap.CPUPercent),
			types.FormatPercent(snap.RAMPercent),
			types.FormatPercent(snap.DiskPercent),
		}},
		Data: snapshotData{Snapshot: snap, Disk: disk},
	}
}

// infoData is the structured payload for host information.
type infoData struct {
	System types.SystemInfo  `json:"system" yaml:"system"`
	Disks  []types.DiskUsage `json:"disks" yaml:"disks"`
}

// Info builds a report describing the host and its mounted disks.
func Info(info types.SystemInfo, disks []types.DiskUsage) *Report {
	if disks == nil {
		disks = []types.DiskUsage{}
	}
	r := &Report{
		Kind:  "info",
		Title: "System information",
		Fields: []Field{
			{"Host:", info.Hostname},
			{"OS:", fmt.Sprintf("%s %s (%s/%s)", info.Platform, info.Version, info.OS, info.Arch)},
			{"Cores:", fmt.Sprintf("%d physical, %d logical", info.PhysicalCores, info.LogicalCores)},
			{"Memory:", humanize.IBytes(info.TotalMemory)},
			{"Uptime:", FormatDuration(time.Duration(info.Uptime) * time.Second)},
		},
		Columns: []string{"MOUNT", "DEVICE", "FS", "SIZE", "USED", "FREE", "USE%"},
		Empty:   "No disks found",
		Data:    infoData{System: info, Disks: disks},
	}
	for _, d := range disks {
		r.Rows = append(r.Rows, []string{
			d.Mountpoint,
			d.Device,
			d.Fstype,
			humanize.IBytes(d.Total),
			humanize.IBytes(d.Used),
			humanize.IBytes(d.Free),
			types.FormatPercent(d.UsedPercent),
		})
	}
	return r
}

// FormatDuration formats a duration in a human-friendly way.
func FormatDuration(d time.Duration) string {
	sec := d.Seconds()
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}
	if sec < 60 {
		return fmt.Sprintf("%.1fs", sec)
	}
	minutes := int(sec) / 60
	seconds := int(sec) % 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	hours := minutes / 60
	minutes = minutes % 60
	if hours < 48 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dd %dh", hours/24, hours%24)
}
