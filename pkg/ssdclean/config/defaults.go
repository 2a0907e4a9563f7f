// Package config provides configuration management for ssdclean.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Default configuration values.
const (
	// DefaultInactiveDays is the inactivity threshold for program scans.
	DefaultInactiveDays = 30

	// DefaultHistorySize is the number of utilization samples the monitor keeps.
	DefaultHistorySize = 60

	// DefaultSampleInterval is the monitor's sampling period.
	DefaultSampleInterval = time.Second

	// DefaultLogLevel is the file log level.
	DefaultLogLevel = "info"

	// DefaultLogMaxSize is the size at which the log file is rotated.
	DefaultLogMaxSize = "10MB"
)

// DefaultServices are the telemetry and remote-administration services
// disabled by an optimization run.
var DefaultServices = []string{
	"DiagTrack",
	"dmwappushservice",
	"RemoteRegistry",
}

// DefaultTempFolders returns the temp folders for the running system.
func DefaultTempFolders() []string {
	return tempFolders(runtime.GOOS, os.Getenv, os.TempDir())
}

// tempFolders derives the cleanup folders from the environment. Unset
// variables are skipped and duplicates are dropped, keeping first
// occurrence order.
func tempFolders(goos string, getenv func(string) string, tmp string) []string {
	var candidates []string
	if goos == "windows" {
		if v := getenv("TEMP"); v != "" {
			candidates = append(candidates, v)
		}
		if root := getenv("SYSTEMROOT"); root != "" {
			candidates = append(candidates, filepath.Join(root, "Temp"), filepath.Join(root, "Prefetch"))
		}
		if v := getenv("LOCALAPPDATA"); v != "" {
			candidates = append(candidates, filepath.Join(v, "Temp"))
		}
	} else {
		candidates = append(candidates, tmp)
	}

	seen := make(map[string]bool, len(candidates))
	folders := make([]string, 0, len(candidates))
	for _, c := range candidates {
		key := filepath.Clean(c)
		if goos == "windows" {
			key = strings.ToLower(key)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		folders = append(folders, filepath.Clean(c))
	}
	return folders
}
