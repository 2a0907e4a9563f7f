// Package inventory finds installed programs that have gone unused and
// runs their uninstallers.
//
// Programs come from the platform's software catalog. A program counts as
// inactive when its install directory has not been accessed for more than
// the requested number of days.
package inventory

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/IGLOU-EU/go-wildcard"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/platform"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// quietFlag is appended to uninstall commands that are not installer
// packages so they run unattended.
const quietFlag = " /quiet"

// Scanner lists and uninstalls catalog programs.
type Scanner struct {
	catalog platform.Catalog
	runner  platform.Runner
	shell   func(cmdline string) []string
	stat    func(path string) (os.FileInfo, error)
	atime   func(os.FileInfo) time.Time
	now     func() time.Time
	match   string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithStat overrides how install locations are inspected.
func WithStat(stat func(string) (os.FileInfo, error), atime func(os.FileInfo) time.Time) Option {
	return func(s *Scanner) {
		s.stat = stat
		s.atime = atime
	}
}

// WithNameFilter restricts results to display names matching a wildcard
// pattern such as "*Toolbar*". Matching ignores case.
func WithNameFilter(pattern string) Option {
	return func(s *Scanner) { s.match = strings.ToLower(pattern) }
}

// New creates a Scanner over the given catalog. Uninstall commands are
// wrapped with shell and started through runner.
func New(catalog platform.Catalog, runner platform.Runner, shell func(string) []string, opts ...Option) *Scanner {
	s := &Scanner{
		catalog: catalog,
		runner:  runner,
		shell:   shell,
		stat:    os.Stat,
		atime:   platform.LastAccess,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListInactive returns the programs whose install location exists and was
// last accessed more than days days ago, in catalog order. Unreadable or
// incomplete catalog entries are skipped. If the catalog cannot be opened
// the error is logged and the result is empty.
func (s *Scanner) ListInactive(days int) []types.InstalledProgram {
	log := logging.Get("inventory")

	if days < 0 {
		log.Warn("negative inactivity threshold, using 0", "days", days)
		days = 0
	}
	threshold := time.Duration(days) * 24 * time.Hour
	now := s.now()

	inactive := []types.InstalledProgram{}
	s.each(func(p types.InstalledProgram) {
		if now.Sub(p.LastAccess) > threshold {
			inactive = append(inactive, p)
		}
	})

	log.Info("inventory scan complete", "days", days, "inactive", len(inactive))
	return inactive
}

// Find returns the installed program with the given display name,
// compared case-insensitively, regardless of activity.
func (s *Scanner) Find(name string) (types.InstalledProgram, bool) {
	var (
		found types.InstalledProgram
		ok    bool
	)
	s.each(func(p types.InstalledProgram) {
		if !ok && strings.EqualFold(p.Name, name) {
			found, ok = p, true
		}
	})
	return found, ok
}

// each yields every complete catalog entry whose install location exists.
func (s *Scanner) each(yield func(types.InstalledProgram)) {
	log := logging.Get("inventory")

	keys, err := s.catalog.Keys()
	if err != nil {
		if errors.Is(err, platform.ErrNoCatalog) {
			log.Warn("software catalog unavailable", "error", err)
		} else {
			log.Error("cannot open software catalog", "error", err)
		}
		return
	}

	for _, key := range keys {
		entry, err := s.catalog.Read(key)
		if err != nil {
			log.Debug("skipping unreadable catalog entry", "key", key, "error", err)
			continue
		}
		if entry.DisplayName == "" || entry.InstallLocation == "" || entry.UninstallCommand == "" {
			continue
		}
		if s.match != "" && !wildcard.Match(s.match, strings.ToLower(entry.DisplayName)) {
			continue
		}

		location := strings.Trim(entry.InstallLocation, `"`)
		info, err := s.stat(location)
		if err != nil {
			log.Debug("install location missing", "name", entry.DisplayName, "path", location)
			continue
		}

		yield(types.InstalledProgram{
			Name:             entry.DisplayName,
			InstallLocation:  location,
			LastAccess:       s.atime(info),
			UninstallCommand: entry.UninstallCommand,
			InstallDate:      entry.InstallDate,
			Source:           key,
		})
	}
}

// QuietCommand returns the command line actually run for an uninstall
// command: installer-package commands unchanged, anything else with the
// quiet flag appended.
func QuietCommand(cmd string) string {
	cmd = strings.TrimSpace(cmd)
	if strings.Contains(strings.ToLower(cmd), "msiexec") {
		return cmd
	}
	return cmd + quietFlag
}

// Uninstall runs an uninstall command through the platform shell and
// reports whether it exited successfully. Failures are logged, not
// returned.
func (s *Scanner) Uninstall(ctx context.Context, cmd string) bool {
	log := logging.Get("inventory")

	if strings.TrimSpace(cmd) == "" {
		log.Warn("empty uninstall command")
		return false
	}

	line := QuietCommand(cmd)
	log.Info("running uninstaller", "command", line)

	res, err := platform.Exec(ctx, s.runner, s.shell(line))
	if err != nil {
		log.Error("uninstall failed", "command", line, "exit", res.ExitCode, "error", err)
		return false
	}
	log.Info("uninstall finished", "command", line)
	return true
}
