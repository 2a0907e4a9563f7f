// Package cleaner deletes temporary files and runs system optimization
// actions: defragmentation or TRIM per fixed volume, clearing the
// current user's startup list, and disabling configured services.
//
// Operations never stop at the first failure. Problems are collected in
// the returned report in the order they were met.
package cleaner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/platform"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// Config lists what the executor operates on. It is copied on New and
// never changed afterwards.
type Config struct {
	TempFolders []string
	Services    []string
	// Keep holds glob patterns matched against file names; matching
	// files are never deleted.
	Keep []string
	// ClearAutorun enables the startup-list step of OptimizeSystem.
	ClearAutorun bool
}

// Executor runs cleanup and optimization.
type Executor struct {
	cfg   Config
	tools platform.Toolset
	keep  []glob.Glob

	removeFile func(string) error
	removeAll  func(string) error
}

// New creates an Executor. It fails only on an invalid Keep pattern.
func New(cfg Config, tools platform.Toolset) (*Executor, error) {
	e := &Executor{
		cfg: Config{
			TempFolders:  append([]string(nil), cfg.TempFolders...),
			Services:     append([]string(nil), cfg.Services...),
			Keep:         append([]string(nil), cfg.Keep...),
			ClearAutorun: cfg.ClearAutorun,
		},
		tools:      tools,
		removeFile: os.Remove,
		removeAll:  os.RemoveAll,
	}
	for _, pattern := range cfg.Keep {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid keep pattern %q: %w", pattern, err)
		}
		e.keep = append(e.keep, g)
	}
	return e, nil
}

// Config returns a copy of the executor's configuration.
func (e *Executor) Config() Config {
	c := e.cfg
	c.TempFolders = append([]string(nil), c.TempFolders...)
	c.Services = append([]string(nil), c.Services...)
	c.Keep = append([]string(nil), c.Keep...)
	return c
}

func (e *Executor) kept(name string) bool {
	name = strings.ToLower(name)
	for _, g := range e.keep {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// CleanTempFiles empties every configured temp folder that exists.
// Folders are processed bottom-up: a directory's subdirectories are
// visited first, then its files are deleted, then the emptied
// subdirectories are removed. The configured folders themselves remain.
func (e *Executor) CleanTempFiles() types.CleanupResult {
	start := time.Now()
	res := types.CleanupResult{
		ID:     uuid.NewString(),
		Errors: []string{},
	}
	log := logging.Get("cleaner").With("run", res.ID)

	for _, folder := range e.cfg.TempFolders {
		info, err := os.Stat(folder)
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("temp folder missing", "folder", folder)
			continue
		}
		if err != nil {
			msg := fmt.Sprintf("cannot read folder %s: %v", folder, cause(err))
			log.Warn("cleanup error", "error", msg)
			res.Errors = append(res.Errors, msg)
			continue
		}
		if !info.IsDir() {
			log.Warn("temp folder is not a directory", "folder", folder)
			continue
		}

		log.Debug("cleaning temp folder", "folder", folder)
		out := e.cleanDir(folder, &res)
		for _, msg := range out.errs {
			log.Warn("cleanup error", "error", msg)
		}
		res.Errors = append(res.Errors, out.errs...)
	}

	res.Elapsed = time.Since(start)
	log.Info("temp cleanup finished",
		"freed", types.FormatSize(res.BytesFreed),
		"files", res.FilesRemoved,
		"dirs", res.DirsRemoved,
		"errors", len(res.Errors))
	return res
}

// dirOutcome describes what cleanDir left behind under one directory.
type dirOutcome struct {
	// failed is set when something beneath the directory could not be
	// deleted; kept when something matched a keep pattern. Either one
	// means the directory itself stays.
	failed, kept bool
	// errs holds the subtree's errors in encounter order.
	errs []string
	// Files and directories that are still there because of a failure.
	// They count as freed if a later RemoveAll of an ancestor succeeds.
	leftBytes, leftFiles, leftDirs int64
}

func (o *dirOutcome) absorb(child dirOutcome) {
	o.failed = o.failed || child.failed
	o.errs = append(o.errs, child.errs...)
	o.leftBytes += child.leftBytes
	o.leftFiles += child.leftFiles
	o.leftDirs += child.leftDirs
}

// cleanDir empties dir. Errors are returned rather than recorded so that
// a subtree whose second removal attempt succeeds leaves no stale errors.
func (e *Executor) cleanDir(dir string, res *types.CleanupResult) (out dirOutcome) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		out.errs = []string{fmt.Sprintf("cannot read folder %s: %v", dir, cause(err))}
		out.failed = true
		return out
	}

	var files, subdirs []fs.DirEntry
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry)
		} else {
			files = append(files, entry)
		}
	}

	type visited struct {
		path    string
		outcome dirOutcome
	}
	children := make([]visited, 0, len(subdirs))
	for _, sub := range subdirs {
		path := filepath.Join(dir, sub.Name())
		children = append(children, visited{path: path, outcome: e.cleanDir(path, res)})
	}

	var fileErrs []string
	for _, f := range files {
		path := filepath.Join(dir, f.Name())
		if e.kept(f.Name()) {
			out.kept = true
			continue
		}

		var size int64
		if info, err := f.Info(); err == nil {
			size = info.Size()
		}
		if err := e.removeFile(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			fileErrs = append(fileErrs, fmt.Sprintf("cannot delete %s: %v", path, cause(err)))
			out.failed = true
			out.leftBytes += size
			out.leftFiles++
			continue
		}
		res.BytesFreed += size
		res.FilesRemoved++
	}

	// Child errors were met before this directory's files, removal
	// errors after them.
	var removalErrs []string
	for _, child := range children {
		c := child.outcome
		if c.kept {
			out.kept = true
			out.absorb(c)
			continue
		}
		if err := e.removeAll(child.path); err != nil {
			if !c.failed {
				removalErrs = append(removalErrs, fmt.Sprintf("cannot delete directory %s: %v", child.path, cause(err)))
			}
			out.absorb(c)
			out.failed = true
			out.leftDirs++
			continue
		}
		// A retry may clear what failed the first time; the subtree is
		// gone, so its errors no longer apply.
		res.BytesFreed += c.leftBytes
		res.FilesRemoved += c.leftFiles
		res.DirsRemoved += c.leftDirs + 1
	}

	out.errs = append(out.errs, fileErrs...)
	out.errs = append(out.errs, removalErrs...)
	return out
}

// cause strips the operation and path from filesystem errors, since
// messages already name the path.
func cause(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	return err
}
