// Package platformtest provides in-memory fakes of the platform
// interfaces for tests.
package platformtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/platform"
)

// Catalog is a fixed software catalog. Keys are returned in the order the
// entries were given.
type Catalog struct {
	Entries []platform.CatalogEntry
	// KeysErr fails the whole catalog.
	KeysErr error
	// ReadErrs fails individual keys.
	ReadErrs map[string]error
}

// Keys implements platform.Catalog.
func (c *Catalog) Keys() ([]string, error) {
	if c.KeysErr != nil {
		return nil, c.KeysErr
	}
	keys := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		keys[i] = e.Key
	}
	return keys, nil
}

// Read implements platform.Catalog.
func (c *Catalog) Read(key string) (platform.CatalogEntry, error) {
	if err := c.ReadErrs[key]; err != nil {
		return platform.CatalogEntry{}, err
	}
	for _, e := range c.Entries {
		if e.Key == key {
			return e, nil
		}
	}
	return platform.CatalogEntry{}, fmt.Errorf("no entry %q", key)
}

// Call is one recorded command invocation.
type Call struct {
	Name string
	Args []string
}

// Line joins the call into a single space-separated string.
func (c Call) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner records commands and answers with scripted results. A command
// fails when any entry of Fail is a substring of its joined line.
type Runner struct {
	mu    sync.Mutex
	calls []Call

	Fail   []string
	Output map[string]string
}

// Run implements platform.Runner.
func (r *Runner) Run(_ context.Context, name string, args ...string) (platform.Result, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	line := call.Line()
	var out string
	for pattern, o := range r.Output {
		if strings.Contains(line, pattern) {
			out = o
		}
	}
	for _, f := range r.Fail {
		if strings.Contains(line, f) {
			return platform.Result{ExitCode: 1, Output: out}, &platform.ExitError{Name: name, Code: 1, Output: out}
		}
	}
	return platform.Result{Output: out}, nil
}

// Calls returns a copy of the recorded calls.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Lines returns the recorded calls as joined strings.
func (r *Runner) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.Line()
	}
	return lines
}

// Disks serves a fixed volume list and per-device media descriptors.
type Disks struct {
	List       []platform.Volume
	VolumesErr error
	// Media maps a device to its descriptor. Devices absent from the map
	// fail the probe.
	Media map[string]string

	mu     sync.Mutex
	probed []string
}

// Volumes implements platform.Disks.
func (d *Disks) Volumes() ([]platform.Volume, error) {
	if d.VolumesErr != nil {
		return nil, d.VolumesErr
	}
	return append([]platform.Volume(nil), d.List...), nil
}

// MediaType implements platform.Disks.
func (d *Disks) MediaType(_ context.Context, v platform.Volume) (string, error) {
	d.mu.Lock()
	d.probed = append(d.probed, v.Device)
	d.mu.Unlock()

	media, ok := d.Media[v.Device]
	if !ok {
		return "", errors.New("media type unavailable")
	}
	return media, nil
}

// Probed returns the devices whose media type was requested.
func (d *Disks) Probed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.probed...)
}

// Autorun is an in-memory startup list.
type Autorun struct {
	Entries  []string
	ClearErr error
	Cleared  int
}

// List implements platform.AutorunStore.
func (a *Autorun) List() ([]string, error) {
	return append([]string(nil), a.Entries...), nil
}

// Clear implements platform.AutorunStore.
func (a *Autorun) Clear() (int, error) {
	if a.ClearErr != nil {
		return 0, a.ClearErr
	}
	n := len(a.Entries)
	a.Entries = nil
	a.Cleared += n
	return n, nil
}

// Commands returns a readable command vocabulary for assertions:
// "defrag <dev>", "trim <dev>", "disable <svc>", "stop <svc>", "sh <line>".
func Commands() platform.Commands {
	return platform.Commands{
		Defrag:         func(v platform.Volume) []string { return []string{"defrag", v.Device} },
		Trim:           func(v platform.Volume) []string { return []string{"trim", v.Device} },
		DisableService: func(name string) []string { return []string{"disable", name} },
		StopService:    func(name string) []string { return []string{"stop", name} },
		Shell:          func(line string) []string { return []string{"sh", line} },
	}
}

// Toolset wires the given fakes together with Commands.
func Toolset(r *Runner, c *Catalog, d *Disks, a *Autorun) platform.Toolset {
	return platform.Toolset{
		Runner:   r,
		Catalog:  c,
		Disks:    d,
		Autorun:  a,
		Commands: Commands(),
	}
}
