//go:build !windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/shirou/gopsutil/v4/disk"
)

const sysBlockDir = "/sys/class/block"

// Native returns the toolset for Unix-like systems. There is no
// installed-software registry, so inventory scans come back empty.
func Native(runner Runner) Toolset {
	return Toolset{
		Runner:  runner,
		Catalog: unixCatalog{},
		Disks: &SysfsDisks{
			Root:       sysBlockDir,
			Partitions: func() ([]disk.PartitionStat, error) { return disk.Partitions(false) },
		},
		Autorun:  &AutostartDir{Dir: filepath.Join(xdg.ConfigHome, "autostart")},
		Commands: NativeCommands(),
	}
}

// NativeCommands returns the Unix maintenance command vocabulary.
func NativeCommands() Commands {
	return Commands{
		Defrag: func(v Volume) []string {
			return []string{"e4defrag", v.Mount}
		},
		Trim: func(v Volume) []string {
			return []string{"fstrim", "-v", v.Mount}
		},
		DisableService: func(name string) []string {
			return []string{"systemctl", "disable", name}
		},
		StopService: func(name string) []string {
			return []string{"systemctl", "stop", name}
		},
		Shell: func(cmdline string) []string {
			return []string{"sh", "-c", cmdline}
		},
	}
}

type unixCatalog struct{}

func (unixCatalog) Keys() ([]string, error) { return nil, ErrNoCatalog }

func (unixCatalog) Read(string) (CatalogEntry, error) { return CatalogEntry{}, ErrNoCatalog }

// SysfsDisks classifies mounted block devices using sysfs.
type SysfsDisks struct {
	// Root is the sysfs block class directory.
	Root       string
	Partitions func() ([]disk.PartitionStat, error)
	// Resolve follows device symlinks such as /dev/mapper/<name> to the
	// kernel device. Nil means filepath.EvalSymlinks.
	Resolve func(string) (string, error)
}

// Volumes lists mounted partitions. Only /dev block devices other than
// loop and ram devices are considered for fixed or removable; everything
// else is VolumeOther.
func (d *SysfsDisks) Volumes() ([]Volume, error) {
	parts, err := d.Partitions()
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w", err)
	}

	vols := make([]Volume, 0, len(parts))
	for _, p := range parts {
		vols = append(vols, Volume{
			Mount:  p.Mountpoint,
			Device: p.Device,
			Kind:   d.kind(p.Device),
		})
	}
	return vols, nil
}

func (d *SysfsDisks) kind(device string) VolumeKind {
	name, ok := d.blockName(device)
	if !ok {
		return VolumeOther
	}
	val, err := d.readAttr(name, "removable")
	if err != nil {
		return VolumeOther
	}
	if val == "1" {
		return VolumeRemovable
	}
	return VolumeFixed
}

// MediaType reports "SSD" for non-rotational devices and "HDD" otherwise.
func (d *SysfsDisks) MediaType(_ context.Context, v Volume) (string, error) {
	name, ok := d.blockName(v.Device)
	if !ok {
		return "", fmt.Errorf("%s is not a block device", v.Device)
	}
	val, err := d.readAttr(name, "queue/rotational")
	if err != nil {
		return "", fmt.Errorf("probing media type of %s: %w", v.Device, err)
	}
	switch val {
	case "0":
		return "SSD", nil
	case "1":
		return "HDD", nil
	default:
		return "", fmt.Errorf("unexpected rotational flag %q for %s", val, v.Device)
	}
}

// readAttr reads a device attribute, falling back to the parent device
// for partitions, which do not carry queue or removable attributes.
func (d *SysfsDisks) readAttr(name, attr string) (string, error) {
	dev := filepath.Join(d.Root, name)
	if resolved, err := filepath.EvalSymlinks(dev); err == nil {
		dev = resolved
	}

	data, err := os.ReadFile(filepath.Join(dev, attr))
	if errors.Is(err, os.ErrNotExist) {
		data, err = os.ReadFile(filepath.Join(filepath.Dir(dev), attr))
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// blockName maps a device path to its sysfs name. Symlinked devices
// (LVM and LUKS under /dev/mapper, /dev/disk/by-*) resolve to dm-N or the
// underlying disk first; an unresolvable path is used as given.
func (d *SysfsDisks) blockName(device string) (string, bool) {
	if !strings.HasPrefix(device, "/dev/") {
		return "", false
	}
	resolve := d.Resolve
	if resolve == nil {
		resolve = filepath.EvalSymlinks
	}
	if target, err := resolve(device); err == nil && strings.HasPrefix(target, "/dev/") {
		device = target
	}
	name := filepath.Base(device)
	if strings.HasPrefix(name, "loop") || strings.HasPrefix(name, "ram") || strings.HasPrefix(name, "zram") {
		return "", false
	}
	return name, true
}

// AutostartDir is an XDG autostart directory of .desktop entries.
type AutostartDir struct {
	Dir string
}

// List returns the entry file names, sorted.
func (a *AutostartDir) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(a.Dir, "*.desktop"))
	if err != nil {
		return nil, fmt.Errorf("listing autostart entries: %w", err)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = filepath.Base(m)
	}
	sort.Strings(names)
	return names, nil
}

// Clear removes every entry. A missing directory means nothing to clear.
func (a *AutostartDir) Clear() (int, error) {
	names, err := a.List()
	if err != nil {
		return 0, err
	}

	removed := 0
	var errs []error
	for _, name := range names {
		if err := os.Remove(filepath.Join(a.Dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", name, err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
