//go:build windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	uninstallPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`
	runPath       = `Software\Microsoft\Windows\CurrentVersion\Run`
)

type uninstallRoot struct {
	name   string
	key    registry.Key
	access uint32
}

// Machine-wide 64-bit and 32-bit views first, then the per-user hive.
var uninstallRoots = []uninstallRoot{
	{name: "HKLM", key: registry.LOCAL_MACHINE, access: registry.WOW64_64KEY},
	{name: "HKLM32", key: registry.LOCAL_MACHINE, access: registry.WOW64_32KEY},
	{name: "HKCU", key: registry.CURRENT_USER},
}

// Native returns the Windows toolset backed by the registry, the Win32
// drive APIs, PowerShell storage cmdlets, defrag.exe and sc.exe.
func Native(runner Runner) Toolset {
	return Toolset{
		Runner:   runner,
		Catalog:  registryCatalog{},
		Disks:    windowsDisks{runner: runner},
		Autorun:  runKeyStore{},
		Commands: NativeCommands(),
	}
}

// NativeCommands returns the Windows maintenance command vocabulary.
func NativeCommands() Commands {
	return Commands{
		Defrag: func(v Volume) []string {
			return []string{"defrag", v.Device, "/D", "/U"}
		},
		Trim: func(v Volume) []string {
			return []string{"defrag", v.Device, "/L", "/U"}
		},
		DisableService: func(name string) []string {
			return []string{"sc", "config", name, "start=", "disabled"}
		},
		StopService: func(name string) []string {
			return []string{"sc", "stop", name}
		},
		Shell: func(cmdline string) []string {
			return []string{"cmd", "/C", cmdline}
		},
	}
}

type registryCatalog struct{}

func (registryCatalog) Keys() ([]string, error) {
	var (
		keys    []string
		opened  int
		lastErr error
	)
	for _, root := range uninstallRoots {
		k, err := registry.OpenKey(root.key, uninstallPath, registry.ENUMERATE_SUB_KEYS|root.access)
		if err != nil {
			lastErr = err
			continue
		}
		names, err := k.ReadSubKeyNames(-1)
		_ = k.Close()
		if err != nil {
			lastErr = err
			continue
		}
		opened++
		for _, name := range names {
			keys = append(keys, root.name+`\`+name)
		}
	}
	if opened == 0 {
		return nil, fmt.Errorf("opening uninstall registry: %w", lastErr)
	}
	return keys, nil
}

func (registryCatalog) Read(key string) (CatalogEntry, error) {
	rootName, sub, ok := strings.Cut(key, `\`)
	if !ok {
		return CatalogEntry{}, fmt.Errorf("malformed catalog key %q", key)
	}

	var root *uninstallRoot
	for i := range uninstallRoots {
		if uninstallRoots[i].name == rootName {
			root = &uninstallRoots[i]
			break
		}
	}
	if root == nil {
		return CatalogEntry{}, fmt.Errorf("unknown catalog root %q", rootName)
	}

	k, err := registry.OpenKey(root.key, uninstallPath+`\`+sub, registry.QUERY_VALUE|root.access)
	if err != nil {
		return CatalogEntry{}, fmt.Errorf("opening %s: %w", key, err)
	}
	defer func() { _ = k.Close() }()

	entry := CatalogEntry{Key: key}
	fields := []struct {
		name string
		dst  *string
	}{
		{"DisplayName", &entry.DisplayName},
		{"InstallLocation", &entry.InstallLocation},
		{"InstallDate", &entry.InstallDate},
		{"UninstallString", &entry.UninstallCommand},
	}
	for _, f := range fields {
		val, err := readString(k, f.name)
		if err != nil {
			return CatalogEntry{}, fmt.Errorf("reading %s of %s: %w", f.name, key, err)
		}
		*f.dst = val
	}
	return entry, nil
}

// readString returns a string value, expanding REG_EXPAND_SZ. A missing
// value reads as empty.
func readString(k registry.Key, name string) (string, error) {
	val, typ, err := k.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if typ == registry.EXPAND_SZ {
		if expanded, err := registry.ExpandString(val); err == nil {
			val = expanded
		}
	}
	return strings.TrimSpace(val), nil
}

type windowsDisks struct {
	runner Runner
}

func (windowsDisks) Volumes() ([]Volume, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, fmt.Errorf("listing logical drives: %w", err)
	}

	var vols []Volume
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		letter := string(rune('A' + i))
		root := letter + `:\`
		ptr, err := windows.UTF16PtrFromString(root)
		if err != nil {
			continue
		}

		kind := VolumeOther
		switch windows.GetDriveType(ptr) {
		case windows.DRIVE_FIXED:
			kind = VolumeFixed
		case windows.DRIVE_REMOVABLE:
			kind = VolumeRemovable
		}
		vols = append(vols, Volume{Mount: root, Device: letter + ":", Kind: kind})
	}
	return vols, nil
}

// MediaType asks the storage subsystem for the media type of the physical
// disk holding the volume's partition.
func (d windowsDisks) MediaType(ctx context.Context, v Volume) (string, error) {
	letter := strings.TrimSuffix(v.Device, ":")
	script := fmt.Sprintf(
		"(Get-PhysicalDisk | Where-Object DeviceId -eq (Get-Partition -DriveLetter %s).DiskNumber).MediaType",
		letter)
	res, err := d.runner.Run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	if err != nil {
		return "", fmt.Errorf("probing media type of %s: %w", v.Device, err)
	}
	media := strings.TrimSpace(res.Output)
	if media == "" {
		return "", fmt.Errorf("no media type reported for %s", v.Device)
	}
	return media, nil
}

type runKeyStore struct{}

func (runKeyStore) List() ([]string, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runPath, registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf("opening run key: %w", err)
	}
	defer func() { _ = k.Close() }()

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return nil, fmt.Errorf("reading run key: %w", err)
	}
	return names, nil
}

func (runKeyStore) Clear() (int, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, runPath, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return 0, fmt.Errorf("opening run key: %w", err)
	}
	defer func() { _ = k.Close() }()

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return 0, fmt.Errorf("reading run key: %w", err)
	}

	removed := 0
	var errs []error
	for _, name := range names {
		if err := k.DeleteValue(name); err != nil {
			errs = append(errs, fmt.Errorf("deleting %s: %w", name, err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
