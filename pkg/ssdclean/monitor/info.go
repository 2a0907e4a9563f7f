package monitor

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// Info describes the host. Fields that cannot be read are left zero;
// an error is returned only when nothing could be read.
func Info() (types.SystemInfo, error) {
	log := logging.Get("monitor")
	info := types.SystemInfo{OS: runtime.GOOS, Arch: runtime.GOARCH}

	var failures int
	hi, err := host.Info()
	if err != nil {
		failures++
		log.Debug("host info failed", "error", err)
	} else {
		info.Hostname = hi.Hostname
		info.Platform = hi.Platform
		info.Version = hi.PlatformVersion
		info.Uptime = hi.Uptime
		if hi.KernelArch != "" {
			info.Arch = hi.KernelArch
		}
	}

	if n, err := cpu.Counts(false); err == nil {
		info.PhysicalCores = n
	} else {
		failures++
	}
	if n, err := cpu.Counts(true); err == nil {
		info.LogicalCores = n
	} else {
		failures++
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	} else {
		failures++
	}

	if failures == 4 {
		return info, fmt.Errorf("reading system information: %w", err)
	}
	return info, nil
}

// DiskUsage returns usage for every mounted physical partition, sorted by
// mount point. Partitions whose usage cannot be read are skipped.
func DiskUsage() ([]types.DiskUsage, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, fmt.Errorf("listing partitions: %w", err)
	}

	usage := make([]types.DiskUsage, 0, len(parts))
	for _, p := range parts {
		u, err := disk.Usage(p.Mountpoint)
		if err != nil {
			logging.Get("monitor").Debug("disk usage failed", "mount", p.Mountpoint, "error", err)
			continue
		}
		usage = append(usage, types.DiskUsage{
			Device:      p.Device,
			Mountpoint:  p.Mountpoint,
			Fstype:      p.Fstype,
			Total:       u.Total,
			Used:        u.Used,
			Free:        u.Free,
			UsedPercent: u.UsedPercent,
		})
	}

	sort.Slice(usage, func(i, j int) bool { return usage[i].Mountpoint < usage[j].Mountpoint })
	return usage, nil
}
