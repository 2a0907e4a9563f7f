// Package monitor samples CPU, memory and disk utilization and keeps a
// fixed-length history of samples. It does not schedule sampling itself;
// callers decide when to take a Snapshot.
package monitor

import (
	"math"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// Sampler reads current utilization.
type Sampler struct {
	disk string

	cpuPercent  func() ([]float64, error)
	memPercent  func() (float64, error)
	diskPercent func(path string) (float64, error)
	now         func() time.Time
}

// NewSampler returns a Sampler reporting disk usage for the given mount.
// An empty mount means the system drive.
func NewSampler(mount string) *Sampler {
	if mount == "" {
		mount = SystemDisk()
	}
	return &Sampler{
		disk: mount,
		cpuPercent: func() ([]float64, error) {
			// Zero interval compares against the previous call.
			return cpu.Percent(0, false)
		},
		memPercent: func() (float64, error) {
			vm, err := mem.VirtualMemory()
			if err != nil {
				return 0, err
			}
			return vm.UsedPercent, nil
		},
		diskPercent: func(path string) (float64, error) {
			u, err := disk.Usage(path)
			if err != nil {
				return 0, err
			}
			return u.UsedPercent, nil
		},
		now: time.Now,
	}
}

// Disk returns the mount the sampler reports on.
func (s *Sampler) Disk() string { return s.disk }

// Snapshot returns current utilization. Readings that fail are reported
// as zero.
func (s *Sampler) Snapshot() types.Snapshot {
	log := logging.Get("monitor")
	snap := types.Snapshot{Time: s.now()}

	if pcts, err := s.cpuPercent(); err != nil {
		log.Debug("cpu sample failed", "error", err)
	} else if len(pcts) > 0 {
		snap.CPUPercent = clampPercent(pcts[0])
	}

	if p, err := s.memPercent(); err != nil {
		log.Debug("memory sample failed", "error", err)
	} else {
		snap.RAMPercent = clampPercent(p)
	}

	if p, err := s.diskPercent(s.disk); err != nil {
		log.Debug("disk sample failed", "disk", s.disk, "error", err)
	} else {
		snap.DiskPercent = clampPercent(p)
	}

	return snap
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// SystemDisk returns the root of the system drive.
func SystemDisk() string {
	if runtime.GOOS != "windows" {
		return "/"
	}
	drive := os.Getenv("SystemDrive")
	if drive == "" {
		drive = "C:"
	}
	return drive + `\`
}
