//go:build linux

package platform

import (
	"os"
	"syscall"
	"time"
)

// LastAccess returns the last-access time recorded for a file. Mounts
// using noatime or relatime make this coarse, which is acceptable for
// day-granularity inactivity checks.
func LastAccess(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Atim.Sec, stat.Atim.Nsec)
}
