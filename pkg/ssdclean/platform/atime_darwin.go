//go:build darwin

package platform

import (
	"os"
	"syscall"
	"time"
)

// LastAccess returns the last-access time recorded for a file.
func LastAccess(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(stat.Atimespec.Sec, stat.Atimespec.Nsec)
}
