//go:build windows

package platform

import (
	"os"
	"syscall"
	"time"
)

// LastAccess returns the last-access time recorded for a file.
func LastAccess(info os.FileInfo) time.Time {
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(0, attrs.LastAccessTime.Nanoseconds())
}
