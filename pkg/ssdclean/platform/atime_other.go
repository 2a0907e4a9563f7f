//go:build !darwin && !linux && !windows

package platform

import (
	"os"
	"time"
)

// LastAccess falls back to the modification time where access times
// are not exposed.
func LastAccess(info os.FileInfo) time.Time {
	return info.ModTime()
}
