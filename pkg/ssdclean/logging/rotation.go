package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const megabyte = 1024 * 1024

// RotationConfig configures log file rotation behavior.
type RotationConfig struct {
	// MaxSize is the maximum size in bytes before rotation.
	// Zero uses the default of 10MB. Rounded up to whole megabytes.
	MaxSize int64

	// MaxAge is the maximum number of days to retain old log files.
	// Zero means no age-based cleanup.
	MaxAge int

	// MaxBackups is the maximum number of old log files to keep.
	// Zero means keep all old files (subject to MaxAge).
	MaxBackups int

	// Compress gzips rotated files.
	Compress bool
}

// DefaultRotationConfig returns sensible defaults for rotation.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSize:    10 * megabyte,
		MaxAge:     30,
		MaxBackups: 5,
	}
}

// maxSizeMB converts the byte limit into lumberjack's megabyte unit.
func (c RotationConfig) maxSizeMB() int {
	size := c.MaxSize
	if size <= 0 {
		size = DefaultRotationConfig().MaxSize
	}
	mb := int((size + megabyte - 1) / megabyte)
	if mb < 1 {
		mb = 1
	}
	return mb
}

// NewRotatingWriter returns a size-rotated log writer for path.
// The parent directory is created and the file opened up front so that
// permission problems surface at Init rather than on the first write.
func NewRotatingWriter(path string, cfg RotationConfig) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing log file: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.maxSizeMB(),
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}, nil
}
