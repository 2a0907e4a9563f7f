package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRotationMaxSizeMB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int64
		want int
	}{
		{"zero uses default", 0, 10},
		{"negative uses default", -1, 10},
		{"below one megabyte rounds up", 512, 1},
		{"exact megabytes", 3 * megabyte, 3},
		{"partial megabyte rounds up", 3*megabyte + 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := RotationConfig{MaxSize: tt.size}.maxSizeMB()
			if got != tt.want {
				t.Errorf("maxSizeMB() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewRotatingWriter(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "nested", "dir", "ssdclean.log")
	writer, err := NewRotatingWriter(logPath, RotationConfig{
		MaxSize:    2 * megabyte,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer writer.Close()

	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("log file should exist after construction: %v", err)
	}
	if writer.MaxSize != 2 || writer.MaxBackups != 3 || writer.MaxAge != 7 || !writer.Compress {
		t.Errorf("unexpected writer settings: %+v", writer)
	}

	if _, err := writer.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("log contents = %q", data)
	}
}

func TestNewRotatingWriterBadDirectory(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewRotatingWriter(filepath.Join(blocker, "ssdclean.log"), RotationConfig{}); err == nil {
		t.Error("NewRotatingWriter() should fail when the parent is a file")
	}
}
