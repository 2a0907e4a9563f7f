package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	return home
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating config dir: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InactiveDays != DefaultInactiveDays {
		t.Errorf("InactiveDays = %d, want %d", cfg.InactiveDays, DefaultInactiveDays)
	}
	if !reflect.DeepEqual(cfg.Optimize.Services, DefaultServices) {
		t.Errorf("Services = %v, want %v", cfg.Optimize.Services, DefaultServices)
	}
	if !cfg.Optimize.ClearAutorun {
		t.Error("ClearAutorun = false, want true")
	}
	if cfg.Monitor.History != DefaultHistorySize {
		t.Errorf("Monitor.History = %d, want %d", cfg.Monitor.History, DefaultHistorySize)
	}
	if cfg.Monitor.Interval != DefaultSampleInterval {
		t.Errorf("Monitor.Interval = %v, want %v", cfg.Monitor.Interval, DefaultSampleInterval)
	}
	if cfg.CommandTimeout != 0 {
		t.Errorf("CommandTimeout = %v, want 0", cfg.CommandTimeout)
	}
	if len(cfg.Clean.TempFolders) == 0 {
		t.Error("TempFolders is empty")
	}
	if cfg.Logging.Level != DefaultLogLevel || cfg.Logging.Rotation.MaxSize != DefaultLogMaxSize {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Logging.Components["monitor"] != "warn" {
		t.Errorf("Logging.Components = %v", cfg.Logging.Components)
	}
}

func TestLoad_FromHomeFile(t *testing.T) {
	home := isolate(t)
	scratch := filepath.Join(home, "scratch")
	writeConfig(t, filepath.Join(home, ".config", "ssdclean"), `
inactive_days: 90
command_timeout: 2m
clean:
  temp_folders:
    - `+scratch+`
    - "  "
  keep:
    - "*.lock"
optimize:
  services: [DiagTrack]
  clear_autorun: false
monitor:
  interval: 500ms
  history: 120
logging:
  level: debug
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InactiveDays != 90 {
		t.Errorf("InactiveDays = %d, want 90", cfg.InactiveDays)
	}
	if cfg.CommandTimeout != 2*time.Minute {
		t.Errorf("CommandTimeout = %v", cfg.CommandTimeout)
	}
	if !reflect.DeepEqual(cfg.Clean.TempFolders, []string{scratch}) {
		t.Errorf("TempFolders = %v", cfg.Clean.TempFolders)
	}
	if !reflect.DeepEqual(cfg.Clean.Keep, []string{"*.lock"}) {
		t.Errorf("Keep = %v", cfg.Clean.Keep)
	}
	if !reflect.DeepEqual(cfg.Optimize.Services, []string{"DiagTrack"}) || cfg.Optimize.ClearAutorun {
		t.Errorf("Optimize = %+v", cfg.Optimize)
	}
	if cfg.Monitor.Interval != 500*time.Millisecond || cfg.Monitor.History != 120 {
		t.Errorf("Monitor = %+v", cfg.Monitor)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoad_XDGTakesPrecedence(t *testing.T) {
	home := isolate(t)
	xdgHome := filepath.Join(home, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdgHome)

	writeConfig(t, filepath.Join(xdgHome, "ssdclean"), "inactive_days: 7\n")
	writeConfig(t, filepath.Join(home, ".config", "ssdclean"), "inactive_days: 99\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InactiveDays != 7 {
		t.Errorf("InactiveDays = %d, want 7", cfg.InactiveDays)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "inactive_days: 12\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InactiveDays != 12 {
		t.Errorf("InactiveDays = %d, want 12", cfg.InactiveDays)
	}
	if cfg.File != path {
		t.Errorf("File = %q, want %q", cfg.File, path)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with missing explicit file should fail")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("SSDCLEAN_INACTIVE_DAYS", "45")
	t.Setenv("SSDCLEAN_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InactiveDays != 45 {
		t.Errorf("InactiveDays = %d, want 45", cfg.InactiveDays)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative days", "inactive_days: -3\n"},
		{"negative timeout", "command_timeout: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "inactive_days: [unterminated\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() with malformed YAML should fail")
	}
}

func TestTempFolders(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"TEMP":         `C:\Users\ada\AppData\Local\Temp`,
		"SYSTEMROOT":   `C:\Windows`,
		"LOCALAPPDATA": `C:\Users\ada\AppData\Local`,
	}
	got := tempFolders("windows", func(k string) string { return env[k] }, "")
	want := []string{
		filepath.Clean(env["TEMP"]),
		filepath.Join(env["SYSTEMROOT"], "Temp"),
		filepath.Join(env["SYSTEMROOT"], "Prefetch"),
	}
	// On Windows LOCALAPPDATA\Temp collapses into TEMP.
	if len(got) == 4 {
		want = append(want, filepath.Join(env["LOCALAPPDATA"], "Temp"))
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("windows tempFolders = %v, want %v", got, want)
	}

	got = tempFolders("windows", func(string) string { return "" }, "")
	if len(got) != 0 {
		t.Errorf("tempFolders with empty env = %v, want none", got)
	}

	got = tempFolders("linux", func(string) string { return "" }, "/tmp")
	if !reflect.DeepEqual(got, []string{"/tmp"}) {
		t.Errorf("linux tempFolders = %v", got)
	}
}

func TestWriteDefault(t *testing.T) {
	home := isolate(t)

	path, created, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if !created {
		t.Error("created = false on first write")
	}
	if want := filepath.Join(home, ".config", "ssdclean", "config.yaml"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() after WriteDefault error = %v", err)
	}
	if cfg.InactiveDays != DefaultInactiveDays || !reflect.DeepEqual(cfg.Optimize.Services, DefaultServices) {
		t.Errorf("written defaults do not round-trip: %+v", cfg)
	}

	if _, created, err := WriteDefault(); err != nil || created {
		t.Errorf("second WriteDefault() = created %v, err %v", created, err)
	}
}

func TestExpandPath(t *testing.T) {
	home := isolate(t)

	got, err := ExpandPath("~/logs/ssdclean.log")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}
	if want := filepath.Join(home, "logs", "ssdclean.log"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/var/log/x"); got != "/var/log/x" {
		t.Errorf("ExpandPath() changed absolute path: %q", got)
	}
}
