package types

import (
	"errors"
	"testing"
	"time"
)

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr error
	}{
		{name: "plain bytes", input: "1024", want: 1024},
		{name: "zero", input: "0", want: 0},
		{name: "byte suffix", input: "512B", want: 512},
		{name: "kilobytes", input: "100K", want: 100 * KiB},
		{name: "kibibytes", input: "100KiB", want: 100 * KiB},
		{name: "megabytes lowercase", input: "10mb", want: 10 * MiB},
		{name: "gigabytes", input: "2G", want: 2 * GiB},
		{name: "terabytes", input: "1TB", want: TiB},
		{name: "decimal", input: "1.5M", want: MiB + MiB/2},
		{name: "whitespace", input: "  64M ", want: 64 * MiB},
		{name: "empty", input: "", wantErr: ErrInvalidSize},
		{name: "negative", input: "-5M", wantErr: ErrNegativeSize},
		{name: "garbage", input: "lots", wantErr: ErrInvalidSize},
		{name: "unknown unit", input: "5P", wantErr: ErrInvalidSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSize(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseSize(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{350, "350 B"},
		{1024, "1.0 KiB"},
		{1536 * 1024, "1.5 MiB"},
		{-10, "0 B"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInstalledProgram_InactiveDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p := InstalledProgram{LastAccess: now.Add(-45*24*time.Hour - time.Hour)}

	if got := p.InactiveDays(now); got != 45 {
		t.Errorf("InactiveDays() = %d, want 45", got)
	}
}

func TestOptimizationReport(t *testing.T) {
	t.Parallel()

	report := OptimizationReport{Actions: []Action{
		{Kind: ActionTrim, Target: "C:", Message: "retrim complete"},
		{Kind: ActionDefrag, Target: "D:", Message: "defrag", Err: "exit status 5"},
		{Kind: ActionService, Target: "DiagTrack", Message: "disabled"},
	}}

	lines := report.Lines()
	want := []string{
		"trim C:: retrim complete",
		"defrag D:: defrag: exit status 5",
		"service DiagTrack: disabled",
	}
	if len(lines) != len(want) {
		t.Fatalf("Lines() returned %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if got := report.Count(ActionTrim); got != 1 {
		t.Errorf("Count(trim) = %d, want 1", got)
	}
	if got := len(report.Failures()); got != 1 {
		t.Errorf("Failures() = %d, want 1", got)
	}
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	if got := FormatPercent(42.26); got != "42.3%" {
		t.Errorf("FormatPercent() = %q", got)
	}
}
