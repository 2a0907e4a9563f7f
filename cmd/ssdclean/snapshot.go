package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/monitor"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/output"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one CPU, memory and disk utilization reading",
	Long: `Take one utilization reading. CPU usage is measured over a short
window (--wait, default monitor.interval).`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe the host and its disks",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	snapshotCmd.Flags().StringVar(&sampleWait, "wait", "", "CPU measurement window (e.g. 500ms, 2s)")
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(infoCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	wait := cfg.Monitor.Interval
	if sampleWait != "" {
		d, err := time.ParseDuration(sampleWait)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid --wait %q", sampleWait)
		}
		wait = d
	}

	sampler := monitor.NewSampler(cfg.Monitor.Disk)
	// The first CPU reading only establishes a baseline.
	sampler.Snapshot()

	ctx, cancel := signalContext()
	defer cancel()
	select {
	case <-time.After(wait):
	case <-ctx.Done():
		return ctx.Err()
	}

	return writeReport(os.Stdout, output.Snapshot(sampler.Snapshot(), sampler.Disk()))
}

func runInfo(cmd *cobra.Command, args []string) error {
	info, err := monitor.Info()
	if err != nil {
		return err
	}
	disks, err := monitor.DiskUsage()
	if err != nil {
		printVerbose("disk usage unavailable: %v", err)
	}
	return writeReport(os.Stdout, output.Info(info, disks))
}
