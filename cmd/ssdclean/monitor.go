package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/ssdclean/cmd/ssdclean/tui"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/monitor"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive utilization monitor (default command)",
	Long: `Show live CPU, memory and disk utilization with the last
monitor.history samples as sparklines.

Keys:
  s  scan for inactive programs     c  clean temp files
  o  optimize (asks first)          u  uninstall selected (asks first)
  l  toggle log panel               q  quit`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVar(&inactiveDays, "days", -1, "inactivity threshold in days (default: inactive_days from config)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	tools := newToolset(cfg)
	executor, err := newExecutor(cfg, tools)
	if err != nil {
		return err
	}

	days := inactiveDays
	if days < 0 {
		days = cfg.InactiveDays
	}

	logging.Get("tui").Info("monitor starting", "interval", cfg.Monitor.Interval, "history", cfg.Monitor.History)

	events := logging.Subscribe()
	defer logging.Unsubscribe(events)

	return tui.Run(tui.Options{
		Sampler:    monitor.NewSampler(cfg.Monitor.Disk),
		History:    monitor.NewHistory(cfg.Monitor.History),
		Interval:   cfg.Monitor.Interval,
		Inventory:  newScanner(tools, ""),
		Maintainer: executor,
		Days:       days,
		Logs:       logging.GetLogBuffer(),
		LogEvents:  events,
	})
}
