package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/output"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Trim SSDs, defragment hard disks, clear startup entries and disable services",
	Long: `Run the system optimization steps in order:

  1. For each fixed volume: TRIM when it is an SSD, defragment otherwise.
  2. Remove every entry from the current user's startup list
     (optimize.clear_autorun).
  3. Disable and stop the configured services (optimize.services).

Each step is attempted even if an earlier one fails. Most steps need
administrator rights.`,
	Args: cobra.NoArgs,
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	executor, err := newExecutor(cfg, newToolset(cfg))
	if err != nil {
		return err
	}

	prompt := "Optimize drives"
	if c := executor.Config(); c.ClearAutorun || len(c.Services) > 0 {
		var extra []string
		if c.ClearAutorun {
			extra = append(extra, "remove ALL startup entries")
		}
		if len(c.Services) > 0 {
			extra = append(extra, "disable "+strings.Join(c.Services, ", "))
		}
		prompt += ", " + strings.Join(extra, " and ")
	}
	if !confirmed(prompt + "?") {
		printInfo("Cancelled")
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	report := executor.OptimizeSystem(ctx)
	return writeReport(os.Stdout, output.Optimization(report))
}
