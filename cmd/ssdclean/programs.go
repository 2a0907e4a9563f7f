package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/output"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List programs that have not been used recently",
	Long: `List installed programs whose install folder has not been accessed for
more than the given number of days.

The installed-software catalog is read on Windows only; on other systems
the list is always empty.

Examples:
  ssdclean programs                   # Default threshold (inactive_days)
  ssdclean programs --days 180        # Unused for half a year
  ssdclean programs --match "*java*"  # Only names matching a pattern`,
	Args: cobra.NoArgs,
	RunE: runPrograms,
}

func init() {
	programsCmd.Flags().IntVar(&inactiveDays, "days", -1, "inactivity threshold in days (default: inactive_days from config)")
	programsCmd.Flags().StringVar(&matchPattern, "match", "", "only include names matching this wildcard pattern")
	rootCmd.AddCommand(programsCmd)
}

func runPrograms(cmd *cobra.Command, args []string) error {
	days := inactiveDays
	if days < 0 {
		days = cfg.InactiveDays
	}

	scanner := newScanner(newToolset(cfg), matchPattern)
	printVerbose("listing programs unused for more than %d days", days)
	progs := scanner.ListInactive(days)

	return writeReport(os.Stdout, output.Programs(progs, days, time.Now()))
}
