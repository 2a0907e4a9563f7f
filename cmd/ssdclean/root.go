package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/config"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/logging"
)

var (
	cfgFile string

	// cfg is loaded once per invocation by loadRuntime.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "ssdclean",
		Short: "Find unused programs, clean temp files and tune drives",
		Long: `ssdclean inventories installed programs that have not been used for a
while, removes temporary files, trims SSDs and defragments hard disks, and
shows live CPU, memory and disk utilization.

Without a subcommand ssdclean starts the interactive monitor.

Examples:
  ssdclean                        # Interactive monitor
  ssdclean programs --days 90     # Programs unused for 90 days
  ssdclean clean --dry-run        # Preview temp-file cleanup
  ssdclean optimize --yes         # Trim/defrag, startup and services
  ssdclean snapshot -o json       # One utilization reading as JSON
  ssdclean config init            # Write a default config file`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPostRun: func(*cobra.Command, []string) { _ = logging.Close() },
		RunE:              runMonitor,
	}
)

func init() {
	// Set here rather than in the literal: loadRuntime refers to rootCmd.
	rootCmd.PersistentPreRunE = loadRuntime

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/ssdclean/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output on stderr")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().StringP("output", "o", "pretty", "output format (pretty, plain, json, yaml, csv, markdown, template)")
	rootCmd.PersistentFlags().String("template", "", "Go template used with -o template")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("template", rootCmd.PersistentFlags().Lookup("template"))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// skipRuntime is used as PersistentPreRunE by commands that must work
// without a valid configuration.
func skipRuntime(*cobra.Command, []string) error { return nil }

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...any) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...any) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
