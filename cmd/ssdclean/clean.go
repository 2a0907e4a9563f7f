package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/output"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the contents of the temporary folders",
	Long: `Delete every file and subdirectory inside the configured temporary
folders. The folders themselves are kept. Files matching clean.keep
patterns are never deleted.

Items that cannot be deleted, typically because they are in use, are
reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "only report what would be deleted")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	executor, err := newExecutor(cfg, newToolset(cfg))
	if err != nil {
		return err
	}

	if dryRun {
		ctx, cancel := signalContext()
		defer cancel()

		est, err := executor.Estimate(ctx)
		if err != nil {
			return fmt.Errorf("estimating cleanup: %w", err)
		}
		return writeReport(os.Stdout, output.Estimate(est))
	}

	printVerbose("cleaning %v", executor.Config().TempFolders)
	res := executor.CleanTempFiles()
	return writeReport(os.Stdout, output.Cleanup(res))
}
