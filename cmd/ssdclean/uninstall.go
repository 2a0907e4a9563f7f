package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/inventory"
	"github.com/jamesainslie/ssdclean/pkg/ssdclean/output"
)

var errUninstallFailed = errors.New("uninstall failed")

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Run a program's registered uninstaller",
	Long: `Run the uninstall command registered for a program, looked up by its
display name (case-insensitive). Commands that are not installer-package
invocations are run with /quiet appended.`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	name := args[0]
	scanner := newScanner(newToolset(cfg), "")

	prog, ok := scanner.Find(name)
	if !ok {
		printError("no installed program named %q", name)
		return fmt.Errorf("program %q not found", name)
	}

	line := inventory.QuietCommand(prog.UninstallCommand)
	if !confirmed(fmt.Sprintf("Uninstall %s using %q?", prog.Name, line)) {
		printInfo("Cancelled")
		return nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	succeeded := scanner.Uninstall(ctx, prog.UninstallCommand)
	if err := writeReport(os.Stdout, output.Uninstall(prog.Name, line, succeeded)); err != nil {
		return err
	}
	if !succeeded {
		return errUninstallFailed
	}
	return nil
}
