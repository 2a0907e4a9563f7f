//go:build windows

package platform

import (
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// prepareCommand passes "cmd /C <line>" through verbatim. The default
// argument escaping quotes embedded quotes in a way cmd.exe does not
// understand, which breaks uninstall strings such as
// "C:\Program Files\App\uninst.exe" /S.
func prepareCommand(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true

	if len(cmd.Args) != 3 {
		return
	}
	shell := strings.TrimSuffix(strings.ToLower(filepath.Base(cmd.Args[0])), ".exe")
	if shell == "cmd" && strings.EqualFold(cmd.Args[1], "/C") {
		cmd.SysProcAttr.CmdLine = `cmd /S /C "` + cmd.Args[2] + `"`
	}
}
