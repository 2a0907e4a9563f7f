//go:build !windows

package platform

import "os/exec"

func prepareCommand(*exec.Cmd) {}
