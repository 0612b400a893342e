//go:build windows

package mpv

import (
	"os/exec"
	"syscall"
)

func detached() *syscall.SysProcAttr {
	return nil
}

func killGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
