//go:build !windows

package mpv

import (
	"os/exec"
	"syscall"
)

// detached puts mpv in its own process group so a terminal signal aimed at
// reelroom does not also hit every preview window.
func detached() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func killGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
