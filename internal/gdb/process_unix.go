//go:build !windows

package gdb

import (
	"os/exec"
	"syscall"
)

// killProcessGroup kills gdb and every process it started.
// On Unix the negative PID signals the whole process group.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		// ESRCH means the group is already gone
		if err != syscall.ESRCH {
			return err
		}
	}
	return nil
}

// setProcAttr makes gdb a process group leader so the inferior dies with it.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
