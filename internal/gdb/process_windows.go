//go:build windows

package gdb

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// killProcessGroup kills gdb on Windows.
// Windows has no Unix-style process groups, so only gdb itself is killed.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// setProcAttr starts gdb in a new process group.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
