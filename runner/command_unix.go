//go:build !windows

package runner

import (
	"os/exec"
	"syscall"
)

// prepareCommand puts the test command in its own process group so a timeout
// kills the whole tree, not just the direct child.
func prepareCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
