//go:build windows

package runner

import (
	"os/exec"
)

// prepareCommand is a no-op on Windows: exec.CommandContext already kills
// the child when the context is cancelled, and process groups are not
// addressable the way they are on unix.
func prepareCommand(cmd *exec.Cmd) {
}
