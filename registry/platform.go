package registry

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Host describes the platform the runner executes on. It is injectable so
// constraint evaluation can be tested without depending on the build host.
type Host struct {
	OS   string
	Arch string

	// HasBinary reports whether a named binary is available, used for
	// exercises that need an emulation layer or extra toolchain.
	HasBinary func(name string) bool
}

// CurrentHost returns the host the process is running on.
func CurrentHost() Host {
	return Host{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		HasBinary: func(name string) bool {
			_, err := exec.LookPath(name)
			return err == nil
		},
	}
}

// Constraints restrict which hosts an exercise is runnable on. Zero-value
// constraints match every host.
type Constraints struct {
	// OS is the required GOOS, e.g. "linux".
	OS string `toml:"os"`
	// Arch lists the allowed GOARCH values. Empty means any.
	Arch []string `toml:"arch"`
	// Needs names a binary that must be on PATH, e.g. "qemu-riscv64".
	Needs string `toml:"needs"`
}

// Check evaluates the constraints against host. When the host does not
// satisfy them it returns false with a human-readable reason.
func (c Constraints) Check(host Host) (runnable bool, reason string) {
	if c.OS != "" && c.OS != host.OS {
		return false, fmt.Sprintf("requires %s (host is %s)", c.OS, host.OS)
	}
	if len(c.Arch) > 0 {
		ok := false
		for _, a := range c.Arch {
			if a == host.Arch {
				ok = true
				break
			}
		}
		if !ok {
			return false, fmt.Sprintf("requires %s (host is %s)", strings.Join(c.Arch, "/"), host.Arch)
		}
	}
	if c.Needs != "" {
		if host.HasBinary == nil || !host.HasBinary(c.Needs) {
			return false, fmt.Sprintf("requires %s on PATH", c.Needs)
		}
	}
	return true, ""
}
