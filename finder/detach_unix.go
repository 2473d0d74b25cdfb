//go:build unix

package finder

import (
	"os/exec"
	"syscall"
)

// detach puts cmd in its own process group, out of reach of terminal signals.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
