//go:build !unix

package finder

import "os/exec"

func detach(cmd *exec.Cmd) {}
