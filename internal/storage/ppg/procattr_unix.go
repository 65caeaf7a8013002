//go:build unix

package ppg

import (
	"os/exec"
	"syscall"
)

// setDetached puts the cluster process in its own process group so it
// survives the parent's exit during the idle lease window.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
