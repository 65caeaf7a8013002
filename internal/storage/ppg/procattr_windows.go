//go:build windows

package ppg

import "os/exec"

// setDetached is a no-op on Windows; the cluster process is left attached
// to the default process group, matching the teacher's windows build of
// the equivalent server launcher.
func setDetached(cmd *exec.Cmd) {}
