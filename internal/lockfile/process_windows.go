//go:build windows

package lockfile

import "os"

// isProcessAlive probes liveness via FindProcess, which on Windows opens a
// handle that only succeeds for a live process.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil || proc == nil {
		return false
	}
	// os.FindProcess on Windows has already opened a handle to the process,
	// which is the liveness check; Windows has no zero signal to send.
	_ = proc.Release()
	return true
}
