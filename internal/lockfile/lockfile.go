// Package lockfile manages the embedded cluster's process lock: a JSON
// sidecar naming the owning PID, used to detect a stale lock left behind
// by an unclean shutdown (spec.md §4.1, §5).
package lockfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrHeldByLiveProcess is returned when a lock names a PID that is still alive.
var ErrHeldByLiveProcess = errors.New("lockfile: held by a live process")

// Info is the JSON content of a cluster lock file.
type Info struct {
	PID       int       `json:"pid"`
	Port      int       `json:"port"`
	StartedAt time.Time `json:"started_at"`
}

// Path returns the lock file path for a cluster data directory.
func Path(dataDir string) string { return filepath.Join(dataDir, "cluster.lock") }

// Read loads lock info, or nil if no lock file exists.
func Read(dataDir string) (*Info, error) {
	data, err := os.ReadFile(Path(dataDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lockfile: read: %w", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("lockfile: parse: %w", err)
	}
	return &info, nil
}

// Write persists lock info for the current process.
func Write(dataDir string, port int) error {
	info := Info{PID: os.Getpid(), Port: port, StartedAt: time.Now()}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("lockfile: marshal: %w", err)
	}
	return os.WriteFile(Path(dataDir), data, 0o600)
}

// Remove deletes the lock file. Safe to call when absent.
func Remove(dataDir string) error {
	err := os.Remove(Path(dataDir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("lockfile: remove: %w", err)
	}
	return nil
}

// EnsureClean inspects a data directory's lock file at cluster-start time
// and applies spec.md §4.1's crash-recovery rule: a lock naming a dead PID
// is removed and start proceeds; a lock naming a live PID fails with
// ErrHeldByLiveProcess so the caller can surface BackendUnavailable.
func EnsureClean(dataDir string) error {
	info, err := Read(dataDir)
	if err != nil {
		return err
	}
	if info == nil {
		return nil
	}
	if isProcessAlive(info.PID) {
		return ErrHeldByLiveProcess
	}
	return Remove(dataDir)
}
