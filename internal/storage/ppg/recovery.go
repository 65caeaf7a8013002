package ppg

import (
	"os"
	"path/filepath"

	"github.com/ikari-pl/littera/internal/errs"
)

// WALReset performs the "reset WAL" remediation from spec.md §4.1: lossy,
// but preserves committed data. It removes the write-ahead log segment
// directory, leaving the last checkpointed state intact, and must only be
// invoked through the Command Surface (maintenance wal-reset), never
// implicitly.
func WALReset(cfg Config) error {
	walDir := filepath.Join(cfg.DataDir, "wal")
	if err := os.RemoveAll(walDir); err != nil {
		return errs.Internalf(err, "reset write-ahead log")
	}
	return nil
}

// Reinit performs the "reinitialize cluster" remediation: destroys the
// entire data directory so the next Acquire starts a fresh cluster. This is
// intentionally destructive and must only be invoked through the Command
// Surface with explicit confirmation.
func Reinit(cfg Config) error {
	if cfg.DataDir == "" {
		return errs.InvalidInputf("data_dir", "cannot reinitialize an empty data directory path")
	}
	if err := os.RemoveAll(cfg.DataDir); err != nil {
		return errs.Internalf(err, "reinitialize cluster")
	}
	return nil
}

// Status reports whether a cluster's data directory exists and whether
// something is listening on its configured port (LockHeld; the lock file
// itself is not read), for `maintenance status`.
type Status struct {
	DataDirExists bool
	LockHeld      bool
	Port          int
}

func GetStatus(cfg Config) (Status, error) {
	st := Status{Port: cfg.Port}
	if _, err := os.Stat(cfg.DataDir); err == nil {
		st.DataDirExists = true
	}
	st.LockHeld = PortInUse(cfg.Host, cfg.Port)
	return st, nil
}
