package command

import (
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/storage/ppg"
)

// MaintenanceResult is the stable-field-order projection of a cluster's
// maintenance status.
type MaintenanceResult struct {
	DataDirExists bool `json:"data_dir_exists"`
	LockHeld      bool `json:"lock_held"`
	Port          int  `json:"port"`
}

// MaintenanceWALReset is the `maintenance wal-reset` verb: spec.md §4.1's
// "reset WAL" remediation, lossy but preserving committed data. Both
// remediations must run "through the Command Surface, never implicitly",
// which is exactly what this thin wrapper over ppg.WALReset exists to
// guarantee: nothing below internal/command calls it directly.
func MaintenanceWALReset(cfg ppg.Config, opts Options) error {
	if dryRun(opts) {
		return nil
	}
	return ppg.WALReset(cfg)
}

// MaintenanceReinit is the `maintenance reinit` verb: destroys the data
// directory, so it requires --force exactly like a non-empty-parent
// delete (spec.md §4.1: "'reinitialize cluster' (destroys data)").
func MaintenanceReinit(cfg ppg.Config, opts Options) error {
	if !opts.Force {
		return errs.Invariantf("pass --force to reinitialize", "reinitializing %s destroys all of this Work's data", cfg.DataDir)
	}
	if dryRun(opts) {
		return nil
	}
	return ppg.Reinit(cfg)
}

// MaintenanceStatus is the `maintenance status` verb.
func MaintenanceStatus(cfg ppg.Config) (*MaintenanceResult, error) {
	st, err := ppg.GetStatus(cfg)
	if err != nil {
		return nil, err
	}
	return &MaintenanceResult{DataDirExists: st.DataDirExists, LockHeld: st.LockHeld, Port: st.Port}, nil
}
