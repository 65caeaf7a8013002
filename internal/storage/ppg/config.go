// Package ppg ("per-work postgres-compatible cluster") implements the
// Storage Layer from spec.md §4.1: one isolated, loopback-bound relational
// cluster per Work, with deterministic port allocation, crash/WAL
// recovery, and idempotent migration application.
package ppg

import "time"

// Config configures a single Work's cluster.
type Config struct {
	WorkID        string
	WorkRoot      string // the Work's root directory on disk
	DataDir       string // <WorkRoot>/.littera/pgdata
	BinaryDir     string // <WorkRoot>/.littera/pg -> cache indirection
	Host          string // always 127.0.0.1; never a routable interface
	Port          int    // persisted once chosen, never silently changed
	EngineVersion string

	IdleLease        time.Duration
	ReadinessTimeout time.Duration
}

// Host is the only host the cluster is ever allowed to bind (spec.md §4.1:
// "Network exposure: bind loopback only; never listen on a routable interface").
const Host = "127.0.0.1"

// PortRangeLow and PortRangeHigh bound the reserved high range clusters are
// allocated from (spec.md §4.1: "away from standard defaults").
const (
	PortRangeLow  = 50432
	PortRangeHigh = 51432
)
