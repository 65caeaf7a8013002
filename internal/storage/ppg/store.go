package ppg

import (
	"context"
	"database/sql"

	"golang.org/x/sync/singleflight"

	"github.com/ikari-pl/littera/internal/configfile"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/types"
)

// Store is the single connection point Data Access holds into the Storage
// Layer (spec.md §2: "Data Access holds the only connection to the
// Storage Layer"). It owns one Cluster and exposes its live *sql.DB.
type Store struct {
	WorkID  string
	cluster *Cluster
	cache   *BinaryCache

	migrate singleflight.Group
}

// Init creates a brand-new Work's on-disk layout and cluster configuration.
// It does not start the cluster; the first Acquire does that lazily.
func Init(workRoot string, fetch Fetcher) (*Store, error) {
	if configfile.Exists(workRoot) {
		return nil, errs.Conflictf(workRoot, "a Work is already initialized here")
	}

	workID := types.NewID()
	port, err := AllocatePort(workID)
	if err != nil {
		return nil, errs.BackendUnavailablef("free a port in the reserved range or retry", err, "allocate cluster port")
	}

	fc := &configfile.Config{
		WorkID:        workID,
		ClusterPort:   port,
		EngineVersion: configfile.EngineVersion,
	}
	if err := fc.Save(workRoot); err != nil {
		return nil, errs.Internalf(err, "persist Work configuration")
	}

	return Open(workRoot, fetch)
}

// Open loads an existing Work's cluster configuration. Returns NotFound if
// the Work has not been initialized.
func Open(workRoot string, fetch Fetcher) (*Store, error) {
	fc, err := configfile.Load(workRoot)
	if err != nil {
		return nil, errs.Internalf(err, "load Work configuration")
	}
	if fc == nil {
		return nil, errs.NotFoundf(workRoot, "no Work initialized at this path")
	}

	cache, err := NewBinaryCache(fetch)
	if err != nil {
		return nil, errs.Internalf(err, "open engine binary cache")
	}

	cfg := FromWorkConfig(workRoot, fc)
	return &Store{WorkID: fc.WorkID, cluster: New(cfg, cache), cache: cache}, nil
}

// DB acquires (starting the cluster if needed) and returns the live
// connection, with migrations applied (spec.md §4.1: "On every connection
// acquisition, run the migration sequence idempotently"). Concurrent DB
// calls against the same Store within one process share a single
// migration run via singleflight rather than each issuing its own
// (redundant, since migrations are already idempotent, but pointless
// duplicate work against the same cluster when several goroutines open
// it at once).
func (s *Store) DB(ctx context.Context) (*sql.DB, error) {
	db, err := s.cluster.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	_, err, _ = s.migrate.Do(s.WorkID, func() (any, error) {
		return nil, Run(ctx, db)
	})
	if err != nil {
		return nil, errs.BackendUnavailablef("inspect cluster logs; migrations must succeed before any query runs", err, "apply schema migrations")
	}
	return db, nil
}

// Release returns the cluster to its idle lease (or stops it immediately
// if the lease is zero, as in test mode).
func (s *Store) Release() { s.cluster.Release() }

// Close stops the cluster unconditionally, for process shutdown.
func (s *Store) Close() error { return s.cluster.Stop() }

// Cluster exposes the underlying cluster manager for maintenance commands
// (WAL reset, reinit, status) that must not go through Data Access.
func (s *Store) Cluster() *Cluster { return s.cluster }

// WithTx runs fn inside one transaction, satisfying spec.md §5's rule that
// every multi-row write commits or rolls back atomically.
func (s *Store) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	db, err := s.DB(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Internalf(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }() // no-op if committed

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.Internalf(err, "commit transaction")
	}
	return nil
}
