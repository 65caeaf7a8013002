package ppg

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"

	"github.com/ikari-pl/littera/internal/config"
	"github.com/ikari-pl/littera/internal/configfile"
	"github.com/ikari-pl/littera/internal/errs"
	"github.com/ikari-pl/littera/internal/lockfile"
)

// Cluster manages one Work's embedded cluster process: binary provisioning,
// start/stop, liveness, and the single *sql.DB handle commands use
// (spec.md §4.1). All Cluster methods are suspension points (spec.md §5).
type Cluster struct {
	cfg   Config
	cache *BinaryCache

	mu      sync.Mutex
	cmd     *exec.Cmd
	db      *sql.DB
	lastUse time.Time
	leaseMu sync.Mutex
}

// New constructs a Cluster manager for a Work. It does not start anything.
func New(cfg Config, cache *BinaryCache) *Cluster {
	if cfg.Host == "" {
		cfg.Host = Host
	}
	if cfg.ReadinessTimeout == 0 {
		cfg.ReadinessTimeout = config.ReadinessTimeout()
	}
	return &Cluster{cfg: cfg, cache: cache}
}

// Acquire returns a live *sql.DB, starting the cluster if necessary.
// Concurrent Acquire calls within one process serialize on the Cluster's
// mutex, matching spec.md §4.1's "Concurrent starts within one process are
// serialized" and §5's suspension-point rule.
func (c *Cluster) Acquire(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastUse = time.Now()
	if c.db != nil {
		if err := c.db.PingContext(ctx); err == nil {
			return c.db, nil
		}
		// Stale handle; the process behind it may have died. Fall through
		// and restart.
		_ = c.db.Close()
		c.db = nil
	}

	if err := c.startLocked(ctx); err != nil {
		return nil, err
	}
	return c.db, nil
}

func (c *Cluster) startLocked(ctx context.Context) error {
	if err := os.MkdirAll(c.cfg.DataDir, 0o750); err != nil {
		return errs.Internalf(err, "create cluster data directory")
	}

	if err := lockfile.EnsureClean(c.cfg.DataDir); err != nil {
		return errs.BackendUnavailablef(
			"another process already holds this Work's cluster lock",
			err, "cluster lock held by a live process",
		)
	}

	if PortInUse(c.cfg.Host, c.cfg.Port) {
		return errs.BackendUnavailablef(
			"run 'littera maintenance realloc-port' to pick a new port",
			nil, "configured port %d is already in use", c.cfg.Port,
		)
	}

	entryDir, err := c.cache.Ensure(ctx, c.cfg.EngineVersion)
	if err != nil {
		return errs.BackendUnavailablef("check network access and retry 'littera work init'", err, "provision engine binary")
	}
	if err := Link(entryDir, c.cfg.BinaryDir); err != nil {
		return errs.Internalf(err, "link engine binary cache")
	}

	binPath := filepath.Join(c.cfg.BinaryDir, "engine")
	logPath := filepath.Join(c.cfg.DataDir, "cluster.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return errs.Internalf(err, "open cluster log file")
	}

	cmd := exec.CommandContext(context.Background(), binPath,
		"serve",
		"--host", c.cfg.Host,
		"--port", fmt.Sprintf("%d", c.cfg.Port),
		"--data-dir", c.cfg.DataDir,
	)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	setDetached(cmd)

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return errs.BackendUnavailablef("inspect cluster.log in the Work's data directory", err, "start embedded cluster")
	}
	c.cmd = cmd

	if err := lockfile.Write(c.cfg.DataDir, c.cfg.Port); err != nil {
		return errs.Internalf(err, "write cluster lock file")
	}

	if err := c.waitReady(ctx); err != nil {
		_ = cmd.Process.Kill()
		if walCorrupted(logPath) {
			return errs.BackendUnavailablef(
				"run 'littera maintenance wal-reset' (lossy but preserves committed data) or 'littera maintenance reinit' (destroys data)",
				err, "embedded cluster refused to start: write-ahead log corruption",
			)
		}
		return errs.BackendUnavailablef("inspect cluster.log in the Work's data directory", err, "embedded cluster did not become ready within %s", c.cfg.ReadinessTimeout)
	}

	db, err := sql.Open("mysql", c.dsn())
	if err != nil {
		return errs.Internalf(err, "open cluster connection")
	}
	c.db = db
	return nil
}

func (c *Cluster) dsn() string {
	return fmt.Sprintf("root:@tcp(%s:%d)/littera?parseTime=true", c.cfg.Host, c.cfg.Port)
}

// waitReady polls the cluster's listener with exponential backoff until it
// accepts connections or the readiness timeout elapses (spec.md §5:
// "dedicated readiness timeout").
func (c *Cluster) waitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ReadinessTimeout)
	defer cancel()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 25 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond

	return backoff.Retry(func() error {
		conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port), time.Second)
		if err != nil {
			return err
		}
		_ = conn.Close()
		return nil
	}, backoff.WithContext(bo, ctx))
}

// Release stops the cluster process (closing its connection handle)
// immediately if the idle lease is zero. Otherwise it does nothing and the
// lease clock decides when to stop (see lease.go).
func (c *Cluster) Release() {
	c.leaseMu.Lock()
	defer c.leaseMu.Unlock()
	if c.cfg.IdleLease == 0 {
		_ = c.Stop()
	}
}

// Stop shuts the cluster process down and releases its lock file. It is
// idempotent and safe on all exit paths, including after a panic recovers
// above it (spec.md §9: "Implementations must guarantee release on all
// exit paths").
func (c *Cluster) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}
	_ = c.cmd.Process.Signal(os.Interrupt)
	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		_ = c.cmd.Process.Kill()
		<-done
	}
	c.cmd = nil
	return lockfile.Remove(c.cfg.DataDir)
}

// IsIdle reports whether the cluster has been unused for at least its
// configured idle lease.
func (c *Cluster) IsIdle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db != nil && c.cfg.IdleLease > 0 && time.Since(c.lastUse) >= c.cfg.IdleLease
}

func walCorrupted(logPath string) bool {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return false
	}
	content := strings.ToLower(string(data))
	return strings.Contains(content, "wal") && strings.Contains(content, "corrupt")
}

// FromWorkConfig builds a Cluster Config from a persisted per-Work config.
func FromWorkConfig(workRoot string, fc *configfile.Config) Config {
	return Config{
		WorkID:           fc.WorkID,
		WorkRoot:         workRoot,
		DataDir:          configfile.PGDataDir(workRoot),
		BinaryDir:        configfile.CacheLinkDir(workRoot),
		Host:             Host,
		Port:             fc.ClusterPort,
		EngineVersion:    fc.EngineVersion,
		IdleLease:        config.IdleLease(),
		ReadinessTimeout: config.ReadinessTimeout(),
	}
}
