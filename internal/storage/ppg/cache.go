package ppg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ikari-pl/littera/internal/config"
)

// Fetcher downloads the engine binary set for a given version into dest.
// Production wiring points this at the real release artifact; tests and
// the zero-dependency default provide a stub that lays down a marker file,
// since the embedded engine binary itself is outside this module's scope.
type Fetcher func(ctx context.Context, engineVersion, dest string) error

// BinaryCache is the process-global, append-only cache of engine binaries,
// keyed by engine major version and host OS/arch (spec.md §6):
// <user-cache>/littera/embedded/<engine-version>/<os>-<arch>/.
type BinaryCache struct {
	root   string
	fetch  Fetcher
}

// NewBinaryCache opens the shared cache at the configured root.
func NewBinaryCache(fetch Fetcher) (*BinaryCache, error) {
	root, err := config.CacheRoot()
	if err != nil {
		return nil, fmt.Errorf("ppg: resolve cache root: %w", err)
	}
	if fetch == nil {
		fetch = stubFetch
	}
	return &BinaryCache{root: root, fetch: fetch}, nil
}

// entryDir returns <root>/<engineVersion>/<os>-<arch>.
func (c *BinaryCache) entryDir(engineVersion string) string {
	return filepath.Join(c.root, engineVersion, fmt.Sprintf("%s-%s", runtime.GOOS, runtime.GOARCH))
}

// readyMarker names the file that signals a cache entry finished
// downloading; its presence is what lets a second init reuse the cache
// (spec.md §8: "First init downloads the cluster binary; second init
// reuses the cache").
const readyMarker = ".ready"

// Ensure guarantees the cache entry for engineVersion exists, downloading
// it first if necessary. Downloads are atomic: fetched into a temp
// directory, then renamed into place, so a concurrent or crashed download
// never leaves a half-populated entry that a later Ensure would trust.
func (c *BinaryCache) Ensure(ctx context.Context, engineVersion string) (string, error) {
	dir := c.entryDir(engineVersion)
	if _, err := os.Stat(filepath.Join(dir, readyMarker)); err == nil {
		return dir, nil // already cached
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o750); err != nil {
		return "", fmt.Errorf("ppg: prepare cache parent: %w", err)
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(dir), ".download-*")
	if err != nil {
		return "", fmt.Errorf("ppg: create temp download dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	if err := c.fetch(ctx, engineVersion, tmpDir); err != nil {
		return "", fmt.Errorf("ppg: fetch engine %s: %w", engineVersion, err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, readyMarker), []byte(engineVersion), 0o640); err != nil {
		return "", fmt.Errorf("ppg: mark cache entry ready: %w", err)
	}

	// Atomic rename into place; if a concurrent Ensure won the race, our
	// rename target already exists and we fall back to it.
	if err := os.Rename(tmpDir, dir); err != nil {
		if _, statErr := os.Stat(filepath.Join(dir, readyMarker)); statErr == nil {
			return dir, nil
		}
		return "", fmt.Errorf("ppg: finalize cache entry: %w", err)
	}
	return dir, nil
}

// Link creates the per-Work indirection (<work>/.littera/pg) pointing at
// the shared cache entry, so cache eviction never corrupts a Work's data
// (spec.md §4.1). Falls back to a copy on platforms without symlink support.
func Link(cacheEntry, workLinkPath string) error {
	_ = os.Remove(workLinkPath)
	if err := os.Symlink(cacheEntry, workLinkPath); err != nil {
		return copyDir(cacheEntry, workLinkPath)
	}
	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o640)
	})
}

func stubFetch(_ context.Context, _, dest string) error {
	// No real network fetch in this module: the embedded engine ships as a
	// separately distributed artifact. This stub exists so BinaryCache is
	// fully exercised (atomicity, idempotence) without a network dependency.
	return os.WriteFile(filepath.Join(dest, "engine"), []byte("embedded-engine-placeholder"), 0o750)
}
