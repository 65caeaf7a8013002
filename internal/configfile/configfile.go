// Package configfile manages the per-Work configuration file at
// <work>/.littera/config.yml (spec.md §6): the work identifier, the
// cluster's allocated port, and the engine version reference.
package configfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// DirName is the per-Work state directory.
const DirName = ".littera"

// FileName is the configuration file within DirName.
const FileName = "config.yml"

// EngineVersion is the embedded engine version this build targets. It is
// part of the binary cache key (spec.md §6).
const EngineVersion = "1.0"

// Config is the persisted per-Work configuration.
type Config struct {
	WorkID        string `yaml:"work_id"`
	ClusterPort   int    `yaml:"cluster_port"`
	EngineVersion string `yaml:"engine_version"`
}

// Dir returns <workRoot>/.littera.
func Dir(workRoot string) string { return filepath.Join(workRoot, DirName) }

// Path returns <workRoot>/.littera/config.yml.
func Path(workRoot string) string { return filepath.Join(Dir(workRoot), FileName) }

// PGDataDir returns <workRoot>/.littera/pgdata, the cluster's opaque data
// directory.
func PGDataDir(workRoot string) string { return filepath.Join(Dir(workRoot), "pgdata") }

// CacheLinkDir returns <workRoot>/.littera/pg, the indirection into the
// shared engine binary cache.
func CacheLinkDir(workRoot string) string { return filepath.Join(Dir(workRoot), "pg") }

// Load reads the per-Work config, or nil if it does not exist.
func Load(workRoot string) (*Config, error) {
	data, err := os.ReadFile(Path(workRoot))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("configfile: read: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("configfile: parse: %w", err)
	}
	return &cfg, nil
}

// Save atomically writes the per-Work config (temp file + rename).
func (c *Config) Save(workRoot string) error {
	dir := Dir(workRoot)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("configfile: mkdir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("configfile: marshal: %w", err)
	}

	target := Path(workRoot)
	tmp, err := os.CreateTemp(dir, FileName+".tmp.*")
	if err != nil {
		return fmt.Errorf("configfile: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("configfile: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("configfile: close: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("configfile: rename: %w", err)
	}
	return os.Chmod(target, 0o600)
}

// Exists reports whether a Work has already been initialized at workRoot.
func Exists(workRoot string) bool {
	_, err := os.Stat(Path(workRoot))
	return err == nil
}

// Watch opens an fsnotify watch on a Work's .littera directory, for
// callers that want to react live to writes made by another process or
// another command invocation against the same Work (a `--watch` read
// command, for instance). Mirrors the teacher's watchIssues pattern
// (cmd/bd/list.go): watch the directory, not the file, since editors and
// the embedded cluster's own WAL both tend to replace-and-rename rather
// than write in place. The caller owns the returned *fsnotify.Watcher and
// must Close it.
func Watch(workRoot string) (*fsnotify.Watcher, error) {
	dir := Dir(workRoot)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("configfile: watch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("configfile: new watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("configfile: watch %s: %w", dir, err)
	}
	return w, nil
}
