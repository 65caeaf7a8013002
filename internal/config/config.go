// Package config manages the process-wide configuration surface: the idle
// lease duration for embedded clusters, test-mode defaults, and the user
// cache root, all sourced from environment variables via viper (spec.md §6).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "LITTERA"

// DefaultIdleLease is the idle-lease duration for interactive commands when
// LITTERA_IDLE_LEASE_SECONDS is unset (spec.md §4.1).
const DefaultIdleLease = 2 * time.Minute

var v = viper.New()

// Initialize wires environment-variable binding. Safe to call multiple
// times; idempotent.
func Initialize() error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("idle_lease_seconds", int(DefaultIdleLease.Seconds()))
	v.SetDefault("test_mode", false)
	v.SetDefault("acquire_timeout_seconds", 30)
	v.SetDefault("readiness_timeout_seconds", 15)

	return nil
}

// TestMode reports whether LITTERA_TEST_MODE is set, which forces a zero
// idle lease and other test-appropriate defaults (spec.md §6).
func TestMode() bool {
	return v.GetBool("test_mode")
}

// IdleLease returns the configured idle-lease duration for the embedded
// cluster. Zero disables holding the cluster open between commands. Test
// mode always yields zero regardless of the configured value.
func IdleLease() time.Duration {
	if TestMode() {
		return 0
	}
	return time.Duration(v.GetInt("idle_lease_seconds")) * time.Second
}

// AcquireTimeout returns the configured cluster-acquire timeout. No caller
// in this module applies it; Acquire waits as long as its context allows.
func AcquireTimeout() time.Duration {
	return time.Duration(v.GetInt("acquire_timeout_seconds")) * time.Second
}

// ReadinessTimeout bounds the embedded-cluster start readiness probe
// (spec.md §5: "a dedicated readiness timeout").
func ReadinessTimeout() time.Duration {
	return time.Duration(v.GetInt("readiness_timeout_seconds")) * time.Second
}

// CacheRoot returns the user-global engine binary cache root:
// <user-cache-dir>/littera/embedded (spec.md §6).
func CacheRoot() (string, error) {
	if override := os.Getenv("LITTERA_CACHE_DIR"); override != "" {
		return override, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "littera", "embedded"), nil
}
