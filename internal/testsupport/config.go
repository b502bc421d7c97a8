// Package testsupport builds isolated configurations for tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"xtor/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory. The default
// feed is disabled so tests never reach the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Feeds.DefaultURL = ""
	cfgVal.Feeds.RequestTimeout = 5
	cfgVal.Storage.Path = filepath.Join(cfgVal.Paths.StateDir, "feeds.json")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSQLiteStorage switches the store to the sqlite backend.
func WithSQLiteStorage() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Backend = config.StorageBackendSQLite
		b.cfg.Storage.Path = filepath.Join(b.cfg.Paths.StateDir, "xtor.db")
	}
}

// WithDefaultFeed sets the feed subscribed when the directory is empty.
func WithDefaultFeed(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Feeds.DefaultURL = url
	}
}

// WithPlayerArgs sets the player argument template.
func WithPlayerArgs(args ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Player.Args = args
	}
}

// WithStubbedPlayer writes a stub executable named after the configured
// player command and prepends its directory to PATH.
func WithStubbedPlayer() ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, b.cfg.Player.Command)
		if err := os.WriteFile(target, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", b.cfg.Player.Command, err)
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, cfg *config.Config, path string) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
