package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFeeds()
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	c.normalizePlayer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFeeds() {
	if value, ok := os.LookupEnv("XTOR_DEFAULT_FEED"); ok {
		c.Feeds.DefaultURL = value
	}
	c.Feeds.DefaultURL = strings.TrimSpace(c.Feeds.DefaultURL)
	c.Feeds.UserAgent = strings.TrimSpace(c.Feeds.UserAgent)
	if c.Feeds.UserAgent == "" {
		c.Feeds.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeStorage() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageBackendFile
	}
	c.Storage.Key = strings.TrimSpace(c.Storage.Key)
	if c.Storage.Key == "" {
		c.Storage.Key = defaultStorageKey
	}
	path := strings.TrimSpace(c.Storage.Path)
	if path == "" {
		switch c.Storage.Backend {
		case StorageBackendSQLite:
			path = filepath.Join(c.Paths.StateDir, defaultSQLiteStoreName)
		default:
			path = filepath.Join(c.Paths.StateDir, defaultFileStoreName)
		}
	}
	var err error
	if c.Storage.Path, err = expandPath(path); err != nil {
		return fmt.Errorf("storage.path: %w", err)
	}
	return nil
}

func (c *Config) normalizePlayer() {
	if value, ok := os.LookupEnv("XTOR_PLAYER"); ok && strings.TrimSpace(value) != "" {
		c.Player.Command = value
	}
	c.Player.Command = strings.TrimSpace(c.Player.Command)
	if c.Player.Command == "" {
		c.Player.Command = defaultPlayerCommand
	}
	args := c.Player.Args[:0]
	for _, arg := range c.Player.Args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			args = append(args, trimmed)
		}
	}
	c.Player.Args = args
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
