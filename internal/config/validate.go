package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFeeds(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFeeds() error {
	if c.Feeds.RequestTimeout <= 0 {
		return errors.New("feeds.request_timeout must be positive (seconds)")
	}
	if c.Feeds.DefaultURL == "" {
		// An empty default disables automatic subscription.
		return nil
	}
	parsed, err := url.Parse(c.Feeds.DefaultURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("feeds.default_url must be an absolute http(s) URL, got %q", c.Feeds.DefaultURL)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageBackendFile, StorageBackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", StorageBackendFile, StorageBackendSQLite, c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
