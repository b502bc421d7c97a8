// Package config loads, normalizes, and validates xtor configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// XTOR_DEFAULT_FEED and XTOR_PLAYER. The Config type centralizes every knob the
// CLI needs: where subscribed feeds are persisted, how the feed API is called,
// which external player handles playback, and how logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
