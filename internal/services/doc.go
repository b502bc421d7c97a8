// Package services defines shared utilities consumed by the feed directory,
// the feed API client, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation identifiers and the
//     feed URL under operation for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (bad input, bad manifest, fetch failure) with errors.Is.
//
// Use these helpers when wiring new operations so error classification and
// observability stay uniform across packages.
package services
