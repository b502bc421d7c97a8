// Package feedapi is the HTTP client for XTOR feed servers.
//
// A feed is identified by its base URL. The client fetches and validates the
// feed manifest (GET <base>manifest), lists videos page by page with the
// feed's filter, sort, and search parameters (GET <base>videos?...), and
// retrieves single video documents (GET <base>videos/<id>). Manifests keep
// their original JSON so unknown fields survive persistence untouched, while
// video documents stay opaque maps with a few typed read helpers.
//
// Every request carries a correlation ID in the X-Request-ID header that is
// also attached to log records. Failures are tagged with the services error
// markers so callers can classify them with errors.Is.
package feedapi
