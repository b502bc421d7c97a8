// Package format renders feed and video fields for display: durations,
// quality labels, humanized identifiers, and truncated text for table cells.
package format
