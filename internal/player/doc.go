// Package player hands a video's stream URL to an external media player.
//
// The player command and its arguments come from configuration. Arguments may
// reference {url} and {title}; when no argument mentions {url} the stream URL
// is appended. Process execution goes through an Executor so tests can stub
// it out.
package player
