// Package logs reads the xtor log file for `xtor logs`.
//
// Last returns the trailing lines with bounded memory. Follow streams lines
// appended afterwards, waking on fsnotify events rather than polling, and
// restarts from the top when the file is truncated.
package logs
