// Package deps reports whether the external programs xtor hands playback to
// are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Status describes one external program.
type Status struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Resolved  string `json:"resolved,omitempty"`
	Available bool   `json:"available"`
	Detail    string `json:"detail,omitempty"`
}

// Check resolves command on PATH (or as given, when it contains a slash).
func Check(name, command string) Status {
	command = strings.TrimSpace(command)
	status := Status{Name: name, Command: command}
	if command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", command)
		return status
	}
	status.Resolved = resolved
	status.Available = true
	return status
}

// CheckPlayer reports on the configured media player.
func CheckPlayer(command string) Status {
	return Check("Player", command)
}
