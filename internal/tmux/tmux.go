// Package tmux opens work shells next to the gitship pane via exec. The
// shell-open feature is only offered when the app runs inside tmux (TMUX env
// set); outside tmux the UI hides it.
package tmux

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Available reports whether the app is running inside a tmux session.
func Available() bool {
	return os.Getenv("TMUX") != ""
}

// SplitPane creates a new pane in the current window with cwd set to workDir.
// Returns the new pane ID (e.g. %4) or an error.
func SplitPane(workDir string) (paneID string, err error) {
	cmd := exec.Command("tmux", "split-window", "-P", "-F", "#{pane_id}", "-c", workDir)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux split-window: %w: %s", err, strings.TrimSpace(out.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

// SplitPaneCommand creates a new pane running shellCmd instead of the default
// shell. Used to open an ssh session at a project's remote path.
func SplitPaneCommand(shellCmd string) (paneID string, err error) {
	cmd := exec.Command("tmux", "split-window", "-P", "-F", "#{pane_id}", shellCmd)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tmux split-window: %w: %s", err, strings.TrimSpace(out.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

// KillPane kills the pane with the given ID.
func KillPane(paneID string) error {
	cmd := exec.Command("tmux", "kill-pane", "-t", paneID)
	var out bytes.Buffer
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tmux kill-pane: %w: %s", err, strings.TrimSpace(out.String()))
	}
	return nil
}
