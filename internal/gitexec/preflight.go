package gitexec

import (
	"runtime"
	"strings"
)

// Preflight probes the local environment for usable git and ssh tools.
// Failures are reported in the ToolChecks, never as an error: a missing tool
// is a state the UI displays, not a fault.
func (c *Client) Preflight() PreflightResult {
	return PreflightResult{
		Platform: runtime.GOOS,
		Git:      c.checkTool(c.hints.GitPath, "git", []string{"--version"}),
		SSH:      c.checkTool(c.hints.SSHPath, "ssh", []string{"-V"}),
	}
}

// checkTool resolves a tool and runs its version probe. ssh -V prints to
// stderr, so the version is taken from whichever stream has output.
func (c *Client) checkTool(explicit, baseName string, versionArgs []string) ToolCheck {
	exe, ok := c.resolve(explicit, baseName)
	if !ok {
		return ToolCheck{Error: baseName + " not found"}
	}
	step := c.run(exe, versionArgs, "")
	check := ToolCheck{Found: true, Path: exe, Ok: step.Ok}

	stdout := strings.TrimSpace(step.Stdout)
	stderr := strings.TrimSpace(step.Stderr)
	switch {
	case stdout != "":
		check.Version = stdout
	case stderr != "":
		check.Version = stderr
	}
	if !step.Ok {
		switch {
		case stderr != "":
			check.Error = stderr
		case stdout != "":
			check.Error = stdout
		default:
			check.Error = "command failed"
		}
	}
	return check
}
