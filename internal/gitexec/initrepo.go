package gitexec

import (
	"os"
	"strings"
)

// InitLocalRepo initializes a git repository at localPath, creating the
// directory when needed. An already-initialized directory is reported as a
// successful no-op (INFO). When repoURL is given, origin is added or
// repointed. Best-effort: callers treat a failed init as a notice, not a
// fatal condition.
func (c *Client) InitLocalRepo(localPath, repoURL, defaultBranch string) ActionOutcome {
	req := Request{Mode: "local", EnvKey: "init", Action: actionInit}
	var steps []StepResult

	git, ok := c.gitExe()
	if !ok {
		return failure(req, steps, "GIT-0001", SeverityFatal,
			"git not found. run preflight and set gitPath if needed", "")
	}

	local := strings.TrimSpace(localPath)
	if local == "" {
		return failure(req, steps, "GIT-0401", SeverityError, "localPath is required", "")
	}

	if _, err := os.Stat(local); err != nil {
		if mkErr := os.MkdirAll(local, 0o755); mkErr != nil {
			steps = append(steps, StepResult{
				Cmd:      "mkdir -p " + local,
				Ok:       false,
				ExitCode: -1,
				Stderr:   mkErr.Error(),
			})
			return failure(req, steps, "GIT-0402", SeverityError, "failed to create directory", "")
		}
		steps = append(steps, StepResult{Cmd: "mkdir -p " + local, Ok: true})
	}

	if isRepoDir(local) {
		steps = append(steps, StepResult{
			Cmd: "[skip] already initialized: " + local,
			Cwd: local,
			Ok:  true,
		})
		out := ActionOutcome{Ok: true, Mode: req.Mode, Action: req.Action, EnvKey: req.EnvKey, Steps: steps}
		out.Error = &ActionError{
			Code:     "GIT-0403",
			Severity: SeverityInfo,
			Message:  ".git already exists (already initialized)",
		}
		return out
	}

	inRepo := func(args ...string) StepResult {
		return c.run(git, args, local)
	}

	steps = append(steps, inRepo("init"))

	// symbolic-ref avoids depending on the git version's init.defaultBranch.
	branch := strings.TrimSpace(defaultBranch)
	if branch == "" {
		branch = "main"
	}
	steps = append(steps, inRepo("symbolic-ref", "HEAD", "refs/heads/"+branch))

	if url := strings.TrimSpace(repoURL); url != "" {
		remotes := inRepo("remote")
		hasOrigin := false
		if remotes.Ok {
			for _, line := range strings.Split(remotes.Stdout, "\n") {
				if strings.TrimSpace(line) == "origin" {
					hasOrigin = true
					break
				}
			}
		}
		steps = append(steps, remotes)
		if hasOrigin {
			steps = append(steps, inRepo("remote", "set-url", "origin", url))
		} else {
			steps = append(steps, inRepo("remote", "add", "origin", url))
		}
	}

	return finish(req, steps, ActionError{
		Code:     "GIT-0499",
		Severity: SeverityError,
		Message:  "init failed (see steps)",
	})
}
