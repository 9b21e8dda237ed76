package gitexec

import "strings"

// runSSH drives one action against a repository on the remote host. The
// command sequence mirrors runLocal; each git invocation becomes a
// shell-escaped `cd <repo> && git …` executed over ssh.
func (c *Client) runSSH(req Request) ActionOutcome {
	var steps []StepResult

	ssh, ok := c.sshExe()
	if !ok {
		return failure(req, steps, "SSH-0001", SeverityFatal, "ssh not found", "")
	}
	if strings.TrimSpace(req.SSH.Host) == "" || strings.TrimSpace(req.SSH.User) == "" {
		return failure(req, steps, "CFG-0302", SeverityError, "ssh host/user is required", "")
	}
	remote := strings.TrimSpace(req.RemotePath)
	if remote == "" {
		return failure(req, steps, "CFG-0303", SeverityError, "remotePath is required", "")
	}

	inRepo := func(gitCmd string) StepResult {
		return c.sshRun(ssh, req.SSH, "cd "+shellQuote(remote)+" && "+gitCmd)
	}

	// Survive unborn and detached HEADs when reading the branch.
	brStep := inRepo("(git symbolic-ref --short HEAD 2>/dev/null || git rev-parse --abbrev-ref HEAD)")
	currentBranch := strings.TrimSpace(brStep.Stdout)
	if !brStep.Ok {
		detail := brStep.Stderr
		steps = append(steps, brStep)
		return failure(req, steps, "SSH-0201", SeverityError, "failed to get remote branch", detail)
	}
	steps = append(steps, brStep)

	headStep := inRepo("git rev-parse --verify HEAD")
	hasCommits := headStep.Ok
	steps = append(steps, headStep)

	stStep := inRepo("git status --porcelain --ignore-submodules")
	if !stStep.Ok {
		detail := stStep.Stderr
		steps = append(steps, stStep)
		return failure(req, steps, "SSH-0201", SeverityError, "git status failed on remote", detail)
	}
	clean := strings.TrimSpace(stStep.Stdout) == ""
	steps = append(steps, stStep)

	if req.Action != ActionPush && !clean {
		stash := inRepo("git stash --include-untracked")
		if strings.Contains(stash.Stdout, "Saved working directory") {
			stash.Ok = true
		}
		steps = append(steps, stash)
	}

	if req.Action == ActionPush && !clean {
		if currentBranch != req.Branch {
			return failure(req, steps, "GIT-0103", SeverityError,
				"working tree is dirty on a different branch",
				"current_branch="+currentBranch+" target_branch="+req.Branch)
		}
		msg := strings.TrimSpace(req.CommitMessage)
		if msg == "" {
			return failure(req, steps, "GIT-0104", SeverityError,
				"push requires commitMessage when working tree is dirty", "")
		}
		addStep := inRepo("git add -A")
		steps = append(steps, addStep)
		if !addStep.Ok {
			return failure(req, steps, "SSH-0201", SeverityError, "git add failed on remote", addStep.Stderr)
		}
		commitStep := inRepo("git commit -m " + shellQuote(msg))
		steps = append(steps, commitStep)
		if !commitStep.Ok {
			return failure(req, steps, "SSH-0201", SeverityError, "git commit failed on remote", commitStep.Stderr)
		}
		hasCommits = true
	}

	if req.Action == ActionPush && !hasCommits {
		msg := strings.TrimSpace(req.CommitMessage)
		if msg == "" {
			return failure(req, steps, "GIT-0107", SeverityError,
				"push requires commitMessage when repository has no commits", "")
		}
		emptyCommit := inRepo("git commit --allow-empty -m " + shellQuote(msg))
		steps = append(steps, emptyCommit)
		if !emptyCommit.Ok {
			return failure(req, steps, "SSH-0201", SeverityError,
				"git commit --allow-empty failed on remote", emptyCommit.Stderr)
		}
	}

	steps = append(steps, inRepo("git fetch origin"))
	steps = append(steps, inRepo("git checkout "+shellQuote(req.Branch)))

	switch req.Action {
	case ActionPull:
		steps = append(steps, inRepo("git pull --ff-only origin "+shellQuote(req.Branch)))
	case ActionPush:
		steps = append(steps, inRepo("git push origin "+shellQuote(req.Branch)))
	case ActionMerge:
		from := strings.TrimSpace(req.MergeFromBranch)
		if from == "" {
			return failure(req, steps, "CFG-0201", SeverityError,
				"mergeFromBranch is required for merge", "")
		}
		steps = append(steps, inRepo("git fetch origin "+shellQuote(from)))
		steps = append(steps, inRepo("git merge --no-ff "+shellQuote("origin/"+from)))
		steps = append(steps, inRepo("git push origin "+shellQuote(req.Branch)))
	}

	return finish(req, steps, ActionError{
		Code:     "SSH-0200",
		Severity: SeverityError,
		Message:  "remote command failed",
	})
}
