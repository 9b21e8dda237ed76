package gitexec

import (
	"os"
	"strings"
)

// runLocal drives one action against a repository on the local filesystem.
//
// Shared preamble for every action: read the current branch, probe whether
// HEAD exists (a repo with no commits needs special push handling), check
// whether the working tree is clean. Dirty trees are auto-stashed before
// pull/merge; a dirty push instead commits the changes, which requires the
// current branch to already be the target and a commit message to be
// present. Then fetch, checkout the target branch, and run the action's own
// command tail.
func (c *Client) runLocal(req Request) ActionOutcome {
	var steps []StepResult

	git, ok := c.gitExe()
	if !ok {
		return failure(req, steps, "GIT-0001", SeverityFatal, "git not found", "")
	}

	local := strings.TrimSpace(req.LocalPath)
	if local == "" {
		return failure(req, steps, "FS-0100", SeverityError, "localPath is required", "")
	}
	info, err := os.Stat(local)
	if err != nil {
		return failure(req, steps, "FS-0101", SeverityError, "localPath does not exist", local)
	}
	if !info.IsDir() {
		return failure(req, steps, "FS-0101", SeverityError, "localPath is not a directory", local)
	}
	if !isRepoDir(local) {
		return failure(req, steps, "FS-0102", SeverityError, "localPath is not a git repository", local)
	}

	inRepo := func(args ...string) StepResult {
		return c.run(git, append([]string{"-C", local}, args...), "")
	}

	// symbolic-ref works on an unborn branch where rev-parse would not.
	brStep := inRepo("symbolic-ref", "--short", "HEAD")
	currentBranch := strings.TrimSpace(brStep.Stdout)
	if !brStep.Ok {
		detail := brStep.Stderr
		steps = append(steps, brStep)
		return failure(req, steps, "GIT-0100", SeverityError, "failed to get current branch", detail)
	}

	headStep := inRepo("rev-parse", "--verify", "HEAD")
	hasCommits := headStep.Ok
	steps = append(steps, headStep, brStep)

	stStep := inRepo("status", "--porcelain", "--ignore-submodules")
	steps = append(steps, stStep)
	if !stStep.Ok {
		return failure(req, steps, "GIT-0101", SeverityError, "git status failed", stStep.Stderr)
	}
	clean := strings.TrimSpace(stStep.Stdout) == ""

	if req.Action != ActionPush && !clean {
		stash := inRepo("stash", "--include-untracked")
		// Stash can exit non-zero over permission noise even though the
		// changes were saved; the save message is authoritative.
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
		addStep := inRepo("add", "-A")
		steps = append(steps, addStep)
		if !addStep.Ok {
			return failure(req, steps, "GIT-0105", SeverityError, "git add failed", addStep.Stderr)
		}
		commitStep := inRepo("commit", "-m", msg)
		steps = append(steps, commitStep)
		if !commitStep.Ok {
			return failure(req, steps, "GIT-0106", SeverityError, "git commit failed", commitStep.Stderr)
		}
		hasCommits = true
	}

	steps = append(steps, inRepo("fetch", "origin"))
	steps = append(steps, inRepo("checkout", req.Branch))

	// First push into an unborn repo: create one commit so the refspec
	// resolves.
	if req.Action == ActionPush && !hasCommits {
		msg := strings.TrimSpace(req.CommitMessage)
		if msg == "" {
			return failure(req, steps, "GIT-0107", SeverityError,
				"push requires commitMessage when repository has no commits", "")
		}
		emptyCommit := inRepo("commit", "--allow-empty", "-m", msg)
		steps = append(steps, emptyCommit)
		if !emptyCommit.Ok {
			return failure(req, steps, "GIT-0108", SeverityError,
				"git commit --allow-empty failed", emptyCommit.Stderr)
		}
	}

	switch req.Action {
	case ActionPull:
		steps = append(steps, inRepo("pull", "--ff-only", "origin", req.Branch))
	case ActionPush:
		steps = append(steps, inRepo("push", "origin", req.Branch))
	case ActionMerge:
		from := strings.TrimSpace(req.MergeFromBranch)
		if from == "" {
			return failure(req, steps, "CFG-0003", SeverityError,
				"mergeFromBranch is required for merge", "")
		}
		steps = append(steps, inRepo("fetch", "origin", from))
		steps = append(steps, inRepo("merge", "--no-ff", from))
		steps = append(steps, inRepo("push", "origin", req.Branch))
	}

	return finish(req, steps, ActionError{
		Code:     "GIT-0002",
		Severity: SeverityError,
		Message:  "git command failed",
	})
}
