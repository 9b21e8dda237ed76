package orchestrator

import "gitship/internal/gitexec"

// Boundary is the execution surface the orchestrator drives. Production code
// uses *gitexec.Client; tests substitute a fake to script outcomes.
type Boundary interface {
	Preflight() gitexec.PreflightResult
	SSHConnect(params gitexec.SSHParams) gitexec.SSHConnectResult
	DetectLocalRepos(rootPath string, maxDepth int) ([]gitexec.Repo, error)
	DetectRemoteRepos(rootPath string, maxDepth, maxRepos int, params gitexec.SSHParams) ([]gitexec.Repo, error)
	ListBranches(repoURL string) gitexec.BranchList
	RunAction(req gitexec.Request) gitexec.ActionOutcome
	InitLocalRepo(localPath, repoURL, defaultBranch string) gitexec.ActionOutcome
}

var _ Boundary = (*gitexec.Client)(nil)
