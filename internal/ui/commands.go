package ui

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"gitship/internal/gitexec"
	"gitship/internal/orchestrator"
	"gitship/internal/project"
	"gitship/internal/tmux"
)

// runActionCmd runs one action through the orchestrator. The orchestrator
// enforces single flight; a rejected submission comes back in Err.
func runActionCmd(o *orchestrator.Orchestrator, projectID string, env project.EnvKey, action gitexec.Action, commitMessage string) tea.Cmd {
	return func() tea.Msg {
		out, err := o.RunAction(projectID, env, action, commitMessage)
		return ActionDoneMsg{ProjectID: projectID, EnvKey: env, Outcome: out, Err: err}
	}
}

// initRepoCmd initializes the local repository of a project environment.
func initRepoCmd(o *orchestrator.Orchestrator, projectID string, env project.EnvKey) tea.Cmd {
	return func() tea.Msg {
		out, err := o.InitRepo(projectID, env)
		return ActionDoneMsg{ProjectID: projectID, EnvKey: env, Outcome: out, Err: err}
	}
}

// scanLocalCmd runs a local repository scan. The results go through the
// discovery modal before anything is imported.
func scanLocalCmd(o *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		repos, err := o.ScanLocal()
		return LocalScanDoneMsg{Repos: repos, Err: err}
	}
}

// discoverRemoteCmd scans the ssh host and auto-imports every unclaimed repo.
func discoverRemoteCmd(o *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		created, err := o.DiscoverRemote("")
		return DiscoveryDoneMsg{Created: created, Err: err}
	}
}

// preflightCmd probes the local git and ssh tools.
func preflightCmd(o *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		return PreflightDoneMsg{Result: o.Preflight()}
	}
}

// sshConnectCmd probes the configured ssh host.
func sshConnectCmd(o *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		return SSHConnectDoneMsg{Result: o.SSHConnect()}
	}
}

// listBranchesCmd lists the branch heads of a repo URL.
func listBranchesCmd(o *orchestrator.Orchestrator, projectID, repoURL string) tea.Cmd {
	return func() tea.Msg {
		return BranchesLoadedMsg{ProjectID: projectID, Result: o.ListBranches(repoURL)}
	}
}

// openShellCmd opens a tmux pane for the environment: a plain shell at the
// local path, or an ssh session parked at the remote path.
func openShellCmd(o *orchestrator.Orchestrator, p project.Project, env project.EnvKey) tea.Cmd {
	return func() tea.Msg {
		if !tmux.Available() {
			return ShellOpenedMsg{Err: fmt.Errorf("not running inside tmux")}
		}
		resolved := project.Resolve(p, env, o.Mode())
		if o.Mode() == project.ModeSSH {
			ssh := o.Settings().SSH
			if ssh.Host == "" || ssh.User == "" || resolved.RemotePath == "" {
				return ShellOpenedMsg{Err: fmt.Errorf("ssh host/user and remote path are required")}
			}
			cmd := fmt.Sprintf("ssh -t %s@%s 'cd %s && exec $SHELL -l'", ssh.User, ssh.Host, resolved.RemotePath)
			paneID, err := tmux.SplitPaneCommand(cmd)
			return ShellOpenedMsg{PaneID: paneID, Err: err}
		}
		if resolved.LocalPath == "" {
			return ShellOpenedMsg{Err: fmt.Errorf("no local path configured")}
		}
		paneID, err := tmux.SplitPane(resolved.LocalPath)
		return ShellOpenedMsg{PaneID: paneID, Err: err}
	}
}

// closeShellCmd kills the tmux pane opened by openShellCmd.
func closeShellCmd(paneID string) tea.Cmd {
	return func() tea.Msg {
		return ShellClosedMsg{Err: tmux.KillPane(paneID)}
	}
}

// copyTraceCmd copies the step trace of an outcome to the system clipboard
// as pretty-printed JSON.
func copyTraceCmd(out gitexec.ActionOutcome) tea.Cmd {
	return func() tea.Msg {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return TraceCopiedMsg{Err: err}
		}
		return TraceCopiedMsg{Err: clipboard.WriteAll(string(data))}
	}
}

// statusCmd sets the transient status line.
func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Text: text, IsErr: isErr}
	}
}
