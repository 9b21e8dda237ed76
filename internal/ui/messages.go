package ui

import (
	"gitship/internal/gitexec"
	"gitship/internal/project"
)

// SelectProjectMsg is sent when the user opens a project from the dashboard.
type SelectProjectMsg struct {
	ID string
}

// ProjectsChangedMsg tells views to re-read the project list from the
// orchestrator (after create, edit, discovery import).
type ProjectsChangedMsg struct{}

// ModeToggledMsg is sent after the workspace mode switched.
type ModeToggledMsg struct {
	Mode project.Mode
}

// ActionDoneMsg carries the outcome of a finished action run.
type ActionDoneMsg struct {
	ProjectID string
	EnvKey    project.EnvKey
	Outcome   gitexec.ActionOutcome
	Err       error
}

// LocalScanDoneMsg carries the raw rows of a local repository scan, before
// the operator confirms which to import.
type LocalScanDoneMsg struct {
	Repos []gitexec.Repo
	Err   error
}

// ImportReposMsg is sent when the discovery modal confirms rows for import.
type ImportReposMsg struct {
	Repos []gitexec.Repo
}

// DiscoveryDoneMsg carries the result of a finished import.
type DiscoveryDoneMsg struct {
	Created []project.Project
	Err     error
}

// EnvFocusedMsg is sent when the detail view switches environment focus.
type EnvFocusedMsg struct {
	ProjectID string
	Env       project.EnvKey
}

// PreflightDoneMsg carries the local tool probe result.
type PreflightDoneMsg struct {
	Result gitexec.PreflightResult
}

// SSHConnectDoneMsg carries the ssh host probe result.
type SSHConnectDoneMsg struct {
	Result gitexec.SSHConnectResult
}

// BranchesLoadedMsg carries the branch heads of a project's repo URL.
type BranchesLoadedMsg struct {
	ProjectID string
	Result    gitexec.BranchList
}

// CreateProjectMsg is sent when user creates a project (from modal).
type CreateProjectMsg struct {
	Name string
}

// SaveProjectMsg is sent when the edit modal submits changed fields.
type SaveProjectMsg struct {
	Project project.Project
}

// CommitMessageMsg is sent when the commit prompt submits a message for a
// pending dirty push.
type CommitMessageMsg struct {
	Message string
}

// ShowCreateProjectMsg triggers the create-project modal.
type ShowCreateProjectMsg struct{}

// ShellOpenedMsg reports the result of opening a work shell pane.
type ShellOpenedMsg struct {
	PaneID string
	Err    error
}

// ShellClosedMsg reports the result of closing the last opened shell pane.
type ShellClosedMsg struct {
	Err error
}

// TraceCopiedMsg reports the result of copying a step trace to the clipboard.
type TraceCopiedMsg struct {
	Err error
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// StatusMsg sets the transient status line at the bottom of the screen.
type StatusMsg struct {
	Text  string
	IsErr bool
}
