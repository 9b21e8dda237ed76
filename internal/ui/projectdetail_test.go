package ui

import (
	"strings"
	"testing"

	"gitship/internal/gitexec"
	"gitship/internal/project"
)

func detailProject() project.Project {
	p := project.New("alpha")
	p.SetEnv(project.EnvTest, project.Env{
		Branch:     "main",
		LocalPath:  "/work/alpha",
		RepoURL:    "git@host:alpha.git",
		RemotePath: "/srv/alpha",
	})
	p.SetEnv(project.EnvDeploy, project.Env{
		Branch:    "prod",
		LocalPath: "/work/alpha-deploy",
	})
	return p
}

func TestDetailEnvFocusKeys(t *testing.T) {
	v := NewProjectDetailView(detailProject(), project.ModeLocal)
	if v.Env() != project.EnvTest {
		t.Fatalf("initial env = %v, want test", v.Env())
	}

	v.Update(keyMsg("tab"))
	if v.Env() != project.EnvDeploy {
		t.Errorf("after tab: env = %v, want deploy", v.Env())
	}
	v.Update(keyMsg("tab"))
	if v.Env() != project.EnvTest {
		t.Errorf("tab should cycle back to test, got %v", v.Env())
	}

	v.Update(keyMsg("2"))
	if v.Env() != project.EnvDeploy {
		t.Errorf("after 2: env = %v, want deploy", v.Env())
	}
	v.Update(keyMsg("1"))
	if v.Env() != project.EnvTest {
		t.Errorf("after 1: env = %v, want test", v.Env())
	}
}

func TestDetailViewRendersEnvironments(t *testing.T) {
	v := NewProjectDetailView(detailProject(), project.ModeLocal)
	view := v.View()

	for _, want := range []string{"alpha", "branch:main", "branch:prod", "/work/alpha", "/work/alpha-deploy", "git@host:alpha.git"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestDetailViewSSHModeShowsRemotePaths(t *testing.T) {
	v := NewProjectDetailView(detailProject(), project.ModeSSH)
	view := v.View()

	if !strings.Contains(view, "/srv/alpha") {
		t.Errorf("ssh mode should show the remote path:\n%s", view)
	}
	// The deploy env has no remote path configured.
	if !strings.Contains(view, "(no path for this mode)") {
		t.Errorf("missing placeholder for an unset path:\n%s", view)
	}
}

func TestDetailRendersOutcomeTrace(t *testing.T) {
	v := NewProjectDetailView(detailProject(), project.ModeLocal)
	v.SetOutcome(gitexec.ActionOutcome{
		Ok:     false,
		Mode:   "local",
		Action: gitexec.ActionPull,
		EnvKey: "test",
		Steps: []gitexec.StepResult{
			{Cmd: "git symbolic-ref --short HEAD", Ok: true},
			{Cmd: "git pull --ff-only", Ok: false, ExitCode: 1, Stderr: "fatal: not possible to fast-forward\nmore"},
		},
		Error: &gitexec.ActionError{
			Code:     "GIT-0107",
			Severity: gitexec.SeverityError,
			Message:  "pull failed",
		},
	})
	view := v.View()

	for _, want := range []string{"pull local/test", "git pull --ff-only", "fatal: not possible to fast-forward", "GIT-0107", "pull failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "more") {
		t.Error("only the first stderr line should render")
	}
}

func TestDetailBusyIndicator(t *testing.T) {
	v := NewProjectDetailView(detailProject(), project.ModeLocal)
	if cmd := v.SetBusy(true); cmd == nil {
		t.Error("starting busy should return the spinner tick")
	}
	if !v.Busy() {
		t.Error("Busy should report true")
	}
	if !strings.Contains(v.View(), "running") {
		t.Error("busy view should show the running indicator")
	}
	if cmd := v.SetBusy(false); cmd != nil {
		t.Error("stopping busy should not return a command")
	}
}

func TestDetailBranchesLine(t *testing.T) {
	v := NewProjectDetailView(detailProject(), project.ModeLocal)
	v.SetBranches([]string{"main", "prod", "feature/x"})
	view := v.View()
	if !strings.Contains(view, "main, prod, feature/x") {
		t.Errorf("view missing branch list:\n%s", view)
	}
}
