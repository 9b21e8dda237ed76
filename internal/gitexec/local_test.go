package gitexec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// repoDir creates a directory that passes the local-path validation.
func repoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func localRequest(dir string, action Action) Request {
	return Request{
		Mode:      "local",
		EnvKey:    "test",
		Action:    action,
		LocalPath: dir,
		Branch:    "main",
	}
}

// cleanRepoRules makes the preamble report a clean tree on branch main.
func cleanRepoRules() []stubRule {
	return []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("main\n")},
		{match: "rev-parse --verify HEAD", step: okStep("abc123\n")},
		{match: "status --porcelain", step: okStep("")},
	}
}

func commandsContaining(executed []string, fragment string) int {
	n := 0
	for _, cmd := range executed {
		if strings.Contains(cmd, fragment) {
			n++
		}
	}
	return n
}

func TestRunLocalPullSequence(t *testing.T) {
	dir := repoDir(t)
	c, executed := stubClient(cleanRepoRules()...)

	out := c.RunAction(localRequest(dir, ActionPull))
	if !out.Ok {
		t.Fatalf("outcome not ok: %+v", out.Error)
	}

	wantOrder := []string{
		"symbolic-ref --short HEAD",
		"rev-parse --verify HEAD",
		"status --porcelain --ignore-submodules",
		"fetch origin",
		"checkout main",
		"pull --ff-only origin main",
	}
	if len(*executed) != len(wantOrder) {
		t.Fatalf("executed %d commands, want %d: %v", len(*executed), len(wantOrder), *executed)
	}
	for i, frag := range wantOrder {
		if !strings.Contains((*executed)[i], frag) {
			t.Errorf("command[%d] = %q, want fragment %q", i, (*executed)[i], frag)
		}
	}
	// Step trace mirrors what ran: br/head swap places but all are recorded.
	if len(out.Steps) != 6 {
		t.Errorf("len(steps) = %d, want 6", len(out.Steps))
	}
}

func TestRunLocalPullAutoStashWhenDirty(t *testing.T) {
	dir := repoDir(t)
	rules := []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("main\n")},
		{match: "rev-parse --verify HEAD", step: okStep("abc123\n")},
		{match: "status --porcelain", step: okStep(" M index.html\n")},
		{match: "stash --include-untracked", step: okStep("Saved working directory and index state\n")},
	}
	c, executed := stubClient(rules...)

	out := c.RunAction(localRequest(dir, ActionPull))
	if !out.Ok {
		t.Fatalf("outcome not ok: %+v", out.Error)
	}
	if commandsContaining(*executed, "stash --include-untracked") != 1 {
		t.Error("dirty pull should auto-stash exactly once")
	}
}

func TestRunLocalStashPermissionNoiseTolerated(t *testing.T) {
	dir := repoDir(t)
	rules := []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("main\n")},
		{match: "rev-parse --verify HEAD", step: okStep("abc123\n")},
		{match: "status --porcelain", step: okStep("?? junk\n")},
		{match: "stash --include-untracked", step: StepResult{
			Ok:       false,
			ExitCode: 1,
			Stdout:   "Saved working directory and index state WIP\n",
			Stderr:   "warning: could not open directory",
		}},
	}
	c, _ := stubClient(rules...)

	out := c.RunAction(localRequest(dir, ActionPull))
	if !out.Ok {
		t.Fatalf("stash that saved changes should not fail the action: %+v", out.Error)
	}
}

func TestRunLocalDirtyPushRequiresMessage(t *testing.T) {
	dir := repoDir(t)
	rules := []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("main\n")},
		{match: "rev-parse --verify HEAD", step: okStep("abc123\n")},
		{match: "status --porcelain", step: okStep(" M app.go\n")},
	}
	c, executed := stubClient(rules...)

	req := localRequest(dir, ActionPush)
	out := c.RunAction(req)
	if out.Ok {
		t.Fatal("dirty push without message must fail")
	}
	if out.Error == nil || out.Error.Code != "GIT-0104" {
		t.Errorf("error = %+v, want GIT-0104", out.Error)
	}
	if commandsContaining(*executed, "add -A") != 0 {
		t.Error("no commit commands may run without a message")
	}
}

func TestRunLocalDirtyPushCommits(t *testing.T) {
	dir := repoDir(t)
	rules := []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("main\n")},
		{match: "rev-parse --verify HEAD", step: okStep("abc123\n")},
		{match: "status --porcelain", step: okStep(" M app.go\n")},
	}
	c, executed := stubClient(rules...)

	req := localRequest(dir, ActionPush)
	req.CommitMessage = "deploy: update"
	out := c.RunAction(req)
	if !out.Ok {
		t.Fatalf("outcome not ok: %+v", out.Error)
	}
	if commandsContaining(*executed, "add -A") != 1 {
		t.Error("dirty push should stage changes")
	}
	if commandsContaining(*executed, "commit -m deploy: update") != 1 {
		t.Errorf("dirty push should commit with the message, ran: %v", *executed)
	}
	if commandsContaining(*executed, "push origin main") != 1 {
		t.Error("push command missing")
	}
}

func TestRunLocalDirtyPushOnWrongBranch(t *testing.T) {
	dir := repoDir(t)
	rules := []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("feature/wip\n")},
		{match: "rev-parse --verify HEAD", step: okStep("abc123\n")},
		{match: "status --porcelain", step: okStep(" M app.go\n")},
	}
	c, _ := stubClient(rules...)

	req := localRequest(dir, ActionPush)
	req.CommitMessage = "msg"
	out := c.RunAction(req)
	if out.Ok || out.Error == nil || out.Error.Code != "GIT-0103" {
		t.Errorf("want GIT-0103 for dirty push on another branch, got %+v", out.Error)
	}
}

func TestRunLocalFirstPushUnbornRepo(t *testing.T) {
	dir := repoDir(t)
	rules := []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("main\n")},
		{match: "rev-parse --verify HEAD", step: failStep(128, "fatal: Needed a single revision")},
		{match: "status --porcelain", step: okStep("")},
	}
	c, executed := stubClient(rules...)

	req := localRequest(dir, ActionPush)
	req.CommitMessage = "initial"
	out := c.RunAction(req)
	if !out.Ok {
		t.Fatalf("outcome not ok: %+v", out.Error)
	}
	if commandsContaining(*executed, "commit --allow-empty -m initial") != 1 {
		t.Errorf("unborn push should create an empty commit, ran: %v", *executed)
	}
}

func TestRunLocalMergePromotes(t *testing.T) {
	dir := repoDir(t)
	c, executed := stubClient(cleanRepoRules()...)

	req := localRequest(dir, ActionMerge)
	req.Branch = "prod"
	req.MergeFromBranch = "main"
	out := c.RunAction(req)
	if !out.Ok {
		t.Fatalf("outcome not ok: %+v", out.Error)
	}
	for _, frag := range []string{"fetch origin main", "merge --no-ff main", "push origin prod"} {
		if commandsContaining(*executed, frag) != 1 {
			t.Errorf("missing %q in %v", frag, *executed)
		}
	}
}

func TestRunLocalMergeWithoutSource(t *testing.T) {
	dir := repoDir(t)
	c, _ := stubClient(cleanRepoRules()...)

	out := c.RunAction(localRequest(dir, ActionMerge))
	if out.Ok || out.Error == nil || out.Error.Code != "CFG-0003" {
		t.Errorf("want CFG-0003, got %+v", out.Error)
	}
}

func TestRunLocalStepsPreservedPastFailure(t *testing.T) {
	dir := repoDir(t)
	rules := append(cleanRepoRules(),
		stubRule{match: "checkout main", step: failStep(1, "error: pathspec")},
	)
	c, executed := stubClient(rules...)

	out := c.RunAction(localRequest(dir, ActionPull))
	if out.Ok {
		t.Fatal("failing checkout must fail the outcome")
	}
	if out.Error == nil || out.Error.Code != "GIT-0002" {
		t.Errorf("error = %+v, want GIT-0002", out.Error)
	}
	// The pull step still runs and is recorded after the failed checkout.
	if commandsContaining(*executed, "pull --ff-only") != 1 {
		t.Error("steps after a failure must still run and be traced")
	}
	var sawFailed, sawAfter bool
	for _, s := range out.Steps {
		if strings.Contains(s.Cmd, "checkout") && !s.Ok {
			sawFailed = true
		}
		if sawFailed && strings.Contains(s.Cmd, "pull --ff-only") {
			sawAfter = true
		}
	}
	if !sawFailed || !sawAfter {
		t.Errorf("step trace not preserved verbatim: %+v", out.Steps)
	}
}

func TestRunLocalValidation(t *testing.T) {
	c, _ := stubClient()

	out := c.RunAction(Request{Mode: "local", EnvKey: "test", Action: ActionPull})
	if out.Ok || out.Error == nil || out.Error.Code != "FS-0100" {
		t.Errorf("empty localPath: got %+v", out.Error)
	}

	out = c.RunAction(Request{Mode: "local", EnvKey: "test", Action: ActionPull, LocalPath: "/nonexistent/path"})
	if out.Ok || out.Error == nil || out.Error.Code != "FS-0101" {
		t.Errorf("missing localPath: got %+v", out.Error)
	}

	plain := t.TempDir() // exists but is not a repo
	out = c.RunAction(Request{Mode: "local", EnvKey: "test", Action: ActionPull, LocalPath: plain})
	if out.Ok || out.Error == nil || out.Error.Code != "FS-0102" {
		t.Errorf("non-repo localPath: got %+v", out.Error)
	}

	out = c.RunAction(Request{Mode: "local", EnvKey: "test", Action: "rebase"})
	if out.Ok || out.Error == nil || out.Error.Code != "CFG-0001" {
		t.Errorf("unknown action: got %+v", out.Error)
	}

	out = c.RunAction(Request{Mode: "carrier-pigeon", EnvKey: "test", Action: ActionPull})
	if out.Ok || out.Error == nil || out.Error.Code != "CFG-0002" {
		t.Errorf("unknown mode: got %+v", out.Error)
	}

	out = toolless().RunAction(Request{Mode: "local", EnvKey: "test", Action: ActionPull, LocalPath: plain})
	if out.Ok || out.Error == nil || out.Error.Code != "GIT-0001" {
		t.Errorf("missing git: got %+v", out.Error)
	}
}
