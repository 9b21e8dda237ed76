package gitexec

import (
	"reflect"
	"strings"
	"testing"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "'plain'"},
		{"/var/www/site", "'/var/www/site'"},
		{"it's", `'it'\''s'`},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := shellQuote(tt.in); got != tt.want {
			t.Errorf("shellQuote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSSHArgs(t *testing.T) {
	args := sshArgs(SSHParams{Host: "web01", User: "ops"}, "echo hi")
	want := []string{
		"-p", "22",
		"-o", "BatchMode=yes",
		"-o", "ConnectTimeout=5",
		"-o", "ConnectionAttempts=1",
		"ops@web01", "--", "echo hi",
	}
	if !reflect.DeepEqual(args, want) {
		t.Errorf("sshArgs = %v, want %v", args, want)
	}

	args = sshArgs(SSHParams{Host: "web01", User: "ops", Port: 2222, KeyPath: "/home/ops/.ssh/id_ed25519"}, "x")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-p 2222") {
		t.Errorf("custom port missing: %v", args)
	}
	if !strings.Contains(joined, "-i /home/ops/.ssh/id_ed25519") {
		t.Errorf("key path missing: %v", args)
	}
}

func TestSSHConnect(t *testing.T) {
	c, _ := stubClient(
		stubRule{match: sshProbeToken, step: okStep(sshProbeToken + "\n")},
		stubRule{match: "command -v git", step: okStep("/usr/bin/git\n")},
		stubRule{match: "--version", step: okStep("git version 2.43.0\n")},
	)
	res := c.SSHConnect(SSHParams{Host: "web01", User: "ops"})
	if !res.Ok || !res.SSHOk {
		t.Fatalf("SSHConnect = %+v, want ready", res)
	}
	if !res.RemoteGit.Ok || res.RemoteGit.Path != "/usr/bin/git" {
		t.Errorf("remote git = %+v", res.RemoteGit)
	}
	if res.RemoteGit.Version != "git version 2.43.0" {
		t.Errorf("version = %q", res.RemoteGit.Version)
	}
}

func TestSSHConnectTransportOkGitMissing(t *testing.T) {
	c, _ := stubClient(
		stubRule{match: sshProbeToken, step: okStep(sshProbeToken + "\n")},
		stubRule{match: "command -v git", step: okStep("\n")},
	)
	res := c.SSHConnect(SSHParams{Host: "web01", User: "ops"})
	if res.Ok {
		t.Error("missing remote git must not be ready")
	}
	if !res.SSHOk {
		t.Error("transport success must be reported separately")
	}
	if res.RemoteGit.Found {
		t.Errorf("remote git = %+v, want not found", res.RemoteGit)
	}
}

func TestSSHConnectValidation(t *testing.T) {
	c, _ := stubClient()
	if res := c.SSHConnect(SSHParams{User: "ops"}); res.Ok || res.SSHOk {
		t.Errorf("missing host accepted: %+v", res)
	}
	if res := toolless().SSHConnect(SSHParams{Host: "h", User: "u"}); res.Ok || res.Stderr == "" {
		t.Errorf("missing ssh tool accepted: %+v", res)
	}
}

func TestSSHConnectBannerCannotFakeProbe(t *testing.T) {
	c, _ := stubClient(
		stubRule{match: sshProbeToken, step: okStep("welcome to web01\n")},
	)
	res := c.SSHConnect(SSHParams{Host: "web01", User: "ops"})
	if res.SSHOk {
		t.Error("probe without echoed token must not count as connected")
	}
}

func TestParseRepoTSV(t *testing.T) {
	out := "/srv/site\tgit@host:site.git\tsite\n" +
		"/srv/api\t\tapi\n" +
		"/srv/site\tgit@host:dup.git\tdup\n" + // duplicate path
		"\n" +
		"/srv/bare\n"
	repos := parseRepoTSV(out)
	if len(repos) != 3 {
		t.Fatalf("parsed %d repos, want 3: %+v", len(repos), repos)
	}
	if repos[0].OriginURL != "git@host:site.git" || repos[0].Name != "site" {
		t.Errorf("repos[0] = %+v", repos[0])
	}
	if repos[1].OriginURL != "" {
		t.Errorf("repos[1] origin = %q, want empty", repos[1].OriginURL)
	}
	if repos[2].Path != "/srv/bare" || repos[2].Name != "" {
		t.Errorf("repos[2] = %+v", repos[2])
	}
}

func TestDetectRemoteReposClampsAndRuns(t *testing.T) {
	var script string
	c, _ := stubClient(stubRule{match: "find", step: okStep("/home/ops/site\t\tsite\n")})
	// Capture the remote command for inspection.
	inner := c.run
	c.run = func(exe string, args []string, dir string) StepResult {
		script = args[len(args)-1]
		return inner(exe, args, dir)
	}

	repos, err := c.DetectRemoteRepos("", 500, 999999, SSHParams{Host: "web01", User: "ops"})
	if err != nil {
		t.Fatal(err)
	}
	if len(repos) != 1 || repos[0].Path != "/home/ops/site" {
		t.Errorf("repos = %+v", repos)
	}
	if !strings.Contains(script, "MAXD=30") {
		t.Error("maxDepth not clamped to 30")
	}
	if !strings.Contains(script, "MAXR=5000") {
		t.Error("maxRepos not clamped to 5000")
	}
}

func TestRemoteDetectScript(t *testing.T) {
	script := remoteDetectScript("", 10, 200)
	// Blank root defers to the remote $HOME.
	if !strings.Contains(script, "ROOT=''") {
		t.Errorf("blank root should be passed through for remote resolution:\n%s", script)
	}
	if !strings.Contains(script, `ROOT="$HOME"`) {
		t.Error("script should fall back to $HOME")
	}
	if !strings.Contains(script, `printf '%s\t%s\t%s\n'`) {
		t.Errorf("script should emit TSV lines:\n%s", script)
	}

	script = remoteDetectScript("/srv/it's", 10, 200)
	if !strings.Contains(script, `ROOT='/srv/it'\''s'`) {
		t.Errorf("root not shell quoted:\n%s", script)
	}
}

func TestDetectRemoteReposValidation(t *testing.T) {
	c, _ := stubClient()
	if _, err := c.DetectRemoteRepos("/x", 3, 100, SSHParams{Host: "", User: "ops"}); err == nil {
		t.Error("missing host accepted")
	}
	if _, err := toolless().DetectRemoteRepos("/x", 3, 100, SSHParams{Host: "h", User: "u"}); err == nil {
		t.Error("missing ssh tool accepted")
	}
}

func TestRunSSHSequence(t *testing.T) {
	rules := []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("prod\n")},
		{match: "rev-parse --verify HEAD", step: okStep("abc\n")},
		{match: "status --porcelain", step: okStep("")},
	}
	c, executed := stubClient(rules...)

	out := c.RunAction(Request{
		Mode:       "ssh",
		EnvKey:     "deploy",
		Action:     ActionPull,
		RemotePath: "/var/www/site",
		Branch:     "prod",
		SSH:        SSHParams{Host: "web01", User: "ops"},
	})
	if !out.Ok {
		t.Fatalf("outcome not ok: %+v", out.Error)
	}
	// Every step runs through ssh against the remote path.
	for _, cmd := range *executed {
		if !strings.Contains(cmd, "ops@web01") {
			t.Errorf("command does not target the host: %q", cmd)
		}
		if !strings.Contains(cmd, "cd '/var/www/site' && ") {
			t.Errorf("command does not cd into the remote repo: %q", cmd)
		}
	}
	last := (*executed)[len(*executed)-1]
	if !strings.Contains(last, "git pull --ff-only origin 'prod'") {
		t.Errorf("final command = %q", last)
	}
}

func TestRunSSHMergeUsesOriginSource(t *testing.T) {
	rules := []stubRule{
		{match: "symbolic-ref --short HEAD", step: okStep("prod\n")},
		{match: "rev-parse --verify HEAD", step: okStep("abc\n")},
		{match: "status --porcelain", step: okStep("")},
	}
	c, executed := stubClient(rules...)

	out := c.RunAction(Request{
		Mode:            "ssh",
		EnvKey:          "deploy",
		Action:          ActionMerge,
		RemotePath:      "/var/www/site",
		Branch:          "prod",
		MergeFromBranch: "main",
		SSH:             SSHParams{Host: "web01", User: "ops"},
	})
	if !out.Ok {
		t.Fatalf("outcome not ok: %+v", out.Error)
	}
	joined := strings.Join(*executed, "\n")
	if !strings.Contains(joined, "git merge --no-ff 'origin/main'") {
		t.Errorf("ssh merge must merge the fetched origin ref:\n%s", joined)
	}
}

func TestRunSSHValidation(t *testing.T) {
	c, _ := stubClient()
	out := c.RunAction(Request{Mode: "ssh", EnvKey: "deploy", Action: ActionPull, SSH: SSHParams{Host: "h", User: "u"}})
	if out.Ok || out.Error == nil || out.Error.Code != "CFG-0303" {
		t.Errorf("missing remotePath: got %+v", out.Error)
	}
	out = c.RunAction(Request{Mode: "ssh", EnvKey: "deploy", Action: ActionPull, RemotePath: "/x"})
	if out.Ok || out.Error == nil || out.Error.Code != "CFG-0302" {
		t.Errorf("missing host/user: got %+v", out.Error)
	}
}
