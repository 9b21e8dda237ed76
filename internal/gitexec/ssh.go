package gitexec

import (
	"fmt"
	"strconv"
	"strings"
)

// sshProbeToken is echoed by the connectivity probe so a motd or banner
// cannot fake a successful round trip.
const sshProbeToken = "GITSHIP_SSH_OK"

// shellQuote wraps s in POSIX single quotes, escaping embedded quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// sshArgs builds the argument list for one remote command. BatchMode keeps
// ssh from prompting for a password; the short connect timeout keeps the UI
// responsive when a host is down.
func sshArgs(params SSHParams, remoteCmd string) []string {
	port := params.Port
	if port == 0 {
		port = 22
	}
	args := []string{
		"-p", strconv.Itoa(port),
		"-o", "BatchMode=yes",
		"-o", "ConnectTimeout=5",
		"-o", "ConnectionAttempts=1",
	}
	if key := strings.TrimSpace(params.KeyPath); key != "" {
		args = append(args, "-i", key)
	}
	return append(args, params.User+"@"+params.Host, "--", remoteCmd)
}

// sshRun executes remoteCmd on the host described by params.
func (c *Client) sshRun(ssh string, params SSHParams, remoteCmd string) StepResult {
	return c.run(ssh, sshArgs(params, remoteCmd), "")
}

// SSHConnect probes connectivity and the remote git installation.
func (c *Client) SSHConnect(params SSHParams) SSHConnectResult {
	notChecked := ToolCheck{Error: "remote git not checked"}

	ssh, ok := c.sshExe()
	if !ok {
		return SSHConnectResult{Stderr: "ssh not found. run preflight and set sshPath if needed", RemoteGit: notChecked}
	}
	if strings.TrimSpace(params.Host) == "" || strings.TrimSpace(params.User) == "" {
		return SSHConnectResult{Stderr: "ssh host/user is required", RemoteGit: notChecked}
	}

	ping := c.sshRun(ssh, params, "echo "+sshProbeToken)
	if !ping.Ok || !strings.Contains(ping.Stdout, sshProbeToken) {
		msg := strings.TrimSpace(ping.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(ping.Stdout)
		}
		return SSHConnectResult{Stderr: msg, RemoteGit: notChecked}
	}

	remoteGit := c.detectRemoteGit(ssh, params)
	res := SSHConnectResult{
		Ok:        remoteGit.Ok,
		SSHOk:     true,
		RemoteGit: remoteGit,
	}
	if !res.Ok {
		res.Stderr = remoteGit.Error
	}
	return res
}

// detectRemoteGit locates a runnable git on the remote host. Non-interactive
// shells often have a thin PATH, so command -v falls back to the standard
// install locations before giving up.
func (c *Client) detectRemoteGit(ssh string, params SSHParams) ToolCheck {
	const script = `if command -v git >/dev/null 2>&1; then command -v git; ` +
		`elif [ -x /usr/bin/git ]; then echo /usr/bin/git; ` +
		`elif [ -x /usr/local/bin/git ]; then echo /usr/local/bin/git; ` +
		`elif [ -x /bin/git ]; then echo /bin/git; ` +
		`else echo; fi`

	find := c.sshRun(ssh, params, "sh -c "+shellQuote(script))
	if !find.Ok {
		msg := strings.TrimSpace(find.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(find.Stdout)
		}
		return ToolCheck{Error: msg}
	}

	path := strings.TrimSpace(firstLine(find.Stdout))
	if path == "" {
		return ToolCheck{Error: "git not found on remote (PATH or standard locations)"}
	}

	ver := c.sshRun(ssh, params, shellQuote(path)+" --version")
	if !ver.Ok {
		msg := strings.TrimSpace(ver.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(ver.Stdout)
		}
		return ToolCheck{Found: true, Path: path, Error: msg}
	}
	return ToolCheck{Found: true, Path: path, Version: strings.TrimSpace(ver.Stdout), Ok: true}
}

// DetectRemoteRepos scans the remote host for git repositories under
// rootPath (the remote $HOME when blank) using a single find invocation that
// emits path/origin/name TSV lines. Results are deduplicated by path.
func (c *Client) DetectRemoteRepos(rootPath string, maxDepth, maxRepos int, params SSHParams) ([]Repo, error) {
	ssh, ok := c.sshExe()
	if !ok {
		return nil, fmt.Errorf("ssh not found: run preflight and set sshPath if needed")
	}
	if strings.TrimSpace(params.Host) == "" || strings.TrimSpace(params.User) == "" {
		return nil, fmt.Errorf("ssh host/user is required")
	}

	md := clamp(maxDepth, 1, 30)
	mr := clamp(maxRepos, 1, 5000)
	script := remoteDetectScript(strings.TrimSpace(rootPath), md, mr)

	step := c.sshRun(ssh, params, "sh -c "+shellQuote(script))
	if !step.Ok {
		return nil, fmt.Errorf("remote detect failed: exit=%d stderr=%s", step.ExitCode, strings.TrimSpace(step.Stderr))
	}
	return parseRepoTSV(step.Stdout), nil
}

// remoteDetectScript builds the POSIX sh scan script. The repo path is the
// directory containing each .git entry; origin lookup is best-effort.
func remoteDetectScript(root string, maxDepth, maxRepos int) string {
	return fmt.Sprintf(`ROOT=%s
MAXD=%d
MAXR=%d

if [ -z "$ROOT" ]; then
  ROOT="$HOME"
fi

if ! command -v find >/dev/null 2>&1; then
  echo "find not found" >&2
  exit 4
fi

GIT_BIN=""
if command -v git >/dev/null 2>&1; then
  GIT_BIN="$(command -v git)"
fi

if [ -z "$GIT_BIN" ]; then
  echo "git not found on remote" >&2
  exit 5
fi

count=0
find "$ROOT" -maxdepth "$MAXD" -type d -name .git 2>/dev/null | while IFS= read -r g; do
  repo="${g%%/.git}"
  name="$(basename "$repo")"
  origin="$("$GIT_BIN" -C "$repo" remote get-url origin 2>/dev/null || true)"
  printf '%%s\t%%s\t%%s\n' "$repo" "$origin" "$name"
  count=$((count+1))
  if [ "$count" -ge "$MAXR" ]; then
    break
  fi
done
`, shellQuote(root), maxDepth, maxRepos)
}

// parseRepoTSV parses "path\torigin\tname" lines, deduplicating by path.
func parseRepoTSV(out string) []Repo {
	seen := make(map[string]bool)
	var repos []Repo
	for _, line := range strings.Split(out, "\n") {
		fields := strings.SplitN(strings.TrimSpace(line), "\t", 3)
		path := strings.TrimSpace(fields[0])
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		r := Repo{Path: path}
		if len(fields) > 1 {
			r.OriginURL = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			r.Name = strings.TrimSpace(fields[2])
		}
		repos = append(repos, r)
	}
	return repos
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
