package gitexec

import (
	"bytes"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ToolHints are the operator-supplied tool locations. Blank fields mean
// "resolve from PATH and known install locations".
type ToolHints struct {
	GitPath string `yaml:"gitPath"`
	SSHPath string `yaml:"sshPath"`
}

// runFunc executes one command and captures the result. Injected so tests
// can replay step sequences without git or ssh installed.
type runFunc func(exe string, args []string, dir string) StepResult

// resolveFunc resolves a tool to an executable path. The explicit hint may
// be blank.
type resolveFunc func(explicit, baseName string) (string, bool)

// Client implements the execution boundary. The zero value is not usable;
// construct with New.
type Client struct {
	hints   ToolHints
	run     runFunc
	resolve resolveFunc
}

// New creates a Client executing real processes.
func New(hints ToolHints) *Client {
	return &Client{
		hints:   hints,
		run:     runCapture,
		resolve: resolveTool,
	}
}

// Hints returns the client's tool hints.
func (c *Client) Hints() ToolHints { return c.hints }

// gitExe resolves the git executable, "" if not found.
func (c *Client) gitExe() (string, bool) {
	return c.resolve(c.hints.GitPath, "git")
}

// sshExe resolves the ssh executable, "" if not found.
func (c *Client) sshExe() (string, bool) {
	return c.resolve(c.hints.SSHPath, "ssh")
}

// runCapture runs exe with args in dir (cwd unchanged when dir is empty) and
// captures exit code, stdout and stderr. Stdin is closed and git's terminal
// prompt is disabled so an auth challenge fails instead of blocking.
func runCapture(exe string, args []string, dir string) StepResult {
	cmd := exec.Command(exe, args...)
	cmd.Stdin = nil
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if dir != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	step := StepResult{
		Cmd: exe + " " + strings.Join(args, " "),
		Cwd: dir,
	}
	started := time.Now()
	err := cmd.Run()
	step.DurationMS = time.Since(started).Milliseconds()
	step.Stdout = stdout.String()
	step.Stderr = stderr.String()
	switch e := err.(type) {
	case nil:
		step.Ok = true
		step.ExitCode = 0
	case *exec.ExitError:
		step.ExitCode = e.ExitCode()
	default:
		// The command never started (missing binary, permission, …).
		step.ExitCode = -1
		if step.Stderr == "" {
			step.Stderr = err.Error()
		}
	}
	return step
}

// resolveTool finds an executable: an explicit hint (file path, directory
// containing the tool, or a bare name looked up on PATH) wins, then known
// install locations, then PATH.
func resolveTool(explicit, baseName string) (string, bool) {
	if hint := strings.TrimSpace(explicit); hint != "" {
		if looksLikePath(hint) {
			if isFile(hint) {
				return hint, true
			}
			if isDir(hint) {
				joined := hint + string(os.PathSeparator) + baseName
				if isFile(joined) {
					return joined, true
				}
			}
		} else if p, err := exec.LookPath(hint); err == nil {
			return p, true
		}
	}
	for _, kp := range knownToolPaths(baseName) {
		if isFile(kp) {
			return kp, true
		}
	}
	if p, err := exec.LookPath(baseName); err == nil {
		return p, true
	}
	return "", false
}

// knownToolPaths lists well-known install locations checked after the
// explicit hint. Only Windows needs them; Unix installs land on PATH.
func knownToolPaths(baseName string) []string {
	if runtime.GOOS != "windows" {
		return nil
	}
	switch baseName {
	case "git":
		return []string{
			`C:\Program Files\Git\cmd\git.exe`,
			`C:\Program Files\Git\bin\git.exe`,
			`C:\Program Files (x86)\Git\cmd\git.exe`,
			`C:\Program Files (x86)\Git\bin\git.exe`,
		}
	case "ssh":
		return []string{`C:\Windows\System32\OpenSSH\ssh.exe`}
	}
	return nil
}

func looksLikePath(s string) bool {
	return strings.ContainsAny(s, `/\:`)
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
