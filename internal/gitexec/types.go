// Package gitexec executes git synchronization work against local
// repositories or SSH-reachable hosts. Every operation returns a structured
// outcome: the ordered trace of commands that ran (front to back, preserved
// verbatim even past a failure) plus an optional classified error. Commands
// never prompt: stdin is closed and GIT_TERMINAL_PROMPT is forced off, so a
// credential challenge fails fast instead of hanging the app.
package gitexec

// Severity classifies how bad an ActionError is.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
	SeverityFatal Severity = "FATAL"
)

// ActionError is a classified failure attached to an outcome.
type ActionError struct {
	Code     string   `json:"code"` // e.g. GIT-0104
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail,omitempty"`
}

// StepResult records one executed command. ExitCode is -1 when the command
// never produced one (e.g. it could not be started).
type StepResult struct {
	Cmd        string `json:"cmd"`
	Cwd        string `json:"cwd,omitempty"`
	Ok         bool   `json:"ok"`
	ExitCode   int    `json:"exitCode"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	DurationMS int64  `json:"durationMs"`
}

// Action is one of the git synchronization actions gitship runs.
type Action string

const (
	ActionPull  Action = "pull"
	ActionPush  Action = "push"
	ActionMerge Action = "merge"
	// actionInit labels init-repo outcomes; it is not a runnable action.
	actionInit Action = "init"
)

// Known reports whether a is a runnable action.
func (a Action) Known() bool {
	switch a {
	case ActionPull, ActionPush, ActionMerge:
		return true
	}
	return false
}

// ActionOutcome is the immutable record of one executed action.
type ActionOutcome struct {
	Ok     bool         `json:"ok"`
	Mode   string       `json:"mode"`   // local | ssh
	Action Action       `json:"action"` // pull | push | merge | init
	EnvKey string       `json:"envKey"` // test | deploy | init
	Steps  []StepResult `json:"steps"`
	Error  *ActionError `json:"error,omitempty"`
}

// ToolCheck reports whether an external tool was found and runs.
type ToolCheck struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Ok      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

// PreflightResult is the environment capability probe.
type PreflightResult struct {
	Platform string    `json:"platform"`
	Git      ToolCheck `json:"git"`
	SSH      ToolCheck `json:"ssh"`
}

// SSHParams are the connection parameters for the ssh transport.
type SSHParams struct {
	Host    string `json:"host" yaml:"host"`
	User    string `json:"user" yaml:"user"`
	Port    int    `json:"port,omitempty" yaml:"port"`
	KeyPath string `json:"keyPath,omitempty" yaml:"keyPath"`
}

// SSHConnectResult reports connectivity plus the remote git check.
// Ok means both the ssh transport and the remote git are usable; SSHOk is
// kept separate so the UI can show "connected, but git missing".
type SSHConnectResult struct {
	Ok        bool      `json:"ok"`
	SSHOk     bool      `json:"sshOk"`
	Stderr    string    `json:"stderr,omitempty"`
	RemoteGit ToolCheck `json:"remoteGit"`
}

// Repo is one repository found by a local or remote scan.
type Repo struct {
	Path      string `json:"path"`
	OriginURL string `json:"originUrl,omitempty"`
	Name      string `json:"name,omitempty"`
}

// BranchList is the result of listing a remote's branch heads.
type BranchList struct {
	Ok       bool     `json:"ok"`
	Branches []string `json:"branches"`
	Stderr   string   `json:"stderr,omitempty"`
}

// Request carries everything one action run needs. MergeFromBranch is set
// only for merge under local mode; CommitMessage only for push.
type Request struct {
	Mode            string
	EnvKey          string
	Action          Action
	LocalPath       string
	RemotePath      string
	Branch          string
	MergeFromBranch string
	CommitMessage   string
	SSH             SSHParams
}

// failure builds a not-ok outcome for req carrying the steps executed so far.
func failure(req Request, steps []StepResult, code string, sev Severity, msg, detail string) ActionOutcome {
	return ActionOutcome{
		Ok:     false,
		Mode:   req.Mode,
		Action: req.Action,
		EnvKey: req.EnvKey,
		Steps:  steps,
		Error:  &ActionError{Code: code, Severity: sev, Message: msg, Detail: detail},
	}
}

// finish builds the terminal outcome for req: ok iff every step succeeded,
// with errWhenFailed attached otherwise.
func finish(req Request, steps []StepResult, errWhenFailed ActionError) ActionOutcome {
	ok := true
	for _, s := range steps {
		if !s.Ok {
			ok = false
			break
		}
	}
	out := ActionOutcome{
		Ok:     ok,
		Mode:   req.Mode,
		Action: req.Action,
		EnvKey: req.EnvKey,
		Steps:  steps,
	}
	if !ok {
		e := errWhenFailed
		out.Error = &e
	}
	return out
}
