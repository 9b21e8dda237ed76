package gitexec

import "strings"

// stubRule maps a command-line fragment to a canned result.
type stubRule struct {
	match string
	step  StepResult
}

// stubClient builds a Client whose runner replays canned results and records
// every command line it was asked to execute. Tools resolve to fixed fake
// paths. Rules are checked in order; unmatched commands succeed with empty
// output.
func stubClient(rules ...stubRule) (*Client, *[]string) {
	var executed []string
	c := &Client{
		hints: ToolHints{},
		resolve: func(_, baseName string) (string, bool) {
			return "/usr/bin/" + baseName, true
		},
		run: func(exe string, args []string, dir string) StepResult {
			cmd := exe + " " + strings.Join(args, " ")
			executed = append(executed, cmd)
			for _, r := range rules {
				if strings.Contains(cmd, r.match) {
					step := r.step
					if step.Cmd == "" {
						step.Cmd = cmd
					}
					if step.Cwd == "" {
						step.Cwd = dir
					}
					return step
				}
			}
			return StepResult{Cmd: cmd, Cwd: dir, Ok: true}
		},
	}
	return c, &executed
}

// toolless returns a client whose tool resolution always fails.
func toolless() *Client {
	return &Client{
		hints:   ToolHints{},
		resolve: func(string, string) (string, bool) { return "", false },
		run: func(exe string, args []string, dir string) StepResult {
			panic("run called with no resolvable tool")
		},
	}
}

func okStep(stdout string) StepResult {
	return StepResult{Ok: true, Stdout: stdout}
}

func failStep(exitCode int, stderr string) StepResult {
	return StepResult{Ok: false, ExitCode: exitCode, Stderr: stderr}
}
