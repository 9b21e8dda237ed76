package gitexec

// RunAction executes one pull/push/merge request to completion and returns
// the structured outcome. The step trace records every command attempted, in
// order, including commands that ran after an earlier failure.
func (c *Client) RunAction(req Request) ActionOutcome {
	if !req.Action.Known() {
		return failure(req, nil, "CFG-0001", SeverityError, "unknown action", string(req.Action))
	}
	switch req.Mode {
	case "local":
		return c.runLocal(req)
	case "ssh":
		return c.runSSH(req)
	}
	return failure(req, nil, "CFG-0002", SeverityError, "unknown mode (expected local|ssh)", req.Mode)
}
