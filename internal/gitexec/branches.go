package gitexec

import (
	"sort"
	"strings"
)

// ListBranches lists the branch heads of a repository URL via
// `git ls-remote --heads`. The result is sorted and deduplicated.
func (c *Client) ListBranches(repoURL string) BranchList {
	git, ok := c.gitExe()
	if !ok {
		return BranchList{Stderr: "git not found"}
	}
	step := c.run(git, []string{"ls-remote", "--heads", repoURL}, "")
	if !step.Ok {
		msg := strings.TrimSpace(step.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(step.Stdout)
		}
		return BranchList{Stderr: msg}
	}
	return BranchList{Ok: true, Branches: parseHeads(step.Stdout)}
}

// parseHeads extracts branch names from ls-remote output.
// Lines look like "<sha>\trefs/heads/<branch>".
func parseHeads(out string) []string {
	var branches []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		_, ref, found := strings.Cut(line, "\t")
		if !found || !strings.HasPrefix(ref, "refs/heads/") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(ref, "refs/heads/"))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		branches = append(branches, name)
	}
	sort.Strings(branches)
	return branches
}
