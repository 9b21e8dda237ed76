package gitexec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirNames are directory names never descended into during a local scan.
// They are either huge (node_modules, build output) or never contain
// checkouts of their own.
var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	"target":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	".idea":        true,
	".vscode":      true,
}

// DetectLocalRepos scans rootPath for git repositories up to maxDepth levels
// deep. A repository terminates descent (nested checkouts under it are not
// reported), and the root itself counts when it is a repository. Origin URLs
// are filled in best-effort when git is available.
func (c *Client) DetectLocalRepos(rootPath string, maxDepth int) ([]Repo, error) {
	root := NormalizePathInput(rootPath)
	if root == "" {
		return nil, fmt.Errorf("root path is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", root)
	}

	var found []string
	if isRepoDir(root) {
		found = append(found, root)
	} else {
		walkRepos(root, 0, clamp(maxDepth, 1, 50), &found)
	}
	sort.Strings(found)

	git, haveGit := c.gitExe()
	repos := make([]Repo, 0, len(found))
	for _, dir := range found {
		r := Repo{Path: dir, Name: filepath.Base(dir)}
		if haveGit {
			r.OriginURL = c.originURL(git, dir)
		}
		repos = append(repos, r)
	}
	return repos, nil
}

// walkRepos descends into dir collecting repository paths.
func walkRepos(dir string, depth, maxDepth int, out *[]string) {
	if depth > maxDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return // unreadable directories are silently skipped
	}
	for _, e := range entries {
		if !e.IsDir() || skipDirNames[e.Name()] {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if isRepoDir(p) {
			*out = append(*out, p)
			continue
		}
		walkRepos(p, depth+1, maxDepth, out)
	}
}

// isRepoDir reports whether dir holds a checkout: .git may be a directory or
// a worktree pointer file.
func isRepoDir(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// originURL returns the repo's origin remote URL, "" when unset or on error.
func (c *Client) originURL(git, repoDir string) string {
	step := c.run(git, []string{"-C", repoDir, "remote", "get-url", "origin"}, "")
	if !step.Ok {
		return ""
	}
	return strings.TrimSpace(firstLine(step.Stdout))
}
