package gitexec

import (
	"os"
	"path/filepath"
	"testing"
)

func mkRepo(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(parts...)
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDetectLocalRepos(t *testing.T) {
	root := t.TempDir()
	site := mkRepo(t, root, "site")
	api := mkRepo(t, root, "work", "api")
	mkRepo(t, root, "node_modules", "leftpad") // skipped by name
	mkRepo(t, root, "site", "vendor", "dep")   // nested under a repo, not reported
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	c, _ := stubClient(
		stubRule{match: site + " remote get-url origin", step: okStep("git@host:site.git\n")},
		stubRule{match: api + " remote get-url origin", step: failStep(2, "error: No such remote")},
	)
	repos, err := c.DetectLocalRepos(root, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(repos) != 2 {
		t.Fatalf("found %d repos, want 2: %+v", len(repos), repos)
	}
	// Sorted by path: site < work/api.
	if repos[0].Path != site || repos[0].Name != "site" || repos[0].OriginURL != "git@host:site.git" {
		t.Errorf("repos[0] = %+v", repos[0])
	}
	if repos[1].Path != api || repos[1].Name != "api" || repos[1].OriginURL != "" {
		t.Errorf("repos[1] = %+v", repos[1])
	}
}

func TestDetectLocalReposRootIsRepo(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	mkRepo(t, root, "inner")

	c, _ := stubClient()
	repos, err := c.DetectLocalRepos(root, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(repos) != 1 || repos[0].Path != root {
		t.Errorf("root repo should terminate the scan: %+v", repos)
	}
}

func TestDetectLocalReposDepthLimit(t *testing.T) {
	root := t.TempDir()
	deep := mkRepo(t, root, "a", "b", "c", "d")

	c, _ := stubClient()
	repos, err := c.DetectLocalRepos(root, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(repos) != 0 {
		t.Errorf("repo at depth 4 found with maxDepth 2: %+v", repos)
	}

	repos, err = c.DetectLocalRepos(root, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(repos) != 1 || repos[0].Path != deep {
		t.Errorf("deep repo not found with larger depth: %+v", repos)
	}
}

func TestDetectLocalReposValidation(t *testing.T) {
	c, _ := stubClient()
	if _, err := c.DetectLocalRepos("   ", 5); err == nil {
		t.Error("blank root accepted")
	}
	if _, err := c.DetectLocalRepos("/nonexistent/root", 5); err == nil {
		t.Error("missing root accepted")
	}
	file := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.DetectLocalRepos(file, 5); err == nil {
		t.Error("file root accepted")
	}
}

func TestIsRepoDirWorktreeFile(t *testing.T) {
	dir := t.TempDir()
	// Worktree checkouts carry .git as a pointer file, not a directory.
	if err := os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: /elsewhere\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !isRepoDir(dir) {
		t.Error("worktree pointer file should count as a repository")
	}
}
