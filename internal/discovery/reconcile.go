// Package discovery merges freshly scanned repository candidates into the
// existing project set without duplicating projects that already claim a
// path.
package discovery

import (
	"strings"

	"gitship/internal/project"
)

// Candidate is one repository found by a local or remote scan.
type Candidate struct {
	Path      string
	Name      string // optional display name
	OriginURL string // optional detected origin remote
	HasRemote bool
}

// Reconcile merges candidates into the project set and returns the projects
// to create, in candidate order. A candidate whose path is already claimed by
// an existing project (under the given mode) is skipped: first writer wins,
// existing project fields are never overwritten by later discovery. Paths are
// claimed as they are consumed, so duplicates within one batch collapse too.
//
// Each new project seeds both environments identically, since a scan cannot
// tell test from deploy apart: the mode's path field is set to the candidate
// path and the repo URL is set when an origin was detected.
func Reconcile(existing []project.Project, candidates []Candidate, mode project.Mode) []project.Project {
	claimed := claimedPaths(existing, mode)

	var out []project.Project
	for _, c := range candidates {
		path := strings.TrimSpace(c.Path)
		if path == "" || claimed[path] {
			continue
		}
		claimed[path] = true
		out = append(out, synthesize(c, path, mode))
	}
	return out
}

// claimedPaths collects the non-empty path fields (for the mode) of both
// environments of every existing project.
func claimedPaths(existing []project.Project, mode project.Mode) map[string]bool {
	claimed := make(map[string]bool)
	for _, p := range existing {
		for _, k := range project.Keys() {
			if path := p.Env(k).PathFor(mode); path != "" {
				claimed[path] = true
			}
		}
	}
	return claimed
}

func synthesize(c Candidate, path string, mode project.Mode) project.Project {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = project.NameFromPath(path)
	}
	p := project.New(name)
	for _, k := range project.Keys() {
		env := p.Env(k)
		if mode == project.ModeSSH {
			env.RemotePath = path
		} else {
			env.LocalPath = path
		}
		env.RepoURL = strings.TrimSpace(c.OriginURL)
		p.SetEnv(k, env)
	}
	return p
}
