// Package project defines the gitship data model: projects with exactly two
// tracked environments (test and deploy), the local/ssh workspace mode, and
// the visibility rules that decide which projects a mode can address.
package project

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// DefaultBranch is the branch an environment falls back to when its
// configured branch is blanked.
const DefaultBranch = "main"

// EnvKey identifies one of the two environments a project tracks.
type EnvKey int

const (
	EnvTest EnvKey = iota
	EnvDeploy
)

// Keys lists both environment keys in display order.
func Keys() [2]EnvKey {
	return [2]EnvKey{EnvTest, EnvDeploy}
}

// Other returns the opposite environment key.
func (k EnvKey) Other() EnvKey {
	if k == EnvTest {
		return EnvDeploy
	}
	return EnvTest
}

// String returns the wire/display name of the key.
func (k EnvKey) String() string {
	if k == EnvDeploy {
		return "deploy"
	}
	return "test"
}

// ParseEnvKey maps a wire name back to an EnvKey.
// Unknown names resolve to EnvTest, matching the load tolerance of the
// persisted documents.
func ParseEnvKey(s string) EnvKey {
	if s == "deploy" {
		return EnvDeploy
	}
	return EnvTest
}

// Mode selects which path field of each environment is authoritative and
// which projects are visible.
type Mode int

const (
	ModeLocal Mode = iota
	ModeSSH
)

// String returns the wire/display name of the mode.
func (m Mode) String() string {
	if m == ModeSSH {
		return "ssh"
	}
	return "local"
}

// ParseMode maps a wire name back to a Mode. Unknown names resolve to local.
func ParseMode(s string) Mode {
	if s == "ssh" {
		return ModeSSH
	}
	return ModeLocal
}

// Env holds the per-environment configuration of a project.
type Env struct {
	RepoURL    string
	Branch     string
	LocalPath  string
	RemotePath string
}

// PathFor returns the path field the given mode addresses.
func (e Env) PathFor(mode Mode) string {
	if mode == ModeSSH {
		return e.RemotePath
	}
	return e.LocalPath
}

// EffectiveBranch returns the configured branch, falling back to
// DefaultBranch when blank. Persisted documents never carry a blank branch,
// but in-memory edits may pass through here before sanitization.
func (e Env) EffectiveBranch() string {
	b := strings.TrimSpace(e.Branch)
	if b == "" {
		return DefaultBranch
	}
	return b
}

// Project is one managed software project. ID is opaque and globally unique;
// Name is a display label and may repeat across projects.
type Project struct {
	ID   string
	Name string
	Envs [2]Env // indexed by EnvKey
}

// New creates a project with a fresh ID and both environments defaulted
// to DefaultBranch.
func New(name string) Project {
	p := Project{ID: uuid.NewString(), Name: name}
	for i := range p.Envs {
		p.Envs[i].Branch = DefaultBranch
	}
	return p
}

// Env returns the environment record for the given key.
func (p Project) Env(key EnvKey) Env {
	return p.Envs[key]
}

// SetEnv replaces the environment record for the given key.
func (p *Project) SetEnv(key EnvKey, env Env) {
	p.Envs[key] = env
}

// Visible reports whether the project can be addressed under the given mode:
// at least one environment must have a non-empty path for that mode.
func (p Project) Visible(mode Mode) bool {
	for _, k := range Keys() {
		if p.Envs[k].PathFor(mode) != "" {
			return true
		}
	}
	return false
}

// Sanitize enforces the persistence invariants in place: blank branches fall
// back to DefaultBranch and surrounding whitespace is trimmed from all fields.
func (p *Project) Sanitize() {
	p.Name = strings.TrimSpace(p.Name)
	for i := range p.Envs {
		e := &p.Envs[i]
		e.RepoURL = strings.TrimSpace(e.RepoURL)
		e.LocalPath = strings.TrimSpace(e.LocalPath)
		e.RemotePath = strings.TrimSpace(e.RemotePath)
		e.Branch = strings.TrimSpace(e.Branch)
		if e.Branch == "" {
			e.Branch = DefaultBranch
		}
	}
}

// NameFromPath derives a display name from the last segment of a repository
// path. Used when discovery finds a repo without a reported name.
func NameFromPath(p string) string {
	trimmed := strings.TrimRight(strings.ReplaceAll(p, "\\", "/"), "/")
	base := path.Base(trimmed)
	if base == "." || base == "/" || base == "" {
		return trimmed
	}
	return base
}

// FindByID returns the index of the project with the given id, or -1.
func FindByID(projects []Project, id string) int {
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}
