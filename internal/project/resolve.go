package project

// ResolvedEnv carries the concrete execution parameters for one environment.
// Absent fields resolve to the empty string; resolution never fails.
type ResolvedEnv struct {
	Branch     string
	LocalPath  string
	RemotePath string
	RepoURL    string

	// MergeSource is the branch a merge into this environment promotes from:
	// the branch of the other environment. It is populated only under local
	// mode; cross-environment promotion is undefined when the environments
	// are addressed over ssh.
	MergeSource string
}

// Resolve projects the execution parameters for one environment of p.
// For merges under local mode the source branch is the other environment's
// branch: test promotes from deploy and deploy promotes from test.
func Resolve(p Project, key EnvKey, mode Mode) ResolvedEnv {
	env := p.Env(key)
	r := ResolvedEnv{
		Branch:     env.EffectiveBranch(),
		LocalPath:  env.LocalPath,
		RemotePath: env.RemotePath,
		RepoURL:    env.RepoURL,
	}
	if mode == ModeLocal {
		r.MergeSource = p.Env(key.Other()).EffectiveBranch()
	}
	return r
}
