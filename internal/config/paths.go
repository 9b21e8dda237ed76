// Package config persists gitship state: the project list, the UI state
// (mode, pins, selection), and the operator settings file. State lives under
// a single directory so the whole install can be backed up or wiped at once.
package config

import (
	"os"
	"path/filepath"
)

const (
	// StateDirEnv is the env var override for the state directory.
	StateDirEnv = "GITSHIP_STATE_DIR"
	// DefaultStateBase is the default state directory under $HOME.
	DefaultStateBase = ".gitship"

	projectsFile = "projects.json"
	uiStateFile  = "uistate.json"
	settingsFile = "config.yaml"
)

// ResolveStateDir returns the state directory, using the GITSHIP_STATE_DIR
// env var if set, otherwise ~/.gitship.
func ResolveStateDir() (string, error) {
	if dir := os.Getenv(StateDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultStateBase), nil
}

// writeFileAtomic writes data to path via a temp file in the same directory
// so a crash mid-write never leaves a truncated state file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
