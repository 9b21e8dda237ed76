package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gitship/internal/gitexec"
)

// DiscoverySettings are the defaults applied to repository scans.
type DiscoverySettings struct {
	LocalRoot string `yaml:"localRoot"` // blank: home directory
	MaxDepth  int    `yaml:"maxDepth"`
	MaxRepos  int    `yaml:"maxRepos"`
}

// Settings is the operator-editable configuration file. It is YAML so hand
// edits survive round trips through the settings modal.
type Settings struct {
	Tools     gitexec.ToolHints `yaml:"tools"`
	SSH       gitexec.SSHParams `yaml:"ssh"`
	Discovery DiscoverySettings `yaml:"discovery"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() Settings {
	return Settings{
		Discovery: DiscoverySettings{
			MaxDepth: 4,
			MaxRepos: 500,
		},
	}
}

// LoadSettings reads config.yaml from dir. A missing file yields the
// defaults; a malformed file is an error so a typo does not silently reset
// the operator's configuration.
func LoadSettings(dir string) (Settings, error) {
	data, err := os.ReadFile(filepath.Join(dir, settingsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, err
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, err
	}
	if s.Discovery.MaxDepth <= 0 {
		s.Discovery.MaxDepth = DefaultSettings().Discovery.MaxDepth
	}
	if s.Discovery.MaxRepos <= 0 {
		s.Discovery.MaxRepos = DefaultSettings().Discovery.MaxRepos
	}
	return s, nil
}

// SaveSettings writes config.yaml to dir atomically.
func SaveSettings(dir string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(dir, settingsFile), data)
}
