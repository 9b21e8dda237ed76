package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gitship/internal/jsonutil"
	"gitship/internal/project"
)

// Document versions written by this build. Loads tolerate unknown fields so
// newer builds can extend the documents without breaking older ones.
const (
	projectsDocVersion = 1
	uiStateDocVersion  = 1
)

// envRecord is the wire form of one environment.
type envRecord struct {
	RepoURL    string `json:"repoUrl"`
	Branch     string `json:"branch"`
	LocalPath  string `json:"localPath"`
	RemotePath string `json:"remotePath"`
}

// projectRecord is the wire form of one project. Environments are named
// fields rather than an array so the document stays readable and stable.
type projectRecord struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Test   envRecord `json:"test"`
	Deploy envRecord `json:"deploy"`
}

type projectsDoc struct {
	Version  int             `json:"version"`
	Projects []projectRecord `json:"projects"`
}

// UIState is the persisted workspace state: the active mode, the workset's
// pins and selection, and the per-project focused environment.
type UIState struct {
	Mode         string            `json:"mode"`
	Pinned       []string          `json:"pinned"`
	Selected     string            `json:"selected"`
	SelectedEnvs map[string]string `json:"selectedEnvs,omitempty"`
}

type uiStateDoc struct {
	Version int `json:"version"`
	UIState
}

func toRecord(p project.Project) projectRecord {
	return projectRecord{
		ID:     p.ID,
		Name:   p.Name,
		Test:   envRecord(p.Env(project.EnvTest)),
		Deploy: envRecord(p.Env(project.EnvDeploy)),
	}
}

func fromRecord(r projectRecord) project.Project {
	p := project.Project{ID: r.ID, Name: r.Name}
	p.SetEnv(project.EnvTest, project.Env(r.Test))
	p.SetEnv(project.EnvDeploy, project.Env(r.Deploy))
	p.Sanitize()
	return p
}

// Store reads and writes the state files in one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the state directory.
func (s *Store) Dir() string {
	return s.dir
}

// LoadProjects reads the project list. A missing file is an empty list.
// Records are sanitized on load so downstream code never sees a blank branch
// or padded paths. Entries without an id are dropped.
func (s *Store) LoadProjects() ([]project.Project, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, projectsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var doc projectsDoc
	if err := jsonutil.UnmarshalWithContext(data, &doc, "parse projects file"); err != nil {
		// Early builds stored a bare array with no version envelope.
		records, legacyErr := jsonutil.UnmarshalArrayAllowEmpty[projectRecord](data, "parse legacy projects file")
		if legacyErr != nil {
			return nil, err
		}
		doc.Projects = records
	}

	projects := make([]project.Project, 0, len(doc.Projects))
	for _, r := range doc.Projects {
		if r.ID == "" {
			continue
		}
		projects = append(projects, fromRecord(r))
	}
	return projects, nil
}

// SaveProjects writes the project list atomically.
func (s *Store) SaveProjects(projects []project.Project) error {
	doc := projectsDoc{
		Version:  projectsDocVersion,
		Projects: make([]projectRecord, 0, len(projects)),
	}
	for _, p := range projects {
		doc.Projects = append(doc.Projects, toRecord(p))
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, projectsFile), append(data, '\n'))
}

// LoadUIState reads the persisted UI state. A missing or unparseable file
// yields the zero state: losing pins is acceptable, losing projects is not.
func (s *Store) LoadUIState() UIState {
	data, err := os.ReadFile(filepath.Join(s.dir, uiStateFile))
	if err != nil {
		return UIState{}
	}
	var doc uiStateDoc
	if err := jsonutil.UnmarshalWithContext(data, &doc, "parse ui state file"); err != nil {
		return UIState{}
	}
	return doc.UIState
}

// SaveUIState writes the UI state atomically.
func (s *Store) SaveUIState(st UIState) error {
	doc := uiStateDoc{Version: uiStateDocVersion, UIState: st}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(s.dir, uiStateFile), append(data, '\n'))
}
