// Package orchestrator owns the application state: the project list, the
// active workspace mode, the pinned working set, and the single-flight rules
// for actions and discovery. All mutation goes through it; the UI layer only
// renders what it returns.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"gitship/internal/config"
	"gitship/internal/discovery"
	"gitship/internal/gitexec"
	"gitship/internal/project"
	"gitship/internal/trace"
	"gitship/internal/workset"
)

var (
	// ErrActionInFlight is returned while another action is still running.
	ErrActionInFlight = errors.New("an action is already running")
	// ErrDiscoveryInFlight is returned while a repository scan is running.
	ErrDiscoveryInFlight = errors.New("a discovery scan is already running")
	// ErrProjectNotFound is returned for an unknown project id.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectNotVisible is returned when the project cannot be addressed
	// under the active mode.
	ErrProjectNotVisible = errors.New("project is not visible under the active mode")
)

// Orchestrator serializes all state mutation behind one mutex. Boundary
// calls run outside the lock so a slow git command never freezes unrelated
// reads; the busy flags enforce one action and one scan at a time.
type Orchestrator struct {
	mu       sync.Mutex
	boundary Boundary
	store    *config.Store
	exporter *trace.OTLPExporter

	settings config.Settings
	projects []project.Project
	ws       workset.Set
	mode     project.Mode
	envFocus map[string]project.EnvKey

	actionBusy    bool
	discoveryBusy bool
}

// New creates an orchestrator. Call Load to restore persisted state.
func New(b Boundary, store *config.Store, settings config.Settings) *Orchestrator {
	return &Orchestrator{boundary: b, store: store, settings: settings}
}

// SetExporter attaches an optional trace exporter for completed actions.
func (o *Orchestrator) SetExporter(e *trace.OTLPExporter) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exporter = e
}

// SetBoundary swaps the execution boundary. Used after the operator changes
// tool hints, which are fixed at client construction.
func (o *Orchestrator) SetBoundary(b Boundary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.boundary = b
}

// Load restores the project list and UI state from disk. Stale workset
// entries are dropped against the loaded project list.
func (o *Orchestrator) Load() error {
	projects, err := o.store.LoadProjects()
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	st := o.store.LoadUIState()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.projects = projects
	o.mode = project.ParseMode(st.Mode)
	o.ws.Restore(st.Pinned, st.Selected)
	o.ws.Normalize(o.knownIDs())
	o.ws.Revalidate(o.visibleLocked())

	o.envFocus = make(map[string]project.EnvKey)
	known := o.knownIDs()
	for id, env := range st.SelectedEnvs {
		if known[id] {
			o.envFocus[id] = project.ParseEnvKey(env)
		}
	}
	return nil
}

// SelectedEnv returns the focused environment of a project, EnvTest when the
// operator never switched it.
func (o *Orchestrator) SelectedEnv(projectID string) project.EnvKey {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.envFocus[projectID]
}

// SetSelectedEnv remembers which environment of a project has focus.
func (o *Orchestrator) SetSelectedEnv(projectID string, env project.EnvKey) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if project.FindByID(o.projects, projectID) < 0 {
		return ErrProjectNotFound
	}
	if o.envFocus == nil {
		o.envFocus = make(map[string]project.EnvKey)
	}
	o.envFocus[projectID] = env
	return o.persistUIStateLocked()
}

// Mode returns the active workspace mode.
func (o *Orchestrator) Mode() project.Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// SetMode switches the workspace mode. Pins persist across the switch; only
// the selection is revalidated against the new mode's visibility.
func (o *Orchestrator) SetMode(m project.Mode) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if m == o.mode {
		return nil
	}
	o.mode = m
	o.ws.Revalidate(o.visibleLocked())
	return o.persistUIStateLocked()
}

// Projects returns a copy of the full project list.
func (o *Orchestrator) Projects() []project.Project {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]project.Project(nil), o.projects...)
}

// VisibleProjects returns the projects addressable under the active mode,
// in list order.
func (o *Orchestrator) VisibleProjects() []project.Project {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []project.Project
	for _, p := range o.projects {
		if p.Visible(o.mode) {
			out = append(out, p)
		}
	}
	return out
}

// Project returns the project with the given id.
func (o *Orchestrator) Project(id string) (project.Project, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if i := project.FindByID(o.projects, id); i >= 0 {
		return o.projects[i], true
	}
	return project.Project{}, false
}

// PinnedProjects returns the pinned projects visible under the active mode,
// most recently pinned first. Invisible pins are retained in state but not
// returned.
func (o *Orchestrator) PinnedProjects() []project.Project {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []project.Project
	for _, id := range o.ws.Pinned() {
		if i := project.FindByID(o.projects, id); i >= 0 && o.projects[i].Visible(o.mode) {
			out = append(out, o.projects[i])
		}
	}
	return out
}

// Selected returns the selected project id, "" when nothing is selected.
func (o *Orchestrator) Selected() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ws.Selected()
}

// IsPinned reports whether the project is pinned.
func (o *Orchestrator) IsPinned(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ws.IsPinned(id)
}

// Pin adds the project to the working set.
func (o *Orchestrator) Pin(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if project.FindByID(o.projects, id) < 0 {
		return ErrProjectNotFound
	}
	o.ws.Pin(id)
	return o.persistUIStateLocked()
}

// Unpin removes the project from the working set.
func (o *Orchestrator) Unpin(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ws.Unpin(id, o.visibleLocked())
	return o.persistUIStateLocked()
}

// Select makes the project the current selection, pinning it as a side
// effect. An empty id clears the selection.
func (o *Orchestrator) Select(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if id != "" && project.FindByID(o.projects, id) < 0 {
		return ErrProjectNotFound
	}
	o.ws.Select(id)
	return o.persistUIStateLocked()
}

// CreateProject appends a new project with defaulted environments.
func (o *Orchestrator) CreateProject(name string) (project.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return project.Project{}, fmt.Errorf("project name is empty")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	p := project.New(name)
	o.projects = append(o.projects, p)
	return p, o.persistProjectsLocked()
}

// UpdateProject replaces the stored project with the same id. The record is
// sanitized before it is persisted.
func (o *Orchestrator) UpdateProject(p project.Project) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	i := project.FindByID(o.projects, p.ID)
	if i < 0 {
		return ErrProjectNotFound
	}
	p.Sanitize()
	o.projects[i] = p
	// Edits can change path fields and with them mode visibility.
	o.ws.Revalidate(o.visibleLocked())
	if err := o.persistProjectsLocked(); err != nil {
		return err
	}
	return o.persistUIStateLocked()
}

// Settings returns the current settings.
func (o *Orchestrator) Settings() config.Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

// UpdateSettings persists new settings. The caller swaps the boundary when
// tool hints changed.
func (o *Orchestrator) UpdateSettings(s config.Settings) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := config.SaveSettings(o.store.Dir(), s); err != nil {
		return err
	}
	o.settings = s
	return nil
}

// RunAction executes one pull/push/merge against a project environment.
// Only one action runs at a time; a second submission while one is in
// flight returns ErrActionInFlight without touching the boundary. A push
// requires a commit message: blank input fails local validation and the
// boundary is never contacted.
func (o *Orchestrator) RunAction(projectID string, env project.EnvKey, action gitexec.Action, commitMessage string) (gitexec.ActionOutcome, error) {
	if action == gitexec.ActionPush {
		msg, err := NormalizeCommitMessage(commitMessage)
		if err != nil {
			return gitexec.ActionOutcome{}, err
		}
		commitMessage = msg
	}
	o.mu.Lock()
	if o.actionBusy {
		o.mu.Unlock()
		return gitexec.ActionOutcome{}, ErrActionInFlight
	}
	i := project.FindByID(o.projects, projectID)
	if i < 0 {
		o.mu.Unlock()
		return gitexec.ActionOutcome{}, ErrProjectNotFound
	}
	p := o.projects[i]
	if !p.Visible(o.mode) {
		o.mu.Unlock()
		return gitexec.ActionOutcome{}, ErrProjectNotVisible
	}
	resolved := project.Resolve(p, env, o.mode)
	req := gitexec.Request{
		Mode:            o.mode.String(),
		EnvKey:          env.String(),
		Action:          action,
		LocalPath:       resolved.LocalPath,
		RemotePath:      resolved.RemotePath,
		Branch:          resolved.Branch,
		MergeFromBranch: resolved.MergeSource,
		CommitMessage:   strings.TrimSpace(commitMessage),
		SSH:             o.settings.SSH,
	}
	boundary := o.boundary
	exporter := o.exporter
	o.actionBusy = true
	o.mu.Unlock()

	start := time.Now()
	out := boundary.RunAction(req)
	exporter.ExportAction(context.Background(), out, start, time.Now())

	o.mu.Lock()
	o.actionBusy = false
	o.mu.Unlock()
	return out, nil
}

// InitRepo initializes the local repository of a project environment.
// It shares the action busy flag: init is an action from the operator's
// point of view.
func (o *Orchestrator) InitRepo(projectID string, env project.EnvKey) (gitexec.ActionOutcome, error) {
	o.mu.Lock()
	if o.actionBusy {
		o.mu.Unlock()
		return gitexec.ActionOutcome{}, ErrActionInFlight
	}
	i := project.FindByID(o.projects, projectID)
	if i < 0 {
		o.mu.Unlock()
		return gitexec.ActionOutcome{}, ErrProjectNotFound
	}
	resolved := project.Resolve(o.projects[i], env, project.ModeLocal)
	boundary := o.boundary
	o.actionBusy = true
	o.mu.Unlock()

	out := boundary.InitLocalRepo(resolved.LocalPath, resolved.RepoURL, resolved.Branch)

	o.mu.Lock()
	o.actionBusy = false
	o.mu.Unlock()
	return out, nil
}

// Preflight probes the local tool environment.
func (o *Orchestrator) Preflight() gitexec.PreflightResult {
	o.mu.Lock()
	boundary := o.boundary
	o.mu.Unlock()
	return boundary.Preflight()
}

// SSHConnect probes the configured ssh host.
func (o *Orchestrator) SSHConnect() gitexec.SSHConnectResult {
	o.mu.Lock()
	boundary := o.boundary
	params := o.settings.SSH
	o.mu.Unlock()
	return boundary.SSHConnect(params)
}

// ListBranches lists the branch heads of a remote repository URL.
func (o *Orchestrator) ListBranches(repoURL string) gitexec.BranchList {
	o.mu.Lock()
	boundary := o.boundary
	o.mu.Unlock()
	return boundary.ListBranches(repoURL)
}

func (o *Orchestrator) knownIDs() map[string]bool {
	known := make(map[string]bool, len(o.projects))
	for _, p := range o.projects {
		known[p.ID] = true
	}
	return known
}

// visibleLocked returns a Visibility over the current projects and mode.
// Callers must hold o.mu.
func (o *Orchestrator) visibleLocked() workset.Visibility {
	return func(id string) bool {
		i := project.FindByID(o.projects, id)
		return i >= 0 && o.projects[i].Visible(o.mode)
	}
}

func (o *Orchestrator) persistProjectsLocked() error {
	return o.store.SaveProjects(o.projects)
}

func (o *Orchestrator) persistUIStateLocked() error {
	st := config.UIState{
		Mode:     o.mode.String(),
		Pinned:   o.ws.Pinned(),
		Selected: o.ws.Selected(),
	}
	if len(o.envFocus) > 0 {
		st.SelectedEnvs = make(map[string]string, len(o.envFocus))
		for id, env := range o.envFocus {
			st.SelectedEnvs[id] = env.String()
		}
	}
	return o.store.SaveUIState(st)
}

// ScanLocal scans the configured local root for repositories without
// importing anything. The operator confirms rows before ImportLocal runs.
func (o *Orchestrator) ScanLocal() ([]gitexec.Repo, error) {
	o.mu.Lock()
	if o.discoveryBusy {
		o.mu.Unlock()
		return nil, ErrDiscoveryInFlight
	}
	boundary := o.boundary
	ds := o.settings.Discovery
	o.discoveryBusy = true
	o.mu.Unlock()

	root := ds.LocalRoot
	if strings.TrimSpace(root) == "" {
		root = gitexec.DefaultDetectRoot()
	}
	repos, err := boundary.DetectLocalRepos(root, ds.MaxDepth)

	o.mu.Lock()
	o.discoveryBusy = false
	o.mu.Unlock()
	return repos, err
}

// ImportLocal imports operator-confirmed scan rows as local projects. New
// projects go to the front of the list; existing claims always win.
func (o *Orchestrator) ImportLocal(repos []gitexec.Repo) ([]project.Project, error) {
	return o.importScan(repos, project.ModeLocal, true)
}

// DiscoverRemote scans the configured ssh host for repositories and imports
// every unclaimed one, appended after the existing projects. Runs after a
// successful connection probe.
func (o *Orchestrator) DiscoverRemote(rootPath string) ([]project.Project, error) {
	o.mu.Lock()
	if o.discoveryBusy {
		o.mu.Unlock()
		return nil, ErrDiscoveryInFlight
	}
	boundary := o.boundary
	ds := o.settings.Discovery
	params := o.settings.SSH
	o.discoveryBusy = true
	o.mu.Unlock()

	repos, err := boundary.DetectRemoteRepos(rootPath, ds.MaxDepth, ds.MaxRepos, params)

	o.mu.Lock()
	o.discoveryBusy = false
	o.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return o.importScan(repos, project.ModeSSH, false)
}

// importScan reconciles scan results into the project list. Reconciliation
// runs against the live list, not the pre-scan snapshot, so projects created
// while the scan ran keep their claims.
func (o *Orchestrator) importScan(repos []gitexec.Repo, mode project.Mode, prepend bool) ([]project.Project, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	candidates := make([]discovery.Candidate, 0, len(repos))
	for _, r := range repos {
		candidates = append(candidates, discovery.Candidate{
			Path:      r.Path,
			Name:      r.Name,
			OriginURL: r.OriginURL,
			HasRemote: r.OriginURL != "",
		})
	}

	created := discovery.Reconcile(o.projects, candidates, mode)
	if len(created) == 0 {
		return nil, nil
	}
	if prepend {
		o.projects = append(append([]project.Project(nil), created...), o.projects...)
	} else {
		o.projects = append(o.projects, created...)
	}
	if err := o.persistProjectsLocked(); err != nil {
		return created, err
	}
	return created, nil
}
