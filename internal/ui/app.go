package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gitship/internal/gitexec"
	"gitship/internal/orchestrator"
	"gitship/internal/project"
)

// pendingPush remembers the push waiting on a commit message: every push
// starts in the commit prompt, and a boundary refusal reopens it.
type pendingPush struct {
	ProjectID string
	Env       project.EnvKey
}

// AppModel is the root model switching between Dashboard and ProjectDetail,
// with an optional modal layered on top. All state mutation goes through the
// orchestrator; the model only holds what is on screen.
type AppModel struct {
	Orchestrator *orchestrator.Orchestrator

	Mode      AppMode
	Dashboard *DashboardView
	Detail    *ProjectDetailView
	Modal     View

	status    string
	statusErr bool
	pending   *pendingPush
	lastPane  string
	width     int
	height    int
}

// NewAppModel creates the root application model and populates the dashboard
// from the orchestrator's loaded state.
func NewAppModel(o *orchestrator.Orchestrator) *AppModel {
	m := &AppModel{
		Orchestrator: o,
		Mode:         ModeDashboard,
		Dashboard:    NewDashboardView(),
	}
	m.rebuildDashboard()
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.currentView().Init()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Both main views track the size so switching does not reflow.
		if a.Dashboard != nil {
			v, _ := a.Dashboard.Update(msg)
			a.Dashboard = v.(*DashboardView)
		}
		if a.Detail != nil {
			v, _ := a.Detail.Update(msg)
			a.Detail = v.(*ProjectDetailView)
		}
		return a, nil

	case DismissModalMsg:
		a.Modal = nil
		a.pending = nil
		return a, nil

	case CreateProjectMsg:
		a.Modal = nil
		p, err := a.Orchestrator.CreateProject(msg.Name)
		if err != nil {
			return a, statusCmd("create failed: "+err.Error(), true)
		}
		a.rebuildDashboard()
		return a, statusCmd("created "+p.Name, false)

	case SaveProjectMsg:
		a.Modal = nil
		if err := a.Orchestrator.UpdateProject(msg.Project); err != nil {
			return a, statusCmd("save failed: "+err.Error(), true)
		}
		a.rebuildDashboard()
		if a.Detail != nil && a.Detail.ProjectID == msg.Project.ID {
			if p, ok := a.Orchestrator.Project(msg.Project.ID); ok {
				a.Detail.SetProject(p, a.Orchestrator.Mode())
			}
		}
		return a, statusCmd("saved "+msg.Project.Name, false)

	case CommitMessageMsg:
		a.Modal = nil
		if a.pending == nil {
			return a, nil
		}
		pp := *a.pending
		a.pending = nil
		var spin tea.Cmd
		if a.Detail != nil {
			spin = a.Detail.SetBusy(true)
		}
		return a, tea.Batch(spin, runActionCmd(a.Orchestrator, pp.ProjectID, pp.Env, gitexec.ActionPush, msg.Message))

	case SelectProjectMsg:
		if err := a.Orchestrator.Select(msg.ID); err != nil {
			return a, statusCmd(err.Error(), true)
		}
		p, ok := a.Orchestrator.Project(msg.ID)
		if !ok {
			return a, statusCmd("project not found", true)
		}
		a.Mode = ModeProjectDetail
		a.Detail = NewProjectDetailView(p, a.Orchestrator.Mode())
		a.Detail.FocusEnv(a.Orchestrator.SelectedEnv(p.ID))
		a.rebuildDashboard()
		return a, a.Detail.Init()

	case ActionDoneMsg:
		return a.handleActionDone(msg)

	case LocalScanDoneMsg:
		if msg.Err != nil {
			return a, statusCmd("scan failed: "+msg.Err.Error(), true)
		}
		if len(msg.Repos) == 0 {
			return a, statusCmd("no repositories found under the scan root", false)
		}
		a.Modal = NewDiscoveryModal(msg.Repos)
		return a, a.Modal.Init()

	case ImportReposMsg:
		a.Modal = nil
		created, err := a.Orchestrator.ImportLocal(msg.Repos)
		if err != nil {
			return a, statusCmd("import failed: "+err.Error(), true)
		}
		a.rebuildDashboard()
		return a, statusCmd(fmt.Sprintf("imported %d project(s)", len(created)), false)

	case DiscoveryDoneMsg:
		if msg.Err != nil {
			return a, statusCmd("discovery failed: "+msg.Err.Error(), true)
		}
		a.rebuildDashboard()
		return a, statusCmd(fmt.Sprintf("discovery imported %d project(s)", len(msg.Created)), false)

	case EnvFocusedMsg:
		// Focus is remembered per project across restarts.
		if err := a.Orchestrator.SetSelectedEnv(msg.ProjectID, msg.Env); err != nil {
			return a, statusCmd(err.Error(), true)
		}
		return a, nil

	case PreflightDoneMsg:
		return a, statusCmd(renderPreflight(msg.Result), !msg.Result.Git.Ok || !msg.Result.SSH.Ok)

	case SSHConnectDoneMsg:
		if msg.Result.Ok {
			// A ready host gets its unclaimed repos imported right away.
			return a, tea.Batch(
				statusCmd("ssh: connected, scanning for repositories", false),
				discoverRemoteCmd(a.Orchestrator),
			)
		}
		if msg.Result.SSHOk {
			return a, statusCmd("ssh: connected, but git is missing on the host", true)
		}
		text := "ssh: connection failed"
		if s := firstLine(msg.Result.Stderr); s != "" {
			text += ": " + s
		}
		return a, statusCmd(text, true)

	case BranchesLoadedMsg:
		if a.Detail != nil && a.Detail.ProjectID == msg.ProjectID {
			if !msg.Result.Ok {
				return a, statusCmd("branches: "+firstLine(msg.Result.Stderr), true)
			}
			a.Detail.SetBranches(msg.Result.Branches)
		}
		return a, nil

	case ShellOpenedMsg:
		if msg.Err != nil {
			return a, statusCmd("shell: "+msg.Err.Error(), true)
		}
		a.lastPane = msg.PaneID
		return a, statusCmd("opened pane "+msg.PaneID, false)

	case ShellClosedMsg:
		a.lastPane = ""
		if msg.Err != nil {
			return a, statusCmd("close shell: "+msg.Err.Error(), true)
		}
		return a, statusCmd("shell pane closed", false)

	case TraceCopiedMsg:
		if msg.Err != nil {
			return a, statusCmd("copy failed: "+msg.Err.Error(), true)
		}
		return a, statusCmd("trace copied to clipboard", false)

	case ShowCreateProjectMsg:
		a.Modal = NewCreateProjectModal()
		return a, a.Modal.Init()

	case StatusMsg:
		a.status = msg.Text
		a.statusErr = msg.IsErr
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateCurrent(msg)
}

// handleActionDone routes a finished action: errors to the status line, a
// dirty-tree push into the commit modal, everything else into the detail
// trace.
func (a *appModelAdapter) handleActionDone(msg ActionDoneMsg) (tea.Model, tea.Cmd) {
	if a.Detail != nil {
		a.Detail.SetBusy(false)
	}
	if msg.Err != nil {
		return a, statusCmd(msg.Err.Error(), true)
	}
	if a.Detail != nil && a.Detail.ProjectID == msg.ProjectID {
		a.Detail.SetOutcome(msg.Outcome)
	}
	out := msg.Outcome
	if !out.Ok && out.Error != nil {
		// A push against a dirty tree needs a commit message first.
		if out.Error.Code == "GIT-0104" {
			a.pending = &pendingPush{ProjectID: msg.ProjectID, Env: msg.EnvKey}
			a.Modal = NewCommitModal()
			return a, a.Modal.Init()
		}
		return a, statusCmd(fmt.Sprintf("[%s] %s", out.Error.Code, out.Error.Message), true)
	}
	return a, statusCmd(fmt.Sprintf("%s %s/%s: ok", out.Action, out.Mode, out.EnvKey), false)
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open modal captures all keys.
	if a.Modal != nil {
		v, cmd := a.Modal.Update(msg)
		a.Modal = v
		return a, cmd
	}

	if msg.String() == "ctrl+c" || (msg.String() == "q" && a.Mode == ModeDashboard) {
		return a, tea.Quit
	}

	if a.Mode == ModeDashboard {
		return a.handleDashboardKey(msg)
	}
	return a.handleDetailKey(msg)
}

func (a *appModelAdapter) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if row, ok := a.Dashboard.CurrentRow(); ok {
			id := row.ID
			return a, func() tea.Msg { return SelectProjectMsg{ID: id} }
		}
		return a, nil
	case "p":
		if row, ok := a.Dashboard.CurrentRow(); ok {
			var err error
			if a.Orchestrator.IsPinned(row.ID) {
				err = a.Orchestrator.Unpin(row.ID)
			} else {
				err = a.Orchestrator.Pin(row.ID)
			}
			if err != nil {
				return a, statusCmd(err.Error(), true)
			}
			a.rebuildDashboard()
		}
		return a, nil
	case "m":
		next := project.ModeSSH
		if a.Orchestrator.Mode() == project.ModeSSH {
			next = project.ModeLocal
		}
		if err := a.Orchestrator.SetMode(next); err != nil {
			return a, statusCmd(err.Error(), true)
		}
		a.rebuildDashboard()
		return a, statusCmd("switched to "+next.String()+" mode", false)
	case "n":
		a.Modal = NewCreateProjectModal()
		return a, a.Modal.Init()
	case "D":
		if a.Orchestrator.Mode() == project.ModeSSH {
			return a, tea.Batch(statusCmd("scanning remote host...", false), discoverRemoteCmd(a.Orchestrator))
		}
		return a, tea.Batch(statusCmd("scanning...", false), scanLocalCmd(a.Orchestrator))
	case "P":
		return a, preflightCmd(a.Orchestrator)
	case "S":
		return a, sshConnectCmd(a.Orchestrator)
	}
	return a.updateCurrent(msg)
}

func (a *appModelAdapter) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := a.Detail
	if d == nil {
		a.Mode = ModeDashboard
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.Mode = ModeDashboard
		a.Detail = nil
		a.rebuildDashboard()
		return a, nil
	case "u":
		return a.startAction(gitexec.ActionPull, "")
	case "s":
		// A push always collects its commit message first; nothing is
		// submitted until the prompt confirms.
		if d.Busy() {
			return a, statusCmd(orchestrator.ErrActionInFlight.Error(), true)
		}
		a.pending = &pendingPush{ProjectID: d.ProjectID, Env: d.Env()}
		a.Modal = NewCommitModal()
		return a, a.Modal.Init()
	case "g":
		return a.startAction(gitexec.ActionMerge, "")
	case "i":
		if d.Busy() {
			return a, statusCmd(orchestrator.ErrActionInFlight.Error(), true)
		}
		return a, tea.Batch(d.SetBusy(true), initRepoCmd(a.Orchestrator, d.ProjectID, d.Env()))
	case "b":
		repoURL := d.Project.Env(d.Env()).RepoURL
		if repoURL == "" {
			return a, statusCmd("no repo URL configured for this environment", true)
		}
		return a, listBranchesCmd(a.Orchestrator, d.ProjectID, repoURL)
	case "o":
		return a, openShellCmd(a.Orchestrator, d.Project, d.Env())
	case "x":
		if a.lastPane == "" {
			return a, statusCmd("no shell pane to close", true)
		}
		return a, closeShellCmd(a.lastPane)
	case "e":
		a.Modal = NewEditProjectModal(d.Project)
		return a, a.Modal.Init()
	case "c":
		if out := d.Outcome(); out != nil {
			return a, copyTraceCmd(*out)
		}
		return a, statusCmd("no trace to copy", true)
	}
	return a.updateCurrent(msg)
}

// startAction kicks off a pull/push/merge on the focused environment of the
// open project.
func (a *appModelAdapter) startAction(action gitexec.Action, commitMessage string) (tea.Model, tea.Cmd) {
	d := a.Detail
	if d.Busy() {
		return a, statusCmd(orchestrator.ErrActionInFlight.Error(), true)
	}
	return a, tea.Batch(d.SetBusy(true), runActionCmd(a.Orchestrator, d.ProjectID, d.Env(), action, commitMessage))
}

func (a *appModelAdapter) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.Modal != nil {
		v, cmd := a.Modal.Update(msg)
		a.Modal = v
		return a, cmd
	}
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	var base string
	if a.Modal != nil {
		base = a.Modal.View()
	} else {
		base = a.currentView().View()
	}
	if a.status != "" {
		style := Styles.Status
		if a.statusErr {
			style = Styles.Error
		}
		base += "\n" + style.Render(a.status)
	}
	return base
}

func (a *appModelAdapter) currentView() View {
	if a.Mode == ModeProjectDetail && a.Detail != nil {
		return a.Detail
	}
	if a.Dashboard == nil {
		a.Dashboard = NewDashboardView()
	}
	return a.Dashboard
}

func (a *appModelAdapter) setCurrentView(v View) {
	switch a.Mode {
	case ModeDashboard:
		if d, ok := v.(*DashboardView); ok {
			a.Dashboard = d
		}
	case ModeProjectDetail:
		if p, ok := v.(*ProjectDetailView); ok {
			a.Detail = p
		}
	}
}

// rebuildDashboard regenerates the dashboard rows from the orchestrator:
// pinned projects first in workset order, then the remaining visible
// projects in list order.
func (m *AppModel) rebuildDashboard() {
	o := m.Orchestrator
	mode := o.Mode()
	selected := o.Selected()

	pinned := o.PinnedProjects()
	seen := make(map[string]bool, len(pinned))
	rows := make([]ProjectRow, 0, len(pinned))
	for _, p := range pinned {
		rows = append(rows, projectRowFor(p, true, p.ID == selected))
		seen[p.ID] = true
	}
	for _, p := range o.VisibleProjects() {
		if seen[p.ID] {
			continue
		}
		rows = append(rows, projectRowFor(p, false, p.ID == selected))
	}
	if m.Dashboard == nil {
		m.Dashboard = NewDashboardView()
	}
	m.Dashboard.SetRows(rows, mode)
}

func projectRowFor(p project.Project, pinned, selected bool) ProjectRow {
	return ProjectRow{
		ID:        p.ID,
		Name:      p.Name,
		Pinned:    pinned,
		Selected:  selected,
		TestRef:   p.Env(project.EnvTest).EffectiveBranch(),
		DeployRef: p.Env(project.EnvDeploy).EffectiveBranch(),
	}
}

func renderPreflight(r gitexec.PreflightResult) string {
	part := func(name string, c gitexec.ToolCheck) string {
		if !c.Found {
			return name + ": missing"
		}
		if !c.Ok {
			return name + ": broken"
		}
		if v := firstLine(strings.TrimSpace(c.Version)); v != "" {
			return name + ": " + v
		}
		return name + ": ok"
	}
	return part("git", r.Git) + "  " + part("ssh", r.SSH)
}
