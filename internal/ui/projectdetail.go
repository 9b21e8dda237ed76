package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"gitship/internal/gitexec"
	"gitship/internal/project"
)

// ProjectDetailView shows one project: both environments, the focused
// environment's resolved parameters, and the step trace of the last action.
type ProjectDetailView struct {
	ProjectID string
	Project   project.Project

	mode     project.Mode
	env      project.EnvKey
	busy     bool
	spinner  spinner.Model
	outcome  *gitexec.ActionOutcome
	branches []string
	width    int
	height   int
}

var _ View = (*ProjectDetailView)(nil)

// NewProjectDetailView creates a detail view for the given project.
func NewProjectDetailView(p project.Project, mode project.Mode) *ProjectDetailView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status
	return &ProjectDetailView{
		ProjectID: p.ID,
		Project:   p,
		mode:      mode,
		env:       project.EnvTest,
		spinner:   s,
	}
}

// Env returns the focused environment key.
func (v *ProjectDetailView) Env() project.EnvKey {
	return v.env
}

// FocusEnv sets the focused environment without emitting a message. Used to
// restore the persisted focus when the view opens.
func (v *ProjectDetailView) FocusEnv(k project.EnvKey) {
	v.env = k
}

// SetProject refreshes the displayed project after an edit.
func (v *ProjectDetailView) SetProject(p project.Project, mode project.Mode) {
	v.Project = p
	v.mode = mode
}

// SetBusy toggles the in-flight indicator; returns the spinner tick when
// starting.
func (v *ProjectDetailView) SetBusy(busy bool) tea.Cmd {
	v.busy = busy
	if busy {
		return v.spinner.Tick
	}
	return nil
}

// Busy reports whether an action is displayed as running.
func (v *ProjectDetailView) Busy() bool {
	return v.busy
}

// SetOutcome stores the last action outcome for display.
func (v *ProjectDetailView) SetOutcome(out gitexec.ActionOutcome) {
	v.outcome = &out
}

// Outcome returns the displayed outcome, nil when none.
func (v *ProjectDetailView) Outcome() *gitexec.ActionOutcome {
	return v.outcome
}

// SetBranches stores the fetched branch heads for display.
func (v *ProjectDetailView) SetBranches(branches []string) {
	v.branches = branches
}

// Init implements View.
func (v *ProjectDetailView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *ProjectDetailView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil
	case spinner.TickMsg:
		if v.busy {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "1", "2":
			switch msg.String() {
			case "1":
				v.env = project.EnvTest
			case "2":
				v.env = project.EnvDeploy
			default:
				v.env = v.env.Other()
			}
			id, env := v.ProjectID, v.env
			return v, func() tea.Msg { return EnvFocusedMsg{ProjectID: id, Env: env} }
		}
	}
	return v, nil
}

// View implements View.
func (v *ProjectDetailView) View() string {
	var b strings.Builder
	title := v.Project.Name
	if v.busy {
		title += "  " + v.spinner.View() + " running"
	}
	b.WriteString(Styles.Title.Render(title) + "\n")
	b.WriteString(Styles.Hint.Render(fmt.Sprintf("%s mode | tab: env  u: pull  s: push  g: merge  b: branches  i: init  o/x: shell  e: edit  c: copy trace  esc: back", v.mode)) + "\n\n")

	for _, k := range project.Keys() {
		b.WriteString(v.renderEnv(k) + "\n")
	}

	if len(v.branches) > 0 {
		b.WriteString(Styles.Section.Render("Remote branches") + " " +
			Styles.Muted.Render(strings.Join(v.branches, ", ")) + "\n")
	}

	if v.outcome != nil {
		b.WriteString("\n" + v.renderOutcome(*v.outcome))
	}
	return b.String()
}

func (v *ProjectDetailView) renderEnv(k project.EnvKey) string {
	env := v.Project.Env(k)
	focus := "  "
	style := Styles.Muted
	if k == v.env {
		focus = "> "
		style = Styles.Normal
	}
	path := env.PathFor(v.mode)
	if path == "" {
		path = "(no path for this mode)"
	}
	line := fmt.Sprintf("%s%-6s  branch:%-12s  %s", focus, k, env.EffectiveBranch(), path)
	if env.RepoURL != "" {
		line += "  " + env.RepoURL
	}
	return style.Render(line)
}

func (v *ProjectDetailView) renderOutcome(out gitexec.ActionOutcome) string {
	var b strings.Builder
	head := fmt.Sprintf("%s %s/%s", out.Action, out.Mode, out.EnvKey)
	if out.Ok {
		b.WriteString(Styles.OK.Render("✓ "+head) + "\n")
	} else {
		b.WriteString(Styles.Error.Render("✗ "+head) + "\n")
	}
	for _, step := range out.Steps {
		marker := Styles.OK.Render("✓")
		if !step.Ok {
			marker = Styles.Error.Render("✗")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", marker, Styles.Muted.Render(step.Cmd)))
		if !step.Ok && strings.TrimSpace(step.Stderr) != "" {
			b.WriteString("      " + Styles.Warning.Render(firstLine(step.Stderr)) + "\n")
		}
	}
	if out.Error != nil {
		b.WriteString(Styles.Error.Render(fmt.Sprintf("  [%s %s] %s", out.Error.Severity, out.Error.Code, out.Error.Message)))
		if out.Error.Detail != "" {
			b.WriteString(Styles.Warning.Render("  " + out.Error.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
