package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gitship/internal/project"
)

// Field order inside the edit modal. Name first, then the four fields of
// each environment.
const (
	fieldName = iota
	fieldTestRepoURL
	fieldTestBranch
	fieldTestLocalPath
	fieldTestRemotePath
	fieldDeployRepoURL
	fieldDeployBranch
	fieldDeployLocalPath
	fieldDeployRemotePath
	fieldCount
)

var editFieldLabels = [fieldCount]string{
	"Name",
	"test repo URL",
	"test branch",
	"test local path",
	"test remote path",
	"deploy repo URL",
	"deploy branch",
	"deploy local path",
	"deploy remote path",
}

// EditProjectModal edits a project's name and both environment records.
// Enter submits the whole form; blank branches fall back to the default on
// save.
type EditProjectModal struct {
	original project.Project
	inputs   [fieldCount]textinput.Model
	focus    int
}

var _ View = (*EditProjectModal)(nil)

// NewEditProjectModal creates an edit modal pre-filled from the project.
func NewEditProjectModal(p project.Project) *EditProjectModal {
	m := &EditProjectModal{original: p}
	values := [fieldCount]string{
		p.Name,
		p.Env(project.EnvTest).RepoURL,
		p.Env(project.EnvTest).Branch,
		p.Env(project.EnvTest).LocalPath,
		p.Env(project.EnvTest).RemotePath,
		p.Env(project.EnvDeploy).RepoURL,
		p.Env(project.EnvDeploy).Branch,
		p.Env(project.EnvDeploy).LocalPath,
		p.Env(project.EnvDeploy).RemotePath,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Width = 48
		ti.SetValue(values[i])
		m.inputs[i] = ti
	}
	m.inputs[fieldName].Focus()
	return m
}

// Init implements View.
func (m *EditProjectModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *EditProjectModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, textinput.Blink
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, textinput.Blink
		case "enter":
			p := m.collect()
			return m, func() tea.Msg { return SaveProjectMsg{Project: p} }
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *EditProjectModal) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// collect assembles the edited project. The ID never changes; Sanitize
// happens in the orchestrator on save.
func (m *EditProjectModal) collect() project.Project {
	p := m.original
	p.Name = strings.TrimSpace(m.inputs[fieldName].Value())
	if p.Name == "" {
		p.Name = m.original.Name
	}
	p.SetEnv(project.EnvTest, project.Env{
		RepoURL:    m.inputs[fieldTestRepoURL].Value(),
		Branch:     m.inputs[fieldTestBranch].Value(),
		LocalPath:  m.inputs[fieldTestLocalPath].Value(),
		RemotePath: m.inputs[fieldTestRemotePath].Value(),
	})
	p.SetEnv(project.EnvDeploy, project.Env{
		RepoURL:    m.inputs[fieldDeployRepoURL].Value(),
		Branch:     m.inputs[fieldDeployBranch].Value(),
		LocalPath:  m.inputs[fieldDeployLocalPath].Value(),
		RemotePath: m.inputs[fieldDeployRemotePath].Value(),
	})
	return p
}

// View implements View.
func (m *EditProjectModal) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Edit project") + "\n\n")
	for i := range m.inputs {
		label := fmt.Sprintf("%-20s", editFieldLabels[i])
		if i == m.focus {
			b.WriteString(Styles.Selected.Render(label))
		} else {
			b.WriteString(Styles.Muted.Render(label))
		}
		b.WriteString(m.inputs[i].View() + "\n")
	}
	b.WriteString("\n" + Styles.Hint.Render("Tab: next field  Enter: save  Esc: cancel"))
	return Styles.Box.Render(b.String())
}
