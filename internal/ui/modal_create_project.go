package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CreateProjectModal prompts for the name of a new project. The project
// starts with defaulted test and deploy environments; paths, branches, and
// repo URLs are filled in afterwards through the edit form.
type CreateProjectModal struct {
	input  textinput.Model
	errMsg string
}

var _ View = (*CreateProjectModal)(nil)

// NewCreateProjectModal creates a create-project prompt.
func NewCreateProjectModal() *CreateProjectModal {
	ti := textinput.New()
	ti.Placeholder = "project name"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()
	return &CreateProjectModal{input: ti}
}

// Init implements View.
func (m *CreateProjectModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *CreateProjectModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				m.errMsg = "project name must not be empty"
				return m, nil
			}
			return m, func() tea.Msg { return CreateProjectMsg{Name: name} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *CreateProjectModal) View() string {
	content := Styles.Title.Render("New project") + "\n"
	content += Styles.Muted.Render("Both environments start on the default branch; edit the project to set paths.") + "\n\n"
	content += m.input.View() + "\n"
	if m.errMsg != "" {
		content += Styles.Error.Render(m.errMsg) + "\n"
	}
	content += "\n" + Styles.Hint.Render("Enter: create  Esc: cancel")
	return Styles.Box.Render(content)
}
