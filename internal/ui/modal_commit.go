package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/textinput"

	"gitship/internal/orchestrator"
)

// CommitModal prompts for the commit message every push carries. Blank
// input is rejected in place; the push is only submitted with a message
// git will accept.
type CommitModal struct {
	input  textinput.Model
	errMsg string
}

var _ View = (*CommitModal)(nil)

// NewCommitModal creates a commit-message prompt.
func NewCommitModal() *CommitModal {
	ti := textinput.New()
	ti.Placeholder = "commit message"
	ti.Width = 56
	ti.Focus()
	return &CommitModal{input: ti}
}

// Init implements View.
func (m *CommitModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *CommitModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			message, err := orchestrator.NormalizeCommitMessage(m.input.Value())
			if err != nil {
				m.errMsg = "commit message must not be empty"
				return m, nil
			}
			return m, func() tea.Msg { return CommitMessageMsg{Message: message} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *CommitModal) View() string {
	content := Styles.Title.Render("Commit changes") + "\n"
	content += Styles.Muted.Render("Uncommitted changes are committed with this message before the push.") + "\n\n"
	content += m.input.View() + "\n"
	if m.errMsg != "" {
		content += Styles.Error.Render(m.errMsg) + "\n"
	}
	content += "\n" + Styles.Hint.Render("Enter: commit and push  Esc: cancel")
	return Styles.Box.Render(content)
}
