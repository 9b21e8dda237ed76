package ui

import tea "github.com/charmbracelet/bubbletea"

// View is one screen of the application: the dashboard, the project detail,
// or a modal layered above them. It follows Bubble Tea's Init/Update/View
// cycle but returns View so the root model can swap screens in place.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
