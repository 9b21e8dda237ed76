package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gitship/internal/gitexec"
)

// discoveryRow is one scan result with its import checkbox.
type discoveryRow struct {
	Repo    gitexec.Repo
	Include bool
}

// DiscoveryModal lists local scan results and lets the operator pick which
// rows to import. Already-claimed paths are skipped again at import time, so
// confirming everything is always safe.
type DiscoveryModal struct {
	rows   []discoveryRow
	cursor int
}

var _ View = (*DiscoveryModal)(nil)

// NewDiscoveryModal creates the confirmation modal with every row included.
func NewDiscoveryModal(repos []gitexec.Repo) *DiscoveryModal {
	rows := make([]discoveryRow, len(repos))
	for i, r := range repos {
		rows[i] = discoveryRow{Repo: r, Include: true}
	}
	return &DiscoveryModal{rows: rows}
}

// Init implements View.
func (m *DiscoveryModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *DiscoveryModal) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return DismissModalMsg{} }
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case " ":
		if len(m.rows) > 0 {
			m.rows[m.cursor].Include = !m.rows[m.cursor].Include
		}
	case "a":
		all := m.allIncluded()
		for i := range m.rows {
			m.rows[i].Include = !all
		}
	case "enter":
		repos := m.included()
		return m, func() tea.Msg { return ImportReposMsg{Repos: repos} }
	}
	return m, nil
}

func (m *DiscoveryModal) allIncluded() bool {
	for _, r := range m.rows {
		if !r.Include {
			return false
		}
	}
	return true
}

func (m *DiscoveryModal) included() []gitexec.Repo {
	var out []gitexec.Repo
	for _, r := range m.rows {
		if r.Include {
			out = append(out, r.Repo)
		}
	}
	return out
}

// View implements View.
func (m *DiscoveryModal) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("Discovered repositories (%d)", len(m.rows))) + "\n\n")
	if len(m.rows) == 0 {
		b.WriteString(Styles.Empty.Render("Nothing found under the scan root.") + "\n")
	}
	for i, r := range m.rows {
		check := "[ ]"
		if r.Include {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, r.Repo.Path)
		if r.Repo.OriginURL != "" {
			line += "  " + r.Repo.OriginURL
		}
		if i == m.cursor {
			b.WriteString(Styles.Selected.Render("> "+line) + "\n")
		} else {
			b.WriteString(Styles.Normal.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n" + Styles.Hint.Render("space: toggle  a: all/none  Enter: import  Esc: cancel"))
	return Styles.Box.Render(b.String())
}
