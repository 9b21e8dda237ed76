package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"gitship/internal/project"
)

// ProjectRow holds the dashboard's per-project display data.
type ProjectRow struct {
	ID        string
	Name      string
	Pinned    bool
	Selected  bool
	TestRef   string // branch of the test environment
	DeployRef string // branch of the deploy environment
}

// projectItem implements list.Item for ProjectRow.
type projectItem struct {
	ProjectRow
}

func (p projectItem) FilterValue() string { return p.Name }
func (p projectItem) Description() string { return "" }
func (p projectItem) Title() string {
	marker := "  "
	if p.Pinned {
		marker = "● "
	}
	line := fmt.Sprintf("%s%s  test:%s deploy:%s", marker, p.Name, p.TestRef, p.DeployRef)
	if p.Selected {
		line += "  «current»"
	}
	return line
}

// DashboardView lists the projects visible under the active mode. Pinned
// projects sort first, most recently pinned on top, matching the workset
// order; the rest follow in list order.
type DashboardView struct {
	list list.Model
	Rows []ProjectRow
	mode project.Mode
}

var _ View = (*DashboardView)(nil)

// NewDashboardView creates an empty dashboard; call SetRows to populate.
func NewDashboardView() *DashboardView {
	l := list.New(nil, NewCompactListDelegate(), 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title
	return &DashboardView{list: l}
}

// SetRows replaces the dashboard contents.
func (d *DashboardView) SetRows(rows []ProjectRow, mode project.Mode) {
	d.Rows = rows
	d.mode = mode
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = projectItem{ProjectRow: r}
	}
	d.list.SetItems(items)
}

// CurrentRow returns the row under the cursor.
func (d *DashboardView) CurrentRow() (ProjectRow, bool) {
	i := d.list.Index()
	if i < 0 || i >= len(d.Rows) {
		return ProjectRow{}, false
	}
	return d.Rows[i], true
}

// Init implements View.
func (d *DashboardView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (d *DashboardView) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		d.list.SetWidth(msg.Width)
		d.list.SetHeight(msg.Height - 5) // header, mode line, status line
		return d, nil
	}
	// The list handles j/k/g/G navigation natively. Enter and the action
	// keys are handled by app.go at the application level.
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

// View implements View.
func (d *DashboardView) View() string {
	// Default dimensions for tests, where no WindowSizeMsg arrives.
	if d.list.Width() == 0 {
		d.list.SetWidth(80)
	}
	if d.list.Height() == 0 {
		d.list.SetHeight(20)
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(fmt.Sprintf("gitship [%s mode]", d.mode)) + "\n")
	b.WriteString(Styles.Hint.Render("enter: open  p: pin  m: mode  n: new  D: discover  S: ssh  P: preflight  q: quit") + "\n\n")
	if len(d.Rows) == 0 {
		b.WriteString(Styles.Empty.Render("No projects visible under this mode. Press n to create one or D to scan."))
		return b.String()
	}
	b.WriteString(d.list.View())
	return b.String()
}
