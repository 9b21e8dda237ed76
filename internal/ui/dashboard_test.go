package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gitship/internal/project"
)

func testRows() []ProjectRow {
	return []ProjectRow{
		{ID: "a", Name: "alpha", Pinned: true, Selected: true, TestRef: "main", DeployRef: "prod"},
		{ID: "b", Name: "beta", TestRef: "main", DeployRef: "main"},
		{ID: "c", Name: "gamma", TestRef: "dev", DeployRef: "main"},
	}
}

func TestDashboardCurrentRowFollowsCursor(t *testing.T) {
	d := NewDashboardView()
	d.SetRows(testRows(), project.ModeLocal)
	d.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	row, ok := d.CurrentRow()
	if !ok || row.ID != "a" {
		t.Fatalf("initial row = %+v ok=%v, want alpha", row, ok)
	}

	d.Update(keyMsg("j"))
	row, ok = d.CurrentRow()
	if !ok || row.ID != "b" {
		t.Errorf("after j: row = %+v, want beta", row)
	}

	d.Update(keyMsg("k"))
	row, _ = d.CurrentRow()
	if row.ID != "a" {
		t.Errorf("after k: row = %+v, want alpha", row)
	}
}

func TestDashboardCurrentRowEmpty(t *testing.T) {
	d := NewDashboardView()
	if _, ok := d.CurrentRow(); ok {
		t.Error("empty dashboard should have no current row")
	}
}

func TestDashboardViewRendersRows(t *testing.T) {
	d := NewDashboardView()
	d.SetRows(testRows(), project.ModeLocal)
	view := d.View()

	for _, want := range []string{"alpha", "beta", "gamma", "local mode", "test:main", "deploy:prod"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "●") {
		t.Error("pinned project should carry the pin marker")
	}
	if !strings.Contains(view, "«current»") {
		t.Error("selected project should carry the current marker")
	}
}

func TestDashboardViewEmptyState(t *testing.T) {
	d := NewDashboardView()
	d.SetRows(nil, project.ModeSSH)
	view := d.View()
	if !strings.Contains(view, "No projects visible") {
		t.Errorf("view missing empty state:\n%s", view)
	}
	if !strings.Contains(view, "ssh mode") {
		t.Errorf("view should name the active mode:\n%s", view)
	}
}
