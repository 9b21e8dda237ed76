package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - for titles, highlights
	ColorHighlight = "205" // Magenta - for selected items, borders
	ColorDanger    = "196" // Red - for warnings, errors
	ColorMuted     = "241" // Gray - for dimmed text, hints
	ColorText      = "252" // Light gray - for normal text
	ColorWarning   = "208" // Orange - for warning details
	ColorOK        = "42"  // Green - for success markers
)

// Styles contains shared style definitions used across views and modals.
var Styles = struct {
	Title        lipgloss.Style // Bold accent color - for main titles
	TitleWarning lipgloss.Style // Bold danger color - for warning titles

	Box       lipgloss.Style // Standard box with rounded border
	BoxDanger lipgloss.Style // Warning/error box (danger border)

	Selected lipgloss.Style // Highlighted/selected items
	Muted    lipgloss.Style // Dimmed text
	Normal   lipgloss.Style // Normal text
	Hint     lipgloss.Style // Help/hint text
	Status   lipgloss.Style // Status indicators (accent color)
	Section  lipgloss.Style // Section headers
	Empty    lipgloss.Style // Empty state text (muted, italic)
	OK       lipgloss.Style // Success markers
	Error    lipgloss.Style // Failure markers
	Warning  lipgloss.Style // Warning details
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Section: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	OK: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorOK)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Warning: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
}

// NewCompactListDelegate returns a delegate with zero spacing and shared styles.
func NewCompactListDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	d.ShowDescription = false
	d.Styles.SelectedTitle = Styles.Selected
	d.Styles.SelectedDesc = Styles.Selected
	d.Styles.NormalTitle = Styles.Muted
	d.Styles.NormalDesc = Styles.Muted
	return d
}
