package tui

import "github.com/charmbracelet/lipgloss"

// palette is the set of colors a theme provides.
type palette struct {
	Red, Green, Yellow, Blue, Purple, Orange lipgloss.Color
	Dim, Fg, BgLight, Border, Highlight      lipgloss.Color
}

// Dracula, for vs-dark.
var darkPalette = palette{
	Red:       lipgloss.Color("#ff5555"),
	Green:     lipgloss.Color("#50fa7b"),
	Yellow:    lipgloss.Color("#f1fa8c"),
	Blue:      lipgloss.Color("#8be9fd"),
	Purple:    lipgloss.Color("#bd93f9"),
	Orange:    lipgloss.Color("#ffb86c"),
	Dim:       lipgloss.Color("#6272a4"),
	Fg:        lipgloss.Color("#f8f8f2"),
	BgLight:   lipgloss.Color("#343746"),
	Border:    lipgloss.Color("#44475a"),
	Highlight: lipgloss.Color("#44475a"),
}

// GitHub light, for vs-light.
var lightPalette = palette{
	Red:       lipgloss.Color("#cf222e"),
	Green:     lipgloss.Color("#1a7f37"),
	Yellow:    lipgloss.Color("#9a6700"),
	Blue:      lipgloss.Color("#0969da"),
	Purple:    lipgloss.Color("#8250df"),
	Orange:    lipgloss.Color("#bc4c00"),
	Dim:       lipgloss.Color("#6e7781"),
	Fg:        lipgloss.Color("#24292f"),
	BgLight:   lipgloss.Color("#eaeef2"),
	Border:    lipgloss.Color("#d0d7de"),
	Highlight: lipgloss.Color("#ddf4ff"),
}

// styles are the rendered styles for one theme.
type styles struct {
	// Sidebar
	Sidebar          lipgloss.Style
	SidebarTitle     lipgloss.Style
	FileItem         lipgloss.Style
	FileItemSelected lipgloss.Style
	FileLanguage     lipgloss.Style

	// Editor pane
	Editor        lipgloss.Style
	EditorFocused lipgloss.Style
	FileHeader    lipgloss.Style

	Prompt lipgloss.Style

	// Completion preview and analysis panel
	Panel              lipgloss.Style
	PanelHeader        lipgloss.Style
	IssueError         lipgloss.Style
	IssueWarning       lipgloss.Style
	IssueInfo          lipgloss.Style
	Suggestion         lipgloss.Style
	SuggestionSelected lipgloss.Style
	Dim                lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusError lipgloss.Style

	HelpKey lipgloss.Style
}

func newStyles(dark bool) styles {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	s := styles{
		Sidebar:      box.Padding(0, 1),
		SidebarTitle: lipgloss.NewStyle().Foreground(p.Purple).Bold(true),
		FileItem:     lipgloss.NewStyle().Foreground(p.Fg),
		FileItemSelected: lipgloss.NewStyle().
			Foreground(p.Fg).
			Background(p.Highlight).
			Bold(true),
		FileLanguage: lipgloss.NewStyle().Foreground(p.Dim),

		Editor:        box,
		EditorFocused: box.BorderForeground(p.Purple),
		FileHeader:    lipgloss.NewStyle().Foreground(p.Blue).Bold(true),

		Prompt: lipgloss.NewStyle().Foreground(p.Yellow).Bold(true),

		Panel:        box.Padding(0, 1),
		PanelHeader:  lipgloss.NewStyle().Foreground(p.Purple).Bold(true),
		IssueError:   lipgloss.NewStyle().Foreground(p.Red).Bold(true),
		IssueWarning: lipgloss.NewStyle().Foreground(p.Orange),
		IssueInfo:    lipgloss.NewStyle().Foreground(p.Blue),
		Suggestion:   lipgloss.NewStyle().Foreground(p.Green),
		Dim:          lipgloss.NewStyle().Foreground(p.Dim),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.Fg).
			Background(p.BgLight).
			Padding(0, 1),
		StatusError: lipgloss.NewStyle().
			Foreground(p.Red).
			Background(p.BgLight),

		HelpKey: lipgloss.NewStyle().Foreground(p.Yellow),
	}
	s.SuggestionSelected = s.Suggestion.Background(p.Highlight).Bold(true)
	return s
}
