package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/source"
)

const (
	minSidebarWidth = 20
	maxSidebarWidth = 32
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sideW, editorW, panelW := m.columns()
	mainH := m.mainHeight()

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderSidebar(sideW, mainH),
		m.renderEditor(editorW),
		m.renderPanel(panelW, mainH),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		main,
		m.prompt.View(),
		m.renderStatusBar(),
	)
}

// columns splits the width into sidebar, editor and panel.
func (m Model) columns() (side, editor, panel int) {
	side = minSidebarWidth
	for _, f := range m.ws.Store().Files() {
		if w := len(f.Name) + 6; w > side {
			side = w
		}
	}
	if side > maxSidebarWidth {
		side = maxSidebarWidth
	}
	panel = m.width / 3
	editor = m.width - side - panel
	if editor < 20 {
		editor = 20
	}
	return side, editor, panel
}

// mainHeight leaves room for the prompt line and status bar.
func (m Model) mainHeight() int {
	h := m.height - 2
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) resize() {
	_, editorW, _ := m.columns()
	m.editor.SetWidth(editorW - 2)
	m.editor.SetHeight(m.mainHeight() - 3) // borders + header
	m.prompt.Width = m.width - 4
	m.help.Width = m.width
}

func (m Model) renderSidebar(width, height int) string {
	store := m.ws.Store()
	active := store.ActiveID()

	var b strings.Builder
	b.WriteString(m.styles.SidebarTitle.Render("Files"))
	for _, f := range store.Files() {
		b.WriteByte('\n')

		name := f.Name
		maxName := width - 4
		if maxName > 1 && len(name) > maxName {
			name = "…" + name[len(name)-maxName+1:]
		}

		style := m.styles.FileItem
		if f.ID == active {
			style = m.styles.FileItemSelected
		}
		b.WriteString(style.Width(width - 4).Render(name))
	}

	return m.styles.Sidebar.Width(width - 2).Height(height - 2).Render(b.String())
}

func (m Model) renderEditor(width int) string {
	header := m.styles.Dim.Render("no file")
	if f, ok := m.ws.Store().Active(); ok {
		title := f.Name
		if f.Path != "" {
			title = f.Path
		}
		header = m.styles.FileHeader.Render(title) + " " + m.styles.FileLanguage.Render(f.Language)
	}

	style := m.styles.Editor
	if m.focus == focusEditor {
		style = m.styles.EditorFocused
	}
	return style.Width(width - 2).Render(header + "\n" + m.editor.View())
}

func (m Model) renderPanel(width, height int) string {
	var b strings.Builder
	b.WriteString(m.styles.PanelHeader.Render("Completion"))
	b.WriteByte('\n')
	if len(m.preview) == 0 {
		b.WriteString(m.styles.Dim.Render("none (C-g)"))
	} else {
		b.WriteString(renderHighlighted(m.preview, m.settings.TabSize))
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.PanelHeader.Render("Analysis"))
	b.WriteByte('\n')
	b.WriteString(m.renderAnalysis())

	lines := strings.Split(b.String(), "\n")
	if max := height - 2; len(lines) > max && max > 0 {
		lines = lines[:max]
	}
	return m.styles.Panel.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderAnalysis() string {
	a, ok := m.ws.LastAnalysis()
	if !ok {
		return m.styles.Dim.Render("none (C-r)")
	}

	var b strings.Builder
	b.WriteString(a.Summary())
	for _, is := range a.Issues {
		b.WriteByte('\n')
		b.WriteString(m.styles.severity(is.Severity).Render(
			fmt.Sprintf("%s %d:%d %s", severityIcon(is.Severity), is.Line, is.Column, is.Message)))
	}
	for i, sg := range a.Suggestions {
		b.WriteByte('\n')
		style := m.styles.Suggestion
		if i == m.suggestion {
			style = m.styles.SuggestionSelected
		}
		b.WriteString(style.Render(fmt.Sprintf("+ %d:%d %s", sg.Line, sg.Column, sg.Message)))
	}
	return b.String()
}

// renderHighlighted turns highlighted lines into styled terminal text, with
// tabs expanded to tabSize spaces.
func renderHighlighted(lines []source.HighlightedLine, tabSize int) string {
	if tabSize < 1 {
		tabSize = 1
	}
	tab := strings.Repeat(" ", tabSize)

	var b strings.Builder
	for i, hl := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, tok := range hl.Tokens {
			text := strings.ReplaceAll(tok.Text, "\t", tab)
			if tok.Color == "" {
				b.WriteString(text)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(text))
		}
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	store := m.ws.Store()

	left := fmt.Sprintf(" %d file(s)", store.Len())
	if u := m.ws.Identity().User; u != nil && u.Name != "" {
		left += " · " + u.Name
	}
	if m.busy() {
		left = m.spinner.View() + left
	}

	msg := m.status
	if m.statusErr {
		msg = m.styles.StatusError.Render(msg)
	}
	right := m.help.View(keys) + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(msg) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return m.styles.StatusBar.Width(m.width).Render(left + "  " + msg + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(m.styles.FileHeader.Render("codepad: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, group := range keys.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n", m.styles.HelpKey.Width(12).Render(h.Key), h.Desc))
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Dim.Render("Press F1 to close help"))

	return b.String()
}

func (st styles) severity(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityError:
		return st.IssueError
	case model.SeverityWarning:
		return st.IssueWarning
	default:
		return st.IssueInfo
	}
}

func severityIcon(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "!!"
	case model.SeverityWarning:
		return "! "
	default:
		return "- "
	}
}
