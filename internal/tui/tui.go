// Package tui implements the Bubble Tea terminal editor.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/codepad/internal/config"
	"github.com/sprite-ai/codepad/internal/gateway"
	"github.com/sprite-ai/codepad/internal/source"
	"github.com/sprite-ai/codepad/internal/workspace"
)

type focus int

const (
	focusEditor focus = iota
	focusPrompt
)

// Model is the top-level Bubble Tea model for the editor.
type Model struct {
	ctx      context.Context
	ws       *workspace.Workspace
	settings config.EditorSettings
	styles   styles

	// UI state
	width  int
	height int
	focus  focus

	editor  textarea.Model
	prompt  textinput.Model
	spinner spinner.Model
	help    help.Model

	// in-flight AI calls per operation
	pending map[string]int

	// completion preview for the current completion
	preview []source.HighlightedLine

	// selected suggestion in the analysis panel
	suggestion int

	status    string
	statusErr bool
	showHelp  bool
}

// New creates a new editor model over ws. ctx bounds every AI call.
func New(ctx context.Context, ws *workspace.Workspace, settings config.EditorSettings) Model {
	st := newStyles(settings.Dark())

	ed := textarea.New()
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.MaxHeight = 0
	ed.Placeholder = "Select or create a file (C-n)"
	ed.Focus()

	in := textinput.New()
	in.Prompt = "> "
	in.PromptStyle = st.Prompt
	in.Placeholder = "Describe the code to generate, then Enter"
	in.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.Prompt

	m := Model{
		ctx:      ctx,
		ws:       ws,
		settings: settings,
		styles:   st,
		editor:   ed,
		prompt:   in,
		spinner:  sp,
		help:     help.New(),
		pending:  make(map[string]int),
	}
	m.loadActive()
	return m
}

// loadActive puts the active file's content into the editor.
func (m *Model) loadActive() {
	file, ok := m.ws.Store().Active()
	if !ok {
		m.editor.SetValue("")
		return
	}
	m.editor.SetValue(file.Content)
}

// syncActive writes the editor content back to the store.
func (m *Model) syncActive() {
	store := m.ws.Store()
	file, ok := store.Active()
	if !ok || file.Content == m.editor.Value() {
		return
	}
	store.UpdateActiveContent(m.editor.Value())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case completionMsg:
		m.pending[gateway.OpCompletion]--
		m.handleCompletion(msg)
		return m, nil

	case analysisMsg:
		m.pending[gateway.OpAnalysis]--
		m.handleAnalysis(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.focus == focusPrompt {
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	m.editor, cmd = m.editor.Update(msg)
	m.syncActive()
	return m, cmd
}

// handleKey runs editor-wide bindings. Unhandled keys go to the focused input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	store := m.ws.Store()

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit, true

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return nil, true

	case key.Matches(msg, keys.Focus):
		m.toggleFocus()
		return nil, true

	case key.Matches(msg, keys.NewFile):
		m.syncActive()
		f := store.CreateFile("", "")
		m.loadActive()
		m.setStatus("created "+f.Name, false)
		return nil, true

	case key.Matches(msg, keys.NextFile):
		m.moveFile(1)
		return nil, true

	case key.Matches(msg, keys.PrevFile):
		m.moveFile(-1)
		return nil, true

	case key.Matches(msg, keys.Complete):
		return m.startCompletion(), true

	case key.Matches(msg, keys.ApplyCompletion):
		m.syncActive()
		if m.ws.ApplyCompletion() {
			m.preview = nil
			m.loadActive()
			m.setStatus("completion applied", false)
		}
		return nil, true

	case key.Matches(msg, keys.Analyze):
		m.syncActive()
		return m.startAnalysis(), true

	case key.Matches(msg, keys.NextSuggestion):
		if a, ok := m.ws.LastAnalysis(); ok && len(a.Suggestions) > 0 {
			m.suggestion = (m.suggestion + 1) % len(a.Suggestions)
		}
		return nil, true

	case key.Matches(msg, keys.ApplySuggestion):
		m.syncActive()
		if m.ws.ApplyAnalysisSuggestion(m.suggestion) {
			m.loadActive()
			m.setStatus("suggestion applied", false)
		}
		return nil, true

	case m.focus == focusPrompt && msg.Type == tea.KeyEnter:
		return m.startCompletion(), true
	}
	return nil, false
}

func (m *Model) toggleFocus() {
	if m.focus == focusEditor {
		m.focus = focusPrompt
		m.editor.Blur()
		m.prompt.Focus()
		return
	}
	m.focus = focusEditor
	m.prompt.Blur()
	m.editor.Focus()
}

// moveFile selects the file delta positions away from the active one.
func (m *Model) moveFile(delta int) {
	store := m.ws.Store()
	files := store.Files()
	if len(files) == 0 {
		return
	}
	m.syncActive()

	cur := 0
	active := store.ActiveID()
	for i, f := range files {
		if f.ID == active {
			cur = i
			break
		}
	}
	next := cur + delta
	if next < 0 || next >= len(files) {
		return
	}
	store.Select(files[next].ID)
	m.loadActive()
}

func (m *Model) startCompletion() tea.Cmd {
	prompt := m.prompt.Value()
	if strings.TrimSpace(prompt) == "" {
		m.setStatus("type a prompt first (tab)", true)
		return nil
	}
	m.syncActive()
	m.pending[gateway.OpCompletion]++
	m.setStatus("completing…", false)
	return tea.Batch(requestCompletion(m.ctx, m.ws, prompt), m.spinner.Tick)
}

func (m *Model) startAnalysis() tea.Cmd {
	file, ok := m.ws.Store().Active()
	if !ok {
		m.setStatus("no active file", true)
		return nil
	}
	if strings.TrimSpace(file.Content) == "" {
		m.setStatus("nothing to analyze", true)
		return nil
	}
	m.pending[gateway.OpAnalysis]++
	m.setStatus("analyzing "+file.Name+"…", false)
	return tea.Batch(requestAnalysis(m.ctx, m.ws), m.spinner.Tick)
}

func (m *Model) handleCompletion(msg completionMsg) {
	switch {
	case errors.Is(msg.err, workspace.ErrStale):
		// a newer completion is on its way
	case msg.err != nil:
		m.setStatus(errorText(msg.err), true)
	default:
		m.preview = source.HighlightLines(msg.res.Language, msg.res.Completion, m.settings.SyntaxStyle())
		m.prompt.Reset()
		m.setStatus("completion ready (C-a to apply)", false)
	}
}

func (m *Model) handleAnalysis(msg analysisMsg) {
	switch {
	case errors.Is(msg.err, workspace.ErrStale):
	case msg.err != nil:
		m.setStatus(errorText(msg.err), true)
	default:
		m.suggestion = 0
		m.setStatus(msg.res.Summary(), false)
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m Model) busy() bool {
	for _, n := range m.pending {
		if n > 0 {
			return true
		}
	}
	return false
}

// errorText returns the status line text for a failed call.
func errorText(err error) string {
	switch {
	case errors.Is(err, gateway.ErrCompletionFailed):
		return gateway.ErrCompletionFailed.Error()
	case errors.Is(err, gateway.ErrAnalysisFailed):
		return gateway.ErrAnalysisFailed.Error()
	default:
		return err.Error()
	}
}

// Run starts the editor and blocks until the user quits.
func Run(ctx context.Context, ws *workspace.Workspace, settings config.EditorSettings) error {
	p := tea.NewProgram(New(ctx, ws, settings), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
