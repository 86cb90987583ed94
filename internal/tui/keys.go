package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NewFile         key.Binding
	NextFile        key.Binding
	PrevFile        key.Binding
	Complete        key.Binding
	ApplyCompletion key.Binding
	Analyze         key.Binding
	NextSuggestion  key.Binding
	ApplySuggestion key.Binding
	Focus           key.Binding
	Help            key.Binding
	Quit            key.Binding
}

var keys = keyMap{
	NewFile: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "new file"),
	),
	NextFile: key.NewBinding(
		key.WithKeys("ctrl+j"),
		key.WithHelp("C-j", "next file"),
	),
	PrevFile: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("C-k", "prev file"),
	),
	Complete: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("C-g", "complete"),
	),
	ApplyCompletion: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("C-a", "apply completion"),
	),
	Analyze: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "analyze"),
	),
	NextSuggestion: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "next suggestion"),
	),
	ApplySuggestion: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "apply suggestion"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "editor/prompt"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+_", "f1"),
		key.WithHelp("F1", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.Analyze, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NewFile, k.NextFile, k.PrevFile, k.Focus},
		{k.Complete, k.ApplyCompletion},
		{k.Analyze, k.NextSuggestion, k.ApplySuggestion},
		{k.Help, k.Quit},
	}
}
