package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sprite-ai/codepad/internal/workspace"
)

// completionMsg carries a finished completion call back into Update.
type completionMsg struct {
	res workspace.CompletionResult
	err error
}

// analysisMsg carries a finished analysis call back into Update.
type analysisMsg struct {
	res workspace.AnalysisResult
	err error
}

// requestCompletion runs the call off the UI goroutine. The workspace drops
// the result if a newer completion was issued meanwhile.
func requestCompletion(ctx context.Context, ws *workspace.Workspace, prompt string) tea.Cmd {
	return func() tea.Msg {
		res, err := ws.Complete(ctx, prompt)
		return completionMsg{res: res, err: err}
	}
}

func requestAnalysis(ctx context.Context, ws *workspace.Workspace) tea.Cmd {
	return func() tea.Msg {
		res, err := ws.Analyze(ctx)
		return analysisMsg{res: res, err: err}
	}
}
