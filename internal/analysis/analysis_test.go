package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sprite-ai/codepad/internal/model"
)

func TestNormalizeIssueWithColumn(t *testing.T) {
	got := Normalize("Issue: Error on line 5:12 - null check missing")

	want := &model.AnalysisResponse{
		Issues: []model.Issue{
			{Severity: model.SeverityError, Message: "null check missing", Line: 5, Column: 12},
		},
		Suggestions: []model.Suggestion{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeSuggestion(t *testing.T) {
	got := Normalize("Suggestion: line 3 - rename variable")

	want := &model.AnalysisResponse{
		Issues: []model.Issue{},
		Suggestions: []model.Suggestion{
			{Message: "rename variable", Line: 3, Column: 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeEmptyResults(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no markers", "This code looks fine.\nNothing to report."},
		{"issue without line", "Issue: variable shadowing detected"},
		{"suggestion without line", "Suggestion: consider early returns"},
		{"line zero", "Issue: Error on line 0 - nope"},
		{"marker needs the colon", "Issue (line 4): Missing semicolon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.text)
			if got == nil {
				t.Fatal("Normalize returned nil")
			}
			if len(got.Issues) != 0 || len(got.Suggestions) != 0 {
				t.Errorf("expected empty result, got %+v", got)
			}
			if got.Issues == nil || got.Suggestions == nil {
				t.Error("expected non-nil empty slices")
			}
		})
	}
}

func TestNormalizeSeverityClassification(t *testing.T) {
	tests := []struct {
		line string
		want model.Severity
	}{
		{"Issue: Warning at line 2: unused import", model.SeverityWarning},
		{"ISSUE: line 2: style nit", model.SeverityInfo},
		{"Issue: ERROR line 9: division by zero", model.SeverityError},
		// keyword inside the message still classifies; known heuristic behavior
		{"Issue: line 4: this is not an error", model.SeverityError},
		{"Issue: line 4: error and warning both present", model.SeverityError},
	}

	for _, tt := range tests {
		got := Normalize(tt.line)
		if len(got.Issues) != 1 {
			t.Fatalf("%q: expected 1 issue, got %d", tt.line, len(got.Issues))
		}
		if got.Issues[0].Severity != tt.want {
			t.Errorf("%q: severity = %s, want %s", tt.line, got.Issues[0].Severity, tt.want)
		}
	}
}

func TestNormalizeMessageExtraction(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Issue: (line 4) Missing semicolon", "Missing semicolon"},
		{"Issue: line 7:3: unused variable x", "unused variable x"},
		{"Issue: Error at line 5 in function foo", "Error at line 5 in function foo"},
		{"Issue: Warning on line 9 - shadowed err", "Warning on line 9 - shadowed err"},
		{"Issue: Missing semicolon on line 4", "Missing semicolon on line 4"},
		{"Suggestion: line 10: use const", "use const"},
		{"Suggestion: line 2 – prefer map lookup", "prefer map lookup"},
	}

	for _, tt := range tests {
		got := Normalize(tt.line)
		var msg string
		switch {
		case len(got.Issues) == 1:
			msg = got.Issues[0].Message
		case len(got.Suggestions) == 1:
			msg = got.Suggestions[0].Message
		default:
			t.Errorf("%q: expected one record, got %+v", tt.line, got)
			continue
		}
		if msg != tt.want {
			t.Errorf("%q: message = %q, want %q", tt.line, msg, tt.want)
		}
	}
}

func TestNormalizeBothMarkersIsIssue(t *testing.T) {
	got := Normalize("Issue: line 8 warning, see suggestion: use a guard")

	if len(got.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(got.Issues))
	}
	if len(got.Suggestions) != 0 {
		t.Errorf("expected no suggestions, got %d", len(got.Suggestions))
	}
	if got.Issues[0].Severity != model.SeverityWarning {
		t.Errorf("expected warning, got %s", got.Issues[0].Severity)
	}
}

func TestNormalizeSuggestionIgnoresColumn(t *testing.T) {
	got := Normalize("Suggestion: line 6:14 - extract helper")
	if len(got.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got.Suggestions))
	}
	s := got.Suggestions[0]
	if s.Line != 6 || s.Column != 1 {
		t.Errorf("expected 6:1, got %d:%d", s.Line, s.Column)
	}
	if s.Message != "extract helper" {
		t.Errorf("unexpected message %q", s.Message)
	}
}

const sampleReply = `Here is my analysis of the code.

Issues:
Issue: Warning on line 1:10 - Unused variable
Issue: Error on line 5:22 - Missing semicolon
  (this continuation line is ignored)
Issue: line 3 - possible nil dereference

Suggestions:
Suggestion: line 3 - Consider using a more descriptive variable name
Suggestion: This function could be simplified
Suggestion: line 7 - This function could be simplified
Issue: Warning on line 1:10 - Unused variable
`

func TestNormalizeKeepsOrderAndDuplicates(t *testing.T) {
	got := Normalize(sampleReply)

	wantIssues := []model.Issue{
		{Severity: model.SeverityWarning, Message: "Unused variable", Line: 1, Column: 10},
		{Severity: model.SeverityError, Message: "Missing semicolon", Line: 5, Column: 22},
		{Severity: model.SeverityInfo, Message: "possible nil dereference", Line: 3, Column: 1},
		{Severity: model.SeverityWarning, Message: "Unused variable", Line: 1, Column: 10},
	}
	wantSuggestions := []model.Suggestion{
		{Message: "Consider using a more descriptive variable name", Line: 3, Column: 1},
		{Message: "This function could be simplified", Line: 7, Column: 1},
	}

	if diff := cmp.Diff(wantIssues, got.Issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantSuggestions, got.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	got := Normalize("Issue: Error on line 2:1 - bad\r\nSuggestion: line 4 - good\r\n")
	if len(got.Issues) != 1 || got.Issues[0].Message != "bad" {
		t.Errorf("unexpected issues: %+v", got.Issues)
	}
	if len(got.Suggestions) != 1 || got.Suggestions[0].Message != "good" {
		t.Errorf("unexpected suggestions: %+v", got.Suggestions)
	}
}

func TestNormalizeLargeInput(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20000; i++ {
		b.WriteString("Issue: Warning on line 12:4 - repeated\n")
		b.WriteString("issue: issue: issue: no position here\n")
	}

	start := time.Now()
	got := Normalize(b.String())
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Normalize took %s on large input", elapsed)
	}
	if len(got.Issues) != 20000 {
		t.Errorf("expected 20000 issues, got %d", len(got.Issues))
	}
}

func FuzzNormalize(f *testing.F) {
	f.Add("")
	f.Add(sampleReply)
	f.Add("Issue: Error on line 5:12 - null check missing")
	f.Add("Suggestion: line 99999999999999999999 - overflow")
	f.Add("issue:suggestion:line 1:")

	f.Fuzz(func(t *testing.T, text string) {
		got := Normalize(text)
		if got == nil || got.Issues == nil || got.Suggestions == nil {
			t.Fatal("Normalize must return non-nil slices")
		}
		for _, is := range got.Issues {
			if is.Line < 1 || is.Column < 1 {
				t.Errorf("non-positive position %d:%d", is.Line, is.Column)
			}
		}
		for _, s := range got.Suggestions {
			if s.Line < 1 || s.Column != 1 {
				t.Errorf("bad suggestion position %d:%d", s.Line, s.Column)
			}
		}
	})
}
