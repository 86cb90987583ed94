package model

import (
	"fmt"
	"strings"
)

// AnalysisResponse holds the issues and suggestions from one analysis call,
// in the order the provider reported them.
type AnalysisResponse struct {
	Issues      []Issue      `json:"issues"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Empty reports whether the analysis found nothing.
func (r *AnalysisResponse) Empty() bool {
	return len(r.Issues) == 0 && len(r.Suggestions) == 0
}

// BySeverity returns issues at or above the given severity.
func (r *AnalysisResponse) BySeverity(min Severity) []Issue {
	var result []Issue
	for _, is := range r.Issues {
		if is.Severity >= min {
			result = append(result, is)
		}
	}
	return result
}

// ByLine returns issues grouped by line number.
func (r *AnalysisResponse) ByLine() map[int][]Issue {
	m := make(map[int][]Issue)
	for _, is := range r.Issues {
		m[is.Line] = append(m[is.Line], is)
	}
	return m
}

// MaxSeverity returns the highest severity among all issues.
func (r *AnalysisResponse) MaxSeverity() Severity {
	max := SeverityInfo
	for _, is := range r.Issues {
		if is.Severity > max {
			max = is.Severity
		}
	}
	return max
}

// Summary returns a one-line summary of the analysis.
func (r *AnalysisResponse) Summary() string {
	if r.Empty() {
		return "No issues found"
	}

	counts := make(map[Severity]int)
	for _, is := range r.Issues {
		counts[is.Severity]++
	}

	var parts []string
	for _, sev := range []Severity{SeverityError, SeverityWarning, SeverityInfo} {
		if c := counts[sev]; c > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c, sev))
		}
	}
	if n := len(r.Suggestions); n > 0 {
		parts = append(parts, fmt.Sprintf("%d suggestion", n))
	}
	return strings.Join(parts, ", ")
}

func (is Issue) String() string {
	return fmt.Sprintf("[%s] %d:%d: %s", is.Severity, is.Line, is.Column, is.Message)
}

func (s Suggestion) String() string {
	return fmt.Sprintf("[suggestion] %d:%d: %s", s.Line, s.Column, s.Message)
}
