// Package analysis turns free-text model replies into position-anchored
// issues and suggestions.
//
// The parser is a best-effort heuristic. Each issue or suggestion must be
// expressed on a single line carrying an "Issue:" or "Suggestion:" marker and
// a "line N" position; anything else is ignored. Severity is classified by
// keyword presence anywhere on the line, so a message such as "not an error"
// is still reported as an error.
package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sprite-ai/codepad/internal/model"
)

// Section markers, matched case-insensitively.
const (
	issueMarker      = "issue:"
	suggestionMarker = "suggestion:"
)

// "line 5" or "line 5:12"
var posPattern = regexp.MustCompile(`(?i)line (\d+)(?::(\d+))?`)

// Normalize parses a model reply into an AnalysisResponse. It never fails;
// unparseable input yields empty slices.
func Normalize(text string) *model.AnalysisResponse {
	resp := &model.AnalysisResponse{
		Issues:      []model.Issue{},
		Suggestions: []model.Suggestion{},
	}

	// Records are never continued across lines, so no section state is kept.
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, issueMarker):
			if is, ok := parseIssue(line, lower); ok {
				resp.Issues = append(resp.Issues, is)
			}

		case strings.Contains(lower, suggestionMarker):
			if s, ok := parseSuggestion(line); ok {
				resp.Suggestions = append(resp.Suggestions, s)
			}
		}
	}

	return resp
}

func parseIssue(line, lower string) (model.Issue, bool) {
	loc := posPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return model.Issue{}, false
	}
	lineNum, ok := atoiPositive(line[loc[2]:loc[3]])
	if !ok {
		return model.Issue{}, false
	}
	col := 1
	if loc[4] >= 0 {
		if c, ok := atoiPositive(line[loc[4]:loc[5]]); ok {
			col = c
		}
	}

	return model.Issue{
		Severity: classify(lower),
		Message:  message(line, loc[0], loc[1]),
		Line:     lineNum,
		Column:   col,
	}, true
}

func parseSuggestion(line string) (model.Suggestion, bool) {
	// A column, if present, is consumed for message extraction but never
	// reported; suggestions always anchor at column 1.
	loc := posPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return model.Suggestion{}, false
	}
	lineNum, ok := atoiPositive(line[loc[2]:loc[3]])
	if !ok {
		return model.Suggestion{}, false
	}
	return model.Suggestion{
		Message: message(line, loc[0], loc[1]),
		Line:    lineNum,
		Column:  1,
	}, true
}

func classify(lower string) model.Severity {
	switch {
	case strings.Contains(lower, "error"):
		return model.SeverityError
	case strings.Contains(lower, "warning"):
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}

// message returns the text after the last colon, trimmed. A position
// reference is skipped only when it leads that text ("line 3 - msg") or
// contains the last colon itself ("line 5:12 - msg"); a mid-sentence
// position stays part of the message.
func message(line string, posStart, posEnd int) string {
	start := strings.LastIndex(line, ":") + 1
	switch {
	case posStart < start && posEnd >= start:
		start = posEnd
	case len(line)-len(strings.TrimLeft(line[start:], leadIn)) == posStart:
		start = posEnd
	}
	if msg := strings.TrimLeft(line[start:], separators); strings.TrimSpace(msg) != "" {
		return strings.TrimSpace(msg)
	}
	return lastSegment(line)
}

// leadIn may precede a leading position reference.
const leadIn = separators + "(["

const separators = " \t-–—:)]"

// lastSegment returns the text after the last colon, trimmed. The marker
// itself contains a colon so there is always at least one.
func lastSegment(line string) string {
	i := strings.LastIndex(line, ":")
	if i < 0 {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line[i+1:])
}

// atoiPositive rejects 0 and values that overflow int; positions are 1-based.
func atoiPositive(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
