package source

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightedLine is one source line split into colored tokens.
type HighlightedLine struct {
	Tokens []Token
}

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex color, empty for default
}

// Plain returns the concatenated plain text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// HighlightLines tokenises text written in language and returns one
// HighlightedLine per input line. Unknown languages pass through uncolored.
// styleName selects a chroma style; an unknown name uses the fallback.
func HighlightLines(language, text, styleName string) []HighlightedLine {
	lines := strings.Split(text, "\n")

	lexer := lexerFor(language)
	if lexer == nil {
		return plainLines(lines)
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return plainLines(lines)
	}

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	result := make([]HighlightedLine, 0, len(lines))
	current := HighlightedLine{}

	for _, token := range iterator.Tokens() {
		// tokens may span lines
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				result = append(result, current)
				current = HighlightedLine{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	// Some lexers append a trailing newline; keep the line count stable.
	if len(result) > len(lines) {
		result = result[:len(lines)]
	}
	for len(result) < len(lines) {
		result = append(result, HighlightedLine{})
	}

	return result
}

func plainLines(lines []string) []HighlightedLine {
	result := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		result[i] = HighlightedLine{Tokens: []Token{{Text: line}}}
	}
	return result
}

func lexerFor(language string) chroma.Lexer {
	lexer := lookup(language)
	if lexer == nil || lexer.Config().Name == plaintextLexer {
		return nil
	}
	return chroma.Coalesce(lexer)
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
