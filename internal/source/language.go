// Package source holds language-aware helpers for in-memory source files:
// language detection, syntax highlighting, seed content and patch application.
package source

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/sprite-ai/codepad/internal/model"
)

const plaintextLexer = "plaintext"

// DetectLanguage returns the language tag for a file name, or
// model.DefaultLanguage when no lexer claims it.
func DetectLanguage(filename string) string {
	if filename == "" {
		return model.DefaultLanguage
	}
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		return model.DefaultLanguage
	}
	return tag(lexer)
}

// NormalizeLanguage maps a user-supplied name or alias ("ts", "golang") to
// its canonical tag. Unknown names are returned lowercased.
func NormalizeLanguage(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		return model.DefaultLanguage
	}
	if lexer := lookup(language); lexer != nil {
		return tag(lexer)
	}
	return strings.ToLower(language)
}

// ExtensionFor returns the conventional file extension for a language,
// including the leading dot. Unknown languages get ".txt".
func ExtensionFor(language string) string {
	if lexer := lookup(language); lexer != nil {
		for _, glob := range lexer.Config().Filenames {
			if strings.HasPrefix(glob, "*.") && !strings.ContainsAny(glob[2:], "*?[") {
				return glob[1:]
			}
		}
	}
	return ".txt"
}

// SeedContent is the placeholder text a new file starts with.
func SeedContent(language string) string {
	switch NormalizeLanguage(language) {
	case "typescript", "javascript", "go", "java", "c", "c++", "c#", "rust",
		"swift", "kotlin", "scala", "dart", "php":
		return "// Write your code here\n"
	case "python", "ruby", "bash", "yaml", "toml", "perl", "r", "elixir":
		return "# Write your code here\n"
	case "css", "scss":
		return "/* Write your code here */\n"
	case "html", "xml", "markdown":
		return "<!-- Write your code here -->\n"
	default:
		return ""
	}
}

func lookup(language string) chroma.Lexer {
	if language == "" {
		return nil
	}
	return lexers.Get(language)
}

func tag(lexer chroma.Lexer) string {
	return strings.ToLower(lexer.Config().Name)
}
