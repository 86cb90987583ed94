package source

import (
	"errors"
	"testing"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"main.tsx", "typescript"},
		{"src/App.tsx", "typescript"},
		{"index.css", "css"},
		{"main.go", "go"},
		{"script.py", "python"},
		{"notes.txt", "plaintext"},
		{"unknown.xyz123", "plaintext"},
		{"", "plaintext"},
	}

	for _, tt := range tests {
		if got := DetectLanguage(tt.name); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ts", "typescript"},
		{"TypeScript", "typescript"},
		{"golang", "go"},
		{"", "plaintext"},
		{"Brainfreeze", "brainfreeze"},
	}
	for _, tt := range tests {
		if got := NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		lang, want string
	}{
		{"typescript", ".ts"},
		{"go", ".go"},
		{"css", ".css"},
		{"plaintext", ".txt"},
		{"nope-not-a-language", ".txt"},
	}
	for _, tt := range tests {
		if got := ExtensionFor(tt.lang); got != tt.want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", tt.lang, got, tt.want)
		}
	}
}

func TestSeedContent(t *testing.T) {
	if got := SeedContent("typescript"); got != "// Write your code here\n" {
		t.Errorf("typescript seed = %q", got)
	}
	if got := SeedContent("python"); got != "# Write your code here\n" {
		t.Errorf("python seed = %q", got)
	}
	if got := SeedContent("plaintext"); got != "" {
		t.Errorf("plaintext seed = %q", got)
	}
}

func TestHighlightLines(t *testing.T) {
	text := "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}"

	highlighted := HighlightLines("go", text, "dracula")

	if len(highlighted) != 5 {
		t.Fatalf("expected 5 highlighted lines, got %d", len(highlighted))
	}
	if len(highlighted[0].Tokens) == 0 {
		t.Error("expected tokens in first line")
	}
	if highlighted[0].Plain() != "package main" {
		t.Errorf("plain text mismatch: %q", highlighted[0].Plain())
	}
	if highlighted[3].Plain() != "\tfmt.Println(\"hello\")" {
		t.Errorf("plain text mismatch: %q", highlighted[3].Plain())
	}
}

func TestHighlightLinesUnknownLanguage(t *testing.T) {
	highlighted := HighlightLines("plaintext", "some content\nmore content", "dracula")

	if len(highlighted) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(highlighted))
	}
	if highlighted[0].Plain() != "some content" {
		t.Errorf("expected plain passthrough, got %q", highlighted[0].Plain())
	}
	if highlighted[0].Tokens[0].Color != "" {
		t.Errorf("expected no color, got %q", highlighted[0].Tokens[0].Color)
	}
}

func TestHighlightLinesUnknownStyle(t *testing.T) {
	highlighted := HighlightLines("go", "package main", "no-such-style")
	if len(highlighted) != 1 || highlighted[0].Plain() != "package main" {
		t.Errorf("unexpected result %+v", highlighted)
	}
}

const original = "line one\nline two\nline three\n"

func TestApplyPatch(t *testing.T) {
	patch := `--- a/file.txt
+++ b/file.txt
@@ -1,3 +1,3 @@
 line one
-line two
+line 2
 line three
`
	got, err := ApplyPatch(original, patch)
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if want := "line one\nline 2\nline three\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApplyPatchConflict(t *testing.T) {
	patch := `--- a/file.txt
+++ b/file.txt
@@ -1,3 +1,3 @@
 line one
-line TWO
+line 2
 line three
`
	_, err := ApplyPatch(original, patch)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if !errors.Is(err, &gitdiff.Conflict{}) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestApplyPatchEmpty(t *testing.T) {
	_, err := ApplyPatch(original, "just some words\n")
	if !errors.Is(err, ErrNoChanges) {
		t.Errorf("expected ErrNoChanges, got %v", err)
	}
}

func TestApplyPatchMultipleFiles(t *testing.T) {
	patch := `--- a/a.txt
+++ b/a.txt
@@ -1 +1 @@
-a
+b
--- a/b.txt
+++ b/b.txt
@@ -1 +1 @@
-c
+d
`
	if _, err := ApplyPatch("a\n", patch); err == nil {
		t.Error("expected error for multi-file patch")
	}
}
