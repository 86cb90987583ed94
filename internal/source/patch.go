package source

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// ErrNoChanges is returned when a patch parses but carries no file changes.
var ErrNoChanges = errors.New("patch contains no changes")

// ApplyPatch applies a unified diff to content and returns the result.
// The patch must describe exactly one text file; its file names are
// ignored since the target is always the given content.
func ApplyPatch(content, patch string) (string, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(patch))
	if err != nil {
		return "", fmt.Errorf("parsing patch: %w", err)
	}
	switch {
	case len(files) == 0:
		return "", ErrNoChanges
	case len(files) > 1:
		return "", fmt.Errorf("patch touches %d files, want 1", len(files))
	}

	f := files[0]
	if f.IsBinary {
		return "", fmt.Errorf("binary patches are not supported")
	}
	if len(f.TextFragments) == 0 {
		return "", ErrNoChanges
	}

	var out bytes.Buffer
	if err := gitdiff.Apply(&out, strings.NewReader(content), f); err != nil {
		return "", fmt.Errorf("applying patch: %w", err)
	}
	return out.String(), nil
}
