// Package session owns the set of open files and which one is being edited.
//
// All operations are safe for concurrent use. Calls that refer to a missing
// file, or that need an active file when none is selected, are silent no-ops:
// they come from UI races such as a stale click and must not corrupt state.
package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sprite-ai/codepad/internal/model"
	"github.com/sprite-ai/codepad/internal/source"
)

// ErrPatchRejected is returned when a patch cannot be applied to the active file.
var ErrPatchRejected = errors.New("patch rejected")

// Store is the single source of truth for open files and the active file.
type Store struct {
	mu       sync.RWMutex
	files    []model.File
	activeID string
	newID    func() string
}

// NewStore returns a store seeded with the sample files, the first one active.
func NewStore() *Store {
	s := NewEmptyStore()
	s.files = SeedFiles()
	s.activeID = s.files[0].ID
	return s
}

// NewEmptyStore returns a store with no files and no active file.
func NewEmptyStore() *Store {
	return &Store{newID: uuid.NewString}
}

// Files returns a copy of all files in creation order.
func (s *Store) Files() []model.File {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.File, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Get returns the file with the given id.
func (s *Store) Get(id string) (model.File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.files[i], true
	}
	return model.File{}, false
}

// Active returns a snapshot of the active file, if any.
func (s *Store) Active() (model.File, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(s.activeID); i >= 0 {
		return s.files[i], true
	}
	return model.File{}, false
}

// ActiveID returns the active file id, or "" when nothing is selected.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Select makes id the active file. Unknown ids leave the selection unchanged.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return false
	}
	s.activeID = id
	return true
}

// UpdateActiveContent replaces the active file's content.
func (s *Store) UpdateActiveContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceActive(func(string) string { return content })
}

// ApplySuggestion appends text on a new line at the end of the active file.
func (s *Store) ApplySuggestion(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceActive(func(c string) string { return c + "\n" + text })
}

// ApplySuggestionAt inserts the suggestion's replacement (or its message when
// there is none) as a new line before sg.Line. Positions outside the file
// fall back to ApplySuggestion.
func (s *Store) ApplySuggestionAt(sg model.Suggestion) {
	text := sg.Replacement
	if text == "" {
		text = sg.Message
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceActive(func(c string) string {
		lines := strings.Split(c, "\n")
		if sg.Line < 1 || sg.Line > len(lines) {
			return c + "\n" + text
		}
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:sg.Line-1]...)
		out = append(out, text)
		out = append(out, lines[sg.Line-1:]...)
		return strings.Join(out, "\n")
	})
}

// ApplyPatch applies a unified diff to the active file. With no active
// file it does nothing and returns nil.
func (s *Store) ApplyPatch(patch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(s.activeID)
	if i < 0 {
		return nil
	}
	updated, err := source.ApplyPatch(s.files[i].Content, patch)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPatchRejected, err)
	}
	s.replaceActive(func(string) string { return updated })
	return nil
}

// CreateFile adds a new file and makes it active. An empty nameHint yields
// "untitled-<n>.<ext>". An empty language is detected from the name.
func (s *Store) CreateFile(nameHint, language string) model.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case language != "":
		language = source.NormalizeLanguage(language)
	case nameHint != "":
		language = source.DetectLanguage(nameHint)
	default:
		language = model.DefaultLanguage
	}

	name := nameHint
	if name == "" {
		name = fmt.Sprintf("untitled-%d%s", len(s.files)+1, source.ExtensionFor(language))
	}

	return s.add(model.File{
		Name:     name,
		Language: language,
		Content:  source.SeedContent(language),
	})
}

// OpenFile adds a file read from path with its content and makes it active.
// The name is the base of path and the language is detected from it.
func (s *Store) OpenFile(path, content string) model.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := filepath.Base(path)
	return s.add(model.File{
		Name:     name,
		Language: source.DetectLanguage(name),
		Content:  content,
		Path:     path,
	})
}

// add assigns f a fresh ID, appends it and makes it active.
// Caller holds s.mu.
func (s *Store) add(f model.File) model.File {
	f.ID = s.newID()
	for s.indexOf(f.ID) >= 0 {
		f.ID = s.newID()
	}
	s.files = append(s.files, f)
	s.activeID = f.ID
	return f
}

// replaceActive rebuilds the file list with the active entry's content
// transformed by fn. Slices handed out earlier are never mutated.
// Caller holds s.mu.
func (s *Store) replaceActive(fn func(string) string) {
	i := s.indexOf(s.activeID)
	if i < 0 {
		return
	}
	next := make([]model.File, len(s.files))
	copy(next, s.files)
	next[i].Content = fn(next[i].Content)
	s.files = next
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.files {
		if s.files[i].ID == id {
			return i
		}
	}
	return -1
}
