package session

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/codepad/internal/model"
)

func TestNewStoreSeeds(t *testing.T) {
	s := NewStore()

	files := s.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "main.tsx", files[0].Name)
	assert.Equal(t, "src/index.css", files[2].Path)

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "1", active.ID)
}

func TestNewEmptyStore(t *testing.T) {
	s := NewEmptyStore()
	assert.Empty(t, s.Files())
	_, ok := s.Active()
	assert.False(t, ok)
	assert.Equal(t, "", s.ActiveID())
}

func TestSelect(t *testing.T) {
	s := NewStore()

	for _, f := range s.Files() {
		assert.True(t, s.Select(f.ID))
		active, ok := s.Active()
		require.True(t, ok)
		assert.Equal(t, f, active)
	}

	before, _ := s.Active()
	assert.False(t, s.Select("does-not-exist"))
	assert.False(t, s.Select(""))
	after, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, before.ID, after.ID, "unknown id must not change the selection")
}

func TestUpdateActiveContentTouchesOnlyActive(t *testing.T) {
	s := NewStore()
	s.Select("2")
	before := s.Files()

	s.UpdateActiveContent("replaced")

	after := s.Files()
	require.Len(t, after, len(before))
	for i := range before {
		if before[i].ID == "2" {
			assert.Equal(t, "replaced", after[i].Content)
			want := before[i]
			want.Content = "replaced"
			assert.Equal(t, want, after[i])
			continue
		}
		if diff := cmp.Diff(before[i], after[i]); diff != "" {
			t.Errorf("file %s changed (-before +after):\n%s", before[i].ID, diff)
		}
	}
}

func TestUpdateActiveContentNoActive(t *testing.T) {
	s := NewEmptyStore()
	s.UpdateActiveContent("x")
	assert.Empty(t, s.Files())
}

func TestFilesSnapshotIsStable(t *testing.T) {
	s := NewStore()
	snap := s.Files()
	s.UpdateActiveContent("changed")
	assert.NotEqual(t, "changed", snap[0].Content)

	snap[1].Content = "mutated by caller"
	f, _ := s.Get("2")
	assert.NotEqual(t, "mutated by caller", f.Content)
}

func TestApplySuggestion(t *testing.T) {
	s := NewStore()
	s.Select("3")
	c, _ := s.Active()

	s.ApplySuggestion("// consider dark mode")

	got, _ := s.Active()
	assert.Equal(t, c.Content+"\n// consider dark mode", got.Content)
}

func TestApplySuggestionNoActive(t *testing.T) {
	s := NewEmptyStore()
	s.ApplySuggestion("text")
	assert.Empty(t, s.Files())
}

func TestApplySuggestionAt(t *testing.T) {
	tests := []struct {
		name    string
		content string
		sg      model.Suggestion
		want    string
	}{
		{
			name:    "inserts before line",
			content: "a\nb\nc",
			sg:      model.Suggestion{Message: "msg", Replacement: "X", Line: 2, Column: 1},
			want:    "a\nX\nb\nc",
		},
		{
			name:    "first line",
			content: "a\nb",
			sg:      model.Suggestion{Replacement: "X", Line: 1, Column: 1},
			want:    "X\na\nb",
		},
		{
			name:    "last line",
			content: "a\nb",
			sg:      model.Suggestion{Replacement: "X", Line: 2, Column: 1},
			want:    "a\nX\nb",
		},
		{
			name:    "message when no replacement",
			content: "a\nb",
			sg:      model.Suggestion{Message: "use const", Line: 2, Column: 1},
			want:    "a\nuse const\nb",
		},
		{
			name:    "past end falls back to append",
			content: "a\nb",
			sg:      model.Suggestion{Replacement: "X", Line: 10, Column: 1},
			want:    "a\nb\nX",
		},
		{
			name:    "zero line falls back to append",
			content: "a",
			sg:      model.Suggestion{Replacement: "X"},
			want:    "a\nX",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEmptyStore()
			s.CreateFile("f.txt", "")
			s.UpdateActiveContent(tt.content)

			s.ApplySuggestionAt(tt.sg)

			got, _ := s.Active()
			assert.Equal(t, tt.want, got.Content)
		})
	}
}

func TestApplyPatch(t *testing.T) {
	s := NewEmptyStore()
	s.CreateFile("notes.txt", "")
	s.UpdateActiveContent("one\ntwo\n")

	err := s.ApplyPatch("--- a/notes.txt\n+++ b/notes.txt\n@@ -1,2 +1,2 @@\n one\n-two\n+2\n")
	require.NoError(t, err)
	got, _ := s.Active()
	assert.Equal(t, "one\n2\n", got.Content)

	err = s.ApplyPatch("--- a/notes.txt\n+++ b/notes.txt\n@@ -1,2 +1,2 @@\n one\n-three\n+3\n")
	assert.True(t, errors.Is(err, ErrPatchRejected), "got %v", err)
	got, _ = s.Active()
	assert.Equal(t, "one\n2\n", got.Content, "rejected patch must not change content")
}

func TestApplyPatchNoActive(t *testing.T) {
	s := NewEmptyStore()
	assert.NoError(t, s.ApplyPatch("garbage"))
}

func TestOpenFile(t *testing.T) {
	s := NewStore()
	f := s.OpenFile("/src/app/main.go", "package main\n")

	assert.Equal(t, "main.go", f.Name)
	assert.Equal(t, "go", f.Language)
	assert.Equal(t, "/src/app/main.go", f.Path)
	assert.Equal(t, "package main\n", f.Content)
	assert.Equal(t, f.ID, s.ActiveID())

	got, ok := s.Get(f.ID)
	require.True(t, ok)
	assert.Equal(t, f, got)
	assert.Equal(t, 4, s.Len())
}

func TestCreateFile(t *testing.T) {
	s := NewStore()
	existing := map[string]bool{}
	for _, f := range s.Files() {
		existing[f.ID] = true
	}

	f := s.CreateFile("", "")

	assert.False(t, existing[f.ID], "id %q collides with an existing file", f.ID)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, "untitled-4.txt", f.Name)
	assert.Equal(t, model.DefaultLanguage, f.Language)
	assert.Equal(t, "", f.Content)

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, f, active)

	files := s.Files()
	assert.Equal(t, f.ID, files[len(files)-1].ID, "new file is appended")

	s.Select("1")
	assert.True(t, s.Select(f.ID), "new id must be selectable")
}

func TestCreateFileLanguage(t *testing.T) {
	tests := []struct {
		name, hint, lang string
		wantName         string
		wantLang         string
		wantContent      string
	}{
		{"detected from hint", "util.ts", "", "util.ts", "typescript", "// Write your code here\n"},
		{"explicit wins", "Makefile.notes", "python", "Makefile.notes", "python", "# Write your code here\n"},
		{"alias normalized", "", "ts", "untitled-1.ts", "typescript", "// Write your code here\n"},
		{"unknown hint", "README.zzz", "", "README.zzz", model.DefaultLanguage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewEmptyStore()
			f := s.CreateFile(tt.hint, tt.lang)
			assert.Equal(t, tt.wantName, f.Name)
			assert.Equal(t, tt.wantLang, f.Language)
			assert.Equal(t, tt.wantContent, f.Content)
		})
	}
}

func TestCreateFileRetriesOnCollision(t *testing.T) {
	s := NewStore()
	ids := []string{"1", "2", "fresh"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	f := s.CreateFile("", "")
	assert.Equal(t, "fresh", f.ID)
}

func TestCreateFileUniqueIDs(t *testing.T) {
	s := NewEmptyStore()
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		f := s.CreateFile("", "")
		require.False(t, seen[f.ID], "duplicate id %s", f.ID)
		seen[f.ID] = true
	}
}

// Random operation sequences must keep the active id valid.
func TestStoreInvariantUnderRandomOps(t *testing.T) {
	s := NewStore()
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		switch r.Intn(6) {
		case 0:
			files := s.Files()
			s.Select(files[r.Intn(len(files))].ID)
		case 1:
			s.Select(fmt.Sprintf("bogus-%d", i))
		case 2:
			s.UpdateActiveContent(fmt.Sprintf("content %d", i))
		case 3:
			s.ApplySuggestion("s")
		case 4:
			s.ApplySuggestionAt(model.Suggestion{Message: "m", Line: r.Intn(5)})
		case 5:
			s.CreateFile("", "")
		}

		id := s.ActiveID()
		if id == "" {
			continue
		}
		_, ok := s.Get(id)
		require.True(t, ok, "active id %q missing after op %d", id, i)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch j % 4 {
				case 0:
					s.ApplySuggestion("x")
				case 1:
					s.Select("2")
				case 2:
					s.Files()
				case 3:
					s.Active()
				}
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for _, f := range s.Files() {
		total += countSuffix(f.Content, "\nx")
	}
	assert.Equal(t, 8*25, total, "every append must land exactly once")
}

func countSuffix(s, suffix string) int {
	n := 0
	for len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix {
		n++
		s = s[:len(s)-len(suffix)]
	}
	return n
}
