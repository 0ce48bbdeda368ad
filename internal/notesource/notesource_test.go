package notesource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitNotes(t *testing.T) {
	t.Run("splits on separator lines", func(t *testing.T) {
		input := "First note\nwith two lines\n---\nSecond note\n---\nThird"
		notes, err := SplitNotes(strings.NewReader(input))
		if err != nil {
			t.Fatalf("SplitNotes returned error: %v", err)
		}
		if len(notes) != 3 {
			t.Fatalf("Expected 3 notes, but got %d", len(notes))
		}
		if notes[0] != "First note\nwith two lines" {
			t.Errorf("Expected first note to keep internal newlines, but got %q", notes[0])
		}
	})

	t.Run("file without separators is one note", func(t *testing.T) {
		notes, err := SplitNotes(strings.NewReader("just one note"))
		if err != nil {
			t.Fatalf("SplitNotes returned error: %v", err)
		}
		if len(notes) != 1 || notes[0] != "just one note" {
			t.Errorf("Expected a single note, but got %v", notes)
		}
	})

	t.Run("blank blocks are dropped", func(t *testing.T) {
		input := "---\n\n---\nreal note\n---\n   \n"
		notes, err := SplitNotes(strings.NewReader(input))
		if err != nil {
			t.Fatalf("SplitNotes returned error: %v", err)
		}
		if len(notes) != 1 || notes[0] != "real note" {
			t.Errorf("Expected only the real note, but got %v", notes)
		}
	})
}

func TestFingerprint(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		if Fingerprint("Some note") != Fingerprint("Some note") {
			t.Error("Expected identical notes to share a fingerprint")
		}
	})

	t.Run("normalization collapses trivial differences", func(t *testing.T) {
		if Fingerprint("  Some Note \r\n") != Fingerprint("some note") {
			t.Error("Expected normalized variants to share a fingerprint")
		}
	})

	t.Run("different notes differ", func(t *testing.T) {
		if Fingerprint("note one") == Fingerprint("note two") {
			t.Error("Expected different notes to have different fingerprints")
		}
	})
}

func TestCollectNotes(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	writeFile("a.md", "note one\n---\nnote two")
	writeFile("b.txt", "note three")
	writeFile("ignored.pdf", "binary stuff")

	notes, err := collectNotes(dir)
	if err != nil {
		t.Fatalf("collectNotes returned error: %v", err)
	}
	if len(notes) != 3 {
		t.Errorf("Expected 3 notes from .md and .txt files, but got %d", len(notes))
	}
}

func TestIsGitSource(t *testing.T) {
	gitSources := []string{
		"https://github.com/example/notes.git",
		"https://github.com/example/notes",
		"git@github.com:example/notes.git",
	}
	for _, s := range gitSources {
		if !IsGitSource(s) {
			t.Errorf("Expected %q to be detected as a git source", s)
		}
	}
	if IsGitSource("/home/me/notes") {
		t.Error("Expected a local path not to be detected as a git source")
	}
}

func TestGitURLToLocalPath(t *testing.T) {
	t.Run("https url", func(t *testing.T) {
		path, err := gitURLToLocalPath("repos", "https://github.com/example/notes.git")
		if err != nil {
			t.Fatalf("gitURLToLocalPath returned error: %v", err)
		}
		want := filepath.Join("repos", "github.com", "example", "notes")
		if path != want {
			t.Errorf("Expected %q, but got %q", want, path)
		}
	})

	t.Run("ssh remote", func(t *testing.T) {
		path, err := gitURLToLocalPath("repos", "git@github.com:example/notes.git")
		if err != nil {
			t.Fatalf("gitURLToLocalPath returned error: %v", err)
		}
		want := filepath.Join("repos", "github.com", "example/notes")
		if path != want {
			t.Errorf("Expected %q, but got %q", want, path)
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		if _, err := gitURLToLocalPath("repos", "not a url"); err == nil {
			t.Error("Expected an error for an unparseable source")
		}
	})
}
