package notesource

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/hipo/internal/genai"
	"github.com/conorfennell/hipo/internal/review"
)

// Importer bulk-creates cards from note files in a local directory or a git
// repository. Each note goes through the normal creation path, metadata
// generation included; a generation failure skips that note and the import
// continues.
type Importer struct {
	Generator genai.Generator
	Session   *review.Session
	Logger    *slog.Logger
	ReposDir  string // where git sources are checked out
}

// Result summarizes one import run.
type Result struct {
	Created    int
	Duplicates int
	Failed     int
}

// Run imports every note found under the source, which is either a local
// directory or a git URL. Notes whose content fingerprint matches an
// existing card are skipped.
func (i *Importer) Run(ctx context.Context, source string) (Result, error) {
	logger := i.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dir := source
	if IsGitSource(source) {
		reposDir := i.ReposDir
		if reposDir == "" {
			reposDir = "repos"
		}
		if err := os.MkdirAll(reposDir, 0o750); err != nil {
			return Result{}, fmt.Errorf("failed to create repos directory: %w", err)
		}
		localPath, err := gitURLToLocalPath(reposDir, source)
		if err != nil {
			return Result{}, err
		}
		if err := syncGit(source, localPath, logger); err != nil {
			return Result{}, err
		}
		dir = localPath
	}

	texts, err := collectNotes(dir)
	if err != nil {
		return Result{}, err
	}

	seen := make(map[string]bool)
	for _, card := range i.Session.Cards() {
		seen[Fingerprint(card.Content)] = true
	}

	var res Result
	for _, text := range texts {
		fp := Fingerprint(text)
		if seen[fp] {
			res.Duplicates++
			continue
		}

		card, err := i.Session.CreateCard(ctx, i.Generator, text)
		if err != nil {
			logger.Warn("skipping note, metadata generation failed", "error", err)
			res.Failed++
			continue
		}
		seen[fp] = true
		res.Created++
		logger.Info("imported note", "id", card.ID, "title", card.Title)
	}

	logger.Info("import complete",
		"source", source,
		"created", res.Created,
		"duplicates", res.Duplicates,
		"failed", res.Failed,
	)
	return res, nil
}

// collectNotes walks the directory and splits every .md and .txt file into
// individual notes.
func collectNotes(dir string) ([]string, error) {
	var notes []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Checkout metadata is not note content.
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		if !strings.HasSuffix(name, ".md") && !strings.HasSuffix(name, ".txt") {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		fileNotes, err := SplitNotes(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		notes = append(notes, fileNotes...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dir, err)
	}
	return notes, nil
}
