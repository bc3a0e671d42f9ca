package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nightstandapp/nightstand-server/internal/backup/stream"
	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

// RestoreService restores the library from backups.
type RestoreService struct {
	library Library
	logger  *slog.Logger
}

// NewRestoreService creates a RestoreService.
func NewRestoreService(library Library, logger *slog.Logger) *RestoreService {
	return &RestoreService{library: library, logger: logger}
}

// contents is a decoded archive.
type contents struct {
	manifest *Manifest
	snap     *store.Snapshot
	skipped  int
	errors   []string
}

// Restore replaces the library with the contents of the backup at path.
// Lines that fail to decode are skipped and reported.
func (s *RestoreService) Restore(ctx context.Context, path string, opts RestoreOptions) (*RestoreResult, error) {
	start := time.Now()
	s.logger.Info("starting restore", "path", path, "dry_run", opts.DryRun)

	c, err := read(path)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{
		Counts:     CountBooks(c.snap.Books),
		HasProfile: c.snap.Profile != nil,
		DryRun:     opts.DryRun,
		Skipped:    c.skipped,
		Errors:     c.errors,
	}

	if !opts.DryRun {
		if err := s.library.Restore(ctx, c.snap); err != nil {
			return nil, fmt.Errorf("restore library: %w", err)
		}
	}
	result.Duration = time.Since(start)

	s.logger.Info("restore complete",
		"books", result.Counts.Books,
		"skipped", result.Skipped,
		"dry_run", opts.DryRun,
		"duration", result.Duration)

	return result, nil
}

// Validate checks a backup without importing. Problems with the archive are
// reported in the result rather than as an error.
func (s *RestoreService) Validate(_ context.Context, path string) (*ValidationResult, error) {
	c, err := read(path)
	if err != nil {
		result := &ValidationResult{Errors: []string{err.Error()}}
		if c != nil {
			result.Manifest = c.manifest
		}
		return result, nil
	}

	result := &ValidationResult{Valid: true, Manifest: c.manifest}
	for _, e := range c.errors {
		result.Warnings = append(result.Warnings, "skipped "+e)
	}
	return result, nil
}

// read decodes the archive at path. On failure after the manifest was read,
// the partial contents are returned along with the error.
func read(path string) (*contents, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrCorruptedBackup, err)
		}
		return nil, fmt.Errorf("open backup: %w", err)
	}
	defer zr.Close()

	manifest, err := readManifest(&zr.Reader)
	if err != nil {
		if manifest != nil {
			return &contents{manifest: manifest}, err
		}
		return nil, err
	}
	c := &contents{manifest: manifest, snap: &store.Snapshot{Books: []domain.Book{}}}

	rc, err := stream.OpenFile(&zr.Reader, booksFile)
	if err != nil {
		return c, fmt.Errorf("%w: %s: %v", ErrCorruptedBackup, booksFile, err)
	}
	for book, err := range stream.NewReader[domain.Book](rc).All() {
		if err != nil {
			c.skipped++
			c.errors = append(c.errors, fmt.Sprintf("%s %v", booksFile, err))
			continue
		}
		c.snap.Books = append(c.snap.Books, book)
	}
	if got := len(c.snap.Books) + c.skipped; got != manifest.Counts.Books {
		return c, fmt.Errorf("%w: manifest lists %d books, archive has %d", ErrCorruptedBackup, manifest.Counts.Books, got)
	}

	rc, err = stream.OpenFile(&zr.Reader, profileFile)
	switch {
	case errors.Is(err, stream.ErrFileNotFound):
		if manifest.HasProfile {
			return c, fmt.Errorf("%w: missing %s", ErrCorruptedBackup, profileFile)
		}
	case err != nil:
		return c, fmt.Errorf("%w: %s: %v", ErrCorruptedBackup, profileFile, err)
	default:
		defer rc.Close()
		var p domain.UserProfile
		if err := json.NewDecoder(rc).Decode(&p); err != nil {
			return c, fmt.Errorf("%w: %s: %v", ErrCorruptedBackup, profileFile, err)
		}
		c.snap.Profile = &p
	}

	return c, nil
}

func readManifest(zr *zip.Reader) (*Manifest, error) {
	rc, err := stream.OpenFile(zr, manifestFile)
	if err != nil {
		return nil, ErrInvalidManifest
	}
	defer rc.Close()

	var m Manifest
	if err := json.NewDecoder(rc).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if m.Version != FormatVersion {
		return &m, fmt.Errorf("%w: %s (want %s)", ErrVersionMismatch, m.Version, FormatVersion)
	}
	return &m, nil
}
