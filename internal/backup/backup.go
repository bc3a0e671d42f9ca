package backup

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/nightstandapp/nightstand-server/internal/backup/stream"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

// Extension marks backup archives in the backup directory.
const Extension = ".nightstand.zip"

// Library is the part of the library service backups need.
type Library interface {
	Export(ctx context.Context) (*store.Snapshot, error)
	Restore(ctx context.Context, snap *store.Snapshot) error
}

// BackupService manages backup creation and listing.
type BackupService struct {
	library   Library
	backupDir string
	now       func() time.Time
	logger    *slog.Logger
}

// NewBackupService creates a BackupService writing into backupDir.
func NewBackupService(library Library, backupDir string, logger *slog.Logger) *BackupService {
	return &BackupService{
		library:   library,
		backupDir: backupDir,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// Create writes a new backup. An empty outputPath picks a timestamped name
// in the backup directory.
func (s *BackupService) Create(ctx context.Context, outputPath string) (*BackupResult, error) {
	start := time.Now()

	snap, err := s.library.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("export library: %w", err)
	}

	now := s.now()
	if outputPath == "" {
		if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
			return nil, fmt.Errorf("create backup dir: %w", err)
		}
		outputPath = filepath.Join(s.backupDir, "backup-"+now.Format("2006-01-02-150405")+Extension)
	}

	manifest := newManifest(snap, now)
	checksum, size, err := writeArchive(outputPath, manifest, snap)
	if err != nil {
		return nil, err
	}

	result := &BackupResult{
		ID:       strings.TrimSuffix(filepath.Base(outputPath), Extension),
		Path:     outputPath,
		Size:     size,
		Counts:   manifest.Counts,
		Duration: time.Since(start),
		Checksum: checksum,
	}

	s.logger.Info("backup complete",
		"path", result.Path,
		"books", result.Counts.Books,
		"size", result.Size,
		"checksum", result.Checksum)

	return result, nil
}

// writeArchive writes to a temp file and renames on success.
func writeArchive(path string, manifest *Manifest, snap *store.Snapshot) (checksum string, size int64, err error) {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return "", 0, fmt.Errorf("create backup file: %w", err)
	}
	defer os.Remove(tmpPath)
	defer f.Close()

	hash := sha256.New()
	zw := zip.NewWriter(io.MultiWriter(f, hash))

	if err := writeJSON(zw, manifestFile, manifest); err != nil {
		return "", 0, err
	}

	books, err := stream.NewWriter(zw, booksFile)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", booksFile, err)
	}
	for i := range snap.Books {
		if err := books.Write(&snap.Books[i]); err != nil {
			return "", 0, fmt.Errorf("write book %s: %w", snap.Books[i].ID, err)
		}
	}

	if snap.Profile != nil {
		if err := writeJSON(zw, profileFile, snap.Profile); err != nil {
			return "", 0, err
		}
	}

	if err := zw.Close(); err != nil {
		return "", 0, fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", 0, fmt.Errorf("sync backup file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		return "", 0, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", 0, fmt.Errorf("rename backup file: %w", err)
	}

	return hex.EncodeToString(hash.Sum(nil)), info.Size(), nil
}

func writeJSON(zw *zip.Writer, name string, v any) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// List returns all backups in the backup directory, newest first.
func (s *BackupService) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			ID:        strings.TrimSuffix(entry.Name(), Extension),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	slices.SortFunc(backups, func(a, b BackupInfo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return backups, nil
}

// Get returns a backup by ID.
func (s *BackupService) Get(_ context.Context, id string) (*BackupInfo, error) {
	path := s.Path(id)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBackupNotFound
		}
		return nil, err
	}
	return &BackupInfo{ID: id, Path: path, Size: info.Size(), CreatedAt: info.ModTime()}, nil
}

// Delete removes a backup.
func (s *BackupService) Delete(ctx context.Context, id string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return os.Remove(b.Path)
}

// Path returns the file path for a backup ID.
func (s *BackupService) Path(id string) string {
	return filepath.Join(s.backupDir, filepath.Base(id)+Extension)
}
