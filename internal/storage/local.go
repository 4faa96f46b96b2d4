// Package storage keeps poster files on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const tempPrefix = ".upload-"

type LocalFileStore struct {
	logger *slog.Logger
}

func NewLocalFileStore(logger *slog.Logger) *LocalFileStore {
	return &LocalFileStore{
		logger: logger,
	}
}

var _ domain.FileStore = (*LocalFileStore)(nil)

// Store writes the upload under its declared name inside dir. The payload is written to
// a temporary file first and then hard linked into place, so a concurrent writer of the
// same name either wins the link or gets ErrFileWriteConflict, and readers never observe
// a partially written blob.
func (s *LocalFileStore) Store(ctx context.Context, dir string, upload domain.Upload) (name string, err error) {
	name = upload.Name

	defer func() {
		if err != nil {
			s.logger.ErrorContext(ctx, "blob store failed", "dir", dir, "name", name, "error", err)
		} else {
			s.logger.DebugContext(ctx, "blob stored", "dir", dir, "name", name, "size", upload.Size)
		}
	}()

	if err := validateName(name); err != nil {
		return "", err
	}

	if upload.Content == nil {
		return "", domain.ErrFileMissing
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir all: %w", err)
	}

	tmpPath := filepath.Join(dir, tempPrefix+uuid.NewString())

	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, upload.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("sync: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close: %w", err)
	}

	err = os.Link(tmpPath, filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrFileWriteConflict, name)
		}

		return "", fmt.Errorf("link: %w", err)
	}

	return name, nil
}

// Open returns the blob for reading. Callers must close it.
func (s *LocalFileStore) Open(ctx context.Context, dir, name string) (io.ReadCloser, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, name)
		}

		return nil, fmt.Errorf("open: %w", err)
	}

	return f, nil
}

func (s *LocalFileStore) Delete(ctx context.Context, dir, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrFileNotFound, name)
		}

		return fmt.Errorf("remove: %w", err)
	}

	s.logger.DebugContext(ctx, "blob deleted", "dir", dir, "name", name)

	return nil
}

func (s *LocalFileStore) Exists(ctx context.Context, dir, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	_, err := os.Stat(filepath.Join(dir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat: %w", err)
	}
}

// List returns the blobs in dir, skipping subdirectories and in-flight uploads. A missing
// directory holds no blobs.
func (s *LocalFileStore) List(ctx context.Context, dir string) ([]domain.BlobInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.BlobInfo{}, nil
		}

		return nil, fmt.Errorf("read dir: %w", err)
	}

	blobs := make([]domain.BlobInfo, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}

		blobs = append(blobs, domain.BlobInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return blobs, nil
}

// validateName rejects anything that is not a plain file name, so a blob can never be
// read or written outside of its directory.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name ||
		strings.HasPrefix(name, tempPrefix) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFileName, name)
	}

	return nil
}
