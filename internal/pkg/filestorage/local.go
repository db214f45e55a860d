package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// WriteFunc streams generated content into storage.
type WriteFunc func(w io.Writer) error

// LocalStorage saves generated files (histogram images) to a directory
// served under baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes a file under name and returns the URL it is served at.
// Content goes to a temporary file first and is renamed into place, so a
// concurrent reader never sees a half-written file.
func (ls *LocalStorage) Save(name string, write WriteFunc) (string, error) {
	name = filepath.Base(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	tmp, err := os.CreateTemp(ls.basePath, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	dstPath := filepath.Join(ls.basePath, name)
	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	logger.Debug().Str("path", dstPath).Msg("Generated file saved")
	return ls.URL(name), nil
}

// URL returns the public URL of a stored file. Without a base URL the
// bare file name is returned, for pages saved next to the file.
func (ls *LocalStorage) URL(name string) string {
	if ls.baseURL == "" {
		return filepath.Base(name)
	}
	return ls.baseURL + "/" + filepath.Base(name)
}

// Path returns the filesystem path of a stored file.
func (ls *LocalStorage) Path(name string) string {
	return filepath.Join(ls.basePath, filepath.Base(name))
}
