package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type localStorage struct {
	baseDir string
}

// NewLocalStorage stores files on disk under baseDir, creating it if
// needed. File names are prefixed with a nanosecond timestamp so repeated
// uploads of the same file never collide.
func NewLocalStorage(baseDir string) (FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", baseDir, err)
	}
	return &localStorage{baseDir: baseDir}, nil
}

func (s *localStorage) Upload(_ context.Context, r io.Reader, folder, fileName string) (string, error) {
	dir := s.baseDir
	if folder != "" {
		dir = filepath.Join(s.baseDir, folder)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create upload folder %s: %w", folder, err)
		}
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), sanitizeFileName(fileName))

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	if folder != "" {
		return filepath.ToSlash(filepath.Join(folder, name)), nil
	}
	return name, nil
}

func (s *localStorage) Delete(_ context.Context, ref string) error {
	clean := filepath.Clean(ref)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid file reference: %s", ref)
	}

	if err := os.Remove(filepath.Join(s.baseDir, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload file: %w", err)
	}
	return nil
}

// sanitizeFileName strips any path components from a client-supplied name.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	if name == "." || name == "" {
		return "upload"
	}
	return name
}
