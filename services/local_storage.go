package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vibelink-events/vibelink-api/utils"
)

// LocalStorage keeps images on disk and serves them through the uploads endpoint
type LocalStorage struct {
	dir string
}

// NewLocalStorage stores files under dir. It also points utils.UploadDir at dir
// so the uploads endpoint serves from the same place.
func NewLocalStorage(dir string) *LocalStorage {
	if dir == "" {
		dir = utils.UploadDir
	}
	utils.UploadDir = dir
	return &LocalStorage{dir: dir}
}

// path flattens the key into a file name since the uploads endpoint serves a single directory
func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.dir, flatKey(key))
}

func flatKey(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}

func (s *LocalStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (err error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(s.path(key))
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, body); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(ctx context.Context, key string) (string, error) {
	return utils.GetImageURL(flatKey(key)), nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
