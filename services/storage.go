package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vibelink-events/vibelink-api/config"
)

// ReferenceImagePrefix is the folder reference images are stored under
const ReferenceImagePrefix = "orders"

// IsReferenceImageKey reports whether key names an object under ReferenceImagePrefix
func IsReferenceImageKey(key string) bool {
	name, ok := strings.CutPrefix(key, ReferenceImagePrefix+"/")
	if !ok || name == "" {
		return false
	}
	return !strings.Contains(name, "/") && !strings.Contains(name, "..")
}

// StorageBackend stores objects by key in a bucket or directory
type StorageBackend interface {
	// Upload writes body under key
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// URL returns an address the browser can load the object from
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the object
	Delete(ctx context.Context, key string) error
}

var storageInstance StorageBackend

// InitStorage builds the backend selected by STORAGE_DRIVER
func InitStorage(ctx context.Context, cfg *config.Config) (StorageBackend, error) {
	var (
		backend StorageBackend
		err     error
	)

	switch cfg.StorageDriver {
	case "s3":
		backend, err = NewS3Service(ctx, cfg)
	case "supabase":
		backend = NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.StorageBucket)
	case "local", "":
		backend = NewLocalStorage(cfg.UploadDir)
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	storageInstance = backend
	return backend, nil
}

// GetStorage returns the initialized storage backend
func GetStorage() StorageBackend {
	return storageInstance
}

// SetStorage sets the storage backend (primarily for testing)
func SetStorage(backend StorageBackend) {
	storageInstance = backend
}
