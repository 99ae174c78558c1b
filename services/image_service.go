package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/vibelink-events/vibelink-api/utils"
)

// ImageService handles reference image upload, retrieval, and deletion
type ImageService interface {
	// UploadImage validates and uploads an image file, returns the storage key
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a URL for accessing an uploaded image
	GetImageURL(ctx context.Context, imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(ctx context.Context, imageKey string) error
}

// StorageImageService implements ImageService on top of a StorageBackend
type StorageImageService struct {
	storage StorageBackend
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with the given storage backend
func InitImageService(storage StorageBackend) ImageService {
	imageServiceInstance = NewImageService(storage)
	return imageServiceInstance
}

// NewImageService creates an image service without touching the package instance
func NewImageService(storage StorageBackend) *StorageImageService {
	return &StorageImageService{storage: storage}
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadImage validates and uploads an image file
func (s *StorageImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}
	contentType, _ := utils.ContentTypeFor(fileHeader.Filename)

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	key := utils.StorageKey(ReferenceImagePrefix, fileHeader.Filename)
	if err := s.storage.Upload(ctx, key, file, contentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return key, nil
}

// GetImageURL resolves a storage key to a URL
func (s *StorageImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.storage.URL(ctx, imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes an image from storage
func (s *StorageImageService) DeleteImage(ctx context.Context, imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.storage.Delete(ctx, imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// ResolveImageURLs maps storage keys to URLs, skipping keys that cannot be resolved.
// Values that are already absolute URLs are passed through.
func ResolveImageURLs(ctx context.Context, images ImageService, keys []string) []string {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
			urls = append(urls, key)
			continue
		}
		if images == nil {
			continue
		}
		url, err := images.GetImageURL(ctx, key)
		if err != nil || url == "" {
			continue
		}
		urls = append(urls, url)
	}
	return urls
}
