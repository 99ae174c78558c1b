package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// SupabaseStorage stores reference images in a public Supabase Storage bucket
type SupabaseStorage struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewSupabaseStorage creates a client for the project at supabaseURL using the service role key
func NewSupabaseStorage(supabaseURL, serviceKey, bucket string) *SupabaseStorage {
	baseURL := strings.TrimRight(supabaseURL, "/")
	return &SupabaseStorage{
		client:  storage.NewClient(baseURL+"/storage/v1", serviceKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// Upload writes the object, replacing any object with the same key
func (s *SupabaseStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, body, storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to supabase storage: %w", err)
	}
	return nil
}

// URL returns the public object URL
func (s *SupabaseStorage) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, key), nil
}

// Delete removes the object from the bucket
func (s *SupabaseStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("failed to delete from supabase storage: %w", err)
	}
	return nil
}
