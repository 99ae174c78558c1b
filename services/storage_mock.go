package services

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MockStorage is an in-memory StorageBackend for testing
type MockStorage struct {
	files map[string][]byte // map of key to file content
	mu    sync.RWMutex

	// FailUploads makes every Upload return an error
	FailUploads bool
}

// NewMockStorage creates a new mock storage backend
func NewMockStorage() *MockStorage {
	return &MockStorage{
		files: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage backend for testing
func (m *MockStorage) SetAsMockForTesting() {
	SetStorage(m)
}

// Upload stores the content in memory
func (m *MockStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if m.FailUploads {
		return fmt.Errorf("mock storage: upload of %s refused", key)
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()

	return nil
}

// URL returns a fake public URL for a stored object
func (m *MockStorage) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.files[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://storage.test/reference-images/%s", key), nil
}

// Delete removes a stored object
func (m *MockStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()

	return nil
}

// GetUploadedFiles returns all uploaded files (for testing assertions)
func (m *MockStorage) GetUploadedFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		files[k] = v
	}
	return files
}

// FileExists checks if a file exists in mock storage
func (m *MockStorage) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}

// Clear removes all files from mock storage
func (m *MockStorage) Clear() {
	m.mu.Lock()
	m.files = make(map[string][]byte)
	m.mu.Unlock()
}
