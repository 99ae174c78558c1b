package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibelink-events/vibelink-api/utils"
)

// useUploadDir points the uploads endpoint at a temporary directory for one test
func useUploadDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	previous := utils.UploadDir
	utils.UploadDir = tmpDir
	t.Cleanup(func() { utils.UploadDir = previous })
	return tmpDir
}

func uploadsRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/uploads/:filename", GetUploadedImage)
	return router
}

func TestGetUploadedImage_Success(t *testing.T) {
	tmpDir := useUploadDir(t)

	testContent := []byte("fake PNG content")
	testFilename := "orders_3f2a9c1e.png"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, testFilename), testContent, 0644))

	req := httptest.NewRequest("GET", "/uploads/"+testFilename, nil)
	w := httptest.NewRecorder()
	uploadsRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	assert.Equal(t, testContent, w.Body.Bytes())
}

func TestGetUploadedImage_ContentTypes(t *testing.T) {
	tmpDir := useUploadDir(t)
	router := uploadsRouter()

	testCases := []struct {
		filename    string
		contentType string
	}{
		{"palette.jpg", "image/jpeg"},
		{"venue.jpeg", "image/jpeg"},
		{"flowers.webp", "image/webp"},
		{"banner.PNG", "image/png"},
		{"cake.JPG", "image/jpeg"},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			content := []byte("content of " + tc.filename)
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, tc.filename), content, 0644))

			req := httptest.NewRequest("GET", "/uploads/"+tc.filename, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, content, w.Body.Bytes())
		})
	}
}

func TestGetUploadedImage_FileNotFound(t *testing.T) {
	useUploadDir(t)

	req := httptest.NewRequest("GET", "/uploads/nonexistent.png", nil)
	w := httptest.NewRecorder()
	uploadsRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_NOT_FOUND")
	assert.Contains(t, w.Body.String(), "Image not found")
}

func TestGetUploadedImage_EmptyFilename(t *testing.T) {
	req := httptest.NewRequest("GET", "/uploads/", nil)
	w := httptest.NewRecorder()
	uploadsRouter().ServeHTTP(w, req)

	// Gin will handle this as a 404 because route doesn't match
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUploadedImage_DirectoryTraversal(t *testing.T) {
	useUploadDir(t)
	router := uploadsRouter()

	testCases := []struct {
		name           string
		filename       string
		expectedStatus int
		expectedError  string
	}{
		// slashes split the path, so these never reach the handler
		{"Parent directory traversal", "../../../etc/passwd", http.StatusNotFound, ""},
		{"Forward slash in filename", "path/to/file.png", http.StatusNotFound, ""},

		{"Backslash in filename", "path\\to\\file.png", http.StatusBadRequest, "INVALID_FILENAME"},
		{"Dots in filename", "..file.png", http.StatusBadRequest, "INVALID_FILENAME"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/uploads/"+tc.filename, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedError != "" {
				assert.Contains(t, w.Body.String(), tc.expectedError)
			}
		})
	}
}

func TestGetUploadedImage_InvalidFileType(t *testing.T) {
	router := uploadsRouter()

	testCases := []struct {
		name     string
		filename string
	}{
		{"GIF file", "image.gif"},
		{"SVG file", "image.svg"},
		{"No extension", "image"},
		{"Text file", "document.txt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/uploads/"+tc.filename, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_FILE_TYPE")
			assert.Contains(t, w.Body.String(), "Only PNG, JPG and WEBP images are supported")
		})
	}
}
