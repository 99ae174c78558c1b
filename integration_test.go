package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "body: %s", w.Body.String())
	return response
}

func serve(app *testApp, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, http.MethodGet, "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")
	response := decodeBody(t, w)
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "VibeLink Events API is running", response["message"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	app := setupTestApp(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := serve(app, method, "/api/v1/health", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

// TestAPIV1Prefix tests that the endpoint requires /api/v1 prefix
func TestAPIV1Prefix(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "Endpoint should require /api/v1 prefix")

	w = serve(app, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, "Endpoint should work with /api/v1 prefix")
}

func TestDatabaseStatusIntegration(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, http.MethodGet, "/api/v1/database/status", nil)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	response := decodeBody(t, w)
	assert.Equal(t, "Database connected", response["message"])
	assert.Contains(t, response["tables"], "orders")
	assert.Contains(t, response["tables"], "customer_sessions")
}

func TestProtectedRoutes(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		name          string
		path          string
		expectedError string
	}{
		{"Admin orders need an access token", "/api/v1/admin/orders", "INVALID_TOKEN"},
		{"Admin analytics need an access token", "/api/v1/admin/analytics", "INVALID_TOKEN"},
		{"Portal orders need a session", "/api/v1/portal/orders", "MISSING_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(app, http.MethodGet, tt.path, nil)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			response := decodeBody(t, w)
			assert.Equal(t, false, response["success"])
			assert.Equal(t, tt.expectedError, response["error"].(map[string]interface{})["code"])
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, http.MethodOptions, "/api/v1/orders", map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": http.MethodPost,
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	t.Run("Unknown origin", func(t *testing.T) {
		w := serve(app, http.MethodOptions, "/api/v1/orders", map[string]string{
			"Origin":                        "https://evil.example.com",
			"Access-Control-Request-Method": http.MethodPost,
		})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	app := setupTestApp(t)
	serve(app, http.MethodGet, "/api/v1/catalog", nil)

	w := serve(app, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "http_requests_total"))
}

// TestHealthEndpointHeaders tests that proper headers are set
func TestHealthEndpointHeaders(t *testing.T) {
	app := setupTestApp(t)

	w := serve(app, http.MethodGet, "/api/v1/health", nil)

	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}
