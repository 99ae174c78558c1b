package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibelink-events/vibelink-api/services"
)

// apiClient calls a running test server the way the frontend does
type apiClient struct {
	t       *testing.T
	baseURL string
	token   string
}

func (c *apiClient) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var envelope map[string]interface{}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

// data returns the data member of a success envelope
func (c *apiClient) data(status, expected int, envelope map[string]interface{}) map[string]interface{} {
	c.t.Helper()
	require.Equal(c.t, expected, status, "response: %v", envelope)
	require.Equal(c.t, true, envelope["success"])
	data, _ := envelope["data"].(map[string]interface{})
	return data
}

// TestServerStartup verifies the full router can be built
func TestServerStartup(t *testing.T) {
	app := setupTestApp(t)
	assert.NotNil(t, app.router, "Router should be initialized")
}

// TestCustomerJourneyAcceptance walks an order from the wizard to a paid deposit
func TestCustomerJourneyAcceptance(t *testing.T) {
	app := setupTestApp(t)
	server := httptest.NewServer(app.router)
	defer server.Close()
	client := &apiClient{t: t, baseURL: server.URL + "/api/v1"}

	// browse the catalog
	status, envelope := client.do(http.MethodGet, "/catalog", nil)
	catalog := client.data(status, http.StatusOK, envelope)
	assert.NotEmpty(t, catalog["packages"])

	// fill in the wizard
	status, envelope = client.do(http.MethodPost, "/drafts", map[string]interface{}{"event_type": "wedding"})
	draft := client.data(status, http.StatusCreated, envelope)["draft"].(map[string]interface{})
	draftID := draft["id"].(string)

	status, envelope = client.do(http.MethodPatch, "/drafts/"+draftID, map[string]interface{}{
		"event_title":      "Ama & Kofi's Wedding",
		"event_date":       "2026-12-12",
		"event_time":       "14:00",
		"event_venue":      "Labadi Beach Hotel",
		"color_palette":    "elegant-gold",
		"style_preference": "luxurious",
		"selected_package": "classic",
		"selected_add_ons": []string{"rsvp"},
		"full_name":        "Ama Mensah",
		"email":            "ama@example.com",
		"phone":            "024 123 4567",
	})
	quote := client.data(status, http.StatusOK, envelope)["quote"].(map[string]interface{})
	assert.Equal(t, "1300", quote["total"])

	// submit it
	status, envelope = client.do(http.MethodPost, "/drafts/"+draftID+"/submit", map[string]interface{}{"captcha_token": "human"})
	submitted := client.data(status, http.StatusCreated, envelope)
	order := submitted["order"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.NotEmpty(t, submitted["whatsapp_url"])

	// track it without signing in
	status, envelope = client.do(http.MethodGet, "/track?q=ama@example.com", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, envelope["data"], 1)

	// sign in to the portal with the emailed code
	status, envelope = client.do(http.MethodPost, "/portal/otp", map[string]interface{}{"email": "ama@example.com"})
	require.Equal(t, http.StatusOK, status, "response: %v", envelope)
	var code string
	for _, n := range app.notifier.Notifications() {
		if otp, ok := n.Payload.(services.CustomerOTPEmail); ok {
			code = otp.Code
		}
	}
	require.NotEmpty(t, code, "an OTP email should have been queued")

	status, envelope = client.do(http.MethodPost, "/portal/verify", map[string]interface{}{"email": "ama@example.com", "code": code})
	client.token = client.data(status, http.StatusOK, envelope)["token"].(string)

	status, envelope = client.do(http.MethodGet, "/portal/orders/"+orderID, nil)
	assert.Equal(t, "pending", client.data(status, http.StatusOK, envelope)["payment_status"])
	client.token = ""

	// pay the deposit
	status, envelope = client.do(http.MethodPost, "/payments/initialize", map[string]interface{}{
		"order_id":     orderID,
		"payment_type": "deposit",
	})
	session := client.data(status, http.StatusOK, envelope)
	assert.Equal(t, "650", session["amount"])

	status, envelope = client.do(http.MethodPost, "/payments/verify", map[string]interface{}{
		"reference":    session["reference"],
		"order_id":     orderID,
		"payment_type": "deposit",
	})
	paid := client.data(status, http.StatusOK, envelope)["order"].(map[string]interface{})
	assert.Equal(t, "deposit_paid", paid["payment_status"])
}

// TestHealthEndpointAvailability tests that the health endpoint answers quickly
func TestHealthEndpointAvailability(t *testing.T) {
	app := setupTestApp(t)

	start := time.Now()
	w := serve(app, http.MethodGet, "/api/v1/health", nil)
	duration := time.Since(start)

	assert.Equal(t, http.StatusOK, w.Code)
	// Health check should be very fast (under 100ms)
	assert.Less(t, duration, 100*time.Millisecond, "Health endpoint should respond in less than 100ms")
}
