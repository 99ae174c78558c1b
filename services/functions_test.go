package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibelink-events/vibelink-api/config"
)

func TestFunctionsClient_Invoke(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody map[string]interface{}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewFunctionsClient(&config.Config{FunctionsURL: server.URL + "/", FunctionsKey: "anon-key"})
	err := client.Invoke(context.Background(), FunctionCustomerOTP, CustomerOTPEmail{Email: "ama@example.com", Code: "123456"})

	require.NoError(t, err)
	assert.Equal(t, "/send-customer-otp", gotPath)
	assert.Equal(t, "Bearer anon-key", gotAuth)
	assert.Equal(t, "ama@example.com", gotBody["email"])
	assert.Equal(t, "123456", gotBody["code"])
}

func TestFunctionsClient_Invoke_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("resend is down"))
	}))
	defer server.Close()

	client := NewFunctionsClient(&config.Config{FunctionsURL: server.URL})
	err := client.Invoke(context.Background(), FunctionWelcomeEmail, WelcomeEmail{Email: "a@b.com"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "resend is down")
}

func TestFunctionsClient_Invoke_NotConfigured(t *testing.T) {
	client := NewFunctionsClient(&config.Config{})
	err := client.Invoke(context.Background(), FunctionWelcomeEmail, WelcomeEmail{Email: "a@b.com"})
	assert.Error(t, err)
}
