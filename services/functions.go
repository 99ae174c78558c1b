package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vibelink-events/vibelink-api/config"
)

// Edge function names used for outbound email
const (
	FunctionOrderConfirmation        = "send-order-confirmation"
	FunctionAdminNotification        = "send-admin-notification"
	FunctionCustomerOTP              = "send-customer-otp"
	FunctionStatusEmail              = "send-status-email"
	FunctionPaymentConfirmation      = "send-payment-confirmation"
	FunctionAdminPaymentNotification = "send-admin-payment-notification"
	FunctionWelcomeEmail             = "send-welcome-email"
)

// FunctionsClient invokes the hosted edge functions that send email
type FunctionsClient struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

// NewFunctionsClient creates a client for the functions endpoint in cfg
func NewFunctionsClient(cfg *config.Config) *FunctionsClient {
	return &FunctionsClient{
		baseURL: strings.TrimRight(cfg.FunctionsURL, "/"),
		key:     cfg.FunctionsKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Invoke POSTs payload as JSON to the named function
func (s *FunctionsClient) Invoke(ctx context.Context, name string, payload interface{}) error {
	if s.baseURL == "" {
		return fmt.Errorf("functions url is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s", s.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.key != "" {
		req.Header.Set("Authorization", "Bearer "+s.key)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned status %d: %s", name, resp.StatusCode, string(respBody))
	}

	return nil
}
