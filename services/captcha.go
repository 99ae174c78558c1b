package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vibelink-events/vibelink-api/config"
	"go.uber.org/zap"
)

const (
	// RecaptchaVerifyURL is Google's reCAPTCHA siteverify endpoint
	RecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

	// CaptchaActionSubmitOrder is the action the order form signs its token for
	CaptchaActionSubmitOrder = "submit_order"

	// MinCaptchaScore is the lowest reCAPTCHA v3 score accepted as human
	MinCaptchaScore = 0.5
)

var (
	ErrCaptchaMissing      = errors.New("captcha token is required")
	ErrCaptchaFailed       = errors.New("captcha verification failed")
	ErrCaptchaActionFailed = errors.New("captcha action mismatch")
	ErrCaptchaLowScore     = errors.New("suspicious activity detected")
)

// CaptchaVerifier checks a bot-protection token before an order is accepted
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, action string) error
}

// RecaptchaVerifier verifies reCAPTCHA v3 tokens with Google
type RecaptchaVerifier struct {
	secret     string
	verifyURL  string
	httpClient *http.Client
}

type recaptchaResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

var captchaInstance CaptchaVerifier

// NewRecaptchaVerifier creates a verifier for the given secret key
func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		secret:    secret,
		verifyURL: RecaptchaVerifyURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// InitCaptcha picks the verifier for cfg. Without a secret outside production
// every token is accepted.
func InitCaptcha(cfg *config.Config) CaptchaVerifier {
	if cfg.RecaptchaSecretKey == "" && !cfg.IsProduction() {
		config.GetLogger().Warn("RECAPTCHA_SECRET_KEY not set, captcha verification disabled")
		captchaInstance = NoopCaptcha{}
	} else {
		captchaInstance = NewRecaptchaVerifier(cfg.RecaptchaSecretKey)
	}
	return captchaInstance
}

// GetCaptcha returns the initialized captcha verifier
func GetCaptcha() CaptchaVerifier {
	return captchaInstance
}

// SetCaptcha sets the captcha verifier (primarily for testing)
func SetCaptcha(v CaptchaVerifier) {
	captchaInstance = v
}

// Verify checks the token succeeded, was issued for action, and scored at least MinCaptchaScore
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, action string) error {
	if token == "" {
		return ErrCaptchaMissing
	}
	if action == "" {
		action = CaptchaActionSubmitOrder
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call siteverify: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var result recaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode siteverify response: %w", err)
	}

	logger := config.GetLogger()
	if !result.Success {
		logger.Warn("Captcha verification failed", zap.Strings("error_codes", result.ErrorCodes))
		return ErrCaptchaFailed
	}
	if result.Action != "" && result.Action != action {
		logger.Warn("Captcha action mismatch", zap.String("got", result.Action), zap.String("want", action))
		return ErrCaptchaActionFailed
	}
	if result.Score < MinCaptchaScore {
		logger.Warn("Captcha score too low", zap.Float64("score", result.Score))
		return ErrCaptchaLowScore
	}

	return nil
}

// NoopCaptcha accepts every token
type NoopCaptcha struct{}

func (NoopCaptcha) Verify(ctx context.Context, token, action string) error {
	return nil
}

// MockCaptcha accepts only the configured token. Used in tests.
type MockCaptcha struct {
	ValidToken string
	Calls      int
}

// SetAsMockForTesting sets this mock as the global captcha verifier for testing
func (m *MockCaptcha) SetAsMockForTesting() {
	SetCaptcha(m)
}

func (m *MockCaptcha) Verify(ctx context.Context, token, action string) error {
	m.Calls++
	if token == "" {
		return ErrCaptchaMissing
	}
	if token != m.ValidToken {
		return ErrCaptchaFailed
	}
	return nil
}
