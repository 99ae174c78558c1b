package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/config"
	"github.com/vibelink-events/vibelink-api/models"
	"github.com/vibelink-events/vibelink-api/pricing"
)

// PaystackCurrency is the currency every transaction is charged in
const PaystackCurrency = "GHS"

var ErrPaymentGateway = errors.New("payment gateway error")

// PaymentGateway starts and confirms online payments
type PaymentGateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*Transaction, error)
}

// InitializeRequest describes a charge to start
type InitializeRequest struct {
	Email       string
	Amount      decimal.Decimal // GHS
	Reference   string
	CallbackURL string
	Metadata    map[string]interface{}
}

// InitializeResult is where the customer is sent to pay
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Transaction is a verified Paystack transaction
type Transaction struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"` // GHS
}

// Succeeded reports whether the charge went through
func (t *Transaction) Succeeded() bool {
	return t.Status == "success"
}

// PaystackClient calls the Paystack transaction API
type PaystackClient struct {
	secret     string
	baseURL    string
	httpClient *http.Client
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var paymentGatewayInstance PaymentGateway

// NewPaystackClient creates a client from the Paystack settings in cfg
func NewPaystackClient(cfg *config.Config) *PaystackClient {
	return &PaystackClient{
		secret:  cfg.PaystackSecretKey,
		baseURL: strings.TrimRight(cfg.PaystackBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// InitPaymentGateway sets the Paystack client as the package payment gateway.
// Without a secret key online payments stay disabled.
func InitPaymentGateway(cfg *config.Config) PaymentGateway {
	if cfg.PaystackSecretKey == "" {
		config.GetLogger().Warn("PAYSTACK_SECRET_KEY not set, online payments disabled")
		paymentGatewayInstance = nil
		return nil
	}
	paymentGatewayInstance = NewPaystackClient(cfg)
	return paymentGatewayInstance
}

// GetPaymentGateway returns the initialized payment gateway
func GetPaymentGateway() PaymentGateway {
	return paymentGatewayInstance
}

// SetPaymentGateway sets the payment gateway (primarily for testing)
func SetPaymentGateway(g PaymentGateway) {
	paymentGatewayInstance = g
}

// PaymentReferencePrefix is the start of every reference issued for an order payment
func PaymentReferencePrefix(order *models.Order, paymentType string) string {
	return fmt.Sprintf("VL-%s-%s-", order.ShortID(), strings.ToUpper(paymentType))
}

// NewPaymentReference builds the transaction reference for an order payment
func NewPaymentReference(order *models.Order, paymentType string, now time.Time) string {
	return fmt.Sprintf("%s%d", PaymentReferencePrefix(order, paymentType), now.UnixMilli())
}

func (p *PaystackClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if p.secret == "" {
		return fmt.Errorf("%w: PAYSTACK_SECRET_KEY not configured", ErrPaymentGateway)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrPaymentGateway, err)
	}
	if !envelope.Status {
		return fmt.Errorf("%w: %s", ErrPaymentGateway, envelope.Message)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: failed to decode data: %v", ErrPaymentGateway, err)
	}
	return nil
}

// Initialize starts a transaction. The amount is sent in pesewas.
func (p *PaystackClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body := map[string]interface{}{
		"email":        req.Email,
		"amount":       pricing.ToPesewas(req.Amount),
		"reference":    req.Reference,
		"callback_url": req.CallbackURL,
		"currency":     PaystackCurrency,
		"metadata":     req.Metadata,
	}

	var result InitializeResult
	if err := p.do(ctx, http.MethodPost, "/transaction/initialize", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Verify looks up the transaction with the given reference
func (p *PaystackClient) Verify(ctx context.Context, reference string) (*Transaction, error) {
	var data struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	}
	if err := p.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}
	return &Transaction{
		Reference: data.Reference,
		Status:    data.Status,
		Amount:    pricing.FromPesewas(data.Amount),
	}, nil
}

// MockPaymentGateway is an in-memory payment gateway for testing. Initialized
// transactions succeed on verify unless marked failed.
type MockPaymentGateway struct {
	mu           sync.Mutex
	transactions map[string]*Transaction
	Initialized  []InitializeRequest
}

// NewMockPaymentGateway creates an empty mock gateway
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{transactions: make(map[string]*Transaction)}
}

// SetAsMockForTesting sets this mock as the global payment gateway for testing
func (m *MockPaymentGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

func (m *MockPaymentGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Initialized = append(m.Initialized, req)
	m.transactions[req.Reference] = &Transaction{Reference: req.Reference, Status: "success", Amount: req.Amount}
	return &InitializeResult{
		AuthorizationURL: "https://checkout.paystack.test/" + req.Reference,
		AccessCode:       "access_" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (m *MockPaymentGateway) Verify(ctx context.Context, reference string) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[reference]
	if !ok {
		return nil, fmt.Errorf("%w: transaction reference not found", ErrPaymentGateway)
	}
	copied := *tx
	return &copied, nil
}

// AddTransaction registers a transaction the gateway will report on verify
func (m *MockPaymentGateway) AddTransaction(tx Transaction) {
	m.mu.Lock()
	m.transactions[tx.Reference] = &tx
	m.mu.Unlock()
}
