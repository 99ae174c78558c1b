package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAlreadyPaid       = errors.New("this payment has already been made")
	ErrPaymentNotSuccess = errors.New("payment was not successful")
	ErrPaymentGatewayOff = errors.New("online payments are not configured")
	ErrPaymentMismatch   = errors.New("payment does not belong to this order")
)

// PaymentSession is a started online payment
type PaymentSession struct {
	InitializeResult
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"payment_type"`
}

// PaymentService takes deposit and balance payments through the payment gateway
type PaymentService struct {
	db       *gorm.DB
	gateway  PaymentGateway
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewPaymentService wires a payment service
func NewPaymentService(db *gorm.DB, gateway PaymentGateway, notifier Notifier, logger *zap.Logger) *PaymentService {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{db: db, gateway: gateway, notifier: notifier, logger: logger, now: time.Now}
}

// AmountDue returns what a payment of paymentType costs for the order
func AmountDue(order *models.Order, paymentType string) (decimal.Decimal, error) {
	switch paymentType {
	case models.PaymentTypeDeposit:
		if order.DepositPaid {
			return decimal.Zero, ErrAlreadyPaid
		}
		return order.DepositAmount, nil
	case models.PaymentTypeBalance:
		if order.BalancePaid {
			return decimal.Zero, ErrAlreadyPaid
		}
		return order.TotalPrice.Sub(order.DepositAmount), nil
	case models.PaymentTypeFull:
		if order.DepositPaid || order.BalancePaid {
			return decimal.Zero, ErrAlreadyPaid
		}
		return order.TotalPrice, nil
	}
	return decimal.Zero, ErrInvalidPaymentType
}

func (s *PaymentService) loadOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &order, nil
}

// Initialize starts a Paystack transaction for the order
func (s *PaymentService) Initialize(ctx context.Context, orderID uuid.UUID, paymentType, callbackURL string) (*PaymentSession, error) {
	if s.gateway == nil {
		return nil, ErrPaymentGatewayOff
	}
	if !models.IsPaymentType(paymentType) {
		return nil, ErrInvalidPaymentType
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	amount, err := AmountDue(order, paymentType)
	if err != nil {
		return nil, err
	}

	label := "Balance Payment"
	switch paymentType {
	case models.PaymentTypeDeposit:
		label = "50% Deposit"
	case models.PaymentTypeFull:
		label = "Full Payment"
	}

	reference := NewPaymentReference(order, paymentType, s.now())
	result, err := s.gateway.Initialize(ctx, InitializeRequest{
		Email:       order.ClientEmail,
		Amount:      amount,
		Reference:   reference,
		CallbackURL: callbackURL,
		Metadata: map[string]interface{}{
			"orderId":     order.ID.String(),
			"paymentType": paymentType,
			"custom_fields": []map[string]string{
				{"display_name": "Order ID", "variable_name": "order_id", "value": order.ShortID()},
				{"display_name": "Payment Type", "variable_name": "payment_type", "value": label},
			},
		},
	})
	if err != nil {
		s.logger.Error("Failed to initialize payment", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Payment initialized",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_type", paymentType),
		zap.String("reference", result.Reference),
	)
	return &PaymentSession{InitializeResult: *result, Amount: amount, PaymentType: paymentType}, nil
}

// Verify confirms a transaction with the gateway and records the payment on the order.
// The reference must have been issued for this order and payment type, and the
// amount paid must cover what is due. Verifying the same reference twice records it once.
func (s *PaymentService) Verify(ctx context.Context, reference string, orderID uuid.UUID, paymentType string) (*models.Order, *models.PaymentHistory, error) {
	if s.gateway == nil {
		return nil, nil, ErrPaymentGatewayOff
	}
	if !models.IsPaymentType(paymentType) {
		return nil, nil, ErrInvalidPaymentType
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	var existing models.PaymentHistory
	err = s.db.WithContext(ctx).Where("reference = ?", reference).First(&existing).Error
	if err == nil {
		if existing.OrderID != order.ID {
			s.logger.Warn("Payment reference already used by another order",
				zap.String("order_id", order.ID.String()),
				zap.String("reference", reference),
			)
			return nil, nil, ErrPaymentMismatch
		}
		return order, &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if !strings.HasPrefix(reference, PaymentReferencePrefix(order, paymentType)) {
		s.logger.Warn("Payment reference not issued for this order",
			zap.String("order_id", order.ID.String()),
			zap.String("payment_type", paymentType),
			zap.String("reference", reference),
		)
		return nil, nil, ErrPaymentMismatch
	}

	due, err := AmountDue(order, paymentType)
	if err != nil {
		return nil, nil, err
	}

	txn, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.logger.Error("Failed to verify payment", zap.String("reference", reference), zap.Error(err))
		return nil, nil, err
	}
	if !txn.Succeeded() {
		return nil, nil, ErrPaymentNotSuccess
	}
	if txn.Amount.LessThan(due) {
		s.logger.Warn("Payment amount below amount due",
			zap.String("order_id", order.ID.String()),
			zap.String("paid", txn.Amount.String()),
			zap.String("due", due.String()),
		)
		return nil, nil, ErrPaymentMismatch
	}

	recordedBy := "system"
	payment := models.PaymentHistory{
		OrderID:       order.ID,
		Amount:        txn.Amount,
		PaymentType:   paymentType,
		PaymentMethod: models.PaymentMethodPaystack,
		Reference:     &reference,
		RecordedBy:    &recordedBy,
	}
	order.ApplyPayment(paymentType, txn.Amount, reference, s.now())

	err = s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := saveOrderPayment(db, order); err != nil {
			return err
		}
		return db.Create(&payment).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	s.logger.Info("Payment verified",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_type", paymentType),
		zap.String("amount", txn.Amount.String()),
	)
	EnqueuePaymentEmails(s.notifier, order, &payment, false)
	return order, &payment, nil
}
