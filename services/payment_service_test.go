package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibelink-events/vibelink-api/models"
	"gorm.io/gorm"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *MockPaymentGateway, *MockNotifier, *gorm.DB) {
	db := setupServiceTestDB(t)
	gateway := NewMockPaymentGateway()
	notifier := NewMockNotifier()
	return NewPaymentService(db, gateway, notifier, nil), gateway, notifier, db
}

func TestAmountDue(t *testing.T) {
	order := &models.Order{TotalPrice: dec(1300), DepositAmount: dec(650)}

	tests := []struct {
		name        string
		paymentType string
		depositPaid bool
		balancePaid bool
		want        int64
		wantErr     error
	}{
		{"deposit", models.PaymentTypeDeposit, false, false, 650, nil},
		{"balance", models.PaymentTypeBalance, true, false, 650, nil},
		{"full", models.PaymentTypeFull, false, false, 1300, nil},
		{"deposit twice", models.PaymentTypeDeposit, true, false, 0, ErrAlreadyPaid},
		{"balance twice", models.PaymentTypeBalance, true, true, 0, ErrAlreadyPaid},
		{"full after deposit", models.PaymentTypeFull, true, false, 0, ErrAlreadyPaid},
		{"unknown type", "tip", false, false, 0, ErrInvalidPaymentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order.DepositPaid = tt.depositPaid
			order.BalancePaid = tt.balancePaid
			amount, err := AmountDue(order, tt.paymentType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, amount.Equal(dec(tt.want)), amount.String())
		})
	}
}

func TestInitializePayment(t *testing.T) {
	service, gateway, _, db := newPaymentFixture(t)
	order := createTestOrder(t, db, nil)

	session, err := service.Initialize(context.Background(), order.ID, models.PaymentTypeDeposit, "https://vibelink.test/payment/callback")
	require.NoError(t, err)

	assert.True(t, session.Amount.Equal(dec(650)))
	assert.Equal(t, models.PaymentTypeDeposit, session.PaymentType)
	assert.Contains(t, session.Reference, "VL-"+order.ShortID()+"-DEPOSIT-")
	assert.Equal(t, "https://checkout.paystack.test/"+session.Reference, session.AuthorizationURL)

	require.Len(t, gateway.Initialized, 1)
	req := gateway.Initialized[0]
	assert.Equal(t, "ama@example.com", req.Email)
	assert.Equal(t, "https://vibelink.test/payment/callback", req.CallbackURL)
	assert.Equal(t, order.ID.String(), req.Metadata["orderId"])
}

func TestInitializePayment_Errors(t *testing.T) {
	service, _, _, db := newPaymentFixture(t)
	paid := createTestOrder(t, db, func(o *models.Order) { o.DepositPaid = true })
	ctx := context.Background()

	_, err := service.Initialize(ctx, paid.ID, models.PaymentTypeDeposit, "")
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	_, err = service.Initialize(ctx, paid.ID, "tip", "")
	assert.ErrorIs(t, err, ErrInvalidPaymentType)

	_, err = service.Initialize(ctx, uuid.New(), models.PaymentTypeDeposit, "")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	offline := NewPaymentService(db, nil, nil, nil)
	_, err = offline.Initialize(ctx, paid.ID, models.PaymentTypeBalance, "")
	assert.ErrorIs(t, err, ErrPaymentGatewayOff)
}

func TestVerifyPayment(t *testing.T) {
	service, gateway, notifier, db := newPaymentFixture(t)
	order := createTestOrder(t, db, nil)
	ctx := context.Background()

	session, err := service.Initialize(ctx, order.ID, models.PaymentTypeDeposit, "")
	require.NoError(t, err)

	updated, payment, err := service.Verify(ctx, session.Reference, order.ID, models.PaymentTypeDeposit)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusDepositPaid, updated.PaymentStatus)
	assert.True(t, updated.DepositPaid)
	assert.Equal(t, session.Reference, *updated.DepositReference)
	assert.Equal(t, models.PaymentMethodPaystack, payment.PaymentMethod)
	assert.True(t, payment.Amount.Equal(dec(650)))
	assert.Equal(t, []string{FunctionPaymentConfirmation}, notifier.Kinds())

	// verifying the same reference again records nothing new
	_, again, err := service.Verify(ctx, session.Reference, order.ID, models.PaymentTypeDeposit)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, again.ID)
	assert.Len(t, notifier.Kinds(), 1)

	var count int64
	db.Model(&models.PaymentHistory{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// the balance completes the order payment
	balanceRef := PaymentReferencePrefix(&order, models.PaymentTypeBalance) + "1"
	gateway.AddTransaction(Transaction{Reference: balanceRef, Status: "success", Amount: dec(650)})
	updated, _, err = service.Verify(ctx, balanceRef, order.ID, models.PaymentTypeBalance)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFullyPaid, updated.PaymentStatus)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.True(t, stored.DepositPaid)
	assert.True(t, stored.BalancePaid)
}

func TestVerifyPayment_NotSuccessful(t *testing.T) {
	service, gateway, notifier, db := newPaymentFixture(t)
	order := createTestOrder(t, db, nil)
	prefix := PaymentReferencePrefix(&order, models.PaymentTypeDeposit)
	gateway.AddTransaction(Transaction{Reference: prefix + "failed", Status: "abandoned", Amount: dec(650)})

	_, _, err := service.Verify(context.Background(), prefix+"failed", order.ID, models.PaymentTypeDeposit)
	assert.ErrorIs(t, err, ErrPaymentNotSuccess)

	_, _, err = service.Verify(context.Background(), prefix+"unknown", order.ID, models.PaymentTypeDeposit)
	assert.ErrorIs(t, err, ErrPaymentGateway)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.False(t, stored.DepositPaid)
	assert.Empty(t, notifier.Kinds())
}

func TestVerifyPayment_ReferenceBoundToOrder(t *testing.T) {
	service, _, notifier, db := newPaymentFixture(t)
	first := createTestOrder(t, db, nil)
	second := createTestOrder(t, db, nil)
	ctx := context.Background()

	session, err := service.Initialize(ctx, first.ID, models.PaymentTypeDeposit, "")
	require.NoError(t, err)

	tests := []struct {
		name        string
		reference   string
		orderID     uuid.UUID
		paymentType string
	}{
		{"another order's reference", session.Reference, second.ID, models.PaymentTypeFull},
		{"same order, other payment type", session.Reference, first.ID, models.PaymentTypeFull},
		{"reference not issued by us", "T123456789", first.ID, models.PaymentTypeDeposit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.Verify(ctx, tt.reference, tt.orderID, tt.paymentType)
			assert.ErrorIs(t, err, ErrPaymentMismatch)
		})
	}

	// once recorded on its own order the reference still cannot settle another one
	_, _, err = service.Verify(ctx, session.Reference, first.ID, models.PaymentTypeDeposit)
	require.NoError(t, err)
	_, _, err = service.Verify(ctx, session.Reference, second.ID, models.PaymentTypeDeposit)
	assert.ErrorIs(t, err, ErrPaymentMismatch)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", second.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	assert.False(t, stored.DepositPaid)
	assert.False(t, stored.BalancePaid)
	assert.Len(t, notifier.Kinds(), 1)
}

func TestVerifyPayment_Underpaid(t *testing.T) {
	service, gateway, _, db := newPaymentFixture(t)
	order := createTestOrder(t, db, nil)

	reference := PaymentReferencePrefix(&order, models.PaymentTypeFull) + "1"
	gateway.AddTransaction(Transaction{Reference: reference, Status: "success", Amount: dec(650)})

	_, _, err := service.Verify(context.Background(), reference, order.ID, models.PaymentTypeFull)
	assert.ErrorIs(t, err, ErrPaymentMismatch)

	var count int64
	db.Model(&models.PaymentHistory{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
