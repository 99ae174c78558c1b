package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/pricing"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusDraftReady = "draft_ready"
	OrderStatusRevision   = "revision"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists every order status in lifecycle order
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusDraftReady,
	OrderStatusRevision,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

const (
	PaymentStatusPending     = "pending"
	PaymentStatusDepositPaid = "deposit_paid"
	PaymentStatusFullyPaid   = "fully_paid"
)

var PaymentStatuses = []string{PaymentStatusPending, PaymentStatusDepositPaid, PaymentStatusFullyPaid}

// IsOrderStatus reports whether s is a known order status
func IsOrderStatus(s string) bool {
	return contains(OrderStatuses, s)
}

// IsPaymentStatus reports whether s is a known payment status
func IsPaymentStatus(s string) bool {
	return contains(PaymentStatuses, s)
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// Order is a submitted invitation order: a snapshot of the wizard form plus
// its lifecycle and payment state
type Order struct {
	Base

	EventType      string `gorm:"not null;index" json:"event_type"`
	EventTitle     string `gorm:"not null" json:"event_title"`
	EventDate      string `gorm:"index" json:"event_date"` // YYYY-MM-DD
	EventTime      string `json:"event_time"`
	VenueName      string `json:"venue_name"`
	VenueAddress   string `json:"venue_address"`
	CelebrantNames string `json:"celebrant_names"`
	SpecialMessage string `gorm:"type:text" json:"special_message"`

	ColorPalette    string     `json:"color_palette"`
	CustomColors    StringList `json:"custom_colors"`
	StylePreference string     `json:"style_preference"`
	ReferenceImages StringList `json:"reference_images"`
	SpecialRequests string     `gorm:"type:text" json:"special_requests"`

	PackageID    string                     `gorm:"not null;index" json:"package_id"`
	PackageName  string                     `gorm:"not null" json:"package_name"`
	PackagePrice decimal.Decimal            `gorm:"type:decimal(12,2);not null" json:"package_price"`
	AddOns       JSONList[pricing.LineItem] `json:"add_ons"`

	DeliveryType          string `gorm:"not null;default:'standard'" json:"delivery_type"`
	PreferredDeliveryDate string `json:"preferred_delivery_date"`

	ClientName     string `gorm:"not null" json:"client_name"`
	ClientEmail    string `gorm:"not null;index" json:"client_email"`
	ClientPhone    string `gorm:"not null" json:"client_phone"`
	ClientWhatsApp string `json:"client_whatsapp"`
	HearAboutUs    string `json:"hear_about_us"`
	ReferralCode   string `gorm:"index" json:"referral_code,omitempty"`

	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	DepositAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"deposit_amount"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"balance_amount"`

	OrderStatus   string `gorm:"not null;default:'pending';index" json:"order_status"`
	PaymentStatus string `gorm:"not null;default:'pending'" json:"payment_status"`

	DepositPaid      bool       `gorm:"not null;default:false" json:"deposit_paid"`
	DepositPaidAt    *time.Time `json:"deposit_paid_at"`
	DepositReference *string    `json:"deposit_reference"`
	BalancePaid      bool       `gorm:"not null;default:false" json:"balance_paid"`
	BalancePaidAt    *time.Time `json:"balance_paid_at"`
	BalanceReference *string    `json:"balance_reference"`

	Revisions []OrderRevision  `gorm:"foreignKey:OrderID" json:"revisions,omitempty"`
	Payments  []PaymentHistory `gorm:"foreignKey:OrderID" json:"payments,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ShortID is the upper-cased first eight characters of the order id, as shown to customers
func (o *Order) ShortID() string {
	return strings.ToUpper(o.ID.String()[:8])
}

// SetPaymentStatus sets the payment status and syncs the paid flags and timestamps with it
func (o *Order) SetPaymentStatus(status string, now time.Time) {
	o.PaymentStatus = status
	switch status {
	case PaymentStatusFullyPaid:
		o.DepositPaid = true
		o.BalancePaid = true
		o.DepositPaidAt = &now
		o.BalancePaidAt = &now
	case PaymentStatusDepositPaid:
		o.DepositPaid = true
		o.DepositPaidAt = &now
		o.BalancePaid = false
		o.BalancePaidAt = nil
	case PaymentStatusPending:
		o.DepositPaid = false
		o.DepositPaidAt = nil
		o.BalancePaid = false
		o.BalancePaidAt = nil
	}
}

// ApplyPayment marks a deposit, balance or full payment as received
func (o *Order) ApplyPayment(paymentType string, amount decimal.Decimal, reference string, now time.Time) {
	ref := reference
	switch paymentType {
	case PaymentTypeDeposit:
		o.DepositPaid = true
		o.DepositPaidAt = &now
		o.DepositReference = &ref
		o.DepositAmount = amount
		if o.BalancePaid {
			o.PaymentStatus = PaymentStatusFullyPaid
		} else {
			o.PaymentStatus = PaymentStatusDepositPaid
		}
	case PaymentTypeBalance:
		o.BalancePaid = true
		o.BalancePaidAt = &now
		o.BalanceReference = &ref
		o.BalanceAmount = amount
		o.PaymentStatus = PaymentStatusFullyPaid
	case PaymentTypeFull:
		o.DepositPaid = true
		o.DepositPaidAt = &now
		o.DepositReference = &ref
		o.DepositAmount = amount
		o.BalancePaid = true
		o.BalancePaidAt = &now
		o.BalanceReference = &ref
		o.BalanceAmount = decimal.Zero
		o.PaymentStatus = PaymentStatusFullyPaid
	}
}

// IsPaymentType reports whether s is deposit, balance or full
func IsPaymentType(s string) bool {
	return s == PaymentTypeDeposit || s == PaymentTypeBalance || s == PaymentTypeFull
}
