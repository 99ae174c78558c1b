package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeBalance = "balance"
	PaymentTypeFull    = "full"
)

const (
	PaymentMethodPaystack     = "paystack"
	PaymentMethodBankTransfer = "bank_transfer"
)

// PaymentHistory records each deposit or balance payment against an order
type PaymentHistory struct {
	Base
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentType   string          `gorm:"not null" json:"payment_type"`   // deposit, balance, full
	PaymentMethod string          `gorm:"not null" json:"payment_method"` // paystack, bank_transfer
	Reference     *string         `json:"reference"`
	Notes         *string         `json:"notes"`
	RecordedBy    *string         `json:"recorded_by"`
}

// TableName specifies the table name for the PaymentHistory model
func (PaymentHistory) TableName() string {
	return "payment_history"
}
