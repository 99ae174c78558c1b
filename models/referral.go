package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRewardPercentage is the share of a referred order's total credited to the referrer
const DefaultRewardPercentage = 10

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

// ReferralCode belongs to one customer email and tracks their referral earnings
type ReferralCode struct {
	Base
	Code                string          `gorm:"uniqueIndex;not null" json:"code"`
	OwnerEmail          string          `gorm:"uniqueIndex;not null" json:"owner_email"`
	OwnerName           string          `gorm:"not null" json:"owner_name"`
	RewardPercentage    int             `gorm:"not null;default:10" json:"reward_percentage"`
	IsActive            bool            `gorm:"not null;default:true" json:"is_active"`
	TotalReferrals      int             `gorm:"not null;default:0" json:"total_referrals"`
	SuccessfulReferrals int             `gorm:"not null;default:0" json:"successful_referrals"`
	PendingReferrals    int             `gorm:"not null;default:0" json:"pending_referrals"`
	TotalEarnings       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_earnings"`
	AvailableBalance    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"available_balance"`
}

// TableName specifies the table name for the ReferralCode model
func (ReferralCode) TableName() string {
	return "referral_codes"
}

// Referral is one order placed with someone else's referral code
type Referral struct {
	Base
	ReferralCode  string          `gorm:"not null;index" json:"referral_code"`
	ReferrerEmail string          `gorm:"not null;index" json:"referrer_email"`
	ReferredEmail string          `gorm:"not null" json:"referred_email"`
	OrderID       *uuid.UUID      `gorm:"type:uuid;index" json:"order_id"`
	Status        string          `gorm:"not null;default:'pending'" json:"status"`
	RewardAmount  decimal.Decimal `gorm:"type:decimal(12,2)" json:"reward_amount"`
	CompletedAt   *time.Time      `json:"completed_at"`
}

// TableName specifies the table name for the Referral model
func (Referral) TableName() string {
	return "referrals"
}
