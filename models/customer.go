package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerOTP is a one-time login code sent to a customer's email. Only the bcrypt hash is stored.
type CustomerOTP struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"not null;index" json:"email"`
	CodeHash  string    `gorm:"column:otp_code;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the CustomerOTP model
func (CustomerOTP) TableName() string {
	return "customer_otps"
}

func (o *CustomerOTP) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// CustomerSession is an authenticated portal session. It lives until logout.
type CustomerSession struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string    `gorm:"not null;index" json:"email"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// TableName specifies the table name for the CustomerSession model
func (CustomerSession) TableName() string {
	return "customer_sessions"
}

func (s *CustomerSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.LastSeenAt.IsZero() {
		s.LastSeenAt = time.Now()
	}
	return nil
}
