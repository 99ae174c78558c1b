package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Base gives a model a UUID primary key and timestamps
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random UUID when none is set
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// All returns every model, in migration order
func All() []interface{} {
	return []interface{}{
		&Order{},
		&OrderRevision{},
		&PaymentHistory{},
		&CustomerOTP{},
		&CustomerSession{},
		&ReferralCode{},
		&Referral{},
		&BlogPost{},
		&NewsletterSubscriber{},
		&Invoice{},
		&InvoiceItem{},
		&Survey{},
		&SurveyResponse{},
		&Testimonial{},
	}
}

// JSONList stores a slice as a JSON array column
type JSONList[T any] []T

// StringList is a JSON array of strings
type StringList = JSONList[string]

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *JSONList[T]) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into JSONList", value)
	}
	if len(data) == 0 {
		*l = JSONList[T]{}
		return nil
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

func (JSONList[T]) GormDataType() string {
	return "json"
}

// GormDBDataType uses jsonb on postgres and text elsewhere
func (JSONList[T]) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "TEXT"
}
