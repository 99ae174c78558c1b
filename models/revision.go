package models

import "github.com/google/uuid"

const (
	RevisionStatusPending    = "pending"
	RevisionStatusInProgress = "in_progress"
	RevisionStatusCompleted  = "completed"
)

// OrderRevision is a customer's change request on a delivered draft
type OrderRevision struct {
	Base
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	RequestText   string    `gorm:"type:text;not null" json:"request_text"`
	Status        string    `gorm:"not null;default:'pending'" json:"status"` // pending, in_progress, completed
	AdminResponse *string   `gorm:"type:text" json:"admin_response"`
}

// TableName specifies the table name for the OrderRevision model
func (OrderRevision) TableName() string {
	return "order_revisions"
}

// IsOpen reports whether the revision still awaits work
func (r *OrderRevision) IsOpen() bool {
	return r.Status == RevisionStatusPending || r.Status == RevisionStatusInProgress
}
