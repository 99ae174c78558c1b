package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BlogPost is an article on the public blog
type BlogPost struct {
	Base
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"not null" json:"title"`
	Excerpt     string     `gorm:"not null" json:"excerpt"`
	Content     string     `gorm:"type:text;not null" json:"content,omitempty"`
	Category    string     `gorm:"not null;index" json:"category"`
	AuthorName  string     `gorm:"not null;default:'VibeLink Team'" json:"author_name"`
	ImageURL    string     `json:"image_url"`
	ReadTime    string     `json:"read_time"`
	Tags        StringList `json:"tags"`
	Featured    bool       `gorm:"not null;default:false" json:"featured"`
	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at"`
}

// TableName specifies the table name for the BlogPost model
func (BlogPost) TableName() string {
	return "blog_posts"
}

// NewsletterSubscriber is an email on the newsletter list
type NewsletterSubscriber struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Source       string     `json:"source"`
	Frequency    string     `gorm:"not null;default:'weekly'" json:"frequency"`
	Topics       StringList `json:"topics"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	SubscribedAt time.Time  `gorm:"not null" json:"subscribed_at"`
}

// TableName specifies the table name for the NewsletterSubscriber model
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}

func (n *NewsletterSubscriber) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.SubscribedAt.IsZero() {
		n.SubscribedAt = time.Now()
	}
	return nil
}

const (
	InvoiceStatusDraft  = "draft"
	InvoiceStatusSent   = "sent"
	InvoiceStatusViewed = "viewed"
	InvoiceStatusPaid   = "paid"
)

// Invoice is a bill issued to a customer, optionally tied to an order
type Invoice struct {
	Base
	InvoiceNumber   string          `gorm:"uniqueIndex;not null" json:"invoice_number"`
	OrderID         *uuid.UUID      `gorm:"type:uuid;index" json:"order_id"`
	CustomerName    string          `gorm:"not null" json:"customer_name"`
	CustomerEmail   string          `gorm:"not null" json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerAddress string          `json:"customer_address"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax             decimal.Decimal `gorm:"type:decimal(12,2)" json:"tax"`
	Discount        decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status          string          `gorm:"not null;default:'draft'" json:"status"`
	DueDate         string          `json:"due_date"`
	Notes           string          `gorm:"type:text" json:"notes"`
	SentAt          *time.Time      `json:"sent_at"`
	ViewedAt        *time.Time      `json:"viewed_at"`
	PaidAt          *time.Time      `json:"paid_at"`
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items"`
}

// TableName specifies the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is a line on an invoice
type InvoiceItem struct {
	Base
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Description string          `gorm:"not null" json:"description"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}

// TableName specifies the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

const (
	SurveyStatusPending   = "pending"
	SurveyStatusSent      = "sent"
	SurveyStatusCompleted = "completed"
)

// Survey is a satisfaction survey sent after an order is delivered
type Survey struct {
	Base
	Token         string     `gorm:"uniqueIndex;not null" json:"token"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	CustomerName  string     `gorm:"not null" json:"customer_name"`
	CustomerEmail string     `gorm:"not null" json:"customer_email"`
	Status        string     `gorm:"not null;default:'pending'" json:"status"`
	SentAt        *time.Time `json:"sent_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// TableName specifies the table name for the Survey model
func (Survey) TableName() string {
	return "surveys"
}

// SurveyResponse holds the ratings a customer gave. Ratings are 1 to 5.
type SurveyResponse struct {
	Base
	SurveyID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"survey_id"`
	OverallRating    int       `gorm:"not null" json:"overall_rating"`
	DesignQuality    *int      `json:"design_quality"`
	Communication    *int      `json:"communication"`
	DeliverySpeed    *int      `json:"delivery_speed"`
	ValueForMoney    *int      `json:"value_for_money"`
	FeedbackText     *string   `gorm:"type:text" json:"feedback_text"`
	AllowTestimonial bool      `gorm:"not null;default:false" json:"allow_testimonial"`
}

// TableName specifies the table name for the SurveyResponse model
func (SurveyResponse) TableName() string {
	return "survey_responses"
}

// Testimonial is a customer quote shown on the site
type Testimonial struct {
	Base
	Name      string `gorm:"not null" json:"name"`
	EventType string `json:"event_type"`
	Quote     string `gorm:"type:text;not null" json:"quote"`
	Rating    int    `gorm:"not null" json:"rating"`
	Featured  bool   `gorm:"not null;default:false" json:"featured"`
}

// TableName specifies the table name for the Testimonial model
func (Testimonial) TableName() string {
	return "testimonials"
}
