package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vibelink-events/vibelink-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MinTestimonialRating is the lowest overall rating published as a testimonial
const MinTestimonialRating = 4

var (
	ErrPostNotFound      = errors.New("blog post not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrSurveyNotFound    = errors.New("survey not found")
	ErrSurveyCompleted   = errors.New("survey has already been completed")
	ErrSurveyExpired     = errors.New("survey has expired")
	ErrInvalidRating     = errors.New("ratings must be between 1 and 5")
	ErrInvalidSubscriber = errors.New("a valid email is required")
)

// ContentService serves the blog, newsletter, invoices and surveys
type ContentService struct {
	db       *gorm.DB
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewContentService wires a content service
func NewContentService(db *gorm.DB, notifier Notifier, logger *zap.Logger) *ContentService {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{db: db, notifier: notifier, logger: logger, now: time.Now}
}

// ListPosts returns published posts, newest first, optionally in one category
func (s *ContentService) ListPosts(ctx context.Context, category string) ([]models.BlogPost, error) {
	db := s.db.WithContext(ctx).
		Omit("content").
		Where("published = ?", true).
		Order("published_at DESC, created_at DESC")
	if category != "" && category != "all" {
		db = db.Where("category = ?", category)
	}

	posts := []models.BlogPost{}
	if err := db.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return posts, nil
}

// GetPost returns a published post by slug
func (s *ContentService) GetPost(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.db.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &post, nil
}

// Subscribe adds an email to the newsletter. Subscribing again is a no-op, and
// reactivates a subscriber who had unsubscribed. The welcome email goes out once.
func (s *ContentService) Subscribe(ctx context.Context, email, source string) (*models.NewsletterSubscriber, bool, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, ErrInvalidSubscriber
	}
	if source == "" {
		source = "website"
	}

	db := s.db.WithContext(ctx)
	var subscriber models.NewsletterSubscriber
	err := db.Where("email = ?", email).First(&subscriber).Error
	switch {
	case err == nil:
		if !subscriber.IsActive {
			if err := db.Model(&subscriber).Update("is_active", true).Error; err != nil {
				return nil, false, fmt.Errorf("%w: %v", ErrDatabase, err)
			}
			subscriber.IsActive = true
		}
		return &subscriber, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	subscriber = models.NewsletterSubscriber{
		Email:     email,
		Source:    source,
		Frequency: "weekly",
		Topics:    models.StringList{},
		IsActive:  true,
	}
	if err := db.Create(&subscriber).Error; err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	s.notifier.Enqueue(Notification{Kind: FunctionWelcomeEmail, Payload: WelcomeEmail{Email: email}})
	s.logger.Info("Newsletter subscriber added", zap.String("source", source))
	return &subscriber, true, nil
}

// GetInvoice returns an invoice with its items. The first view of a sent invoice
// marks it viewed.
func (s *ContentService) GetInvoice(ctx context.Context, number string) (*models.Invoice, error) {
	db := s.db.WithContext(ctx)

	var invoice models.Invoice
	err := db.Preload("Items").Where("invoice_number = ?", number).First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if invoice.Status == models.InvoiceStatusSent {
		now := s.now()
		err := db.Model(&models.Invoice{}).Where("id = ?", invoice.ID).Updates(map[string]interface{}{
			"status":    models.InvoiceStatusViewed,
			"viewed_at": now,
		}).Error
		if err != nil {
			s.logger.Warn("Failed to mark invoice viewed", zap.String("invoice", number), zap.Error(err))
		} else {
			invoice.Status = models.InvoiceStatusViewed
			invoice.ViewedAt = &now
		}
	}

	return &invoice, nil
}

// GetSurvey returns a survey by its token
func (s *ContentService) GetSurvey(ctx context.Context, token string) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&survey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSurveyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &survey, nil
}

// SurveyAnswers are the ratings a customer submits. Optional ratings may be nil.
type SurveyAnswers struct {
	OverallRating    int     `json:"overall_rating"`
	DesignQuality    *int    `json:"design_quality"`
	Communication    *int    `json:"communication"`
	DeliverySpeed    *int    `json:"delivery_speed"`
	ValueForMoney    *int    `json:"value_for_money"`
	FeedbackText     *string `json:"feedback_text"`
	AllowTestimonial bool    `json:"allow_testimonial"`
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

func (a SurveyAnswers) validate() error {
	if !validRating(a.OverallRating) {
		return ErrInvalidRating
	}
	for _, r := range []*int{a.DesignQuality, a.Communication, a.DeliverySpeed, a.ValueForMoney} {
		if r != nil && !validRating(*r) {
			return ErrInvalidRating
		}
	}
	return nil
}

// SubmitSurvey stores the response and completes the survey. A well rated
// response the customer agreed to share also becomes a testimonial.
func (s *ContentService) SubmitSurvey(ctx context.Context, token string, answers SurveyAnswers) (*models.SurveyResponse, error) {
	if err := answers.validate(); err != nil {
		return nil, err
	}

	survey, err := s.GetSurvey(ctx, token)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if survey.Status == models.SurveyStatusCompleted {
		return nil, ErrSurveyCompleted
	}
	if survey.ExpiresAt != nil && survey.ExpiresAt.Before(now) {
		return nil, ErrSurveyExpired
	}

	if answers.FeedbackText != nil {
		text := strings.TrimSpace(*answers.FeedbackText)
		if text == "" {
			answers.FeedbackText = nil
		} else {
			answers.FeedbackText = &text
		}
	}

	response := models.SurveyResponse{
		SurveyID:         survey.ID,
		OverallRating:    answers.OverallRating,
		DesignQuality:    answers.DesignQuality,
		Communication:    answers.Communication,
		DeliverySpeed:    answers.DeliverySpeed,
		ValueForMoney:    answers.ValueForMoney,
		FeedbackText:     answers.FeedbackText,
		AllowTestimonial: answers.AllowTestimonial,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the status guard stops two concurrent submissions both completing the survey
		result := tx.Model(&models.Survey{}).
			Where("id = ? AND status <> ?", survey.ID, models.SurveyStatusCompleted).
			Updates(map[string]interface{}{"status": models.SurveyStatusCompleted, "completed_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSurveyCompleted
		}

		if err := tx.Create(&response).Error; err != nil {
			return err
		}

		if answers.AllowTestimonial && answers.OverallRating >= MinTestimonialRating && answers.FeedbackText != nil {
			return tx.Create(&models.Testimonial{
				Name:      survey.CustomerName,
				EventType: "Customer",
				Quote:     *answers.FeedbackText,
				Rating:    answers.OverallRating,
			}).Error
		}
		return nil
	})
	if errors.Is(err, ErrSurveyCompleted) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &response, nil
}

// ListTestimonials returns testimonials, featured first
func (s *ContentService) ListTestimonials(ctx context.Context, featuredOnly bool) ([]models.Testimonial, error) {
	db := s.db.WithContext(ctx).Order("featured DESC, created_at DESC")
	if featuredOnly {
		db = db.Where("featured = ?", true)
	}

	testimonials := []models.Testimonial{}
	if err := db.Find(&testimonials).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return testimonials, nil
}
