package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/middleware"
	"github.com/vibelink-events/vibelink-api/models"
	"github.com/vibelink-events/vibelink-api/pricing"
	"github.com/vibelink-events/vibelink-api/wizard"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCaptchaRejected = errors.New("captcha rejected")
	ErrDatabase        = errors.New("database error")
	ErrOrderNotFound   = errors.New("order not found")
)

// SubmitRequest is a completed wizard form plus the files attached to it
type SubmitRequest struct {
	Form         wizard.OrderFormData
	CaptchaToken string
	ReferralCode string
	Images       []*multipart.FileHeader
}

// SubmitResult is a stored order and what the browser needs next
type SubmitResult struct {
	Order        *models.Order
	Quote        pricing.Quote
	WhatsAppURL  string
	FailedImages []string
}

// OrderService accepts order submissions and looks orders up for tracking
type OrderService struct {
	db             *gorm.DB
	images         ImageService
	notifier       Notifier
	captcha        CaptchaVerifier
	whatsappNumber string
	logger         *zap.Logger
}

// NewOrderService wires an order service. images and captcha may be nil,
// in which case uploads are skipped and no captcha is checked.
func NewOrderService(db *gorm.DB, images ImageService, notifier Notifier, captcha CaptchaVerifier, whatsappNumber string, logger *zap.Logger) *OrderService {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		db:             db,
		images:         images,
		notifier:       notifier,
		captcha:        captcha,
		whatsappNumber: whatsappNumber,
		logger:         logger,
	}
}

// Submit verifies, validates and stores an order, then queues its emails.
// Image uploads are best effort: a file that fails is logged and left out.
func (s *OrderService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if s.captcha != nil {
		if err := s.captcha.Verify(ctx, req.CaptchaToken, CaptchaActionSubmitOrder); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCaptchaRejected, err)
		}
	}

	form := req.Form.Normalized()
	if err := form.Validate(); err != nil {
		return nil, err
	}
	for _, key := range form.ReferenceImages {
		if !IsReferenceImageKey(key) {
			return nil, &wizard.ValidationError{
				Code:    "VALIDATION_ERROR",
				Message: "Order form is incomplete or invalid",
				Fields:  wizard.FieldErrors{"reference_images": "Reference images must be uploaded through the order form"},
			}
		}
	}
	if len(form.ReferenceImages)+len(req.Images) > wizard.MaxReferenceImages {
		return nil, &wizard.ValidationError{
			Code:    "VALIDATION_ERROR",
			Message: "Order form is incomplete or invalid",
			Fields:  wizard.FieldErrors{"reference_images": "You can upload at most 5 reference images"},
		}
	}

	result := &SubmitResult{FailedImages: []string{}}
	keys := append([]string{}, form.ReferenceImages...)
	for _, fh := range req.Images {
		if s.images == nil {
			result.FailedImages = append(result.FailedImages, fh.Filename)
			continue
		}
		key, err := s.images.UploadImage(ctx, fh)
		if err != nil {
			s.logger.Warn("Skipping reference image", zap.String("filename", fh.Filename), zap.Error(err))
			result.FailedImages = append(result.FailedImages, fh.Filename)
			continue
		}
		keys = append(keys, key)
	}
	form.ReferenceImages = keys

	quote := form.Quote()
	order := NewOrderFromForm(form, quote)
	order.ReferralCode = strings.ToUpper(strings.TrimSpace(req.ReferralCode))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := s.referralCodeFor(tx, &order)
		if err != nil {
			return err
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if code == nil {
			return nil
		}
		return recordReferral(tx, code, &order)
	})
	if err != nil {
		s.logger.Error("Failed to store order", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	middleware.RecordOrderSubmitted(order.EventType, order.PackageID)
	s.logger.Info("Order submitted",
		zap.String("order_id", order.ID.String()),
		zap.String("package", order.PackageID),
		zap.String("total", order.TotalPrice.String()),
	)

	EnqueueOrderEmails(s.notifier, &order)

	result.Order = &order
	result.Quote = quote
	result.WhatsAppURL = WhatsAppURL(s.whatsappNumber, &order)
	return result, nil
}

// referralCodeFor returns the active code the order was placed with. Unknown codes
// and a customer's own code are dropped from the order.
func (s *OrderService) referralCodeFor(tx *gorm.DB, order *models.Order) (*models.ReferralCode, error) {
	if order.ReferralCode == "" {
		return nil, nil
	}

	var code models.ReferralCode
	err := tx.Where("code = ? AND is_active = ?", order.ReferralCode, true).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Info("Ignoring unknown referral code", zap.String("code", order.ReferralCode))
		order.ReferralCode = ""
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(code.OwnerEmail, order.ClientEmail) {
		order.ReferralCode = ""
		return nil, nil
	}
	return &code, nil
}

// recordReferral adds a pending referral for the order and bumps the code's counters
func recordReferral(tx *gorm.DB, code *models.ReferralCode, order *models.Order) error {
	orderID := order.ID
	reward := order.TotalPrice.Mul(decimal.NewFromInt(int64(code.RewardPercentage))).Div(decimal.NewFromInt(100)).Round(2)
	referral := models.Referral{
		ReferralCode:  code.Code,
		ReferrerEmail: code.OwnerEmail,
		ReferredEmail: order.ClientEmail,
		OrderID:       &orderID,
		Status:        models.ReferralStatusPending,
		RewardAmount:  reward,
	}
	if err := tx.Create(&referral).Error; err != nil {
		return err
	}

	return tx.Model(&models.ReferralCode{}).Where("id = ?", code.ID).Updates(map[string]interface{}{
		"total_referrals":   gorm.Expr("total_referrals + 1"),
		"pending_referrals": gorm.Expr("pending_referrals + 1"),
	}).Error
}

// Track finds orders by client email or by order id
func (s *OrderService) Track(ctx context.Context, query string) ([]models.Order, error) {
	query = strings.TrimSpace(query)
	orders := []models.Order{}
	if query == "" {
		return orders, nil
	}

	db := s.db.WithContext(ctx).Order("created_at DESC")
	if strings.Contains(query, "@") {
		db = db.Where("client_email = ?", strings.ToLower(query))
	} else {
		id, err := uuid.Parse(query)
		if err != nil {
			return orders, nil
		}
		db = db.Where("id = ?", id)
	}

	if err := db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return orders, nil
}

// NewOrderFromForm snapshots a normalized form and its quote into an order row
func NewOrderFromForm(form wizard.OrderFormData, quote pricing.Quote) models.Order {
	order := models.Order{
		EventType:             form.EventType,
		EventTitle:            form.EventTitle,
		EventDate:             form.EventDate,
		EventTime:             form.EventTime,
		VenueName:             form.EventVenue,
		VenueAddress:          form.EventAddress,
		CelebrantNames:        form.CelebrantNames,
		SpecialMessage:        form.AdditionalInfo,
		ColorPalette:          form.ColorPalette,
		CustomColors:          models.StringList(form.ActiveCustomColors()),
		StylePreference:       form.StylePreference,
		ReferenceImages:       models.StringList(form.ReferenceImages),
		SpecialRequests:       form.DesignNotes,
		PackageID:             form.SelectedPackage,
		AddOns:                models.JSONList[pricing.LineItem](quote.AddOns),
		DeliveryType:          form.DeliveryUrgency,
		PreferredDeliveryDate: form.PreferredDeliveryDate,
		ClientName:            form.FullName,
		ClientEmail:           form.Email,
		ClientPhone:           form.Phone,
		ClientWhatsApp:        form.WhatsApp,
		HearAboutUs:           form.HearAboutUs,
		TotalPrice:            quote.Total,
		DepositAmount:         quote.DepositDue,
		BalanceAmount:         quote.Total.Sub(quote.DepositDue),
		OrderStatus:           models.OrderStatusPending,
		PaymentStatus:         models.PaymentStatusPending,
	}
	if quote.Package != nil {
		order.PackageName = quote.Package.Name
		order.PackagePrice = quote.Package.Price
	}
	if order.CustomColors == nil {
		order.CustomColors = models.StringList{}
	}
	if order.ReferenceImages == nil {
		order.ReferenceImages = models.StringList{}
	}
	return order
}

// PresentOrder returns a copy of order with reference image keys resolved to URLs
func PresentOrder(ctx context.Context, images ImageService, order models.Order) models.Order {
	order.ReferenceImages = models.StringList(ResolveImageURLs(ctx, images, order.ReferenceImages))
	return order
}

// PresentOrders resolves the reference images of every order
func PresentOrders(ctx context.Context, images ImageService, orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, order := range orders {
		out[i] = PresentOrder(ctx, images, order)
	}
	return out
}
