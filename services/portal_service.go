package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/middleware"
	"github.com/vibelink-events/vibelink-api/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// OTPLength is the number of digits in a portal login code
	OTPLength = 6

	// OTPExpiry is how long a login code can be used
	OTPExpiry = 10 * time.Minute

	// MinRevisionLength is the shortest revision request accepted
	MinRevisionLength = 10

	referralSuffixLength = 4
	referralAlphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	ErrNoOrdersFound      = errors.New("no orders found for this email")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrRevisionNotAllowed = errors.New("revisions can only be requested when a draft is ready for review")
	ErrRevisionOpen       = errors.New("a revision request is already being worked on")
	ErrRevisionTooShort   = errors.New("please describe the changes in at least 10 characters")
)

// PortalLogin is the result of a successful code verification
type PortalLogin struct {
	Token   string                  `json:"token"`
	Session *models.CustomerSession `json:"session"`
}

// ReferralSummary is a customer's referral code and the referrals made with it
type ReferralSummary struct {
	Code      models.ReferralCode `json:"code"`
	Referrals []models.Referral   `json:"referrals"`
}

// PortalService implements customer portal login and self service
type PortalService struct {
	db       *gorm.DB
	notifier Notifier
	secret   string
	logger   *zap.Logger
	now      func() time.Time
}

// NewPortalService wires a portal service. secret signs session tokens.
func NewPortalService(db *gorm.DB, notifier Notifier, secret string, logger *zap.Logger) *PortalService {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalService{
		db:       db,
		notifier: notifier,
		secret:   secret,
		logger:   logger,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateOTP returns a random numeric code of OTPLength digits
func GenerateOTP() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RequestOTP issues a login code for an email that has at least one order
func (s *PortalService) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Order{}).Where("client_email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if count == 0 {
		return ErrNoOrdersFound
	}

	code, err := GenerateOTP()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}

	otp := models.CustomerOTP{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: s.now().Add(OTPExpiry),
	}
	if err := db.Create(&otp).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	s.notifier.Enqueue(Notification{Kind: FunctionCustomerOTP, Payload: CustomerOTPEmail{Email: email, Code: code}})
	s.logger.Info("Portal code issued", zap.String("email", email))
	return nil
}

func isOTPFormat(code string) bool {
	if len(code) != OTPLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// VerifyOTP checks the newest live code for the email and opens a session
func (s *PortalService) VerifyOTP(ctx context.Context, email, code string) (*PortalLogin, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if !isOTPFormat(code) {
		return nil, ErrInvalidCode
	}

	db := s.db.WithContext(ctx)
	var otp models.CustomerOTP
	err := db.Where("email = ? AND verified = ? AND expires_at > ?", email, false, s.now()).
		Order("created_at DESC").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		return nil, ErrInvalidCode
	}

	session := models.CustomerSession{Email: email, Name: s.customerName(ctx, email)}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&otp).Update("verified", true).Error; err != nil {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	token, err := middleware.IssueSessionToken(s.secret, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.Info("Portal session opened", zap.String("email", email), zap.String("session_id", session.ID.String()))
	return &PortalLogin{Token: token, Session: &session}, nil
}

// customerName is the client name on the customer's latest order
func (s *PortalService) customerName(ctx context.Context, email string) string {
	var order models.Order
	err := s.db.WithContext(ctx).Select("client_name").
		Where("client_email = ?", email).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return ""
	}
	return order.ClientName
}

// Logout ends the session
func (s *PortalService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.db.WithContext(ctx).Delete(&models.CustomerSession{}, "id = ?", sessionID).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return nil
}

// Orders lists the customer's orders, newest first
func (s *PortalService) Orders(ctx context.Context, email string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Where("client_email = ?", normalizeEmail(email)).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return orders, nil
}

// Order loads one of the customer's orders with its revisions and payments
func (s *PortalService) Order(ctx context.Context, email string, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Revisions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("id = ? AND client_email = ?", orderID, normalizeEmail(email)).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &order, nil
}

// Revisions lists the revision requests on one of the customer's orders
func (s *PortalService) Revisions(ctx context.Context, email string, orderID uuid.UUID) ([]models.OrderRevision, error) {
	order, err := s.Order(ctx, email, orderID)
	if err != nil {
		return nil, err
	}
	if order.Revisions == nil {
		return []models.OrderRevision{}, nil
	}
	return order.Revisions, nil
}

// RequestRevision asks for changes to a draft. Only one revision can be open at a time.
func (s *PortalService) RequestRevision(ctx context.Context, email string, orderID uuid.UUID, text string) (*models.OrderRevision, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinRevisionLength {
		return nil, ErrRevisionTooShort
	}

	order, err := s.Order(ctx, email, orderID)
	if err != nil {
		return nil, err
	}
	if order.OrderStatus != models.OrderStatusDraftReady && order.OrderStatus != models.OrderStatusRevision {
		return nil, ErrRevisionNotAllowed
	}
	for i := range order.Revisions {
		if order.Revisions[i].IsOpen() {
			return nil, ErrRevisionOpen
		}
	}

	revision := models.OrderRevision{
		OrderID:     order.ID,
		RequestText: text,
		Status:      models.RevisionStatusPending,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&revision).Error; err != nil {
			return err
		}
		return tx.Model(order).Update("order_status", models.OrderStatusRevision).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	s.logger.Info("Revision requested", zap.String("order_id", order.ID.String()))
	return &revision, nil
}

// Referral returns the customer's referral code, creating it on first use
func (s *PortalService) Referral(ctx context.Context, email, name string) (*ReferralSummary, error) {
	email = normalizeEmail(email)
	db := s.db.WithContext(ctx)

	var code models.ReferralCode
	err := db.Where("owner_email = ?", email).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, createErr := s.createReferralCode(ctx, email, name)
		if createErr != nil {
			return nil, createErr
		}
		code = *created
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	referrals := []models.Referral{}
	if err := db.Where("referrer_email = ?", email).Order("created_at DESC").Find(&referrals).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &ReferralSummary{Code: code, Referrals: referrals}, nil
}

func (s *PortalService) createReferralCode(ctx context.Context, email, name string) (*models.ReferralCode, error) {
	if name == "" {
		name = s.customerName(ctx, email)
	}
	db := s.db.WithContext(ctx)

	for attempt := 0; attempt < 5; attempt++ {
		candidate, err := GenerateReferralCode(name)
		if err != nil {
			return nil, err
		}

		var taken int64
		if err := db.Model(&models.ReferralCode{}).Where("code = ?", candidate).Count(&taken).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
		}
		if taken > 0 {
			continue
		}

		code := models.ReferralCode{
			Code:             candidate,
			OwnerEmail:       email,
			OwnerName:        name,
			RewardPercentage: models.DefaultRewardPercentage,
			IsActive:         true,
			TotalEarnings:    decimal.Zero,
			AvailableBalance: decimal.Zero,
		}
		if err := db.Create(&code).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
		}
		s.logger.Info("Referral code created", zap.String("code", code.Code))
		return &code, nil
	}

	return nil, fmt.Errorf("%w: could not find a free referral code", ErrDatabase)
}

// GenerateReferralCode builds PREFIX-XXXX from the first four characters of the
// first name and four random base36 characters
func GenerateReferralCode(name string) (string, error) {
	prefix := ""
	if fields := strings.Fields(name); len(fields) > 0 {
		for _, r := range strings.ToUpper(fields[0]) {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				prefix += string(r)
			}
			if len(prefix) == 4 {
				break
			}
		}
	}
	if prefix == "" {
		prefix = "VIBE"
	}

	suffix := make([]byte, referralSuffixLength)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate referral code: %w", err)
		}
		suffix[i] = referralAlphabet[n.Int64()]
	}

	return prefix + "-" + string(suffix), nil
}
