package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vibelink-events/vibelink-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const completedRevisionResponse = "Order completed"

var (
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
	ErrInvalidPaymentType    = errors.New("invalid payment type")
	ErrRevisionNotFound      = errors.New("revision not found")
	ErrInvalidRevisionStatus = errors.New("revision status must be in_progress or completed")
	ErrResponseRequired      = errors.New("a response is required to complete a revision")
	ErrInvalidMonth          = errors.New("month must be formatted YYYY-MM")
	ErrInvalidRange          = errors.New("range must be one of 7d, 30d, 90d or all")
)

// AdminService implements the order management dashboard
type AdminService struct {
	db       *gorm.DB
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewAdminService wires an admin service
func NewAdminService(db *gorm.DB, notifier Notifier, logger *zap.Logger) *AdminService {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{db: db, notifier: notifier, logger: logger, now: time.Now}
}

// ListOrders returns orders newest first. An empty status or "all" lists every order.
func (s *AdminService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	db := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" && status != "all" {
		if !models.IsOrderStatus(status) {
			return nil, ErrInvalidStatus
		}
		db = db.Where("order_status = ?", status)
	}

	orders := []models.Order{}
	if err := db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return orders, nil
}

func (s *AdminService) findOrder(db *gorm.DB, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := db.First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return &order, nil
}

// GetOrder loads an order with its revisions and payment history
func (s *AdminService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	db := s.db.WithContext(ctx).
		Preload("Revisions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") })
	return s.findOrder(db, id)
}

// UpdateStatus sets the order status. Any status may follow any other.
// Completing an order closes its open revisions and its pending referral.
func (s *AdminService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	if !models.IsOrderStatus(status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.findOrder(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(order).Update("order_status", status).Error; err != nil {
			return err
		}
		if status != models.OrderStatusCompleted {
			return nil
		}

		response := completedRevisionResponse
		err := tx.Model(&models.OrderRevision{}).
			Where("order_id = ? AND status IN ?", order.ID, []string{models.RevisionStatusPending, models.RevisionStatusInProgress}).
			Updates(map[string]interface{}{
				"status":         models.RevisionStatusCompleted,
				"admin_response": response,
			}).Error
		if err != nil {
			return err
		}
		return s.completeReferral(tx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	order.OrderStatus = status

	s.logger.Info("Order status updated", zap.String("order_id", order.ID.String()), zap.String("status", status))
	EnqueueStatusEmail(s.notifier, order)
	return order, nil
}

// completeReferral credits the referrer once the referred order is completed
func (s *AdminService) completeReferral(tx *gorm.DB, order *models.Order) error {
	var referral models.Referral
	err := tx.Where("order_id = ? AND status = ?", order.ID, models.ReferralStatusPending).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	now := s.now()
	err = tx.Model(&referral).Updates(map[string]interface{}{
		"status":       models.ReferralStatusCompleted,
		"completed_at": now,
	}).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.ReferralCode{}).Where("code = ?", referral.ReferralCode).Updates(map[string]interface{}{
		"successful_referrals": gorm.Expr("successful_referrals + 1"),
		"pending_referrals":    gorm.Expr("CASE WHEN pending_referrals > 0 THEN pending_referrals - 1 ELSE 0 END"),
		"total_earnings":       gorm.Expr("total_earnings + ?", referral.RewardAmount),
		"available_balance":    gorm.Expr("available_balance + ?", referral.RewardAmount),
	}).Error
}

// orderPaymentColumns are the order columns a payment change touches
var orderPaymentColumns = []string{
	"payment_status",
	"deposit_paid", "deposit_paid_at", "deposit_reference", "deposit_amount",
	"balance_paid", "balance_paid_at", "balance_reference", "balance_amount",
}

func saveOrderPayment(tx *gorm.DB, order *models.Order) error {
	return tx.Model(order).Select(orderPaymentColumns).Updates(order).Error
}

// UpdatePaymentStatus sets the payment status and syncs the paid flags with it
func (s *AdminService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	if !models.IsPaymentStatus(status) {
		return nil, ErrInvalidPaymentStatus
	}

	db := s.db.WithContext(ctx)
	order, err := s.findOrder(db, id)
	if err != nil {
		return nil, err
	}

	order.SetPaymentStatus(status, s.now())
	if err := saveOrderPayment(db, order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	EnqueueStatusEmail(s.notifier, order)
	return order, nil
}

// RecordManualPayment records a deposit or balance paid outside Paystack for
// the amount still due. An instalment already paid is refused.
func (s *AdminService) RecordManualPayment(ctx context.Context, id uuid.UUID, paymentType, reference, recordedBy string) (*models.Order, *models.PaymentHistory, error) {
	if paymentType != models.PaymentTypeDeposit && paymentType != models.PaymentTypeBalance {
		return nil, nil, ErrInvalidPaymentType
	}

	now := s.now()
	reference = strings.TrimSpace(reference)
	if reference == "" {
		reference = fmt.Sprintf("MANUAL-%d", now.UnixMilli())
	}
	if recordedBy == "" {
		recordedBy = "admin"
	}

	var (
		order   *models.Order
		payment models.PaymentHistory
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.findOrder(tx, id)
		if err != nil {
			return err
		}

		amount, err := AmountDue(order, paymentType)
		if err != nil {
			return err
		}
		order.ApplyPayment(paymentType, amount, reference, now)
		if err := saveOrderPayment(tx, order); err != nil {
			return err
		}

		payment = models.PaymentHistory{
			OrderID:       order.ID,
			Amount:        amount,
			PaymentType:   paymentType,
			PaymentMethod: models.PaymentMethodBankTransfer,
			Reference:     &reference,
			RecordedBy:    &recordedBy,
		}
		return tx.Create(&payment).Error
	})
	if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrAlreadyPaid) {
		return nil, nil, err
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	s.logger.Info("Manual payment recorded",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_type", paymentType),
		zap.String("amount", payment.Amount.String()),
	)
	EnqueuePaymentEmails(s.notifier, order, &payment, true)
	return order, &payment, nil
}

// RespondToRevision moves a revision forward. Completing it requires a response
// and puts the order back to draft_ready.
func (s *AdminService) RespondToRevision(ctx context.Context, id uuid.UUID, status, response string) (*models.OrderRevision, error) {
	if status != models.RevisionStatusInProgress && status != models.RevisionStatusCompleted {
		return nil, ErrInvalidRevisionStatus
	}
	response = strings.TrimSpace(response)
	if status == models.RevisionStatusCompleted && response == "" {
		return nil, ErrResponseRequired
	}

	var revision models.OrderRevision
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&revision, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRevisionNotFound
			}
			return err
		}

		revision.Status = status
		if response != "" {
			revision.AdminResponse = &response
		} else {
			revision.AdminResponse = nil
		}
		if err := tx.Model(&revision).Select("status", "admin_response").Updates(&revision).Error; err != nil {
			return err
		}

		if status == models.RevisionStatusCompleted {
			return tx.Model(&models.Order{}).Where("id = ?", revision.OrderID).
				Update("order_status", models.OrderStatusDraftReady).Error
		}
		return nil
	})
	if errors.Is(err, ErrRevisionNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &revision, nil
}

// CalendarDay is the orders whose event falls on one date
type CalendarDay struct {
	Date   string         `json:"date"`
	Orders []models.Order `json:"orders"`
}

// Calendar is one month of events
type Calendar struct {
	Month string        `json:"month"`
	Days  []CalendarDay `json:"days"`
	Total int           `json:"total"`
}

// Calendar groups the orders with an event in month (YYYY-MM) by event date.
// An empty month means the current one.
func (s *AdminService) Calendar(ctx context.Context, month string) (*Calendar, error) {
	if month == "" {
		month = s.now().Format("2006-01")
	}
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	end := start.AddDate(0, 1, 0)

	orders := []models.Order{}
	err = s.db.WithContext(ctx).
		Where("event_date >= ? AND event_date < ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("event_date ASC, event_time ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	calendar := &Calendar{Month: month, Days: []CalendarDay{}, Total: len(orders)}
	for _, order := range orders {
		n := len(calendar.Days)
		if n == 0 || calendar.Days[n-1].Date != order.EventDate {
			calendar.Days = append(calendar.Days, CalendarDay{Date: order.EventDate})
			n++
		}
		calendar.Days[n-1].Orders = append(calendar.Days[n-1].Orders, order)
	}
	return calendar, nil
}

// CustomerStat is a customer's order count and spend
type CustomerStat struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// PackageStat is a package's order count and revenue
type PackageStat struct {
	Package string          `json:"package"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Analytics summarises the orders placed in a date range
type Analytics struct {
	Range             string          `json:"range"`
	TotalOrders       int             `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	CompletedOrders   int             `json:"completed_orders"`
	PendingOrders     int             `json:"pending_orders"`
	ByStatus          map[string]int  `json:"by_status"`
	ByPaymentStatus   map[string]int  `json:"by_payment_status"`
	ByEventType       map[string]int  `json:"by_event_type"`
	ByPackage         []PackageStat   `json:"by_package"`
	TopCustomers      []CustomerStat  `json:"top_customers"`
	OrdersByHour      [24]int         `json:"orders_by_hour"`
	OrdersByWeekday   [7]int          `json:"orders_by_weekday"` // Sunday first
}

var analyticsRanges = map[string]int{"7d": 7, "30d": 30, "90d": 90, "all": 0}

// Analytics computes dashboard figures for orders created within rng (7d, 30d, 90d or all)
func (s *AdminService) Analytics(ctx context.Context, rng string) (*Analytics, error) {
	if rng == "" {
		rng = "all"
	}
	days, ok := analyticsRanges[rng]
	if !ok {
		return nil, ErrInvalidRange
	}

	db := s.db.WithContext(ctx)
	if days > 0 {
		now := s.now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -days)
		db = db.Where("created_at >= ?", start)
	}

	orders := []models.Order{}
	if err := db.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return summarize(rng, orders), nil
}

func summarize(rng string, orders []models.Order) *Analytics {
	a := &Analytics{
		Range:           rng,
		TotalOrders:     len(orders),
		TotalRevenue:    decimal.Zero,
		ByStatus:        map[string]int{},
		ByPaymentStatus: map[string]int{},
		ByEventType:     map[string]int{},
		ByPackage:       []PackageStat{},
		TopCustomers:    []CustomerStat{},
	}

	packages := map[string]*PackageStat{}
	customers := map[string]*CustomerStat{}
	for _, o := range orders {
		a.TotalRevenue = a.TotalRevenue.Add(o.TotalPrice)
		a.ByStatus[o.OrderStatus]++
		a.ByPaymentStatus[o.PaymentStatus]++
		a.ByEventType[o.EventType]++
		a.OrdersByHour[o.CreatedAt.Hour()]++
		a.OrdersByWeekday[int(o.CreatedAt.Weekday())]++

		name := o.PackageName
		if name == "" {
			name = "Unknown"
		}
		pkg, ok := packages[name]
		if !ok {
			pkg = &PackageStat{Package: name, Revenue: decimal.Zero}
			packages[name] = pkg
		}
		pkg.Count++
		pkg.Revenue = pkg.Revenue.Add(o.TotalPrice)

		key := strings.ToLower(o.ClientEmail)
		customer, ok := customers[key]
		if !ok {
			customer = &CustomerStat{Name: o.ClientName, Email: o.ClientEmail, Revenue: decimal.Zero}
			customers[key] = customer
		}
		customer.Orders++
		customer.Revenue = customer.Revenue.Add(o.TotalPrice)
	}

	a.CompletedOrders = a.ByStatus[models.OrderStatusCompleted]
	a.PendingOrders = a.ByStatus[models.OrderStatusPending]
	if a.TotalOrders > 0 {
		a.AverageOrderValue = a.TotalRevenue.Div(decimal.NewFromInt(int64(a.TotalOrders))).Round(2)
	}

	for _, pkg := range packages {
		a.ByPackage = append(a.ByPackage, *pkg)
	}
	sort.Slice(a.ByPackage, func(i, j int) bool {
		if !a.ByPackage[i].Revenue.Equal(a.ByPackage[j].Revenue) {
			return a.ByPackage[i].Revenue.GreaterThan(a.ByPackage[j].Revenue)
		}
		return a.ByPackage[i].Package < a.ByPackage[j].Package
	})

	for _, customer := range customers {
		a.TopCustomers = append(a.TopCustomers, *customer)
	}
	sort.Slice(a.TopCustomers, func(i, j int) bool {
		if !a.TopCustomers[i].Revenue.Equal(a.TopCustomers[j].Revenue) {
			return a.TopCustomers[i].Revenue.GreaterThan(a.TopCustomers[j].Revenue)
		}
		return a.TopCustomers[i].Email < a.TopCustomers[j].Email
	})
	if len(a.TopCustomers) > 5 {
		a.TopCustomers = a.TopCustomers[:5]
	}

	return a
}

var exportHeader = []string{
	"Order ID", "Client Name", "Email", "Event Type", "Package", "Total Price",
	"Order Status", "Payment Status", "Created At", "Event Date",
}

// ExportCSV writes every order as a CSV row, newest first
func (s *AdminService) ExportCSV(ctx context.Context, w io.Writer) error {
	orders, err := s.ListOrders(ctx, "all")
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, o := range orders {
		eventDate := o.EventDate
		if eventDate == "" {
			eventDate = "N/A"
		}
		row := []string{
			o.ID.String(),
			o.ClientName,
			o.ClientEmail,
			o.EventType,
			o.PackageName,
			o.TotalPrice.StringFixed(2),
			o.OrderStatus,
			o.PaymentStatus,
			o.CreatedAt.Format("2006-01-02 15:04"),
			eventDate,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
