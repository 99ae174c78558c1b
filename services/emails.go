package services

import (
	"github.com/vibelink-events/vibelink-api/models"
)

// EmailLineItem is an add-on line in an order email
type EmailLineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderConfirmationEmail is the body of send-order-confirmation
type OrderConfirmationEmail struct {
	OrderID      string          `json:"orderId"`
	ClientName   string          `json:"clientName"`
	ClientEmail  string          `json:"clientEmail"`
	EventType    string          `json:"eventType"`
	EventTitle   string          `json:"eventTitle"`
	EventDate    *string         `json:"eventDate"`
	PackageName  string          `json:"packageName"`
	PackagePrice float64         `json:"packagePrice"`
	TotalPrice   float64         `json:"totalPrice"`
	AddOns       []EmailLineItem `json:"addOns"`
}

// AdminNotificationEmail is the body of send-admin-notification
type AdminNotificationEmail struct {
	OrderConfirmationEmail
	ClientPhone    string `json:"clientPhone"`
	ClientWhatsApp string `json:"clientWhatsapp,omitempty"`
	EventTime      string `json:"eventTime,omitempty"`
	VenueName      string `json:"venueName,omitempty"`
	VenueAddress   string `json:"venueAddress,omitempty"`
	DeliveryType   string `json:"deliveryType"`
}

// CustomerOTPEmail is the body of send-customer-otp
type CustomerOTPEmail struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// StatusEmail is the body of send-status-email
type StatusEmail struct {
	OrderID       string `json:"orderId"`
	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	EventTitle    string `json:"eventTitle"`
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// PaymentEmail is the body of send-payment-confirmation and send-admin-payment-notification
type PaymentEmail struct {
	OrderID       string  `json:"orderId"`
	ClientName    string  `json:"clientName"`
	ClientEmail   string  `json:"clientEmail"`
	ClientPhone   string  `json:"clientPhone,omitempty"`
	EventTitle    string  `json:"eventTitle"`
	PaymentType   string  `json:"paymentType"`
	AmountPaid    float64 `json:"amountPaid"`
	TotalPrice    float64 `json:"totalPrice"`
	Reference     string  `json:"reference,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
}

// WelcomeEmail is the body of send-welcome-email
type WelcomeEmail struct {
	Email string `json:"email"`
}

func orderConfirmation(order *models.Order) OrderConfirmationEmail {
	var eventDate *string
	if order.EventDate != "" {
		d := order.EventDate
		eventDate = &d
	}

	addOns := make([]EmailLineItem, 0, len(order.AddOns))
	for _, item := range order.AddOns {
		addOns = append(addOns, EmailLineItem{Name: item.Name, Price: item.Price.InexactFloat64()})
	}

	return OrderConfirmationEmail{
		OrderID:      order.ID.String(),
		ClientName:   order.ClientName,
		ClientEmail:  order.ClientEmail,
		EventType:    order.EventType,
		EventTitle:   order.EventTitle,
		EventDate:    eventDate,
		PackageName:  order.PackageName,
		PackagePrice: order.PackagePrice.InexactFloat64(),
		TotalPrice:   order.TotalPrice.InexactFloat64(),
		AddOns:       addOns,
	}
}

// EnqueueOrderEmails queues the customer confirmation and the admin notification for a new order
func EnqueueOrderEmails(n Notifier, order *models.Order) {
	confirmation := orderConfirmation(order)
	if order.ClientEmail != "" {
		n.Enqueue(Notification{Kind: FunctionOrderConfirmation, Payload: confirmation})
	}
	n.Enqueue(Notification{Kind: FunctionAdminNotification, Payload: AdminNotificationEmail{
		OrderConfirmationEmail: confirmation,
		ClientPhone:            order.ClientPhone,
		ClientWhatsApp:         order.ClientWhatsApp,
		EventTime:              order.EventTime,
		VenueName:              order.VenueName,
		VenueAddress:           order.VenueAddress,
		DeliveryType:           order.DeliveryType,
	}})
}

// EnqueueStatusEmail queues the order status update email
func EnqueueStatusEmail(n Notifier, order *models.Order) {
	if order.ClientEmail == "" {
		return
	}
	n.Enqueue(Notification{Kind: FunctionStatusEmail, Payload: StatusEmail{
		OrderID:       order.ID.String(),
		ClientName:    order.ClientName,
		ClientEmail:   order.ClientEmail,
		EventTitle:    order.EventTitle,
		OrderStatus:   order.OrderStatus,
		PaymentStatus: order.PaymentStatus,
	}})
}

// EnqueuePaymentEmails queues the payment receipt and, when notifyAdmin is set,
// the admin payment notification
func EnqueuePaymentEmails(n Notifier, order *models.Order, payment *models.PaymentHistory, notifyAdmin bool) {
	email := PaymentEmail{
		OrderID:       order.ID.String(),
		ClientName:    order.ClientName,
		ClientEmail:   order.ClientEmail,
		ClientPhone:   order.ClientPhone,
		EventTitle:    order.EventTitle,
		PaymentType:   payment.PaymentType,
		AmountPaid:    payment.Amount.InexactFloat64(),
		TotalPrice:    order.TotalPrice.InexactFloat64(),
		PaymentMethod: payment.PaymentMethod,
	}
	if payment.Reference != nil {
		email.Reference = *payment.Reference
	}

	if order.ClientEmail != "" {
		n.Enqueue(Notification{Kind: FunctionPaymentConfirmation, Payload: email})
	}
	if notifyAdmin {
		n.Enqueue(Notification{Kind: FunctionAdminPaymentNotification, Payload: email})
	}
}
