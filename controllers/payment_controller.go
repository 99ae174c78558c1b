package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InitializePaymentRequest starts an online payment for an order
type InitializePaymentRequest struct {
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	PaymentType string    `json:"payment_type" binding:"required"`
	CallbackURL string    `json:"callback_url"`
}

// VerifyPaymentRequest confirms an online payment after the gateway redirect
type VerifyPaymentRequest struct {
	Reference   string    `json:"reference" binding:"required"`
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	PaymentType string    `json:"payment_type" binding:"required"`
}

// InitializePayment handles POST /api/v1/payments/initialize
func InitializePayment(c *gin.Context) {
	var req InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	session, err := paymentService().Initialize(c.Request.Context(), req.OrderID, req.PaymentType, req.CallbackURL)
	if err != nil {
		respondServiceError(c, err, "Failed to initialize payment")
		return
	}

	respondData(c, http.StatusOK, session)
}

// VerifyPayment handles POST /api/v1/payments/verify - records a successful payment once
func VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, payment, err := paymentService().Verify(c.Request.Context(), req.Reference, req.OrderID, req.PaymentType)
	if err != nil {
		respondServiceError(c, err, "Failed to verify payment")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"order":   order,
		"payment": payment,
	})
}
