package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vibelink-events/vibelink-api/middleware"
	"github.com/vibelink-events/vibelink-api/services"
)

// UpdateStatusRequest sets an order's lifecycle status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest sets an order's payment status directly
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// ManualPaymentRequest records a payment taken outside the payment gateway
type ManualPaymentRequest struct {
	PaymentType string `json:"payment_type" binding:"required"`
	Reference   string `json:"reference"`
}

// RespondRevisionRequest updates a revision request
type RespondRevisionRequest struct {
	Status        string `json:"status" binding:"required"`
	AdminResponse string `json:"admin_response"`
}

// AdminListOrders handles GET /api/v1/admin/orders?status=
func AdminListOrders(c *gin.Context) {
	orders, err := adminService().ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err, "Failed to load orders")
		return
	}

	respondData(c, http.StatusOK, services.PresentOrders(c.Request.Context(), services.GetImageService(), orders))
}

// AdminGetOrder handles GET /api/v1/admin/orders/:id - includes revisions and payment history
func AdminGetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := adminService().GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to load order")
		return
	}

	respondData(c, http.StatusOK, services.PresentOrder(c.Request.Context(), services.GetImageService(), *order))
}

// AdminUpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status
func AdminUpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := adminService().UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondServiceError(c, err, "Failed to update order status")
		return
	}

	respondData(c, http.StatusOK, order)
}

// AdminUpdatePaymentStatus handles PATCH /api/v1/admin/orders/:id/payment-status
func AdminUpdatePaymentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := adminService().UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		respondServiceError(c, err, "Failed to update payment status")
		return
	}

	respondData(c, http.StatusOK, order)
}

// AdminRecordPayment handles POST /api/v1/admin/orders/:id/payments
func AdminRecordPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	recordedBy, err := middleware.GetUserID(c)
	if err != nil {
		recordedBy = "admin"
	}

	order, payment, err := adminService().RecordManualPayment(c.Request.Context(), id, req.PaymentType, req.Reference, recordedBy)
	if err != nil {
		respondServiceError(c, err, "Failed to record payment")
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"order":   order,
		"payment": payment,
	})
}

// AdminRespondToRevision handles PUT /api/v1/admin/revisions/:id
func AdminRespondToRevision(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RespondRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	revision, err := adminService().RespondToRevision(c.Request.Context(), id, req.Status, req.AdminResponse)
	if err != nil {
		respondServiceError(c, err, "Failed to update revision")
		return
	}

	respondData(c, http.StatusOK, revision)
}

// AdminCalendar handles GET /api/v1/admin/calendar?month=YYYY-MM
func AdminCalendar(c *gin.Context) {
	calendar, err := adminService().Calendar(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondServiceError(c, err, "Failed to load calendar")
		return
	}

	respondData(c, http.StatusOK, calendar)
}

// AdminAnalytics handles GET /api/v1/admin/analytics?range=7d|30d|90d|all
func AdminAnalytics(c *gin.Context) {
	analytics, err := adminService().Analytics(c.Request.Context(), c.Query("range"))
	if err != nil {
		respondServiceError(c, err, "Failed to compute analytics")
		return
	}

	respondData(c, http.StatusOK, analytics)
}

// AdminExportOrders handles GET /api/v1/admin/orders/export - downloads every order as CSV
func AdminExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := adminService().ExportCSV(c.Request.Context(), &buf); err != nil {
		respondServiceError(c, err, "Failed to export orders")
		return
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
