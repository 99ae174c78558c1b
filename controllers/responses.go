package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vibelink-events/vibelink-api/config"
	"github.com/vibelink-events/vibelink-api/services"
	"github.com/vibelink-events/vibelink-api/utils"
	"github.com/vibelink-events/vibelink-api/wizard"
	"go.uber.org/zap"
)

// errorResponse is how a known service error is reported to the client
type errorResponse struct {
	err     error
	status  int
	code    string
	message string
}

var errorResponses = []errorResponse{
	{services.ErrCaptchaRejected, http.StatusBadRequest, "CAPTCHA_FAILED", "Captcha verification failed, please try again"},
	{services.ErrDatabase, http.StatusInternalServerError, "DATABASE_ERROR", "A database error occurred"},
	{services.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found"},

	{services.ErrNoOrdersFound, http.StatusNotFound, "NO_ORDERS_FOUND", "No orders found for this email"},
	{services.ErrInvalidCode, http.StatusUnauthorized, "INVALID_CODE", "Invalid or expired code"},
	{services.ErrRevisionNotAllowed, http.StatusConflict, "REVISION_NOT_ALLOWED", "Revisions can only be requested when a draft is ready for review"},
	{services.ErrRevisionOpen, http.StatusConflict, "REVISION_IN_PROGRESS", "A revision request is already being worked on"},
	{services.ErrRevisionTooShort, http.StatusBadRequest, "VALIDATION_ERROR", "Please describe the changes in at least 10 characters"},

	{services.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS", "Invalid order status"},
	{services.ErrInvalidPaymentStatus, http.StatusBadRequest, "INVALID_PAYMENT_STATUS", "Invalid payment status"},
	{services.ErrInvalidPaymentType, http.StatusBadRequest, "INVALID_PAYMENT_TYPE", "Payment type must be deposit, balance or full"},
	{services.ErrRevisionNotFound, http.StatusNotFound, "REVISION_NOT_FOUND", "Revision not found"},
	{services.ErrInvalidRevisionStatus, http.StatusBadRequest, "INVALID_STATUS", "Revision status must be in_progress or completed"},
	{services.ErrResponseRequired, http.StatusBadRequest, "VALIDATION_ERROR", "A response is required to complete a revision"},
	{services.ErrInvalidMonth, http.StatusBadRequest, "INVALID_MONTH", "Month must be formatted YYYY-MM"},
	{services.ErrInvalidRange, http.StatusBadRequest, "INVALID_RANGE", "Range must be one of 7d, 30d, 90d or all"},

	{services.ErrAlreadyPaid, http.StatusConflict, "ALREADY_PAID", "This payment has already been made"},
	{services.ErrPaymentMismatch, http.StatusBadRequest, "PAYMENT_MISMATCH", "This payment does not match the order"},
	{services.ErrPaymentNotSuccess, http.StatusPaymentRequired, "PAYMENT_FAILED", "Payment was not successful"},
	{services.ErrPaymentGatewayOff, http.StatusServiceUnavailable, "PAYMENTS_UNAVAILABLE", "Online payments are not available"},
	{services.ErrPaymentGateway, http.StatusBadGateway, "PAYMENT_GATEWAY_ERROR", "Could not reach the payment provider"},

	{services.ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND", "Blog post not found"},
	{services.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND", "Invoice not found"},
	{services.ErrSurveyNotFound, http.StatusNotFound, "SURVEY_NOT_FOUND", "Survey not found"},
	{services.ErrSurveyCompleted, http.StatusConflict, "SURVEY_COMPLETED", "This survey has already been completed"},
	{services.ErrSurveyExpired, http.StatusGone, "SURVEY_EXPIRED", "This survey has expired"},
	{services.ErrInvalidRating, http.StatusBadRequest, "VALIDATION_ERROR", "Ratings must be between 1 and 5"},
	{services.ErrInvalidSubscriber, http.StatusBadRequest, "VALIDATION_ERROR", "A valid email is required"},

	{wizard.ErrDraftNotFound, http.StatusNotFound, "DRAFT_NOT_FOUND", "Draft not found or expired"},
	{wizard.ErrStepLocked, http.StatusConflict, "STEP_LOCKED", "Complete the earlier steps first"},
	{wizard.ErrInvalidStep, http.StatusBadRequest, "INVALID_STEP", "Step is out of range"},
	{wizard.ErrTooManyImages, http.StatusBadRequest, "TOO_MANY_IMAGES", "You can upload at most 5 reference images"},
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondErrorDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondServiceError reports err with the status and code registered for it.
// Unknown errors are logged and reported as a 500 with fallback as the message.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var validationErr *wizard.ValidationError
	if errors.As(err, &validationErr) {
		respondErrorDetails(c, http.StatusBadRequest, validationErr.Code, validationErr.Message, validationErr.Fields)
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			if r.status >= http.StatusInternalServerError {
				config.GetLogger().Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
			}
			respondError(c, r.status, r.code, r.message)
			return
		}
	}

	config.GetLogger().Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
}

func respondBindError(c *gin.Context, err error) {
	respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
}

// parseIDParam reads a uuid path parameter, reporting a 400 when it is malformed
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
