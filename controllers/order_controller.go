package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vibelink-events/vibelink-api/services"
	"github.com/vibelink-events/vibelink-api/wizard"
)

// SubmitOrderRequest is the JSON body accepted by POST /api/v1/orders when no files are attached
type SubmitOrderRequest struct {
	Order        wizard.OrderFormData `json:"order"`
	CaptchaToken string               `json:"captcha_token"`
	ReferralCode string               `json:"referral_code"`
}

// bindSubmitRequest reads either a multipart form (an "order" JSON field plus
// "images" files) or a JSON body
func bindSubmitRequest(c *gin.Context) (services.SubmitRequest, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req SubmitOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return services.SubmitRequest{}, err
		}
		return services.SubmitRequest{
			Form:         req.Order,
			CaptchaToken: req.CaptchaToken,
			ReferralCode: req.ReferralCode,
		}, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return services.SubmitRequest{}, err
	}

	var data wizard.OrderFormData
	if err := json.Unmarshal([]byte(c.PostForm("order")), &data); err != nil {
		return services.SubmitRequest{}, err
	}

	return services.SubmitRequest{
		Form:         data,
		CaptchaToken: c.PostForm("captcha_token"),
		ReferralCode: c.PostForm("referral_code"),
		Images:       form.File["images"],
	}, nil
}

// SubmitOrder handles POST /api/v1/orders - stores a completed wizard form
func SubmitOrder(c *gin.Context) {
	req, err := bindSubmitRequest(c)
	if err != nil {
		respondBindError(c, err)
		return
	}

	result, err := orderService().Submit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "Failed to submit order")
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"order":         services.PresentOrder(c.Request.Context(), services.GetImageService(), *result.Order),
		"quote":         result.Quote,
		"whatsapp_url":  result.WhatsAppURL,
		"failed_images": result.FailedImages,
	})
}

// TrackOrders handles GET /api/v1/track?q= - finds orders by email or order id
func TrackOrders(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Enter your email or order ID")
		return
	}

	orders, err := orderService().Track(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err, "Failed to look up orders")
		return
	}

	respondData(c, http.StatusOK, services.PresentOrders(c.Request.Context(), services.GetImageService(), orders))
}
