package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibelink-events/vibelink-api/middleware"
	"github.com/vibelink-events/vibelink-api/models"
	"github.com/vibelink-events/vibelink-api/services"
)

// RequestOTPRequest starts a portal login
type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest completes a portal login
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// RevisionRequest is a customer's description of the changes they want
type RevisionRequest struct {
	RequestText string `json:"request_text" binding:"required"`
}

// RequestOTP handles POST /api/v1/portal/otp - emails a login code to a customer with orders
func RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := portalService().RequestOTP(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err, "Failed to send login code")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"message": "A login code has been sent to your email",
	})
}

// VerifyOTP handles POST /api/v1/portal/verify - exchanges a login code for a session token
func VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	login, err := portalService().VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondServiceError(c, err, "Failed to verify login code")
		return
	}

	respondData(c, http.StatusOK, login)
}

// portalSession returns the authenticated customer session, writing a 401 when absent
func portalSession(c *gin.Context) (*models.CustomerSession, bool) {
	session, err := middleware.GetCustomerSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Please sign in to the customer portal")
		return nil, false
	}
	return session, true
}

// Logout handles POST /api/v1/portal/logout
func Logout(c *gin.Context) {
	session, ok := portalSession(c)
	if !ok {
		return
	}

	if err := portalService().Logout(c.Request.Context(), session.ID); err != nil {
		respondServiceError(c, err, "Failed to sign out")
		return
	}

	respondData(c, http.StatusOK, gin.H{"message": "Signed out"})
}

// GetPortalMe handles GET /api/v1/portal/me
func GetPortalMe(c *gin.Context) {
	session, ok := portalSession(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, session)
}

// ListPortalOrders handles GET /api/v1/portal/orders
func ListPortalOrders(c *gin.Context) {
	session, ok := portalSession(c)
	if !ok {
		return
	}

	orders, err := portalService().Orders(c.Request.Context(), session.Email)
	if err != nil {
		respondServiceError(c, err, "Failed to load orders")
		return
	}

	respondData(c, http.StatusOK, services.PresentOrders(c.Request.Context(), services.GetImageService(), orders))
}

// GetPortalOrder handles GET /api/v1/portal/orders/:id - only the customer's own orders are visible
func GetPortalOrder(c *gin.Context) {
	session, ok := portalSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := portalService().Order(c.Request.Context(), session.Email, id)
	if err != nil {
		respondServiceError(c, err, "Failed to load order")
		return
	}

	respondData(c, http.StatusOK, services.PresentOrder(c.Request.Context(), services.GetImageService(), *order))
}

// ListPortalRevisions handles GET /api/v1/portal/orders/:id/revisions
func ListPortalRevisions(c *gin.Context) {
	session, ok := portalSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	revisions, err := portalService().Revisions(c.Request.Context(), session.Email, id)
	if err != nil {
		respondServiceError(c, err, "Failed to load revisions")
		return
	}

	respondData(c, http.StatusOK, revisions)
}

// CreatePortalRevision handles POST /api/v1/portal/orders/:id/revisions
func CreatePortalRevision(c *gin.Context) {
	session, ok := portalSession(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	revision, err := portalService().RequestRevision(c.Request.Context(), session.Email, id, req.RequestText)
	if err != nil {
		respondServiceError(c, err, "Failed to request revision")
		return
	}

	respondData(c, http.StatusCreated, revision)
}

// GetPortalReferral handles GET /api/v1/portal/referral - the customer's code and its referrals
func GetPortalReferral(c *gin.Context) {
	session, ok := portalSession(c)
	if !ok {
		return
	}

	summary, err := portalService().Referral(c.Request.Context(), session.Email, session.Name)
	if err != nil {
		respondServiceError(c, err, "Failed to load referral code")
		return
	}

	respondData(c, http.StatusOK, summary)
}
