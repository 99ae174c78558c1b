package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibelink-events/vibelink-api/services"
)

// SubscribeRequest signs an email up for the newsletter
type SubscribeRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Source string `json:"source"`
}

// ListBlogPosts handles GET /api/v1/blog?category=
func ListBlogPosts(c *gin.Context) {
	posts, err := contentService().ListPosts(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err, "Failed to load blog posts")
		return
	}
	respondData(c, http.StatusOK, posts)
}

// GetBlogPost handles GET /api/v1/blog/:slug
func GetBlogPost(c *gin.Context) {
	post, err := contentService().GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "Failed to load blog post")
		return
	}
	respondData(c, http.StatusOK, post)
}

// Subscribe handles POST /api/v1/newsletter - subscribing twice is not an error
func Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	subscriber, created, err := contentService().Subscribe(c.Request.Context(), req.Email, req.Source)
	if err != nil {
		respondServiceError(c, err, "Failed to subscribe")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondData(c, status, subscriber)
}

// GetInvoice handles GET /api/v1/invoices/:invoiceNumber
func GetInvoice(c *gin.Context) {
	invoice, err := contentService().GetInvoice(c.Request.Context(), c.Param("invoiceNumber"))
	if err != nil {
		respondServiceError(c, err, "Failed to load invoice")
		return
	}
	respondData(c, http.StatusOK, invoice)
}

// GetSurvey handles GET /api/v1/surveys/:token
func GetSurvey(c *gin.Context) {
	survey, err := contentService().GetSurvey(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondServiceError(c, err, "Failed to load survey")
		return
	}
	respondData(c, http.StatusOK, survey)
}

// SubmitSurvey handles POST /api/v1/surveys/:token
func SubmitSurvey(c *gin.Context) {
	var answers services.SurveyAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := contentService().SubmitSurvey(c.Request.Context(), c.Param("token"), answers)
	if err != nil {
		respondServiceError(c, err, "Failed to submit survey")
		return
	}
	respondData(c, http.StatusCreated, response)
}

// ListTestimonials handles GET /api/v1/testimonials?featured=true
func ListTestimonials(c *gin.Context) {
	testimonials, err := contentService().ListTestimonials(c.Request.Context(), c.Query("featured") == "true")
	if err != nil {
		respondServiceError(c, err, "Failed to load testimonials")
		return
	}
	respondData(c, http.StatusOK, testimonials)
}
