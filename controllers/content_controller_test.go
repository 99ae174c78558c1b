package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibelink-events/vibelink-api/models"
	"github.com/vibelink-events/vibelink-api/services"
	"gorm.io/gorm"
)

func contentRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/blog", ListBlogPosts)
	router.GET("/blog/:slug", GetBlogPost)
	router.POST("/newsletter", Subscribe)
	router.GET("/invoices/:invoiceNumber", GetInvoice)
	router.GET("/surveys/:token", GetSurvey)
	router.POST("/surveys/:token", SubmitSurvey)
	router.GET("/testimonials", ListTestimonials)
	return router
}

func createTestPost(t *testing.T, db *gorm.DB, slug, category string, published bool) {
	t.Helper()
	now := time.Now()
	require.NoError(t, db.Create(&models.BlogPost{
		Slug:        slug,
		Title:       "Planning " + slug,
		Excerpt:     "A short guide",
		Content:     "The full article",
		Category:    category,
		Published:   published,
		PublishedAt: &now,
	}).Error)
}

func createTestSurvey(t *testing.T, db *gorm.DB, token string, mutate func(s *models.Survey)) {
	t.Helper()
	survey := models.Survey{
		Token:         token,
		CustomerName:  "Ama Mensah",
		CustomerEmail: "ama@example.com",
		Status:        models.SurveyStatusSent,
	}
	if mutate != nil {
		mutate(&survey)
	}
	require.NoError(t, db.Create(&survey).Error)
}

func TestBlogPosts(t *testing.T) {
	env := setupTestEnv(t)
	createTestPost(t, env.db, "wedding-invites", "weddings", true)
	createTestPost(t, env.db, "birthday-flyers", "birthdays", true)
	createTestPost(t, env.db, "coming-soon", "weddings", false)
	router := contentRouter()

	tests := []struct {
		name          string
		query         string
		expectedCount int
	}{
		{"Published posts", "", 2},
		{"All categories", "?category=all", 2},
		{"One category", "?category=weddings", 1},
		{"Empty category", "?category=graduations", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/blog"+tt.query, nil, nil)
			assertStatus(t, http.StatusOK, w)
			posts := responseList(t, w)
			assert.Len(t, posts, tt.expectedCount)
			for _, p := range posts {
				assert.NotContains(t, p.(map[string]interface{}), "content", "listings leave out the article body")
			}
		})
	}

	t.Run("Get by slug", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/blog/wedding-invites", nil, nil)
		assertStatus(t, http.StatusOK, w)
		assert.Equal(t, "The full article", responseData(t, w)["content"])
	})

	t.Run("Unpublished post", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/blog/coming-soon", nil, nil)
		assertStatus(t, http.StatusNotFound, w)
		assert.Equal(t, "POST_NOT_FOUND", errorCode(t, w))
	})
}

func TestSubscribe(t *testing.T) {
	env := setupTestEnv(t)
	router := contentRouter()

	w := performRequest(router, http.MethodPost, "/newsletter", map[string]interface{}{"email": "Ama@Example.com"}, nil)
	assertStatus(t, http.StatusCreated, w)
	data := responseData(t, w)
	assert.Equal(t, "ama@example.com", data["email"])
	assert.Equal(t, "website", data["source"])
	assert.Equal(t, []string{services.FunctionWelcomeEmail}, env.notifier.Kinds())

	t.Run("Subscribing again", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/newsletter", map[string]interface{}{"email": "ama@example.com", "source": "footer"}, nil)
		assertStatus(t, http.StatusOK, w)
		assert.Len(t, env.notifier.Kinds(), 1, "the welcome email goes out once")
	})

	t.Run("Invalid email", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/newsletter", map[string]interface{}{"email": "ama"}, nil)
		assertStatus(t, http.StatusBadRequest, w)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	})

	var count int64
	env.db.Model(&models.NewsletterSubscriber{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetInvoice(t *testing.T) {
	env := setupTestEnv(t)
	invoice := models.Invoice{
		InvoiceNumber: "INV-2026-0001",
		CustomerName:  "Ama Mensah",
		CustomerEmail: "ama@example.com",
		Subtotal:      decimal.NewFromInt(1300),
		Total:         decimal.NewFromInt(1300),
		Status:        models.InvoiceStatusSent,
		Items: []models.InvoiceItem{{
			Description: "Classic package",
			Quantity:    1,
			UnitPrice:   decimal.NewFromInt(1300),
			Total:       decimal.NewFromInt(1300),
		}},
	}
	require.NoError(t, env.db.Create(&invoice).Error)
	router := contentRouter()

	w := performRequest(router, http.MethodGet, "/invoices/INV-2026-0001", nil, nil)
	assertStatus(t, http.StatusOK, w)
	data := responseData(t, w)
	assert.Equal(t, models.InvoiceStatusViewed, data["status"])
	assert.NotNil(t, data["viewed_at"])
	assert.Len(t, data["items"], 1)

	var stored models.Invoice
	require.NoError(t, env.db.First(&stored, "id = ?", invoice.ID).Error)
	assert.Equal(t, models.InvoiceStatusViewed, stored.Status)

	w = performRequest(router, http.MethodGet, "/invoices/INV-0000", nil, nil)
	assertStatus(t, http.StatusNotFound, w)
	assert.Equal(t, "INVOICE_NOT_FOUND", errorCode(t, w))
}

func TestSurvey(t *testing.T) {
	env := setupTestEnv(t)
	createTestSurvey(t, env.db, "survey-token", nil)
	router := contentRouter()

	w := performRequest(router, http.MethodGet, "/surveys/survey-token", nil, nil)
	assertStatus(t, http.StatusOK, w)
	assert.Equal(t, "Ama Mensah", responseData(t, w)["customer_name"])

	w = performRequest(router, http.MethodPost, "/surveys/survey-token", map[string]interface{}{"overall_rating": 6}, nil)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	w = performRequest(router, http.MethodPost, "/surveys/survey-token", map[string]interface{}{
		"overall_rating":    5,
		"design_quality":    5,
		"feedback_text":     "  The invitations were stunning  ",
		"allow_testimonial": true,
	}, nil)
	assertStatus(t, http.StatusCreated, w)
	assert.Equal(t, "The invitations were stunning", responseData(t, w)["feedback_text"])

	var testimonials []models.Testimonial
	require.NoError(t, env.db.Find(&testimonials).Error)
	require.Len(t, testimonials, 1)
	assert.Equal(t, "Ama Mensah", testimonials[0].Name)

	w = performRequest(router, http.MethodPost, "/surveys/survey-token", map[string]interface{}{"overall_rating": 4}, nil)
	assertStatus(t, http.StatusConflict, w)
	assert.Equal(t, "SURVEY_COMPLETED", errorCode(t, w))
}

func TestSurvey_Errors(t *testing.T) {
	env := setupTestEnv(t)
	expired := time.Now().Add(-time.Hour)
	createTestSurvey(t, env.db, "expired-token", func(s *models.Survey) {
		s.ExpiresAt = &expired
	})
	router := contentRouter()

	w := performRequest(router, http.MethodPost, "/surveys/expired-token", map[string]interface{}{"overall_rating": 5}, nil)
	assertStatus(t, http.StatusGone, w)
	assert.Equal(t, "SURVEY_EXPIRED", errorCode(t, w))

	w = performRequest(router, http.MethodGet, "/surveys/unknown", nil, nil)
	assertStatus(t, http.StatusNotFound, w)
	assert.Equal(t, "SURVEY_NOT_FOUND", errorCode(t, w))
}

func TestListTestimonials(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.db.Create(&models.Testimonial{Name: "Efua", Quote: "Lovely work", Rating: 5, Featured: true}).Error)
	require.NoError(t, env.db.Create(&models.Testimonial{Name: "Kwame", Quote: "Fast delivery", Rating: 4}).Error)
	router := contentRouter()

	w := performRequest(router, http.MethodGet, "/testimonials", nil, nil)
	assertStatus(t, http.StatusOK, w)
	all := responseList(t, w)
	require.Len(t, all, 2)
	assert.Equal(t, "Efua", all[0].(map[string]interface{})["name"], "featured testimonials come first")

	w = performRequest(router, http.MethodGet, "/testimonials?featured=true", nil, nil)
	assertStatus(t, http.StatusOK, w)
	assert.Len(t, responseList(t, w), 1)
}
