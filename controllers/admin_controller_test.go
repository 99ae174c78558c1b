package controllers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibelink-events/vibelink-api/middleware"
	"github.com/vibelink-events/vibelink-api/models"
	"github.com/vibelink-events/vibelink-api/services"
	"github.com/vibelink-events/vibelink-api/tests/testutil"
)

const testAdminID = "auth0|admin123"

func adminRouter(scopes ...string) *gin.Engine {
	router := setupTestRouter()
	admin := router.Group("/admin")
	admin.Use(testutil.MockAuthMiddleware(testAdminID, scopes...), middleware.RequireScope(middleware.AdminScope))
	{
		admin.GET("/orders", AdminListOrders)
		admin.GET("/orders/export", AdminExportOrders)
		admin.GET("/orders/:id", AdminGetOrder)
		admin.PATCH("/orders/:id/status", AdminUpdateOrderStatus)
		admin.PATCH("/orders/:id/payment-status", AdminUpdatePaymentStatus)
		admin.POST("/orders/:id/payments", AdminRecordPayment)
		admin.PUT("/revisions/:id", AdminRespondToRevision)
		admin.GET("/calendar", AdminCalendar)
		admin.GET("/analytics", AdminAnalytics)
	}
	return router
}

func TestAdmin_RequiresScope(t *testing.T) {
	setupTestEnv(t)

	w := performRequest(adminRouter("read:profile"), http.MethodGet, "/admin/orders", nil, nil)

	assertStatus(t, http.StatusForbidden, w)
	assert.Equal(t, "INSUFFICIENT_SCOPE", errorCode(t, w))
}

func TestAdminListOrders(t *testing.T) {
	env := setupTestEnv(t)
	createTestOrder(t, env.db, nil)
	createTestOrder(t, env.db, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusInProgress
	})
	router := adminRouter(middleware.AdminScope)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
		expectedError  string
	}{
		{"All orders", "", http.StatusOK, 2, ""},
		{"All tab", "?status=all", http.StatusOK, 2, ""},
		{"Pending tab", "?status=pending", http.StatusOK, 1, ""},
		{"In progress tab", "?status=in_progress", http.StatusOK, 1, ""},
		{"Completed tab", "?status=completed", http.StatusOK, 0, ""},
		{"Unknown tab", "?status=shipped", http.StatusBadRequest, 0, "INVALID_STATUS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodGet, "/admin/orders"+tt.query, nil, nil)

			assertStatus(t, tt.expectedStatus, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				return
			}
			assert.Len(t, responseList(t, w), tt.expectedCount)
		})
	}
}

func TestAdminGetOrder(t *testing.T) {
	env := setupTestEnv(t)
	order := createTestOrder(t, env.db, nil)
	require.NoError(t, env.db.Create(&models.OrderRevision{
		OrderID:     order.ID,
		RequestText: "Please change the font",
		Status:      models.RevisionStatusPending,
	}).Error)
	router := adminRouter(middleware.AdminScope)

	w := performRequest(router, http.MethodGet, "/admin/orders/"+order.ID.String(), nil, nil)
	assertStatus(t, http.StatusOK, w)
	data := responseData(t, w)
	assert.Equal(t, order.ID.String(), data["id"])
	assert.Len(t, data["revisions"], 1)

	w = performRequest(router, http.MethodGet, "/admin/orders/"+uuid.NewString(), nil, nil)
	assertStatus(t, http.StatusNotFound, w)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(t, w))

	w = performRequest(router, http.MethodGet, "/admin/orders/not-a-uuid", nil, nil)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "INVALID_ID", errorCode(t, w))
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	env := setupTestEnv(t)
	order := createTestOrder(t, env.db, nil)
	router := adminRouter(middleware.AdminScope)
	path := "/admin/orders/" + order.ID.String() + "/status"

	w := performRequest(router, http.MethodPatch, path, map[string]interface{}{"status": "draft_ready"}, nil)
	assertStatus(t, http.StatusOK, w)
	assert.Equal(t, "draft_ready", responseData(t, w)["order_status"])
	assert.Equal(t, []string{services.FunctionStatusEmail}, env.notifier.Kinds())

	// any status may follow any other
	w = performRequest(router, http.MethodPatch, path, map[string]interface{}{"status": "pending"}, nil)
	assertStatus(t, http.StatusOK, w)

	w = performRequest(router, http.MethodPatch, path, map[string]interface{}{"status": "shipped"}, nil)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, w))

	w = performRequest(router, http.MethodPatch, path, map[string]interface{}{}, nil)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestAdminUpdatePaymentStatus(t *testing.T) {
	env := setupTestEnv(t)
	order := createTestOrder(t, env.db, nil)
	router := adminRouter(middleware.AdminScope)
	path := "/admin/orders/" + order.ID.String() + "/payment-status"

	w := performRequest(router, http.MethodPatch, path, map[string]interface{}{"payment_status": "fully_paid"}, nil)
	assertStatus(t, http.StatusOK, w)
	data := responseData(t, w)
	assert.Equal(t, "fully_paid", data["payment_status"])
	assert.Equal(t, true, data["deposit_paid"])
	assert.Equal(t, true, data["balance_paid"])

	w = performRequest(router, http.MethodPatch, path, map[string]interface{}{"payment_status": "refunded"}, nil)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "INVALID_PAYMENT_STATUS", errorCode(t, w))
}

func TestAdminRecordPayment(t *testing.T) {
	env := setupTestEnv(t)
	order := createTestOrder(t, env.db, nil)
	router := adminRouter(middleware.AdminScope)
	path := "/admin/orders/" + order.ID.String() + "/payments"

	w := performRequest(router, http.MethodPost, path, map[string]interface{}{
		"payment_type": "deposit",
		"reference":    "MOMO-7781",
	}, nil)

	assertStatus(t, http.StatusCreated, w)
	data := responseData(t, w)
	payment := data["payment"].(map[string]interface{})
	assert.Equal(t, "650", payment["amount"])
	assert.Equal(t, models.PaymentMethodBankTransfer, payment["payment_method"])
	assert.Equal(t, "MOMO-7781", payment["reference"])
	assert.Equal(t, testAdminID, payment["recorded_by"])
	assert.Equal(t, "deposit_paid", data["order"].(map[string]interface{})["payment_status"])
	assert.Equal(t, []string{services.FunctionPaymentConfirmation, services.FunctionAdminPaymentNotification}, env.notifier.Kinds())

	t.Run("Full payments are taken online only", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, path, map[string]interface{}{"payment_type": "full"}, nil)
		assertStatus(t, http.StatusBadRequest, w)
		assert.Equal(t, "INVALID_PAYMENT_TYPE", errorCode(t, w))
	})

	t.Run("Deposit recorded twice", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, path, map[string]interface{}{"payment_type": "deposit"}, nil)
		assertStatus(t, http.StatusConflict, w)
		assert.Equal(t, "ALREADY_PAID", errorCode(t, w))

		var count int64
		env.db.Model(&models.PaymentHistory{}).Where("order_id = ?", order.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Unknown order", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/admin/orders/"+uuid.NewString()+"/payments",
			map[string]interface{}{"payment_type": "balance"}, nil)
		assertStatus(t, http.StatusNotFound, w)
		assert.Equal(t, "ORDER_NOT_FOUND", errorCode(t, w))
	})
}

func TestAdminRespondToRevision(t *testing.T) {
	env := setupTestEnv(t)
	order := createTestOrder(t, env.db, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusRevision
	})
	revision := models.OrderRevision{
		OrderID:     order.ID,
		RequestText: "Please change the font",
		Status:      models.RevisionStatusPending,
	}
	require.NoError(t, env.db.Create(&revision).Error)
	router := adminRouter(middleware.AdminScope)
	path := "/admin/revisions/" + revision.ID.String()

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{"Unknown status", map[string]interface{}{"status": "pending"}, http.StatusBadRequest, "INVALID_STATUS"},
		{"Completing without a response", map[string]interface{}{"status": "completed"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Start work", map[string]interface{}{"status": "in_progress"}, http.StatusOK, ""},
		{"Complete with a response", map[string]interface{}{"status": "completed", "admin_response": "Font changed to Playfair"}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPut, path, tt.body, nil)

			assertStatus(t, tt.expectedStatus, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
				return
			}
			assert.Equal(t, tt.body["status"], responseData(t, w)["status"])
		})
	}

	var stored models.Order
	require.NoError(t, env.db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, models.OrderStatusDraftReady, stored.OrderStatus)

	w := performRequest(router, http.MethodPut, "/admin/revisions/"+uuid.NewString(), map[string]interface{}{"status": "in_progress"}, nil)
	assertStatus(t, http.StatusNotFound, w)
	assert.Equal(t, "REVISION_NOT_FOUND", errorCode(t, w))
}

func TestAdminCalendar(t *testing.T) {
	env := setupTestEnv(t)
	createTestOrder(t, env.db, nil)
	createTestOrder(t, env.db, func(o *models.Order) {
		o.EventDate = "2027-01-04"
	})
	router := adminRouter(middleware.AdminScope)

	w := performRequest(router, http.MethodGet, "/admin/calendar?month=2026-12", nil, nil)
	assertStatus(t, http.StatusOK, w)
	data := responseData(t, w)
	assert.Equal(t, "2026-12", data["month"])
	assert.Equal(t, float64(1), data["total"])
	days := data["days"].([]interface{})
	require.Len(t, days, 1)
	assert.Equal(t, "2026-12-12", days[0].(map[string]interface{})["date"])

	w = performRequest(router, http.MethodGet, "/admin/calendar?month=December", nil, nil)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "INVALID_MONTH", errorCode(t, w))
}

func TestAdminAnalytics(t *testing.T) {
	env := setupTestEnv(t)
	createTestOrder(t, env.db, nil)
	createTestOrder(t, env.db, func(o *models.Order) {
		o.OrderStatus = models.OrderStatusCompleted
	})
	router := adminRouter(middleware.AdminScope)

	w := performRequest(router, http.MethodGet, "/admin/analytics?range=30d", nil, nil)
	assertStatus(t, http.StatusOK, w)
	data := responseData(t, w)
	assert.Equal(t, "30d", data["range"])
	assert.Equal(t, float64(2), data["total_orders"])
	assert.Equal(t, float64(1), data["completed_orders"])
	assert.Equal(t, "2600", data["total_revenue"])

	w = performRequest(router, http.MethodGet, "/admin/analytics?range=1y", nil, nil)
	assertStatus(t, http.StatusBadRequest, w)
	assert.Equal(t, "INVALID_RANGE", errorCode(t, w))
}

func TestAdminExportOrders(t *testing.T) {
	env := setupTestEnv(t)
	createTestOrder(t, env.db, nil)
	router := adminRouter(middleware.AdminScope)

	w := performRequest(router, http.MethodGet, "/admin/orders/export", nil, nil)

	assertStatus(t, http.StatusOK, w)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="orders-`))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Order ID,Client Name,Email"))
	assert.Contains(t, lines[1], "Ama Mensah")
	assert.Contains(t, lines[1], "1300.00")
}
