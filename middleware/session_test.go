package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibelink-events/vibelink-api/config"
	"github.com/vibelink-events/vibelink-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-session-secret"

func setupSessionDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.AutoMigrate(&models.CustomerSession{}))
	config.SetDB(db)
	return db
}

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := &config.Config{SessionSecret: testSecret}
	router.GET("/portal/me", RequireCustomerSession(cfg), func(c *gin.Context) {
		session, err := GetCustomerSession(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": session.Email})
	})
	return router
}

func TestIssueAndParseSessionToken(t *testing.T) {
	session := &models.CustomerSession{Email: "ama@example.com", Name: "Ama Mensah", CreatedAt: time.Now()}
	require.NoError(t, session.BeforeCreate(nil))

	token, err := IssueSessionToken(testSecret, session)
	require.NoError(t, err)

	claims, err := ParseSessionToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, session.ID.String(), claims.ID)
	assert.Equal(t, "ama@example.com", claims.Email)
	assert.Equal(t, "Ama Mensah", claims.Name)
	assert.Nil(t, claims.ExpiresAt, "portal sessions do not expire")

	_, err = ParseSessionToken("another-secret", token)
	assert.Error(t, err)
}

func TestParseSessionToken_RejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{Email: "ama@example.com"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseSessionToken(testSecret, signed)
	assert.Error(t, err)
}

func TestRequireCustomerSession(t *testing.T) {
	db := setupSessionDB(t)
	router := sessionRouter()

	session := models.CustomerSession{Email: "ama@example.com", Name: "Ama"}
	require.NoError(t, db.Create(&session).Error)
	token, err := IssueSessionToken(testSecret, &session)
	require.NoError(t, err)

	ended := models.CustomerSession{Email: "kofi@example.com"}
	require.NoError(t, db.Create(&ended).Error)
	endedToken, err := IssueSessionToken(testSecret, &ended)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&ended).Error)

	tests := []struct {
		name         string
		header       string
		expectedCode int
		expectedErr  string
	}{
		{name: "valid session", header: "Bearer " + token, expectedCode: http.StatusOK},
		{name: "missing header", header: "", expectedCode: http.StatusUnauthorized, expectedErr: "MISSING_TOKEN"},
		{name: "garbage token", header: "Bearer not-a-token", expectedCode: http.StatusUnauthorized, expectedErr: "INVALID_TOKEN"},
		{name: "session logged out", header: "Bearer " + endedToken, expectedCode: http.StatusUnauthorized, expectedErr: "SESSION_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/portal/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			if tt.expectedErr != "" {
				assert.Equal(t, false, response["success"])
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedErr, errorData["code"])
			} else {
				assert.Equal(t, "ama@example.com", response["email"])
			}
		})
	}
}

func TestGetCustomerSession_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetCustomerSession(c)
	assert.Error(t, err)

	SetCustomerSession(c, &models.CustomerSession{Email: "ama@example.com"})
	session, err := GetCustomerSession(c)
	require.NoError(t, err)
	assert.Equal(t, "ama@example.com", session.Email)
}
