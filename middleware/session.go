package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vibelink-events/vibelink-api/config"
	"github.com/vibelink-events/vibelink-api/models"
	"gorm.io/gorm"
)

const customerSessionKey = "customer_session"

// SessionClaims identify a customer portal session. The token id is the session row id.
// Tokens carry no expiry; a session ends when its row is deleted.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs an HS256 token for the session
func IssueSessionToken(secret string, session *models.CustomerSession) (string, error) {
	claims := SessionClaims{
		Email: session.Email,
		Name:  session.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       session.ID.String(),
			Subject:  session.Email,
			IssuedAt: jwt.NewNumericDate(session.CreatedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates the signature and returns the claims
func ParseSessionToken(secret, tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}

// RequireCustomerSession checks the portal bearer token and that its session still exists
func RequireCustomerSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			abortUnauthorized(c, "MISSING_TOKEN", "Please sign in to the customer portal")
			return
		}

		claims, err := ParseSessionToken(cfg.SessionSecret, tokenStr)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Session token is invalid")
			return
		}

		sessionID, err := uuid.Parse(claims.ID)
		if err != nil {
			abortUnauthorized(c, "INVALID_TOKEN", "Session token is invalid")
			return
		}

		db := config.GetDB()
		var session models.CustomerSession
		if err := db.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortUnauthorized(c, "SESSION_EXPIRED", "Session has ended, please sign in again")
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load session",
				},
			})
			c.Abort()
			return
		}

		now := time.Now()
		if err := db.Model(&session).Update("last_seen_at", now).Error; err == nil {
			session.LastSeenAt = now
		}

		c.Set(customerSessionKey, &session)
		c.Next()
	}
}

// GetCustomerSession returns the portal session set by RequireCustomerSession
func GetCustomerSession(c *gin.Context) (*models.CustomerSession, error) {
	value, exists := c.Get(customerSessionKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_SESSION", Message: "Customer session not found in context"}
	}

	session, ok := value.(*models.CustomerSession)
	if !ok {
		return nil, &AuthError{Code: "INVALID_SESSION", Message: "Customer session is not in the expected format"}
	}

	return session, nil
}

// SetCustomerSession stores a session on the context (primarily for testing)
func SetCustomerSession(c *gin.Context, session *models.CustomerSession) {
	c.Set(customerSessionKey, session)
}
