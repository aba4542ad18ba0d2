package testutil

import (
	"net/http"
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/gulfsteel/steelstore-api/middleware"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer, role string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
			Role:  role,
		},
	}
}

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID, role string, scopes []string) {
	c.Set("user_id", userID)
	c.Set("validated_claims", MockValidatedClaims(userID, "https://test.auth0.com/", role, scopes))
}

// MockAuth stands in for EnsureValidToken. Requests without a bearer token are
// rejected the way the real middleware rejects them.
func MockAuth(userID, role string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_TOKEN", "message": "Failed to validate JWT."},
			})
			return
		}
		SetMockAuthContext(c, userID, role, scopes)
		c.Next()
	}
}
