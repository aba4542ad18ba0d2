package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionIDKey    = "session_id"
	sessionHeader   = "X-Session-ID"
	sessionLifetime = 30 * 24 * 60 * 60 // seconds
)

// EnsureSession gives every storefront visitor an anonymous session id before
// any handler runs. The id comes from the session cookie or the X-Session-ID
// header; a new one is issued when neither holds a valid UUID.
func EnsureSession(cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""
		if cookie, err := c.Cookie(cookieName); err == nil && isSessionID(cookie) {
			sessionID = cookie
		} else if header := c.GetHeader(sessionHeader); isSessionID(header) {
			sessionID = header
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, sessionID, sessionLifetime, "/", "", secure, true)
		c.Header(sessionHeader, sessionID)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session id set by EnsureSession
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func isSessionID(value string) bool {
	if value == "" {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}
