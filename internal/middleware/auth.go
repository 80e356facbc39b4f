package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/pkg/jwt"
	"brokerdesk/internal/pkg/response"
)

const (
	userIDKey        = "user_id"
	verifiedEmailKey = "verified_email"
)

// JWTAuth verifies the bearer token and stores its subject under "user_id"
// and a provider-verified email, if any, under "verified_email".
// Websocket clients cannot set headers, so a "token" query parameter is
// accepted when the Authorization header is absent.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, code, message := bearerToken(c)
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, code, message)
			c.Abort()
			return
		}

		id, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(userIDKey, id.Subject)
		c.Set(verifiedEmailKey, id.VerifiedEmail)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (token, code, message string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if q := strings.TrimSpace(c.Query("token")); q != "" {
			return q, "", ""
		}
		return "", "AUTH_HEADER_MISSING", "Authorization header is required"
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'"
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "INVALID_AUTH_FORMAT", "Empty token"
	}
	return token, "", ""
}

// UserID returns the authenticated subject, or "" outside JWTAuth.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// VerifiedEmail returns the email the auth provider vouched for, or "".
func VerifiedEmail(c *gin.Context) string {
	return c.GetString(verifiedEmailKey)
}
