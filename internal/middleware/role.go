package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/domain/courtier"
	"brokerdesk/internal/pkg/response"
)

const courtierKey = "courtier"

// CourtierLoader loads a courtier profile by its auth subject.
type CourtierLoader interface {
	Get(ctx context.Context, id string) (*courtier.Courtier, error)
}

// RequireCourtier loads the caller's courtier profile from the store. Roles
// and cabinet membership are always taken from this document, never from
// token claims.
func RequireCourtier(loader CourtierLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		profile, err := loader.Get(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, courtier.ErrCourtierNotFound) {
				response.Error(c, http.StatusForbidden, "COURTIER_REQUIRED", "Register a courtier profile first")
			} else {
				response.FromError(c, err)
			}
			c.Abort()
			return
		}

		c.Set(courtierKey, profile)
		c.Next()
	}
}

// Courtier returns the profile loaded by RequireCourtier.
func Courtier(c *gin.Context) *courtier.Courtier {
	v, ok := c.Get(courtierKey)
	if !ok {
		return nil
	}
	profile, _ := v.(*courtier.Courtier)
	return profile
}
