package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"farmpos/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	headerStaffID    = "X-Staff-ID"
	headerTerminalID = "X-Terminal-ID"

	ctxKeyProfile  = "profile"
	ctxKeyTerminal = "terminalID"
)

// staffMiddleware resolves the caller's profile and gates the cart and
// settlement flow: only worker and admin roles may sell. Identity itself
// is issued externally; this only reads the mirrored role.
func staffMiddleware(profiles profileRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(headerStaffID))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("missing_staff_id", "X-Staff-ID header required"))
			return
		}

		profile, err := profiles.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody("unknown_staff", "no profile for staff id"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody("profile_lookup_failed", "could not resolve staff profile"))
			return
		}
		if !profile.CanSell() {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody("forbidden_role", "role may not use the cart"))
			return
		}

		c.Set(ctxKeyProfile, profile)
		c.Next()
	}
}

// requireTerminal demands the terminal header that keys the cart and
// viewed-products ledgers.
func requireTerminal() gin.HandlerFunc {
	return func(c *gin.Context) {
		terminalID := strings.TrimSpace(c.GetHeader(headerTerminalID))
		if terminalID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorBody("missing_terminal_id", "X-Terminal-ID header required"))
			return
		}
		c.Set(ctxKeyTerminal, terminalID)
		c.Next()
	}
}

func terminalID(c *gin.Context) string {
	return c.GetString(ctxKeyTerminal)
}

func currentProfile(c *gin.Context) *domain.Profile {
	if v, ok := c.Get(ctxKeyProfile); ok {
		if p, ok := v.(*domain.Profile); ok {
			return p
		}
	}
	return nil
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}
