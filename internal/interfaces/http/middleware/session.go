package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ircomercio/ordens/internal/domain/shared"
	"github.com/ircomercio/ordens/internal/infrastructure/portal"
	"github.com/ircomercio/ordens/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionTokenHeader = "X-Session-Token"
	SessionKey         = "portal_session"
	SessionUserKey     = "portal_username"
)

// SessionAuth verifies the opaque session token of every request against
// the identity portal. Tokens are never decoded locally. An invalid or
// missing token answers 401 with a uniform body; a portal outage answers
// 502 so clients can tell rejection from unavailability.
func SessionAuth(verifier portal.SessionVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionTokenHeader)

		session, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponse(dto.ErrCodeUnauthorized, shared.ErrUnauthorized.Message, c.GetString("request_id")))
				return
			}

			logger.Warn("Session verification unavailable",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusBadGateway,
				dto.NewErrorResponse(dto.ErrCodeOffline, "Session service is unreachable", c.GetString("request_id")))
			return
		}

		c.Set(SessionKey, session)
		if session != nil {
			c.Set(SessionUserKey, session.Username)
		}
		c.Next()
	}
}

// SessionFromContext returns the verified portal session, if any
func SessionFromContext(c *gin.Context) *portal.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*portal.Session); ok {
			return s
		}
	}
	return nil
}
