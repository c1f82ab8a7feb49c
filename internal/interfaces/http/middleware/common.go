package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ircomercio/ordens/internal/infrastructure/config"
	"github.com/ircomercio/ordens/internal/interfaces/http/dto"
)

// RequestID assigns a request ID to each request, reusing the caller's
// X-Request-ID header when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// CORS returns a CORS middleware driven by the HTTP config. An empty
// origin list rejects all cross-origin requests.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	allowWildcard := false
	for _, o := range cfg.CORSAllowOrigins {
		if o == "*" {
			allowWildcard = true
			break
		}
	}

	methods := strings.Join(cfg.CORSAllowMethods, ", ")
	headers := strings.Join(cfg.CORSAllowHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := ""
		switch {
		case allowWildcard:
			allowed = "*"
		default:
			for _, o := range cfg.CORSAllowOrigins {
				if o == origin {
					allowed = origin
					break
				}
			}
		}

		if allowed != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")
			h.Set("Access-Control-Max-Age", "43200")
			if allowed != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		// Preflight requests always get 204 so missing CORS headers do
		// not surface as 404s in the browser console.
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// BodyLimit caps request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size", c.GetString("request_id")))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
