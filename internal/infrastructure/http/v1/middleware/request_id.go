package middleware

import (
	"github.com/gin-gonic/gin"

	"lendhub/internal/core/appctx"
)

// HeaderRequestID carries the request id between client and server.
const HeaderRequestID = "X-Request-ID"

// RequestID middleware extracts or generates a request id, stores it in the
// request context and echoes it in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = appctx.NewRequestID()
		}

		ctx := appctx.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("request_id", requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()
	}
}
