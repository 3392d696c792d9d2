package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/salon-booking/pkg/httputil"
)

// SizeLimit rejects bodies larger than maxBytes. Declared lengths are checked
// up front; chunked bodies are capped with http.MaxBytesReader.
func SizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, httputil.Response{
				Status:  "error",
				Code:    "request_too_large",
				Message: fmt.Sprintf("request body exceeds %d bytes", maxBytes),
			})
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
