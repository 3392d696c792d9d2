package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/jwalitptl/salon-booking/pkg/errors"
)

// ErrorLogger logs errors that handlers attached with c.Error. The response
// has already been written by then. Client errors are logged at debug level.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			kind := apperrors.KindOf(e.Err)
			event := log.Debug()
			if kind == apperrors.KindInternal || kind == apperrors.KindStorage {
				event = log.Error()
			}
			event.
				Err(e.Err).
				Str("kind", kind.String()).
				Str("request_id", c.GetString(ContextRequestID)).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")
		}
	}
}
