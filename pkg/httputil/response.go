package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/salon-booking/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondWithSuccess sends a 200 success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	RespondWithStatus(c, http.StatusOK, data)
}

// RespondWithStatus sends a success response with the given status
func RespondWithStatus(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError sends an error response. AppErrors keep their message and
// status; anything else is reported as an internal error.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}

	_ = c.Error(err)
	c.JSON(appErr.StatusCode(), Response{
		Status:  "error",
		Code:    appErr.Kind.String(),
		Message: appErr.Message,
	})
}

// RespondWithBadRequest sends a 400 with a plain message
func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, apperrors.Validation(message, nil))
}
