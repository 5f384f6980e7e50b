package response

import (
	"errors"
	"net/http"

	"constructhub/internal/domain"

	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	ErrorWithDetails(c, statusCode, code, message, nil)
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   ErrorBody{Code: code, Message: message, Details: details},
	})
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, statusCode int, code string, message string) {
	Error(c, statusCode, code, message)
	c.Abort()
}

// BadRequest is used when the body cannot be decoded at all.
func BadRequest(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
}

// FromError maps the shared domain errors onto HTTP statuses. Anything it
// does not recognize is recorded on the context and reported as a generic
// internal error.
func FromError(c *gin.Context, err error) {
	fields := domain.FieldErrors(err)

	switch {
	case fields != nil:
		ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Some fields are invalid", fields)
	case errors.Is(err, domain.ErrValidation):
		Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please sign in to continue")
	case errors.Is(err, domain.ErrForbidden):
		Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to do this")
	case errors.Is(err, domain.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", "This status change is not allowed")
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong, please try again")
	}
}
