package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nkoryukov/taskboard/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// abortValidation renders a service ValidationError as a 422 with
// the field-level message.
func abortValidation(c *gin.Context, verr *services.ValidationError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"errors": gin.H{verr.Field: verr.Message},
	})
}

// abortTaskError maps task service failures onto the response
// taxonomy: 422 for rejected input, 403 for another user's task,
// 404 for a missing one, 500 for everything else.
func abortTaskError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		abortValidation(c, verr)
	case errors.Is(err, services.ErrTaskForbidden):
		abort(c, newStatusTextError(http.StatusForbidden))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newStatusTextError(http.StatusNotFound))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
