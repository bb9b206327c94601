package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ruralcare/health-api/pkg/errors"
)

type response struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, response{Data: data})
}

// respondError maps application error codes onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message so internals never leak.
func respondError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(statusFor(appErr.Code), response{Error: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, response{Error: "internal server error"})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response{Error: err.Error()})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrBadRequest:
		return http.StatusBadRequest
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrForbidden:
		return http.StatusForbidden
	case errors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
