// Package response renders the API envelope shared by every endpoint:
// {success, message, data?} on success, {success, message, error?} on failure.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/technocomputers/storefront-api/service"
)

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

func ServerError(c *gin.Context, message, detail string) {
	c.JSON(http.StatusInternalServerError, Envelope{Success: false, Message: message, Error: detail})
}

// FromError maps a domain error to its HTTP status. Anything that is not a
// typed domain error is reported as a generic 500; the detail stays in the
// server log, never in the body.
func FromError(c *gin.Context, err error) {
	var ve *service.ValidationError
	var nf *service.NotFoundError
	var ae *service.AuthError
	switch {
	case errors.As(err, &ve):
		Fail(c, http.StatusBadRequest, ve.Message)
	case errors.As(err, &nf):
		Fail(c, http.StatusNotFound, nf.Message)
	case errors.As(err, &ae):
		Fail(c, http.StatusUnauthorized, ae.Message)
	default:
		Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
