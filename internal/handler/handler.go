package handler

import (
	"errors"
	"net/http"

	"salesdesk-backend/internal/pricing"
	"salesdesk-backend/internal/service"
	"salesdesk-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is reported as an internal error without leaking details.
func writeError(c *gin.Context, err error) {
	var valErr *pricing.ValidationError

	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, valErr.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, err.Error()))
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}

// actorID returns the authenticated user's ID placed in context by RequireRole
func actorID(c *gin.Context) string {
	v, ok := c.Get("userID")
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
