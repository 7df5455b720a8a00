package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luislem95/api-gestor-pedidos/internal/cart"
	"github.com/luislem95/api-gestor-pedidos/internal/orders"
	"github.com/luislem95/api-gestor-pedidos/internal/receipts"
	"github.com/luislem95/api-gestor-pedidos/internal/sessions"
)

// respond writes the success envelope: a human-readable message plus the
// operation payload under data.
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}

// respondError maps a domain error to its HTTP status and writes the error
// envelope. Unrecognized errors are internal failures.
func respondError(c *gin.Context, message string, err error) {
	c.JSON(statusFor(err), gin.H{
		"message": message,
		"error":   err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sessions.ErrNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, orders.ErrSessionNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, receipts.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, receipts.ErrInvalidImage),
		errors.Is(err, receipts.ErrInvalidObjectPath),
		errors.Is(err, errMissingParam),
		errors.Is(err, errEmptyUpdate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errMissingParam = errors.New("missing required parameter")

var errEmptyUpdate = errors.New("no attributes to update")
