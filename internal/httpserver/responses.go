package httpserver

import (
	"errors"
	"net/http"

	"shop-backend/internal/domain"
	usersvc "shop-backend/internal/service/user"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"productId,omitempty"`
}

func errorPayload(code, message, productID string) gin.H {
	return gin.H{"error": errorBody{Code: code, Message: message, ProductID: productID}}
}

// writeError maps a domain error onto an HTTP status plus a stable error
// code callers can branch on.
func writeError(c *gin.Context, err error) {
	status, code := errorStatus(err)

	productID := ""
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) {
		productID = stockErr.ProductID
	}

	c.AbortWithStatusJSON(status, errorPayload(code, err.Error(), productID))
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "InvalidQuantity"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, "InsufficientStock"
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, "EmptyCart"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "AlreadyExists"
	case errors.Is(err, usersvc.ErrEmailRequired), errors.Is(err, usersvc.ErrPasswordTooShort):
		return http.StatusBadRequest, "InvalidRequest"
	case errors.Is(err, usersvc.ErrInvalidCredentials), errors.Is(err, usersvc.ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthorized"
	default:
		return http.StatusInternalServerError, "Internal"
	}
}

func writeBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorPayload("InvalidRequest", err.Error(), ""))
}
