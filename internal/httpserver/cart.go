package httpserver

import (
	"net/http"

	"shop-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type addLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	// Quantity defaults to 1 when omitted; an explicit non-positive value
	// is rejected.
	Quantity *int `json:"quantity"`
}

type removeLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		cart, err := svc.Get(c.Request.Context(), user.ID)
		if err != nil {
			writeError(c, err)
			return
		}
		if cart.Lines == nil {
			cart.Lines = []domain.CartLine{}
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addToCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		var req addLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		if err := svc.Add(c.Request.Context(), user.ID, req.ProductID, quantity); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": "product added to cart"})
	}
}

func removeFromCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		var req removeLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		if err := svc.Remove(c.Request.Context(), user.ID, req.ProductID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": "product removed from cart"})
	}
}

func clearCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if err := svc.Clear(c.Request.Context(), user.ID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": "cart cleared"})
	}
}
