package httpserver

import (
	"log"

	"shop-backend/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.POST("/auth/signup", signupHandler(deps.AuthSvc))
	router.POST("/auth/token", tokenHandler(deps.AuthSvc))

	router.GET("/categories", listCategoriesHandler(deps.Categories))
	router.GET("/products", listProductsHandler(deps.Products))
	router.GET("/products/:slug", getProductHandler(deps.Products))

	authed := router.Group("", authMiddleware(deps.AuthSvc))
	authed.GET("/cart", getCartHandler(deps.CartSvc))
	authed.GET("/orders", listOrdersHandler(deps.OrderSvc))
	authed.GET("/orders/:id", getOrderHandler(deps.OrderSvc))

	mutating := authed.Group("", rateLimitMiddleware(logger, deps.Limiter))
	mutating.POST("/cart/add", addToCartHandler(deps.CartSvc))
	mutating.POST("/cart/remove", removeFromCartHandler(deps.CartSvc))
	mutating.POST("/cart/clear", clearCartHandler(deps.CartSvc))
	mutating.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
	mutating.POST("/orders/:id/cancel", cancelOrderHandler(deps.OrderSvc))

	return router
}
