package httpserver

import (
	"net/http"

	productrepo "shop-backend/internal/repository/product"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(catalog productCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := productrepo.ListFilter{
			Search: c.Query("search"),
			Sort:   c.Query("sort"),
		}
		products, err := catalog.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": products, "count": len(products)})
	}
}

func getProductHandler(catalog productCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listCategoriesHandler(catalog categoryCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": categories, "count": len(categories)})
	}
}
