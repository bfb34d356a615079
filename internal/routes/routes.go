package routes

import (
	"inventory_back_end/internal/handlers/product"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, products *product.Handler) {
	// Produits
	r.GET("/products", products.GetAllProducts)
	r.POST("/products", products.CreateProduct)
	r.GET("/products/:id", products.GetProduct)
	r.PUT("/products/:id", products.UpdateProduct)
	r.DELETE("/products/:id", products.DeleteProduct)
}
