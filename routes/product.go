package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/MoNRaSpGit/KioscoPiloto-Back/controllers/product"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/api/products")
	{
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))
		products.POST("", productcontroller.CreateProduct(db))
		products.PUT("/:id", productcontroller.UpdateProduct(db))
		products.DELETE("/:id", productcontroller.DeleteProduct(db))
	}
}
