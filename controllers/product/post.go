package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	Barcode     string  `json:"barcode"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// CreateProduct adds a product to the catalog.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre y precio son obligatorios."})
			return
		}
		if req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El precio no puede ser negativo."})
			return
		}

		product := models.Product{
			Name:        req.Name,
			Price:       req.Price,
			Barcode:     req.Barcode,
			Description: req.Description,
			Image:       req.Image,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al agregar el producto."})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Producto agregado con éxito.", "id": product.ID})
	}
}
