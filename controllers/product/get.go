package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

// GetProducts returns the whole catalog.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("id").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los productos."})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetProductByID returns a single product.
// URL param: /api/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido."})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado."})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener el producto."})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
