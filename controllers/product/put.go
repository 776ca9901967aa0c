package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Barcode     *string  `json:"barcode"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

// UpdateProduct patches the provided fields only.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido."})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado."})
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos."})
			return
		}

		updates := make(map[string]interface{})
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Price != nil {
			if *req.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "El precio no puede ser negativo."})
				return
			}
			updates["price"] = *req.Price
		}
		if req.Barcode != nil {
			updates["barcode"] = *req.Barcode
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Image != nil {
			updates["image"] = *req.Image
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el producto."})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Producto actualizado con éxito.", "product": product})
	}
}
