package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de producto inválido."})
			return
		}

		res := db.Delete(&models.Product{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el producto."})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado."})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado con éxito."})
	}
}
