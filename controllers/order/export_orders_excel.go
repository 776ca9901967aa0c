package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/models"
)

// ExportOrdersToExcel streams every order (one row per line item) as an
// xlsx download for the back office.
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Details.Product").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al obtener los pedidos."})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Pedidos")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el archivo Excel."})
			return
		}

		// Header row
		headers := []string{
			"OrderID", "UserID", "Status", "CreatedAt",
			"ProductID", "Product", "Quantity", "Price", "LineTotal",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		// Data rows: one per line item
		for _, o := range orders {
			for _, d := range o.Details {
				row := sheet.AddRow()
				row.AddCell().SetValue(o.ID)
				row.AddCell().SetValue(o.UserID)
				row.AddCell().SetValue(string(o.Status))
				row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
				row.AddCell().SetValue(d.ProductID)
				row.AddCell().SetValue(d.Product.Name)
				row.AddCell().SetValue(d.Quantity)
				row.AddCell().SetValue(d.Price)
				row.AddCell().SetValue(d.Price * float64(d.Quantity))
			}
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=pedidos.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al generar el archivo Excel."})
			return
		}
	}
}
