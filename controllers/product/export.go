package product

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/technocomputers/storefront-api/response"
	"github.com/technocomputers/storefront-api/service"
)

// ExportProducts streams the full catalog as an xlsx workbook.
func ExportProducts(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, _, err := svc.ListProducts(service.ProductFilter{Limit: 10000})
		if err != nil {
			response.FromError(c, err)
			return
		}

		wb := xlsx.NewFile()
		sheet, err := wb.AddSheet("Products")
		if err != nil {
			response.ServerError(c, "Failed to build export", err.Error())
			return
		}

		header := sheet.AddRow()
		for _, title := range []string{"ID", "Name", "Category", "Brand", "Price", "Discount Price", "Stock", "Featured", "Status", "Created"} {
			header.AddCell().SetString(title)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetInt(int(p.ID))
			row.AddCell().SetString(p.Name)
			row.AddCell().SetString(p.Category)
			row.AddCell().SetString(p.Brand)
			row.AddCell().SetFloat(p.Price)
			if p.DiscountPrice != nil {
				row.AddCell().SetFloat(*p.DiscountPrice)
			} else {
				row.AddCell().SetString("")
			}
			row.AddCell().SetInt(p.Stock)
			row.AddCell().SetBool(p.Featured)
			row.AddCell().SetString(p.Status)
			row.AddCell().SetString(p.CreatedAt.Format("2006-01-02"))
		}

		filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := wb.Write(c.Writer); err != nil {
			c.Abort()
		}
	}
}
