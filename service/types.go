package service

import (
	"fmt"
	"math"

	"github.com/technocomputers/storefront-api/mailer"
	"github.com/technocomputers/storefront-api/models"
)

// Mailer is the notification surface the services depend on. The concrete
// implementation lives in the mailer package; tests substitute a recorder.
type Mailer interface {
	SendWelcome(to, name string) error
	SendOrderConfirmation(to, name, orderNumber string, total float64, lines []mailer.OrderLine) error
	SendOrderStatusUpdate(to, name, orderNumber, status string) error
	SendContactMessage(msg mailer.ContactMessage) error
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

func paginate(page, limit int, total int64) Pagination {
	return Pagination{
		CurrentPage:  page,
		TotalPages:   int(math.Ceil(float64(total) / float64(limit))),
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// sortColumns whitelists client-supplied sort fields against real columns.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"name":        "name",
	"price":       "price",
	"stock":       "stock",
	"totalAmount": "total_amount",
	"orderNumber": "order_number",
	"email":       "email",
	"firstName":   "first_name",
}

func orderClause(sort, order string) string {
	col, ok := sortColumns[sort]
	if !ok {
		col = "created_at"
	}
	if order != "asc" {
		order = "desc"
	}
	return fmt.Sprintf("%s %s", col, order)
}

// ProductSnapshot is the product detail attached to populated cart and order
// line items for display.
type ProductSnapshot struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Price         float64           `json:"price"`
	DiscountPrice *float64          `json:"discountPrice,omitempty"`
	Images        models.StringList `json:"images"`
	Stock         int               `json:"stock"`
	Brand         string            `json:"brand,omitempty"`
}

func snapshotOf(p *models.Product) *ProductSnapshot {
	return &ProductSnapshot{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Images:        p.Images,
		Stock:         p.Stock,
		Brand:         p.Brand,
	}
}
