package service

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/technocomputers/storefront-api/models"
)

// CatalogService is product and category CRUD plus the aggregate statistics
// the admin dashboard reads.
type CatalogService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCatalogService(db *gorm.DB, log *zap.Logger) *CatalogService {
	return &CatalogService{db: db, log: log}
}

type ProductFilter struct {
	Page     int
	Limit    int
	Sort     string
	Order    string
	Search   string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Status   string
}

// ListProducts applies the catalog filters. An unknown or inactive category
// yields an empty page, not an error.
func (s *CatalogService) ListProducts(f ProductFilter) ([]models.Product, Pagination, error) {
	page, limit := normalizePage(f.Page, f.Limit, 12)
	status := f.Status
	if status == "" {
		status = models.StatusActive
	}

	query := s.db.Model(&models.Product{}).Where("status = ?", status)

	if f.Category != "" {
		var category models.Category
		err := s.db.Where("LOWER(name) = ? AND status = ?",
			strings.ToLower(f.Category), models.StatusActive).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.Product{}, Pagination{CurrentPage: page, ItemsPerPage: limit}, nil
		}
		if err != nil {
			return nil, Pagination{}, err
		}
		query = query.Where("category = ?", category.Name)
	}

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?",
			like, like, like,
		)
	}
	if f.Brand != "" {
		query = query.Where("brand = ?", f.Brand)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	if f.Featured != nil {
		query = query.Where("featured = ?", *f.Featured)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var products []models.Product
	if err := query.
		Order(orderClause(f.Sort, f.Order)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, Pagination{}, err
	}

	return products, paginate(page, limit, total), nil
}

func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, err
	}
	return &product, nil
}

func (s *CatalogService) FeaturedProducts(limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = 8
	}
	var products []models.Product
	err := s.db.
		Where("featured = ? AND status = ?", true, models.StatusActive).
		Order("created_at desc").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (s *CatalogService) SearchProducts(q string, page, limit int) ([]models.Product, Pagination, error) {
	if q == "" {
		return nil, Pagination{}, validationf("Search query is required")
	}
	return s.ListProducts(ProductFilter{Page: page, Limit: limit, Search: q})
}

func (s *CatalogService) ProductsByCategory(categoryName string, page, limit int, sort, order string) ([]models.Product, Pagination, error) {
	return s.ListProducts(ProductFilter{
		Page:     page,
		Limit:    limit,
		Sort:     sort,
		Order:    order,
		Category: categoryName,
	})
}

type CreateProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64 `json:"discountPrice"`
	Category      string   `json:"category" binding:"required"`
	Brand         string   `json:"brand" binding:"required"`
	Stock         int      `json:"stock" binding:"min=0"`
	Images        []string `json:"images"`
	Featured      bool     `json:"featured"`
}

// CreateProduct stores the category by its canonical name, denormalized onto
// the product row.
func (s *CatalogService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	category, err := s.activeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	product := models.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Category:      category.Name,
		Brand:         input.Brand,
		Stock:         input.Stock,
		Images:        input.Images,
		Status:        models.StatusActive,
		Featured:      input.Featured,
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

type UpdateProductInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	DiscountPrice *float64 `json:"discountPrice"`
	Category      *string  `json:"category"`
	Brand         *string  `json:"brand"`
	Stock         *int     `json:"stock"`
	Images        []string `json:"images"`
	Status        *string  `json:"status"`
	Featured      *bool    `json:"featured"`
}

func (s *CatalogService) UpdateProduct(id uint, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil && *input.Category != product.Category {
		category, err := s.activeCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		product.Category = category.Name
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, validationf("Price must be greater than zero")
		}
		product.Price = *input.Price
	}
	if input.DiscountPrice != nil {
		product.DiscountPrice = input.DiscountPrice
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, validationf("Stock cannot be negative")
		}
		product.Stock = *input.Stock
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Status != nil {
		if *input.Status != models.StatusActive && *input.Status != models.StatusInactive {
			return nil, validationf("Invalid status. Must be active or inactive")
		}
		product.Status = *input.Status
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct is a soft delete; the row is flipped inactive and kept.
func (s *CatalogService) DeleteProduct(id uint) error {
	product, err := s.GetProduct(id)
	if err != nil {
		return err
	}
	product.Status = models.StatusInactive
	return s.db.Save(product).Error
}

func (s *CatalogService) activeCategory(name string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("LOWER(name) = ? AND status = ?",
		strings.ToLower(name), models.StatusActive).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationf("Invalid category selected")
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

type GroupCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type ProductStats struct {
	TotalProducts    int64        `json:"totalProducts"`
	FeaturedProducts int64        `json:"featuredProducts"`
	OutOfStock       int64        `json:"outOfStock"`
	LowStock         int64        `json:"lowStock"`
	Categories       []GroupCount `json:"categories"`
	Brands           []GroupCount `json:"brands"`
}

func (s *CatalogService) GetProductStats() (*ProductStats, error) {
	stats := &ProductStats{}
	active := s.db.Model(&models.Product{}).Where("status = ?", models.StatusActive)

	if err := active.Session(&gorm.Session{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).Where("featured = ?", true).Count(&stats.FeaturedProducts).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).Where("stock = 0").Count(&stats.OutOfStock).Error; err != nil {
		return nil, err
	}
	if err := active.Session(&gorm.Session{}).Where("stock > 0 AND stock <= 10").Count(&stats.LowStock).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Product{}).
		Where("status = ?", models.StatusActive).
		Select("category as name, COUNT(*) as count").
		Group("category").
		Order("count DESC").
		Scan(&stats.Categories).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Product{}).
		Where("status = ?", models.StatusActive).
		Select("brand as name, COUNT(*) as count").
		Group("brand").
		Order("count DESC").
		Scan(&stats.Brands).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
