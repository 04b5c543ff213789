package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/technocomputers/storefront-api/models"
)

type CreateCategoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory enforces case-insensitive name uniqueness.
func (s *CatalogService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("Category name is required")
	}

	var existing models.Category
	err := s.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&existing).Error
	if err == nil {
		return nil, validationf("Category with this name already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := models.Category{
		Name:        name,
		Description: input.Description,
		Status:      models.StatusActive,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns active categories; includeInactive widens it for the
// admin screens.
func (s *CatalogService) ListCategories(includeInactive bool) ([]models.Category, error) {
	query := s.db.Model(&models.Category{})
	if !includeInactive {
		query = query.Where("status = ?", models.StatusActive)
	}
	var categories []models.Category
	err := query.Order("name asc").Find(&categories).Error
	return categories, err
}

func (s *CatalogService) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Category not found")
		}
		return nil, err
	}
	return &category, nil
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// UpdateCategory renames the category and rewrites the denormalized name on
// its products in the same transaction.
func (s *CatalogService) UpdateCategory(id uint, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	oldName := category.Name
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationf("Category name is required")
		}
		var existing models.Category
		err := s.db.Where("LOWER(name) = ? AND id <> ?", strings.ToLower(name), id).First(&existing).Error
		if err == nil {
			return nil, validationf("Category with this name already exists")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Status != nil {
		if *input.Status != models.StatusActive && *input.Status != models.StatusInactive {
			return nil, validationf("Invalid status. Must be active or inactive")
		}
		category.Status = *input.Status
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(category).Error; err != nil {
			return err
		}
		if category.Name != oldName {
			return tx.Model(&models.Product{}).
				Where("category = ?", oldName).
				UpdateColumn("category", category.Name).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses while any active product still references the name.
func (s *CatalogService) DeleteCategory(id uint) error {
	category, err := s.GetCategory(id)
	if err != nil {
		return err
	}

	var inUse int64
	if err := s.db.Model(&models.Product{}).
		Where("category = ? AND status = ?", category.Name, models.StatusActive).
		Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return validationf("Cannot delete category that is being used by products")
	}

	category.Status = models.StatusInactive
	return s.db.Save(category).Error
}

type CategoryStats struct {
	TotalCategories int64        `json:"totalCategories"`
	ProductCounts   []GroupCount `json:"productCounts"`
}

func (s *CatalogService) GetCategoryStats() (*CategoryStats, error) {
	stats := &CategoryStats{}
	if err := s.db.Model(&models.Category{}).
		Where("status = ?", models.StatusActive).
		Count(&stats.TotalCategories).Error; err != nil {
		return nil, err
	}

	err := s.db.Model(&models.Category{}).
		Select("categories.name as name, COUNT(products.id) as count").
		Joins("LEFT JOIN products ON products.category = categories.name AND products.status = ?", models.StatusActive).
		Where("categories.status = ?", models.StatusActive).
		Group("categories.name").
		Order("count DESC").
		Scan(&stats.ProductCounts).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
