package product

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/technocomputers/storefront-api/cache"
	"github.com/technocomputers/storefront-api/response"
	"github.com/technocomputers/storefront-api/service"
)

func GetCategories(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeInactive := c.Query("includeInactive") == "true"
		categories, err := svc.ListCategories(includeInactive)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Categories retrieved successfully", categories)
	}
}

func CreateCategory(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.CreateCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Category name is required")
			return
		}
		category, err := svc.CreateCategory(input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Created(c, "Category created successfully", category)
	}
}

func UpdateCategory(svc *service.CatalogService, store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid category ID")
			return
		}
		var input service.UpdateCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid category payload")
			return
		}
		category, err := svc.UpdateCategory(uint(id), input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		// A rename rewrites the denormalized product rows.
		store.Invalidate(c.Request.Context(), cachePrefix)
		response.OK(c, "Category updated successfully", category)
	}
}

func DeleteCategory(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid category ID")
			return
		}
		if err := svc.DeleteCategory(uint(id)); err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Category deleted successfully", nil)
	}
}

func GetCategoryStats(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetCategoryStats()
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Category statistics retrieved successfully", stats)
	}
}
