package product

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/technocomputers/storefront-api/cache"
	"github.com/technocomputers/storefront-api/config"
	"github.com/technocomputers/storefront-api/response"
	"github.com/technocomputers/storefront-api/service"
)

const cachePrefix = "products:"

type listPayload struct {
	Products   interface{}        `json:"products"`
	Pagination service.Pagination `json:"pagination"`
}

func GetProducts(svc *service.CatalogService, store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := filterFromQuery(c)

		key := cachePrefix + c.Request.URL.RawQuery
		var cached listPayload
		if store.Get(c.Request.Context(), key, &cached) {
			response.OK(c, "Products retrieved successfully", cached)
			return
		}

		products, pagination, err := svc.ListProducts(filter)
		if err != nil {
			response.FromError(c, err)
			return
		}
		payload := listPayload{Products: products, Pagination: pagination}
		store.Set(c.Request.Context(), key, payload)
		response.OK(c, "Products retrieved successfully", payload)
	}
}

func GetProduct(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid product ID")
			return
		}
		product, err := svc.GetProduct(uint(id))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Product retrieved successfully", product)
	}
}

func GetFeaturedProducts(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
		products, err := svc.FeaturedProducts(limit)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Featured products retrieved successfully", products)
	}
}

func SearchProducts(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
		products, pagination, err := svc.SearchProducts(c.Query("q"), page, limit)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Search results retrieved successfully",
			listPayload{Products: products, Pagination: pagination})
	}
}

func GetProductsByCategory(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
		products, pagination, err := svc.ProductsByCategory(
			c.Param("categoryName"), page, limit, c.Query("sort"), c.Query("order"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Products retrieved successfully",
			listPayload{Products: products, Pagination: pagination})
	}
}

// CreateProduct accepts multipart form data: a "product" JSON part plus any
// number of "images" files.
func CreateProduct(svc *service.CatalogService, cfg *config.Config, store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.CreateProductInput
		if err := bindProductForm(c, &input); err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}

		images, err := saveImages(c, cfg)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		input.Images = append(input.Images, images...)

		product, err := svc.CreateProduct(input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		store.Invalidate(c.Request.Context(), cachePrefix)
		response.Created(c, "Product created successfully", product)
	}
}

func UpdateProduct(svc *service.CatalogService, cfg *config.Config, store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid product ID")
			return
		}

		var input service.UpdateProductInput
		contentType := c.GetHeader("Content-Type")
		if strings.HasPrefix(contentType, "multipart/form-data") {
			if raw := c.PostForm("product"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &input); err != nil {
					response.Fail(c, http.StatusBadRequest, "Invalid product payload")
					return
				}
			}
			images, err := saveImages(c, cfg)
			if err != nil {
				response.Fail(c, http.StatusBadRequest, err.Error())
				return
			}
			if len(images) > 0 {
				input.Images = append(input.Images, images...)
			}
		} else if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid product payload")
			return
		}

		product, err := svc.UpdateProduct(uint(id), input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		store.Invalidate(c.Request.Context(), cachePrefix)
		response.OK(c, "Product updated successfully", product)
	}
}

func DeleteProduct(svc *service.CatalogService, store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid product ID")
			return
		}
		if err := svc.DeleteProduct(uint(id)); err != nil {
			response.FromError(c, err)
			return
		}
		store.Invalidate(c.Request.Context(), cachePrefix)
		response.OK(c, "Product deleted successfully", nil)
	}
}

func GetProductStats(svc *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetProductStats()
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Product statistics retrieved successfully", stats)
	}
}

func filterFromQuery(c *gin.Context) service.ProductFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	filter := service.ProductFilter{
		Page:     page,
		Limit:    limit,
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Brand:    c.Query("brand"),
		Status:   c.Query("status"),
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, err := strconv.ParseBool(c.Query("featured")); err == nil {
		filter.Featured = &v
	}
	return filter
}

func bindProductForm(c *gin.Context, input *service.CreateProductInput) error {
	raw := c.PostForm("product")
	if raw == "" {
		return fmt.Errorf("product data is required")
	}
	if err := json.Unmarshal([]byte(raw), input); err != nil {
		return fmt.Errorf("invalid product payload")
	}
	if input.Name == "" || input.Category == "" || input.Brand == "" {
		return fmt.Errorf("name, category and brand are required")
	}
	if input.Price <= 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	return nil
}

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// saveImages writes each uploaded file under the upload dir with a random
// name and returns the public /uploads paths.
func saveImages(c *gin.Context, cfg *config.Config) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not prepare upload directory")
	}

	maxBytes := cfg.MaxUploadMB << 20
	paths := make([]string, 0, len(files))
	for _, file := range files {
		if err := validateImage(file, maxBytes); err != nil {
			return nil, err
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		name := uuid.NewString() + ext
		if err := c.SaveUploadedFile(file, filepath.Join(cfg.UploadDir, name)); err != nil {
			return nil, fmt.Errorf("failed to save image")
		}
		paths = append(paths, "/uploads/"+name)
	}
	return paths, nil
}

func validateImage(file *multipart.FileHeader, maxBytes int64) error {
	if file.Size > maxBytes {
		return fmt.Errorf("image %s exceeds the size limit", file.Filename)
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(file.Filename))] {
		return fmt.Errorf("unsupported image type: %s", file.Filename)
	}
	return nil
}
