package cart

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/technocomputers/storefront-api/response"
	"github.com/technocomputers/storefront-api/service"
)

func GetCart(svc *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.GetCart(c.GetString("user_id"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Cart retrieved successfully", cart)
	}
}

type addItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

func AddItem(svc *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, "Product ID and quantity are required")
			return
		}
		cart, err := svc.AddItem(c.GetString("user_id"), req.ProductID, req.Quantity)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Item added to cart successfully", cart)
	}
}

type updateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func UpdateItem(svc *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid product ID")
			return
		}
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, "Quantity is required")
			return
		}
		cart, err := svc.UpdateItemQuantity(c.GetString("user_id"), uint(productID), req.Quantity)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Cart updated successfully", cart)
	}
}

func RemoveItem(svc *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid product ID")
			return
		}
		cart, err := svc.RemoveItem(c.GetString("user_id"), uint(productID))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Item removed from cart successfully", cart)
	}
}

func ClearCart(svc *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Clear(c.GetString("user_id"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Cart cleared successfully", cart)
	}
}
