package order

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/technocomputers/storefront-api/models"
	"github.com/technocomputers/storefront-api/response"
	"github.com/technocomputers/storefront-api/service"
)

func CreateOrder(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.CreateOrderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid order payload")
			return
		}
		order, err := svc.CreateOrder(c.GetString("user_id"), input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Created(c, "Order placed successfully", order)
	}
}

// GetOrder lets an admin read any order; customers only their own.
func GetOrder(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid order ID")
			return
		}
		order, err := svc.GetOrder(uint(id))
		if err != nil {
			response.FromError(c, err)
			return
		}
		if c.GetString("user_role") != models.RoleAdmin && order.UserID != c.GetString("user_id") {
			response.Fail(c, http.StatusNotFound, "Order not found")
			return
		}
		response.OK(c, "Order retrieved successfully", order)
	}
}

func ListOrders(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, pagination, err := svc.ListOrders(filterFromQuery(c))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Orders retrieved successfully", gin.H{
			"orders":     orders,
			"pagination": pagination,
		})
	}
}

func GetMyOrders(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, pagination, err := svc.GetUserOrders(c.GetString("user_id"), filterFromQuery(c))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Orders retrieved successfully", gin.H{
			"orders":     orders,
			"pagination": pagination,
		})
	}
}

func UpdateOrderStatus(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid order ID")
			return
		}
		var input service.UpdateOrderStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid status payload")
			return
		}
		order, err := svc.UpdateOrderStatus(uint(id), input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Order status updated successfully", order)
	}
}

func GetOrderStats(svc *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetOrderStats()
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Order statistics retrieved successfully", stats)
	}
}

func filterFromQuery(c *gin.Context) service.OrderFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return service.OrderFilter{
		Page:          page,
		Limit:         limit,
		Sort:          c.Query("sort"),
		Order:         c.Query("order"),
		Search:        c.Query("search"),
		OrderStatus:   c.Query("orderStatus"),
		PaymentStatus: c.Query("paymentStatus"),
		UserID:        c.Query("userId"),
	}
}
