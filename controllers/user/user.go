package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/technocomputers/storefront-api/response"
	"github.com/technocomputers/storefront-api/service"
)

func ListUsers(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		users, pagination, err := svc.ListUsers(service.UserFilter{
			Page:   page,
			Limit:  limit,
			Search: c.Query("search"),
			Role:   c.Query("role"),
			Status: c.Query("status"),
		})
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Users retrieved successfully", gin.H{
			"users":      users,
			"pagination": pagination,
		})
	}
}

func GetUser(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetUser(c.Param("id"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "User retrieved successfully", user)
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func UpdateUserStatus(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, http.StatusBadRequest, "Status is required")
			return
		}
		user, err := svc.UpdateUserStatus(c.Param("id"), req.Status)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "User status updated successfully", user)
	}
}

func GetUserStats(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetUserStats()
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "User statistics retrieved successfully", stats)
	}
}
