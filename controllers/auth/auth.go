package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/technocomputers/storefront-api/auth"
	"github.com/technocomputers/storefront-api/response"
	"github.com/technocomputers/storefront-api/service"
)

func Register(svc *service.UserService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "All required fields must be provided")
			return
		}
		user, err := svc.Register(input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		token, err := auth.GenerateToken(jwtSecret, user.ID, user.Email, user.Role)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		response.Created(c, "Registration successful", gin.H{
			"user":  user,
			"token": token,
		})
	}
}

func Login(svc *service.UserService, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Email and password are required")
			return
		}
		user, err := svc.Login(input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		token, err := auth.GenerateToken(jwtSecret, user.ID, user.Email, user.Role)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		response.OK(c, "Login successful", gin.H{
			"user":  user,
			"token": token,
		})
	}
}

func GetProfile(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.GetUser(c.GetString("user_id"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Profile retrieved successfully", user)
	}
}

func UpdateProfile(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Invalid profile payload")
			return
		}
		user, err := svc.UpdateProfile(c.GetString("user_id"), input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Profile updated successfully", user)
	}
}

func ChangePassword(svc *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.ChangePasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Current and new passwords are required")
			return
		}
		if err := svc.ChangePassword(c.GetString("user_id"), input); err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Password changed successfully", nil)
	}
}
