package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/technocomputers/storefront-api/cache"
	"github.com/technocomputers/storefront-api/config"
	authctl "github.com/technocomputers/storefront-api/controllers/auth"
	cartctl "github.com/technocomputers/storefront-api/controllers/cart"
	contactctl "github.com/technocomputers/storefront-api/controllers/contact"
	orderctl "github.com/technocomputers/storefront-api/controllers/order"
	productctl "github.com/technocomputers/storefront-api/controllers/product"
	userctl "github.com/technocomputers/storefront-api/controllers/user"
	"github.com/technocomputers/storefront-api/middleware"
	"github.com/technocomputers/storefront-api/service"
)

// Deps holds everything the route tree needs.
type Deps struct {
	Config  *config.Config
	Catalog *service.CatalogService
	Cart    *service.CartService
	Orders  *service.OrderService
	Users   *service.UserService
	Contact *service.ContactService
	Cache   *cache.Cache
}

func Setup(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.PrometheusHandler())
	r.Static("/uploads", d.Config.UploadDir)

	authn := middleware.Authenticate(d.Config.JWTSecret)
	admin := middleware.AdminOnly()

	api := r.Group("/api")

	products := api.Group("/products")
	{
		products.GET("", productctl.GetProducts(d.Catalog, d.Cache))
		products.GET("/featured", productctl.GetFeaturedProducts(d.Catalog))
		products.GET("/search", productctl.SearchProducts(d.Catalog))

		category := products.Group("/category")
		{
			category.GET("/all", productctl.GetCategories(d.Catalog))
			category.GET("/stats", authn, admin, productctl.GetCategoryStats(d.Catalog))
			category.POST("", authn, admin, productctl.CreateCategory(d.Catalog))
			category.PUT("/:id", authn, admin, productctl.UpdateCategory(d.Catalog, d.Cache))
			category.DELETE("/:id", authn, admin, productctl.DeleteCategory(d.Catalog))
			category.GET("/:categoryName", productctl.GetProductsByCategory(d.Catalog))
		}

		products.GET("/admin/stats", authn, admin, productctl.GetProductStats(d.Catalog))
		products.GET("/admin/export", authn, admin, productctl.ExportProducts(d.Catalog))
		products.POST("", authn, admin, productctl.CreateProduct(d.Catalog, d.Config, d.Cache))
		products.GET("/:id", productctl.GetProduct(d.Catalog))
		products.PUT("/:id", authn, admin, productctl.UpdateProduct(d.Catalog, d.Config, d.Cache))
		products.DELETE("/:id", authn, admin, productctl.DeleteProduct(d.Catalog, d.Cache))
	}

	cart := api.Group("/cart", authn)
	{
		cart.GET("", cartctl.GetCart(d.Cart))
		cart.POST("", cartctl.AddItem(d.Cart))
		cart.PUT("/:productId", cartctl.UpdateItem(d.Cart))
		cart.DELETE("/:productId", cartctl.RemoveItem(d.Cart))
		cart.DELETE("", cartctl.ClearCart(d.Cart))
	}

	orders := api.Group("/orders", authn)
	{
		orders.POST("", orderctl.CreateOrder(d.Orders))
		orders.GET("", admin, orderctl.ListOrders(d.Orders))
		orders.GET("/my", orderctl.GetMyOrders(d.Orders))
		orders.GET("/admin/stats", admin, orderctl.GetOrderStats(d.Orders))
		orders.GET("/:id", orderctl.GetOrder(d.Orders))
		orders.PUT("/:id/status", admin, orderctl.UpdateOrderStatus(d.Orders))
	}

	users := api.Group("/users", authn, admin)
	{
		users.GET("", userctl.ListUsers(d.Users))
		users.GET("/stats", userctl.GetUserStats(d.Users))
		users.GET("/:id", userctl.GetUser(d.Users))
		users.PUT("/:id/status", userctl.UpdateUserStatus(d.Users))
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authctl.Register(d.Users, d.Config.JWTSecret))
		authGroup.POST("/login", authctl.Login(d.Users, d.Config.JWTSecret))
		authGroup.GET("/profile", authn, authctl.GetProfile(d.Users))
		authGroup.PUT("/profile", authn, authctl.UpdateProfile(d.Users))
		authGroup.PUT("/change-password", authn, authctl.ChangePassword(d.Users))
	}

	contacts := api.Group("/contacts")
	{
		contacts.POST("/save", contactctl.SaveContact(d.Contact))
		contacts.GET("/all", authn, admin, contactctl.GetAllContacts(d.Contact))
	}
}
