package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/technocomputers/storefront-api/config"
	"github.com/technocomputers/storefront-api/models"
	"github.com/technocomputers/storefront-api/service"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// every connection to :memory: is a distinct database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Counter{},
		&models.Contact{},
	))

	log := zaptest.NewLogger(t)
	cfg := &config.Config{JWTSecret: "test-secret", UploadDir: t.TempDir()}

	r := gin.New()
	Setup(r, Deps{
		Config:  cfg,
		Catalog: service.NewCatalogService(db, log),
		Cart:    service.NewCartService(db, log),
		Orders:  service.NewOrderService(db, log, nil),
		Users:   service.NewUserService(db, log, nil),
		Contact: service.NewContactService(db, log, nil),
	})
	return r, db
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Asha",
		"lastName":  "Varma",
		"email":     "asha@example.com",
		"password":  "s3cretpw",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	r, db := newTestRouter(t)
	token := registerAndLogin(t, r)

	product := models.Product{
		Name: "Laptop", Price: 1000, Category: "Laptops",
		Brand: "Acme", Stock: 5, Status: models.StatusActive,
	}
	require.NoError(t, db.Create(&product).Error)

	w, _ := doJSON(t, r, http.MethodPost, "/api/cart", token, gin.H{
		"productId": product.ID,
		"quantity":  2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/orders", token, gin.H{
		"items":         []gin.H{{"productId": product.ID, "quantity": 2}},
		"paymentMethod": "cod",
		"shippingAddress": gin.H{
			"firstName": "Asha", "lastName": "Varma",
			"address": "12 Marine Drive", "city": "Kochi",
			"postalCode": "682001", "phone": "9900112233",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var order struct {
		OrderNumber string  `json:"orderNumber"`
		TotalAmount float64 `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "TCO000001", order.OrderNumber)
	assert.Equal(t, 2000.0, order.TotalAmount)

	// the cart was emptied by checkout
	w, env = doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Empty(t, cart.Items)
}

func TestCartRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	w, env := doJSON(t, r, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerAndLogin(t, r)

	w, _ := doJSON(t, r, http.MethodGet, "/api/orders", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/products/category", token, gin.H{"name": "Laptops"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCategoryAndUserManagement(t *testing.T) {
	r, db := newTestRouter(t)
	token := registerAndLogin(t, r)
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "asha@example.com").
		Update("role", models.RoleAdmin).Error)
	// role lives in the token, so log in again after promotion
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "asha@example.com", "password": "s3cretpw",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	token = payload.Token

	w, _ = doJSON(t, r, http.MethodPost, "/api/products/category", token, gin.H{"name": "Laptops"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/products/category", token, gin.H{"name": "laptops"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContactValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/contacts/save", "", gin.H{"name": "A"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/contacts/save", "", gin.H{
		"name": "Priya", "email": "priya@example.com",
		"subject": "Warranty", "message": "Question about warranty",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}
