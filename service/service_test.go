package service

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/technocomputers/storefront-api/mailer"
	"github.com/technocomputers/storefront-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

// mailRecorder captures outgoing mail instead of sending it.
type mailRecorder struct {
	mu            sync.Mutex
	welcomes      []string
	confirmations []string
	statusUpdates []string
	contacts      []mailer.ContactMessage
	failNext      bool
}

func (m *mailRecorder) fail() error {
	if m.failNext {
		m.failNext = false
		return errSMTPDown
	}
	return nil
}

var errSMTPDown = &sendError{}

type sendError struct{}

func (*sendError) Error() string { return "smtp unavailable" }

func (m *mailRecorder) SendWelcome(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	m.welcomes = append(m.welcomes, to)
	return nil
}

func (m *mailRecorder) SendOrderConfirmation(to, name, orderNumber string, total float64, lines []mailer.OrderLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	m.confirmations = append(m.confirmations, orderNumber)
	return nil
}

func (m *mailRecorder) SendOrderStatusUpdate(to, name, orderNumber, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	m.statusUpdates = append(m.statusUpdates, orderNumber+":"+status)
	return nil
}

func (m *mailRecorder) SendContactMessage(msg mailer.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail(); err != nil {
		return err
	}
	m.contacts = append(m.contacts, msg)
	return nil
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		ID:        uuid.NewString(),
		FirstName: "Asha",
		LastName:  "Varma",
		Email:     uuid.NewString()[:8] + "@example.com",
		Password:  "x",
		Role:      models.RoleCustomer,
		Status:    models.StatusActive,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := models.Category{Name: name, Status: models.StatusActive}
	require.NoError(t, db.Create(&category).Error)
	return &category
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    price,
		Category: "Laptops",
		Brand:    "Acme",
		Stock:    stock,
		Status:   models.StatusActive,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t)
}
