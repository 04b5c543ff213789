package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/technocomputers/storefront-api/mailer"
	"github.com/technocomputers/storefront-api/models"
)

// OrderService owns order placement and the order lifecycle. Placement runs as
// one transaction: stock checks, guarded decrements, order-number assignment,
// the order insert and the cart reset either all land or none do.
type OrderService struct {
	db     *gorm.DB
	log    *zap.Logger
	mailer Mailer
}

func NewOrderService(db *gorm.DB, log *zap.Logger, m Mailer) *OrderService {
	return &OrderService{db: db, log: log, mailer: m}
}

type OrderItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput       `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
	Notes           string                 `json:"notes"`
}

type OrderUser struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type PopulatedOrderItem struct {
	models.OrderItem
	Product *ProductSnapshot `json:"product"`
}

type PopulatedOrder struct {
	models.Order
	User  *OrderUser           `json:"user"`
	Items []PopulatedOrderItem `json:"items"`
}

type OrderFilter struct {
	Page          int
	Limit         int
	Sort          string
	Order         string
	Search        string // matches orderNumber
	OrderStatus   string
	PaymentStatus string
	UserID        string
}

// CreateOrder places an order for the user's requested items.
func (s *OrderService) CreateOrder(userID string, input CreateOrderInput) (*PopulatedOrder, error) {
	if len(input.Items) == 0 {
		return nil, validationf("Order items are required")
	}

	var order models.Order
	var mailLines []mailer.OrderLine

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var totalAmount float64
		var orderItems []models.OrderItem
		mailLines = mailLines[:0]

		for _, item := range input.Items {
			if item.Quantity < 1 {
				return validationf("Quantity must be at least 1")
			}

			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return validationf("Product with ID %d not found", item.ProductID)
				}
				return err
			}
			if product.Stock < item.Quantity {
				return validationf("Insufficient stock for product: %s", product.Name)
			}

			// Guarded decrement: the WHERE clause makes the write conditional
			// on stock still covering the quantity, so two concurrent orders
			// cannot both take the last units.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return validationf("Insufficient stock for product: %s", product.Name)
			}

			price := product.EffectivePrice()
			lineTotal := price * float64(item.Quantity)
			totalAmount += lineTotal

			orderItems = append(orderItems, models.OrderItem{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				Price:      price,
				TotalPrice: lineTotal,
			})
			mailLines = append(mailLines, mailer.OrderLine{
				Name:     product.Name,
				Quantity: item.Quantity,
				Price:    price,
			})
		}

		orderNumber, err := s.nextOrderNumber(tx)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:          userID,
			OrderNumber:     orderNumber,
			Items:           orderItems,
			TotalAmount:     totalAmount,
			ShippingAddress: input.ShippingAddress,
			PaymentMethod:   input.PaymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			OrderStatus:     models.OrderStatusPending,
			Notes:           input.Notes,
			CreatedAt:       time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Reset the originating cart. An absent cart is fine.
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("total_amount", 0).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(userID, &order, mailLines)

	return s.GetOrder(order.ID)
}

// nextOrderNumber atomically bumps the shared counter and formats the new
// value. The row lock taken by the UPDATE serializes concurrent creations, so
// numbers are unique and strictly increasing.
func (s *OrderService) nextOrderNumber(tx *gorm.DB) (string, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Counter{Name: models.OrderNumberCounter}).Error; err != nil {
		return "", err
	}
	if err := tx.Model(&models.Counter{}).
		Where("name = ?", models.OrderNumberCounter).
		UpdateColumn("value", gorm.Expr("value + 1")).Error; err != nil {
		return "", err
	}
	var counter models.Counter
	if err := tx.First(&counter, "name = ?", models.OrderNumberCounter).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("TCO%06d", counter.Value), nil
}

// sendConfirmation is best effort: a dead SMTP server must never fail a
// placed order.
func (s *OrderService) sendConfirmation(userID string, order *models.Order, lines []mailer.OrderLine) {
	if s.mailer == nil {
		return
	}
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		s.log.Warn("order confirmation skipped, user lookup failed",
			zap.String("user_id", userID), zap.Error(err))
		return
	}
	if user.Email == "" {
		return
	}
	if err := s.mailer.SendOrderConfirmation(user.Email, user.FullName(), order.OrderNumber, order.TotalAmount, lines); err != nil {
		s.log.Error("failed to send order confirmation email",
			zap.String("order_number", order.OrderNumber),
			zap.String("to", user.Email),
			zap.Error(err))
	}
}

func (s *OrderService) GetOrder(id uint) (*PopulatedOrder, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		return nil, err
	}
	return s.populate(&order)
}

// ListOrders is the admin view: filterable and paginated.
func (s *OrderService) ListOrders(f OrderFilter) ([]*PopulatedOrder, Pagination, error) {
	page, limit := normalizePage(f.Page, f.Limit, 10)

	query := s.db.Model(&models.Order{})
	if f.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.OrderStatus != "" {
		query = query.Where("order_status = ?", f.OrderStatus)
	}
	if f.PaymentStatus != "" {
		query = query.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order(orderClause(f.Sort, f.Order)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, Pagination{}, err
	}

	populated := make([]*PopulatedOrder, 0, len(orders))
	for i := range orders {
		p, err := s.populate(&orders[i])
		if err != nil {
			return nil, Pagination{}, err
		}
		populated = append(populated, p)
	}
	return populated, paginate(page, limit, total), nil
}

// GetUserOrders lists the caller's own orders.
func (s *OrderService) GetUserOrders(userID string, f OrderFilter) ([]*PopulatedOrder, Pagination, error) {
	f.UserID = userID
	f.Search = ""
	f.PaymentStatus = ""
	return s.ListOrders(f)
}

type UpdateOrderStatusInput struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

var validOrderStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusConfirmed:  true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

var validPaymentStatuses = map[models.PaymentStatus]bool{
	models.PaymentStatusPending: true,
	models.PaymentStatusPaid:    true,
	models.PaymentStatusFailed:  true,
}

// UpdateOrderStatus applies only the provided fields. Transitions are
// deliberately free-form: any status may follow any other.
func (s *OrderService) UpdateOrderStatus(id uint, input UpdateOrderStatusInput) (*PopulatedOrder, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		return nil, err
	}

	statusChanged := false
	if input.OrderStatus != "" {
		status := models.OrderStatus(input.OrderStatus)
		if !validOrderStatuses[status] {
			return nil, validationf("Invalid order status: %s", input.OrderStatus)
		}
		statusChanged = status != order.OrderStatus
		order.OrderStatus = status
	}
	if input.PaymentStatus != "" {
		status := models.PaymentStatus(input.PaymentStatus)
		if !validPaymentStatuses[status] {
			return nil, validationf("Invalid payment status: %s", input.PaymentStatus)
		}
		order.PaymentStatus = status
	}

	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}

	if statusChanged {
		s.sendStatusUpdate(&order)
	}
	return s.GetOrder(order.ID)
}

func (s *OrderService) sendStatusUpdate(order *models.Order) {
	if s.mailer == nil {
		return
	}
	var user models.User
	if err := s.db.First(&user, "id = ?", order.UserID).Error; err != nil || user.Email == "" {
		return
	}
	if err := s.mailer.SendOrderStatusUpdate(user.Email, user.FullName(), order.OrderNumber, string(order.OrderStatus)); err != nil {
		s.log.Error("failed to send order status email",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

type MonthlyRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

type OrderStats struct {
	TotalOrders     int64            `json:"totalOrders"`
	PendingOrders   int64            `json:"pendingOrders"`
	ConfirmedOrders int64            `json:"confirmedOrders"`
	ShippedOrders   int64            `json:"shippedOrders"`
	DeliveredOrders int64            `json:"deliveredOrders"`
	CancelledOrders int64            `json:"cancelledOrders"`
	TotalRevenue    float64          `json:"totalRevenue"`
	MonthlyRevenue  []MonthlyRevenue `json:"monthlyRevenue"`
}

func (s *OrderService) GetOrderStats() (*OrderStats, error) {
	stats := &OrderStats{}

	counts := []struct {
		status models.OrderStatus
		dest   *int64
	}{
		{models.OrderStatusPending, &stats.PendingOrders},
		{models.OrderStatusConfirmed, &stats.ConfirmedOrders},
		{models.OrderStatusShipped, &stats.ShippedOrders},
		{models.OrderStatusDelivered, &stats.DeliveredOrders},
		{models.OrderStatusCancelled, &stats.CancelledOrders},
	}
	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		if err := s.db.Model(&models.Order{}).
			Where("order_status = ?", c.status).
			Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, err
	}

	monthly, err := s.monthlyRevenue()
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = monthly
	return stats, nil
}

// monthlyRevenue buckets this year's paid orders by calendar month. The rows
// are scanned and grouped here rather than with dialect-specific date SQL.
func (s *OrderService) monthlyRevenue() ([]MonthlyRevenue, error) {
	yearStart := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.Local)

	var rows []struct {
		CreatedAt   time.Time
		TotalAmount float64
	}
	if err := s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ?", models.PaymentStatusPaid, yearStart).
		Select("created_at, total_amount").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	buckets := map[int]*MonthlyRevenue{}
	for _, row := range rows {
		month := int(row.CreatedAt.Month())
		b, ok := buckets[month]
		if !ok {
			b = &MonthlyRevenue{Year: row.CreatedAt.Year(), Month: month}
			buckets[month] = b
		}
		b.Revenue += row.TotalAmount
		b.Count++
	}

	monthly := []MonthlyRevenue{}
	for month := 1; month <= 12; month++ {
		if b, ok := buckets[month]; ok {
			monthly = append(monthly, *b)
		}
	}
	return monthly, nil
}

func (s *OrderService) populate(order *models.Order) (*PopulatedOrder, error) {
	populated := &PopulatedOrder{Order: *order, Items: []PopulatedOrderItem{}}

	var user models.User
	if err := s.db.First(&user, "id = ?", order.UserID).Error; err == nil {
		populated.User = &OrderUser{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Phone:     user.Phone,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ids := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products := map[uint]*models.Product{}
	if len(ids) > 0 {
		var rows []models.Product
		if err := s.db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			products[rows[i].ID] = &rows[i]
		}
	}

	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok {
			continue
		}
		populated.Items = append(populated.Items, PopulatedOrderItem{
			OrderItem: item,
			Product:   snapshotOf(product),
		})
	}
	return populated, nil
}
