package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/technocomputers/storefront-api/models"
)

// CartService reconciles requested quantities against live product stock and
// keeps the cart's aggregate total consistent with its line items.
type CartService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCartService(db *gorm.DB, log *zap.Logger) *CartService {
	return &CartService{db: db, log: log}
}

// PopulatedCartItem is a stored line plus the live product detail used for
// display. Lines whose product row has vanished are dropped from the view
// (never from storage).
type PopulatedCartItem struct {
	models.CartItem
	Product *ProductSnapshot `json:"product"`
}

type PopulatedCart struct {
	models.Cart
	Items []PopulatedCartItem `json:"items"`
}

// GetCart returns the user's cart, lazily creating an empty one. Idempotent:
// the unique index on user_id guarantees at most one cart per user.
func (s *CartService) GetCart(userID string) (*PopulatedCart, error) {
	cart, err := s.getOrCreate(s.db, userID)
	if err != nil {
		return nil, err
	}
	return s.populate(cart)
}

func (s *CartService) getOrCreate(db *gorm.DB, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = models.Cart{UserID: userID, Items: []models.CartItem{}, TotalAmount: 0}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem merges the requested quantity into an existing line or appends a new
// one priced at the product's current effective price.
func (s *CartService) AddItem(userID string, productID uint, quantity int) (*PopulatedCart, error) {
	if quantity < 1 {
		return nil, validationf("Valid quantity is required")
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product not found")
		}
		return nil, err
	}
	if product.Stock < quantity {
		return nil, validationf("Insufficient stock available")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.getOrCreate(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error
		switch {
		case err == nil:
			// cumulative quantity must still fit the current stock
			newQuantity := item.Quantity + quantity
			if product.Stock < newQuantity {
				return validationf("Insufficient stock available")
			}
			item.Quantity = newQuantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     product.EffectivePrice(),
				AddedAt:   time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return s.recomputeTotal(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// UpdateItemQuantity overwrites the line's quantity. The snapshot price is
// intentionally left alone.
func (s *CartService) UpdateItemQuantity(userID string, productID uint, quantity int) (*PopulatedCart, error) {
	if quantity < 1 {
		return nil, validationf("Valid quantity is required")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Cart not found")
			}
			return err
		}

		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Item not found in cart")
			}
			return err
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Product not found")
			}
			return err
		}
		if product.Stock < quantity {
			return validationf("Insufficient stock available")
		}

		item.Quantity = quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return s.recomputeTotal(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// RemoveItem drops the matching line. Removing a product that is not in the
// cart is a no-op.
func (s *CartService) RemoveItem(userID string, productID uint) (*PopulatedCart, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Cart not found")
			}
			return err
		}
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return s.recomputeTotal(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

// Clear empties the cart and zeroes its total. The cart row itself survives.
func (s *CartService) Clear(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Cart not found")
			}
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		cart.TotalAmount = 0
		cart.Items = []models.CartItem{}
		return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Update("total_amount", 0).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// recomputeTotal re-derives total_amount from the surviving lines so the
// invariant total = sum(price*quantity) holds after every mutation.
func (s *CartService) recomputeTotal(tx *gorm.DB, cartID uint) error {
	var total float64
	if err := tx.Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("COALESCE(SUM(price * quantity), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).Update("total_amount", total).Error
}

func (s *CartService) populate(cart *models.Cart) (*PopulatedCart, error) {
	ids := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
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

	populated := &PopulatedCart{Cart: *cart, Items: []PopulatedCartItem{}}
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			// orphaned line: product row is gone, hide it from the view
			continue
		}
		populated.Items = append(populated.Items, PopulatedCartItem{
			CartItem: item,
			Product:  snapshotOf(product),
		})
	}
	return populated, nil
}
