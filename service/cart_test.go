package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/technocomputers/storefront-api/models"
)

func TestGetCartCreatesEmptyCartOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger(t))
	user := seedUser(t, db)

	first, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, first.Items)
	assert.Zero(t, first.TotalAmount)

	second, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemMergesLinesAndRecomputesTotal(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger(t))
	user := seedUser(t, db)
	product := seedProduct(t, db, "Mechanical Keyboard", 120, 10)

	cart, err := svc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 240.0, cart.TotalAmount)

	cart, err = svc.AddItem(user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 600.0, cart.TotalAmount)
}

func TestAddItemUsesDiscountPrice(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger(t))
	user := seedUser(t, db)
	product := seedProduct(t, db, "Gaming Mouse", 100, 5)
	discount := 80.0
	require.NoError(t, db.Model(product).Update("discount_price", discount).Error)

	cart, err := svc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 80.0, cart.Items[0].Price)
	assert.Equal(t, 160.0, cart.TotalAmount)
}

func TestAddItemRejectsOverStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger(t))
	user := seedUser(t, db)
	product := seedProduct(t, db, "Webcam", 60, 3)

	_, err := svc.AddItem(user.ID, product.ID, 4)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Insufficient stock available", ve.Message)

	// cumulative quantity across calls is checked too
	_, err = svc.AddItem(user.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(user.ID, product.ID, 2)
	require.ErrorAs(t, err, &ve)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger(t))
	user := seedUser(t, db)

	_, err := svc.AddItem(user.ID, 9999, 1)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Product not found", nf.Message)
}

func TestUpdateItemQuantityOverwrites(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger(t))
	user := seedUser(t, db)
	product := seedProduct(t, db, "Monitor", 300, 10)

	_, err := svc.AddItem(user.ID, product.ID, 5)
	require.NoError(t, err)

	cart, err := svc.UpdateItemQuantity(user.ID, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 600.0, cart.TotalAmount)

	_, err = svc.UpdateItemQuantity(user.ID, product.ID, 11)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestRemoveItemAndClear(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger(t))
	user := seedUser(t, db)
	keyboard := seedProduct(t, db, "Keyboard", 100, 10)
	mouse := seedProduct(t, db, "Mouse", 50, 10)

	_, err := svc.AddItem(user.ID, keyboard.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(user.ID, mouse.ID, 2)
	require.NoError(t, err)

	cart, err := svc.RemoveItem(user.ID, keyboard.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 100.0, cart.TotalAmount)

	cleared, err := svc.Clear(user.ID)
	require.NoError(t, err)
	assert.Zero(t, cleared.TotalAmount)

	var lines int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines).Error)
	assert.Zero(t, lines)
}

func TestPopulateDropsVanishedProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewCartService(db, testLogger(t))
	user := seedUser(t, db)
	product := seedProduct(t, db, "Discontinued SSD", 90, 5)

	_, err := svc.AddItem(user.ID, product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, db.Unscoped().Delete(product).Error)

	cart, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// the stored line survives; only the view filters it
	var lines int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&lines).Error)
	assert.EqualValues(t, 1, lines)
}
