package paymentControllers

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EyobAbdella/EasyShop/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Customer{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.Review{},
	))
	return db
}

// seedUnpaidOrder creates an order with one line item ready for payment.
func seedUnpaidOrder(t *testing.T, db *gorm.DB) models.Order {
	t.Helper()
	require.NoError(t, db.Create(&models.Customer{ID: "U1", Email: "u1@example.com"}).Error)
	category := models.Category{Title: "Grocery"}
	require.NoError(t, db.Create(&category).Error)
	product := models.Product{Title: "apples", Slug: "apples", CategoryID: category.ID, UnitPrice: 12.50, Inventory: 5}
	require.NoError(t, db.Create(&product).Error)

	order := models.Order{CustomerID: "U1", StreetAddress: "1 Main St", City: "Springfield", Zipcode: "12345"}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: 2}).Error)
	return order
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, id).Error)
	return order
}
