package orderControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
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

// fakeAuth stands in for the JWT middleware.
func fakeAuth(c *gin.Context) {
	c.Set("user_id", "U1")
	c.Set("email", "u1@example.com")
	c.Set("first_name", "Uma")
	c.Set("last_name", "One")
	c.Next()
}

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	orders := r.Group("/store/orders")
	orders.Use(fakeAuth)
	orders.POST("", CreateOrderHandler(db))
	orders.GET("", ListOrdersHandler(db))
	orders.GET("/:orderID", GetOrderHandler(db))
	return r
}

func seedCart(t *testing.T, db *gorm.DB) (models.Cart, models.Product, models.Product) {
	t.Helper()
	category := models.Category{Title: "Grocery"}
	require.NoError(t, db.Create(&category).Error)
	productA := models.Product{Title: "apples", Slug: "apples", CategoryID: category.ID, UnitPrice: 10, Inventory: 5}
	productB := models.Product{Title: "beans", Slug: "beans", CategoryID: category.ID, UnitPrice: 5, Inventory: 5}
	require.NoError(t, db.Create(&productA).Error)
	require.NoError(t, db.Create(&productB).Error)

	cart := models.Cart{}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: productA.ID, Quantity: 2}).Error)
	require.NoError(t, db.Create(&models.CartItem{CartID: cart.ID, ProductID: productB.ID, Quantity: 1}).Error)
	return cart, productA, productB
}

func TestPlaceOrderConvertsCart(t *testing.T) {
	db := setupTestDB(t)
	cart, productA, productB := seedCart(t, db)

	customer := models.Customer{ID: "U1", Email: "u1@example.com"}
	order, err := PlaceOrder(db, cart.ID, customer, "1 Main St", "Springfield", "12345")
	require.NoError(t, err)

	// The item snapshot matches the cart exactly.
	require.Len(t, order.Items, 2)
	quantities := map[uint]int{}
	for _, item := range order.Items {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 2, quantities[productA.ID])
	assert.Equal(t, 1, quantities[productB.ID])

	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Equal(t, models.PaymentMethodNone, order.PaymentMethod)
	assert.Equal(t, "U1", order.CustomerID)

	// The cart is gone, items included.
	var gone models.Cart
	assert.ErrorIs(t, db.First(&gone, "id = ?", cart.ID).Error, gorm.ErrRecordNotFound)
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	cart := models.Cart{}
	require.NoError(t, db.Create(&cart).Error)

	_, err := PlaceOrder(db, cart.ID, models.Customer{ID: "U1"}, "1 Main St", "Springfield", "12345")
	assert.ErrorIs(t, err, ErrCartEmpty)

	// Nothing was written.
	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPlaceOrderUnknownCart(t *testing.T) {
	db := setupTestDB(t)
	_, err := PlaceOrder(db, uuid.New(), models.Customer{ID: "U1"}, "1 Main St", "Springfield", "12345")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCreateOrderHandler(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	cart, _, _ := seedCart(t, db)

	body, _ := json.Marshal(CreateOrderRequest{
		CartID:        cart.ID.String(),
		StreetAddress: "1 Main St",
		City:          "Springfield",
		Zipcode:       "12345",
	})
	req := httptest.NewRequest(http.MethodPost, "/store/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var view OrderView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Items, 2)
	// 2 x 10.00 + 1 x 5.00, priced from the live catalog.
	assert.InDelta(t, 25.0, view.TotalPrice, 0.001)
	assert.Equal(t, "u1@example.com", view.Customer.Email)

	// The same cart cannot be checked out twice.
	req = httptest.NewRequest(http.MethodPost, "/store/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderHandlerValidation(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)

	// Unknown cart id
	body, _ := json.Marshal(CreateOrderRequest{
		CartID:        uuid.NewString(),
		StreetAddress: "1 Main St",
		City:          "Springfield",
		Zipcode:       "12345",
	})
	req := httptest.NewRequest(http.MethodPost, "/store/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No cart with the given ID.")

	// Zipcode over five characters fails binding
	body, _ = json.Marshal(CreateOrderRequest{
		CartID:        uuid.NewString(),
		StreetAddress: "1 Main St",
		City:          "Springfield",
		Zipcode:       "123456",
	})
	req = httptest.NewRequest(http.MethodPost, "/store/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndGetOrders(t *testing.T) {
	db := setupTestDB(t)
	r := newRouter(db)
	cart, _, _ := seedCart(t, db)

	order, err := PlaceOrder(db, cart.ID, models.Customer{ID: "U1", Email: "u1@example.com"}, "1 Main St", "Springfield", "12345")
	require.NoError(t, err)

	// Another customer's order must not leak into U1's listing.
	require.NoError(t, db.Create(&models.Customer{ID: "U2", Email: "u2@example.com"}).Error)
	require.NoError(t, db.Create(&models.Order{CustomerID: "U2", StreetAddress: "2 Side St", City: "Shelbyville", Zipcode: "54321"}).Error)

	req := httptest.NewRequest(http.MethodGet, "/store/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var views []OrderView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, order.ID, views[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/store/orders/99999", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
