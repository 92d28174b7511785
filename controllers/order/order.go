package orderControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EyobAbdella/EasyShop/metrics"
	"github.com/EyobAbdella/EasyShop/models"
)

var (
	ErrCartNotFound = errors.New("No cart with the given ID.")
	ErrCartEmpty    = errors.New("The cart is empty.")
)

type CreateOrderRequest struct {
	CartID        string `json:"cart_id" binding:"required,uuid"`
	StreetAddress string `json:"street_address" binding:"required,max=255"`
	City          string `json:"city" binding:"required,max=255"`
	Zipcode       string `json:"zipcode" binding:"required,max=5"`
}

type OrderItemView struct {
	ID       uint           `json:"id"`
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type OrderView struct {
	ID            uint                 `json:"id"`
	CreatedAt     time.Time            `json:"created_at"`
	Customer      models.Customer      `json:"customer"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	StreetAddress string               `json:"street_address"`
	City          string               `json:"city"`
	Zipcode       string               `json:"zipcode"`
	IsPaid        bool                 `json:"is_paid"`
	IsDelivered   bool                 `json:"is_delivered"`
	Items         []OrderItemView      `json:"items"`
	TotalPrice    float64              `json:"total_price"`
}

// BuildOrderView prices the order from the products loaded on its items.
// Prices are not snapshotted at checkout, so the total reflects the catalog
// price at read time, not at purchase time.
func BuildOrderView(order models.Order) OrderView {
	view := OrderView{
		ID:            order.ID,
		CreatedAt:     order.CreatedAt,
		Customer:      order.Customer,
		PaymentMethod: order.PaymentMethod,
		StreetAddress: order.StreetAddress,
		City:          order.City,
		Zipcode:       order.Zipcode,
		IsPaid:        order.IsPaid,
		IsDelivered:   order.IsDelivered,
		Items:         []OrderItemView{},
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderItemView{ID: item.ID, Product: item.Product, Quantity: item.Quantity})
		view.TotalPrice += float64(item.Quantity) * item.Product.UnitPrice
	}
	return view
}

// forUpdate locks selected rows for the duration of the transaction. SQLite
// (used in tests) has no FOR UPDATE; its transaction write lock already
// serializes writers.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// PlaceOrder converts a cart into an order atomically: the order and its item
// snapshot are created and the cart is deleted in one transaction. The cart
// row is locked first, so a concurrent add-to-cart or second checkout of the
// same cart waits and then fails with ErrCartNotFound.
func PlaceOrder(db *gorm.DB, cartID uuid.UUID, customer models.Customer, streetAddress, city, zipcode string) (models.Order, error) {
	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := forUpdate(tx).First(&cart, "id = ?", cartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}

		var cartItems []models.CartItem
		if err := forUpdate(tx).Where("cart_id = ?", cartID).Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		if err := tx.Where(models.Customer{ID: customer.ID}).
			Assign(models.Customer{Email: customer.Email, FirstName: customer.FirstName, LastName: customer.LastName}).
			FirstOrCreate(&customer).Error; err != nil {
			return err
		}

		order = models.Order{
			CustomerID:    customer.ID,
			StreetAddress: streetAddress,
			City:          city,
			Zipcode:       zipcode,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			orderItems = append(orderItems, models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, "id = ?", cartID).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	// Reload with associations for the response body.
	if err := db.Preload("Customer").Preload("Items.Product.Category").First(&order, order.ID).Error; err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// POST /store/orders
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := customerFromContext(c)
		if !ok {
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cartID, err := uuid.Parse(req.CartID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"cart_id": "Invalid cart ID"})
			return
		}

		order, err := PlaceOrder(db, cartID, customer, req.StreetAddress, req.City, req.Zipcode)
		if err != nil {
			if errors.Is(err, ErrCartNotFound) || errors.Is(err, ErrCartEmpty) {
				c.JSON(http.StatusBadRequest, gin.H{"cart_id": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		metrics.OrdersPlaced.Inc()
		view := BuildOrderView(order)
		BroadcastOrderEvent("order.placed", view)
		c.JSON(http.StatusCreated, view)
	}
}

// GET /store/orders
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := customerFromContext(c)
		if !ok {
			return
		}

		var orders []models.Order
		if err := db.Where("customer_id = ?", customer.ID).
			Preload("Customer").
			Preload("Items.Product.Category").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		views := make([]OrderView, 0, len(orders))
		for _, order := range orders {
			views = append(views, BuildOrderView(order))
		}
		c.JSON(http.StatusOK, views)
	}
}

// GET /store/orders/:orderID
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, ok := customerFromContext(c)
		if !ok {
			return
		}

		var order models.Order
		if err := db.Where("id = ? AND customer_id = ?", c.Param("orderID"), customer.ID).
			Preload("Customer").
			Preload("Items.Product.Category").
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		c.JSON(http.StatusOK, BuildOrderView(order))
	}
}

// customerFromContext builds the customer identity from claims the auth
// middleware stored on the context.
func customerFromContext(c *gin.Context) (models.Customer, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Customer{}, false
	}
	customer := models.Customer{ID: userIDVal.(string)}
	customer.Email = c.GetString("email")
	customer.FirstName = c.GetString("first_name")
	customer.LastName = c.GetString("last_name")
	return customer, true
}
