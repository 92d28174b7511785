package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/EyobAbdella/EasyShop/controllers/order"
	"github.com/EyobAbdella/EasyShop/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/store/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Convert a cart into an order
		orders.POST("", orderControllers.CreateOrderHandler(db))

		// Fetch the authenticated customer's orders
		orders.GET("", orderControllers.ListOrdersHandler(db))
		orders.GET("/:orderID", orderControllers.GetOrderHandler(db))
	}

	// websocket endpoint for real-time order updates
	r.GET("/orders/ws", orderControllers.OrderFeedHandler)
}
