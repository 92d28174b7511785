package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/EyobAbdella/EasyShop/controllers/payment"
)

// SetupRoutes is the single entry-point that wires up the store, order,
// payment and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, paymentCfg paymentControllers.Config) {
	// Public catalog + anonymous carts
	SetupStoreRoutes(r, db)

	// Orders (JWT-protected) + order feed
	SetupOrderRoutes(r, db)

	// Payment provider webhooks and hosted checkout
	SetupPaymentRoutes(r, db, paymentCfg)

	// Admin surface (API-key-protected)
	SetupAdminRoutes(r, db)
}
