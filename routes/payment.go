package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paymentControllers "github.com/EyobAbdella/EasyShop/controllers/payment"
)

func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, cfg paymentControllers.Config) {
	// Hosted checkout session for an existing unpaid order
	r.POST("/checkout/:orderID", paymentControllers.StripeCheckoutHandler(db, cfg))

	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/paypal", paymentControllers.PayPalWebhookHandler(db, cfg))
		webhooks.POST("/stripe", paymentControllers.StripeWebhookHandler(db, cfg))
	}
}
