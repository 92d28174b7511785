package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/EyobAbdella/EasyShop/controllers/cart"
	productcontroller "github.com/EyobAbdella/EasyShop/controllers/product"
	"github.com/EyobAbdella/EasyShop/middleware"
)

func SetupStoreRoutes(r *gin.Engine, db *gorm.DB) {
	store := r.Group("/store")
	{
		// Catalog (read-only, public)
		store.GET("/products", productcontroller.GetProducts(db))
		store.GET("/products/:slug", productcontroller.GetProduct(db))
		store.GET("/categories", productcontroller.GetCategories(db))

		// Reviews: reads are public, writes need an authenticated customer
		store.GET("/products/:slug/reviews", productcontroller.GetReviews(db))
		store.POST("/products/:slug/reviews", middleware.ValidateToken, productcontroller.CreateReview(db))
		store.PUT("/products/:slug/reviews/:reviewID", middleware.ValidateToken, productcontroller.UpdateReview(db))
		store.DELETE("/products/:slug/reviews/:reviewID", middleware.ValidateToken, productcontroller.DeleteReview(db))

		// Anonymous carts, addressed by uuid
		store.POST("/carts", cartControllers.CreateCart(db))
		store.GET("/carts/:cartID", cartControllers.GetCart(db))
		store.DELETE("/carts/:cartID", cartControllers.DeleteCart(db))
		store.POST("/carts/:cartID/items", cartControllers.AddCartItem(db))
		store.PATCH("/carts/:cartID/items/:itemID", cartControllers.UpdateCartItem(db))
		store.DELETE("/carts/:cartID/items/:itemID", cartControllers.DeleteCartItem(db))
	}
}
