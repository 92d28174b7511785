package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/EyobAbdella/EasyShop/controllers/order"
	productcontroller "github.com/EyobAbdella/EasyShop/controllers/product"
	"github.com/EyobAbdella/EasyShop/middleware"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey)
	{
		admin.POST("/products", productcontroller.CreateProduct(db))
		admin.PUT("/products/:id", productcontroller.UpdateProduct(db))
		admin.DELETE("/products/:id", productcontroller.DeleteProduct(db))

		admin.POST("/categories", productcontroller.CreateCategory(db))
		admin.DELETE("/categories/:id", productcontroller.DeleteCategory(db))

		admin.GET("/orders/export", orderControllers.ExportOrdersToExcel(db))
	}
}
