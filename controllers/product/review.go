package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EyobAbdella/EasyShop/models"
)

type ReviewInput struct {
	Review string `json:"review" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

func productBySlug(db *gorm.DB, c *gin.Context) (models.Product, bool) {
	var product models.Product
	if err := db.First(&product, "slug = ?", c.Param("slug")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return models.Product{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return models.Product{}, false
	}
	return product, true
}

// GET /store/products/:slug/reviews
func GetReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, ok := productBySlug(db, c)
		if !ok {
			return
		}

		var reviews []models.Review
		if err := db.Preload("Customer").Where("product_id = ?", product.ID).
			Order("created_at DESC").Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// POST /store/products/:slug/reviews
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		product, ok := productBySlug(db, c)
		if !ok {
			return
		}

		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var existing int64
		if err := db.Model(&models.Review{}).
			Where("product_id = ? AND customer_id = ?", product.ID, userID).
			Count(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}
		if existing > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You have already reviewed this product"})
			return
		}

		customer := models.Customer{ID: userID, Email: c.GetString("email"), FirstName: c.GetString("first_name"), LastName: c.GetString("last_name")}
		if err := db.Where(models.Customer{ID: userID}).FirstOrCreate(&customer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}

		review := models.Review{
			ProductID:  product.ID,
			CustomerID: userID,
			Review:     input.Review,
			Rating:     input.Rating,
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
			return
		}
		review.Customer = customer

		c.JSON(http.StatusCreated, review)
	}
}

// PUT /store/products/:slug/reviews/:reviewID
func UpdateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("reviewID")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if review.CustomerID != userIDVal.(string) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this review"})
			return
		}

		var input ReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		review.Review = input.Review
		review.Rating = input.Rating
		if err := db.Save(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// DELETE /store/products/:slug/reviews/:reviewID
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var review models.Review
		if err := db.First(&review, "id = ?", c.Param("reviewID")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if review.CustomerID != userIDVal.(string) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this review"})
			return
		}

		if err := db.Delete(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
