package productcontroller

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EyobAbdella/EasyShop/models"
)

type ProductInput struct {
	Title       string  `json:"title" binding:"required,max=255"`
	CategoryID  uint    `json:"category_id" binding:"required"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gte=1"`
	Description string  `json:"description"`
	Inventory   int     `json:"inventory" binding:"gte=0"`
	Image       string  `json:"image"`
}

// ProductView adds the average review rating to the product representation.
type ProductView struct {
	models.Product
	Rating float64 `json:"rating"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug appends a numeric suffix until the slug is free.
func uniqueSlug(db *gorm.DB, title string) (string, error) {
	base := slugify(title)
	slug := base
	for n := 2; ; n++ {
		var count int64
		if err := db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

// ratingsByProduct returns the average review rating keyed by product id.
func ratingsByProduct(db *gorm.DB, productIDs []uint) (map[uint]float64, error) {
	ratings := make(map[uint]float64)
	if len(productIDs) == 0 {
		return ratings, nil
	}

	rows, err := db.Model(&models.Review{}).
		Select("product_id, AVG(rating) AS rating").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var productID uint
		var rating float64
		if err := rows.Scan(&productID, &rating); err != nil {
			return nil, err
		}
		ratings[productID] = rating
	}
	return ratings, rows.Err()
}

// GET /store/products?category=<title>&search=<title substring>
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).Preload("Category")

		if category := c.Query("category"); category != "" {
			query = query.Joins("JOIN categories ON categories.id = products.category_id").
				Where("LOWER(categories.title) = LOWER(?)", category)
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("products.title LIKE ?", "%"+search+"%")
		}

		var products []models.Product
		if err := query.Order("products.id").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		ids := make([]uint, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		ratings, err := ratingsByProduct(db, ids)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
			return
		}

		views := make([]ProductView, 0, len(products))
		for _, p := range products {
			views = append(views, ProductView{Product: p, Rating: ratings[p.ID]})
		}
		c.JSON(http.StatusOK, views)
	}
}

// GET /store/products/:slug
func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Category").First(&product, "slug = ?", c.Param("slug")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		ratings, err := ratingsByProduct(db, []uint{product.ID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
			return
		}
		c.JSON(http.StatusOK, ProductView{Product: product, Rating: ratings[product.ID]})
	}
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No category with the given ID."})
			return
		}

		slug, err := uniqueSlug(db, input.Title)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		product := models.Product{
			Title:       input.Title,
			Slug:        slug,
			CategoryID:  input.CategoryID,
			UnitPrice:   input.UnitPrice,
			Description: input.Description,
			Inventory:   input.Inventory,
			Image:       input.Image,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		product.Category = category

		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		product.Title = input.Title
		product.CategoryID = input.CategoryID
		product.UnitPrice = input.UnitPrice
		product.Description = input.Description
		product.Inventory = input.Inventory
		product.Image = input.Image
		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:id
//
// A product referenced by any order item cannot be deleted: order history
// must stay resolvable.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var referenced int64
		if err := db.Model(&models.OrderItem{}).Where("product_id = ?", product.ID).Count(&referenced).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if referenced > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Product is referenced by existing orders"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error; err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
