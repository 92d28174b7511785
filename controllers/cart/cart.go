package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EyobAbdella/EasyShop/models"
)

type AddCartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartItemView is the cart line as returned to the client; TotalPrice is
// quantity times the current catalog price.
type CartItemView struct {
	ID         uint           `json:"id"`
	Product    models.Product `json:"product"`
	Quantity   int            `json:"quantity"`
	TotalPrice float64        `json:"total_price"`
}

type CartView struct {
	ID    uuid.UUID      `json:"id"`
	Items []CartItemView `json:"items"`
}

func viewOf(cart models.Cart) CartView {
	view := CartView{ID: cart.ID, Items: []CartItemView{}}
	for _, item := range cart.Items {
		view.Items = append(view.Items, CartItemView{
			ID:         item.ID,
			Product:    item.Product,
			Quantity:   item.Quantity,
			TotalPrice: float64(item.Quantity) * item.Product.UnitPrice,
		})
	}
	return view
}

func parseCartID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("cartID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart ID"})
		return uuid.Nil, false
	}
	return id, true
}

// POST /store/carts
func CreateCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart := models.Cart{}
		if err := db.Create(&cart).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cart"})
			return
		}
		c.JSON(http.StatusCreated, viewOf(cart))
	}
}

// GET /store/carts/:cartID
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseCartID(c)
		if !ok {
			return
		}

		var cart models.Cart
		if err := db.Preload("Items.Product.Category").First(&cart, "id = ?", cartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, viewOf(cart))
	}
}

// DELETE /store/carts/:cartID
func DeleteCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseCartID(c)
		if !ok {
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.Cart{}, "id = ?", cartID).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// POST /store/carts/:cartID/items
//
// Re-adding a product that is already in the cart increments its quantity
// rather than creating a second row.
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseCartID(c)
		if !ok {
			return
		}

		var input AddCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var cart models.Cart
		if err := db.First(&cart, "id = ?", cartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "No cart with the given ID."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "No product with the given ID."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		var item models.CartItem
		err := db.Transaction(func(tx *gorm.DB) error {
			err := tx.Where("cart_id = ? AND product_id = ?", cartID, input.ProductID).First(&item).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				item = models.CartItem{CartID: cartID, ProductID: input.ProductID, Quantity: input.Quantity}
				return tx.Create(&item).Error
			} else if err != nil {
				return err
			}
			item.Quantity += input.Quantity
			return tx.Save(&item).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			return
		}

		item.Product = product
		c.JSON(http.StatusCreated, CartItemView{
			ID:         item.ID,
			Product:    product,
			Quantity:   item.Quantity,
			TotalPrice: float64(item.Quantity) * product.UnitPrice,
		})
	}
}

// PATCH /store/carts/:cartID/items/:itemID
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseCartID(c)
		if !ok {
			return
		}

		var input UpdateCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		result := db.Model(&models.CartItem{}).
			Where("id = ? AND cart_id = ?", c.Param("itemID"), cartID).
			Update("quantity", input.Quantity)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"quantity": input.Quantity})
	}
}

// DELETE /store/carts/:cartID/items/:itemID
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := parseCartID(c)
		if !ok {
			return
		}

		result := db.Where("id = ? AND cart_id = ?", c.Param("itemID"), cartID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
