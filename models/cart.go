package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is ephemeral: it exists between first "add to cart" and checkout (or
// abandonment). Checkout deletes it; the id is never reusable afterwards.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
}

func (cart *Cart) BeforeCreate(tx *gorm.DB) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	return nil
}

// CartItem is unique per (cart, product); adding the same product again
// increments Quantity instead of inserting a second row.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_cart_product" json:"-"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_product" json:"-"`
	Product   Product   `json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}
