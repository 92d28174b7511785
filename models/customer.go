package models

// Customer mirrors the authenticated user. The ID comes from the identity
// provider's token, so rows are created lazily on first order or review.
type Customer struct {
	ID        string   `gorm:"primaryKey" json:"id"`
	Email     string   `gorm:"not null" json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Orders    []Order  `gorm:"foreignKey:CustomerID" json:"-"`
	Reviews   []Review `gorm:"foreignKey:CustomerID" json:"-"`
}
