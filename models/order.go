package models

import "time"

type PaymentMethod string

const (
	PaymentMethodNone   PaymentMethod = ""
	PaymentMethodPayPal PaymentMethod = "P"
	PaymentMethodCard   PaymentMethod = "C"
)

// Order is append-only after checkout: the customer binding and the item
// snapshot never change. IsPaid, IsDelivered and PaymentMethod are the only
// mutable columns, and IsPaid is flipped exclusively through a conditional
// "WHERE NOT is_paid" update so duplicate webhook deliveries stay no-ops.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CustomerID    string        `gorm:"not null;index" json:"-"`
	Customer      Customer      `json:"customer"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	IsPaid        bool          `gorm:"not null;default:false" json:"is_paid"`
	IsDelivered   bool          `gorm:"not null;default:false" json:"is_delivered"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(1);not null;default:''" json:"payment_method"`
	StreetAddress string        `gorm:"not null" json:"street_address"`
	City          string        `gorm:"not null" json:"city"`
	Zipcode       string        `gorm:"size:5;not null" json:"zipcode"`
	CreatedAt     time.Time     `json:"created_at"`
}

// OrderItem snapshots (product, quantity) at checkout time. The unit price is
// deliberately not copied onto the row: order totals are priced from the live
// product, so they drift when prices change later.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `json:"-"`
	Product   Product `gorm:"constraint:OnDelete:RESTRICT" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
}
