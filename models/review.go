package models

import "time"

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"uniqueIndex:idx_customer_review" json:"-"`
	CustomerID string    `gorm:"uniqueIndex:idx_customer_review" json:"-"`
	Customer   Customer  `json:"customer"`
	Review     string    `gorm:"not null" json:"review"`
	Rating     int       `gorm:"not null" json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}
