package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	CategoryID  uint      `gorm:"not null" json:"-"`
	Category    Category  `json:"category"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	Description string    `json:"description"`
	Inventory   int       `gorm:"not null;default:0" json:"inventory"`
	Image       string    `json:"image"`
	LastUpdate  time.Time `gorm:"autoUpdateTime" json:"last_update"`
}
