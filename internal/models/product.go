// internal/models/product.go
package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"not null"`
	Description *string `json:"description"`
	SKU         *string `json:"sku" gorm:"column:sku;unique"`
	Price       float64 `json:"price" gorm:"not null"`
	Cost        float64 `json:"cost" gorm:"not null"`
	Quantity    int     `json:"quantity" gorm:"not null"`
	MinQuantity int     `json:"min_quantity" gorm:"not null"`
	// Category is the free-text label products carried before categories
	// became a table. Kept for stores that still have it populated.
	Category     *string        `json:"category,omitempty"`
	CategoryID   *uint          `json:"category_id" gorm:"index"`
	CategoryName *string        `json:"category_name,omitempty" gorm:"->"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"`
}

// LowStock reports whether the product is at or below its reorder point.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.MinQuantity
}
