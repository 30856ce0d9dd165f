// internal/models/sale.go
package models

import "time"

type Sale struct {
	BaseModel
	TotalAmount   float64 `json:"total_amount" gorm:"not null"`
	PaymentMethod *string `json:"payment_method"`
	Notes         *string `json:"notes"`

	// Relationships
	Items []SaleItem `json:"items,omitempty" gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

type SaleItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	SaleID    uint    `json:"sale_id" gorm:"not null;index"`
	ProductID uint    `json:"product_id" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
	Subtotal  float64 `json:"subtotal" gorm:"not null"`

	ProductName string `json:"product_name,omitempty" gorm:"->"`
}

// ProductSaleLine is one sale line of a product, as shown in its history.
type ProductSaleLine struct {
	SaleID    uint      `json:"sale_id"`
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Subtotal  float64   `json:"subtotal"`
}

type ProductSalesHistory struct {
	ProductID     uint              `json:"product_id"`
	ProductName   string            `json:"product_name"`
	Sales         []ProductSaleLine `json:"sales"`
	TotalQuantity int               `json:"total_quantity"`
	TotalRevenue  float64           `json:"total_revenue"`
}
