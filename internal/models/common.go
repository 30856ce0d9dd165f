// internal/models/common.go
package models

import (
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// Payment methods offered at the till. The store keeps whatever label the
// front-end sends; these are the ones it ships with.
const (
	PaymentMethodCash  = "Numerário"
	PaymentMethodCard  = "Cartão"
	PaymentMethodMBWay = "MB Way"
)
