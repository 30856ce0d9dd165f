// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name        string  `json:"name" gorm:"not null;unique"`
	Description *string `json:"description"`
	Color       *string `json:"color"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}
