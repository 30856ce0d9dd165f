// internal/services/errors.go
package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category name already exists")
	ErrDuplicateSKU     = errors.New("sku already exists")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrEmptySale        = errors.New("sale has no items")
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
