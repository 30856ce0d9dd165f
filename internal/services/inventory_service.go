// internal/services/inventory_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/models"
	"github.com/javajoker/inventory-pos/internal/utils"
)

type InventoryService struct {
	db             *gorm.DB
	productService *ProductService
}

type RestockRequest struct {
	Quantity int      `json:"quantity" validate:"required,min=1"`
	Cost     *float64 `json:"cost,omitempty" validate:"omitempty,min=0"`
}

func NewInventoryService(db *gorm.DB, productService *ProductService) *InventoryService {
	return &InventoryService{
		db:             db,
		productService: productService,
	}
}

// Restock adds received units to a product, optionally recording the new
// unit cost they were bought at.
func (s *InventoryService) Restock(id uint, req *RestockRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	updates := map[string]interface{}{
		"quantity": gorm.Expr("quantity + ?", req.Quantity),
	}
	if req.Cost != nil {
		updates["cost"] = *req.Cost
	}

	result := s.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to restock product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	logrus.WithFields(logrus.Fields{
		"product_id": id,
		"quantity":   req.Quantity,
	}).Info("Product restocked")

	return s.productService.GetProduct(id)
}

// GetProductSalesHistory lists every sale line of a product, newest first.
func (s *InventoryService) GetProductSalesHistory(id uint) (*models.ProductSalesHistory, error) {
	product, err := s.productService.GetProduct(id)
	if err != nil {
		return nil, err
	}

	lines := []models.ProductSaleLine{}
	err = s.db.Table("sale_items").
		Select("sale_items.sale_id, sales.created_at AS date, sale_items.quantity, sale_items.unit_price, sale_items.subtotal").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sale_items.product_id = ?", id).
		Order("sales.created_at DESC, sales.id DESC").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sales history: %w", err)
	}

	history := &models.ProductSalesHistory{
		ProductID:   product.ID,
		ProductName: product.Name,
		Sales:       lines,
	}
	for _, line := range lines {
		history.TotalQuantity += line.Quantity
		history.TotalRevenue += line.Subtotal
	}

	return history, nil
}
