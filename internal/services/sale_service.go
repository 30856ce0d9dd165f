// internal/services/sale_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/metrics"
	"github.com/javajoker/inventory-pos/internal/models"
	"github.com/javajoker/inventory-pos/internal/utils"
)

type SaleService struct {
	db *gorm.DB
}

type SaleItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod *string           `json:"payment_method,omitempty" validate:"omitempty,max=50"`
	Notes         *string           `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func NewSaleService(db *gorm.DB) *SaleService {
	return &SaleService{db: db}
}

// CreateSale records a sale at current catalog prices and takes the sold
// quantities out of stock. Stock is allowed to go negative.
func (s *SaleService) CreateSale(req *CreateSaleRequest) (*models.Sale, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptySale
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var sale models.Sale

	err := s.db.Transaction(func(tx *gorm.DB) error {
		items := make([]models.SaleItem, 0, len(req.Items))
		total := 0.0

		for _, line := range req.Items {
			var product models.Product
			if err := tx.Select("id", "name", "price").First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %d", ErrProductNotFound, line.ProductID)
				}
				return fmt.Errorf("database error: %w", err)
			}

			subtotal := product.Price * float64(line.Quantity)
			total += subtotal

			items = append(items, models.SaleItem{
				ProductID:   product.ID,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
				Subtotal:    subtotal,
				ProductName: product.Name,
			})
		}

		sale = models.Sale{
			TotalAmount:   total,
			PaymentMethod: blankToNil(req.PaymentMethod),
			Notes:         blankToNil(req.Notes),
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}

		for i := range items {
			items[i].SaleID = sale.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create sale items: %w", err)
		}

		for _, item := range items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("quantity", gorm.Expr("quantity - ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
		}

		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.SalesRecorded.Inc()
	logrus.WithFields(logrus.Fields{
		"sale_id": sale.ID,
		"items":   len(sale.Items),
		"total":   sale.TotalAmount,
	}).Info("Sale recorded")

	return &sale, nil
}

func (s *SaleService) GetSale(id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := s.db.First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Sold products may since have been deleted from the catalog
	sale.Items = []models.SaleItem{}
	err := s.db.Model(&models.SaleItem{}).
		Select("sale_items.*, products.name AS product_name").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sale_items.sale_id = ?", id).
		Order("sale_items.id").
		Find(&sale.Items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load sale items: %w", err)
	}

	return &sale, nil
}

// ListSales returns sales newest first.
func (s *SaleService) ListSales(params utils.PaginationParams) ([]models.Sale, int64, error) {
	var total int64
	if err := s.db.Model(&models.Sale{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	sales := []models.Sale{}
	query := utils.ApplyPagination(s.db.Order("created_at DESC, id DESC"), params)
	if err := query.Find(&sales).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}

	return sales, total, nil
}

// ListSalesByDateRange returns sales made within [start, end], newest first.
func (s *SaleService) ListSalesByDateRange(start, end time.Time) ([]models.Sale, error) {
	sales := []models.Sale{}
	err := s.db.
		Where("created_at >= ? AND created_at <= ?", start.UTC(), end.UTC()).
		Order("created_at DESC, id DESC").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// DeleteSale removes a sale and its lines. Stock is not restored.
func (s *SaleService) DeleteSale(id uint) error {
	result := s.db.Delete(&models.Sale{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete sale: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSaleNotFound
	}

	logrus.WithField("sale_id", id).Info("Sale deleted")
	return nil
}

func blankToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
