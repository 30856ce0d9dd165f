// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/models"
	"github.com/javajoker/inventory-pos/internal/utils"
)

const productColumns = "products.*, categories.name AS category_name"

var productSortFields = map[string]string{
	"name":       "products.name",
	"sku":        "products.sku",
	"price":      "products.price",
	"quantity":   "products.quantity",
	"created_at": "products.created_at",
	"updated_at": "products.updated_at",
}

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	SKU         *string `json:"sku,omitempty" validate:"omitempty,max=64"`
	Price       float64 `json:"price" validate:"min=0"`
	Cost        float64 `json:"cost" validate:"min=0"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"min_quantity" validate:"min=0"`
	CategoryID  *uint   `json:"category_id,omitempty"`
}

// UpdateProductRequest changes only the fields that are set. A category_id of
// 0 removes the product from its category.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	SKU         *string  `json:"sku,omitempty" validate:"omitempty,max=64"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Cost        *float64 `json:"cost,omitempty" validate:"omitempty,min=0"`
	Quantity    *int     `json:"quantity,omitempty"`
	MinQuantity *int     `json:"min_quantity,omitempty" validate:"omitempty,min=0"`
	CategoryID  *uint    `json:"category_id,omitempty"`
}

type AdjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uint `json:"category_id,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) withCategory() *gorm.DB {
	return s.db.Model(&models.Product{}).
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

func (s *ProductService) filter(params ProductSearchParams) *gorm.DB {
	query := s.withCategory()

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("(products.name LIKE ? OR products.sku LIKE ? OR categories.name LIKE ?)", pattern, pattern, pattern)
	}
	if params.CategoryID != nil {
		query = query.Where("products.category_id = ?", *params.CategoryID)
	}

	return query
}

// SearchProducts lists live products, by name unless another sort is asked for.
func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	var total int64
	if err := s.filter(params).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := s.filter(params).Select(productColumns)
	query = utils.ApplySort(query, params.PaginationParams, productSortFields, "products.name ASC")
	query = utils.ApplyPagination(query, params.PaginationParams)

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	err := s.withCategory().
		Select(productColumns).
		Where("products.id = ?", id).
		Take(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// GetLowStockProducts returns products at or below their reorder point,
// emptiest first.
func (s *ProductService) GetLowStockProducts() ([]models.Product, error) {
	products := []models.Product{}
	err := s.withCategory().
		Select(productColumns).
		Where("products.quantity <= products.min_quantity").
		Order("products.quantity ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.CategoryID != nil {
		if err := s.ensureCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		SKU:         normalizeSKU(req.SKU),
		Price:       req.Price,
		Cost:        req.Cost,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		CategoryID:  req.CategoryID,
	}

	if err := s.db.Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		if isForeignKeyViolation(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created")

	return s.GetProduct(product.ID)
}

func (s *ProductService) UpdateProduct(id uint, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SKU != nil {
		updates["sku"] = normalizeSKU(req.SKU)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Cost != nil {
		updates["cost"] = *req.Cost
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.MinQuantity != nil {
		updates["min_quantity"] = *req.MinQuantity
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			updates["category_id"] = nil
		} else {
			if err := s.ensureCategory(*req.CategoryID); err != nil {
				return nil, err
			}
			updates["category_id"] = *req.CategoryID
		}
	}

	if len(updates) == 0 {
		return product, nil
	}

	err = s.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSKU
		}
		if isForeignKeyViolation(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.GetProduct(id)
}

// DeleteProduct hides a product from the catalog. Its sale history stays
// intact and its SKU is released for reuse.
func (s *ProductService) DeleteProduct(id uint) error {
	now := time.Now().UTC()

	result := s.db.Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"sku":        gorm.Expr("CASE WHEN sku IS NOT NULL THEN sku || ? ELSE NULL END", fmt.Sprintf("_del_%d", now.Unix())),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	logrus.WithField("product_id", id).Info("Product deleted")
	return nil
}

// AdjustQuantity moves stock by delta, which may be negative.
func (s *ProductService) AdjustQuantity(id uint, delta int) (*models.Product, error) {
	result := s.db.Model(&models.Product{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if product.LowStock() {
		logrus.WithFields(logrus.Fields{
			"product_id":   product.ID,
			"quantity":     product.Quantity,
			"min_quantity": product.MinQuantity,
		}).Warn("Product stock at or below reorder point")
	}
	return product, nil
}

func (s *ProductService) ensureCategory(id uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// normalizeSKU stores a blank SKU as NULL so it does not collide with
// other products without one.
func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
