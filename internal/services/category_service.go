// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/models"
	"github.com/javajoker/inventory-pos/internal/utils"
)

type CategoryService struct {
	db *gorm.DB
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category := &models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Color:       req.Color,
	}

	if err := s.db.Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"category_id": category.ID,
		"name":        category.Name,
	}).Info("Category created")

	return category, nil
}

func (s *CategoryService) UpdateCategory(id uint, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}

	if len(updates) == 0 {
		return category, nil
	}

	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return s.GetCategory(id)
}

// DeleteCategory removes a category. Its products stay, uncategorized.
func (s *CategoryService) DeleteCategory(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Unscoped().
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach products: %w", err)
		}

		result := tx.Delete(&models.Category{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}

		logrus.WithField("category_id", id).Info("Category deleted")
		return nil
	})
}
