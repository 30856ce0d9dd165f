// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-pos/internal/i18n"
	"github.com/javajoker/inventory-pos/internal/services"
	"github.com/javajoker/inventory-pos/internal/utils"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	productService  *services.ProductService
}

func NewCategoryHandler(categoryService *services.CategoryService, productService *services.ProductService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		productService:  productService,
	}
}

// GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"categories": categories,
	})
}

// GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"category": category,
	})
}

// POST /categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryCreated),
		"category": category,
	})
}

// PUT /categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	var req services.UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.UpdateCategory(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCategoryUpdated),
		"category": category,
	})
}

// DELETE /categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCategoryDeleted),
	})
}

// GET /categories/:id/products
func (h *CategoryHandler) GetCategoryProducts(c *gin.Context) {
	id, ok := parseID(c, "category")
	if !ok {
		return
	}

	if _, err := h.categoryService.GetCategory(id); err != nil {
		respondError(c, err)
		return
	}

	params := services.ProductSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		CategoryID:       &id,
	}

	products, total, err := h.productService.SearchProducts(params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(products, total, params.PaginationParams))
}
