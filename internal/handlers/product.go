// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-pos/internal/i18n"
	"github.com/javajoker/inventory-pos/internal/services"
	"github.com/javajoker/inventory-pos/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := services.ProductSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64); err == nil {
			id := uint(categoryID)
			params.CategoryID = &id
		}
	}

	products, total, err := h.productService.SearchProducts(params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(products, total, params.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /products/low-stock
func (h *ProductHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts()
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": products,
	})
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.CreateProduct(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// PATCH /products/:id/quantity
func (h *ProductHandler) AdjustQuantity(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var req services.AdjustQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.AdjustQuantity(id, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}
