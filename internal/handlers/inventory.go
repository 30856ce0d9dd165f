// internal/handlers/inventory.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-pos/internal/i18n"
	"github.com/javajoker/inventory-pos/internal/services"
	"github.com/javajoker/inventory-pos/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// POST /products/:id/restock
func (h *InventoryHandler) Restock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	var req services.RestockRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.inventoryService.Restock(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductRestocked),
		"product": product,
	})
}

// GET /products/:id/history
func (h *InventoryHandler) GetSalesHistory(c *gin.Context) {
	id, ok := parseID(c, "product")
	if !ok {
		return
	}

	history, err := h.inventoryService.GetProductSalesHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"history": history,
	})
}
