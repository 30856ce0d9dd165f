// internal/handlers/sale.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-pos/internal/i18n"
	"github.com/javajoker/inventory-pos/internal/services"
	"github.com/javajoker/inventory-pos/internal/utils"
)

type SaleHandler struct {
	saleService *services.SaleService
}

func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// POST /sales
func (h *SaleHandler) CreateSale(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if len(req.Items) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeySaleEmpty), nil)
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sale, err := h.saleService.CreateSale(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySaleCreated),
		"sale":    sale,
	})
}

// GET /sales
// With start and end the sales of that period are returned unpaginated.
func (h *SaleHandler) GetSales(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	startStr, endStr := c.Query("start"), c.Query("end")

	if startStr != "" || endStr != "" {
		start, err := parseDate(startStr, false)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidDate, "start"), nil)
			return
		}
		end, err := parseDate(endStr, true)
		if err != nil {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidDate, "end"), nil)
			return
		}

		sales, err := h.saleService.ListSalesByDateRange(start, end)
		if err != nil {
			respondError(c, err)
			return
		}

		utils.SuccessResponse(c, gin.H{
			"sales": sales,
		})
		return
	}

	params := utils.GetPaginationParams(c)
	sales, total, err := h.saleService.ListSales(params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(sales, total, params))
}

// GET /sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, ok := parseID(c, "sale")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sale": sale,
	})
}

// DELETE /sales/:id
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := parseID(c, "sale")
	if !ok {
		return
	}

	if err := h.saleService.DeleteSale(id); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySaleDeleted),
	})
}
