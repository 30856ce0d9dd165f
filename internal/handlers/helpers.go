// internal/handlers/helpers.go
package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-pos/internal/i18n"
	"github.com/javajoker/inventory-pos/internal/logger"
	"github.com/javajoker/inventory-pos/internal/services"
	"github.com/javajoker/inventory-pos/internal/utils"
)

const dateLayout = "2006-01-02"

func parseID(c *gin.Context, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvalidID, resource), nil)
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. A bare end
// date covers the whole day.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// bindJSON decodes and validates a request body, answering the client on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}

	return true
}

// respondError maps service errors onto API responses.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, services.ErrCategoryNotFound):
		utils.NotFoundResponse(c, i18n.KeyCategoryNotFound)
	case errors.Is(err, services.ErrSaleNotFound):
		utils.NotFoundResponse(c, i18n.KeySaleNotFound)
	case errors.Is(err, services.ErrCategoryExists):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyCategoryExists))
	case errors.Is(err, services.ErrDuplicateSKU):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyProductDuplicateSKU))
	case errors.Is(err, services.ErrEmptySale):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeySaleEmpty), nil)
	default:
		logger.FromGin(c).WithError(err).Error("Request failed")
		utils.InternalErrorResponse(c, "")
	}
}
