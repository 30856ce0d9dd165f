// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Requests
	KeyRateLimited = "request.rate_limited"
	KeyInvalidID   = "request.invalid_id"
	KeyInvalidDate = "request.invalid_date"

	// Categories
	KeyCategoryCreated  = "category.created"
	KeyCategoryUpdated  = "category.updated"
	KeyCategoryDeleted  = "category.deleted"
	KeyCategoryNotFound = "category.not_found"
	KeyCategoryExists   = "category.exists"

	// Products
	KeyProductCreated      = "product.created"
	KeyProductUpdated      = "product.updated"
	KeyProductDeleted      = "product.deleted"
	KeyProductNotFound     = "product.not_found"
	KeyProductDuplicateSKU = "product.duplicate_sku"
	KeyProductRestocked    = "product.restocked"

	// Sales
	KeySaleCreated  = "sale.created"
	KeySaleDeleted  = "sale.deleted"
	KeySaleNotFound = "sale.not_found"
	KeySaleEmpty    = "sale.empty"

	// System
	KeyBackupCreated = "system.backup_created"
	KeyBackupFailed  = "system.backup_failed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
