// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaginationParams struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
	Search string `json:"search"`
}

type PaginationResult struct {
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	sort := c.Query("sort")
	order := strings.ToLower(c.DefaultQuery("order", "asc"))
	search := strings.TrimSpace(c.Query("search"))

	// Validate and set defaults
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	if order != "asc" && order != "desc" {
		order = "asc"
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Sort:   sort,
		Order:  order,
		Search: search,
	}
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	if params.Limit <= 0 {
		return db
	}
	offset := (params.Page - 1) * params.Limit
	if offset < 0 {
		offset = 0
	}
	return db.Offset(offset).Limit(params.Limit)
}

// ApplySort orders by the column mapped to params.Sort, or by fallback when
// the requested field is not sortable.
func ApplySort(db *gorm.DB, params PaginationParams, sortable map[string]string, fallback string) *gorm.DB {
	column, ok := sortable[params.Sort]
	if !ok {
		return db.Order(fallback)
	}

	order := "ASC"
	if params.Order == "desc" {
		order = "DESC"
	}
	return db.Order(column + " " + order)
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return PaginationResult{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.Limit))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
