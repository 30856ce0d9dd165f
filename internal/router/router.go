// internal/router/router.go
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/config"
	"github.com/javajoker/inventory-pos/internal/database/migrations"
	"github.com/javajoker/inventory-pos/internal/handlers"
	"github.com/javajoker/inventory-pos/internal/metrics"
	"github.com/javajoker/inventory-pos/internal/middleware"
	"github.com/javajoker/inventory-pos/internal/services"
	"github.com/javajoker/inventory-pos/internal/utils"
)

const Version = "2.0.0"

// Initialize builds the HTTP API over db. Background work started here stops
// when ctx is done.
func Initialize(ctx context.Context, db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	metrics.Init()

	// Initialize services
	categoryService := services.NewCategoryService(db)
	productService := services.NewProductService(db)
	saleService := services.NewSaleService(db)
	inventoryService := services.NewInventoryService(db, productService)
	schemaService := services.NewSchemaService(db, migrations.Inventory(migrations.WithLogger(logrus.StandardLogger())))
	backupService, err := services.NewBackupService(db, cfg)
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService, productService)
	productHandler := handlers.NewProductHandler(productService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	saleHandler := handlers.NewSaleHandler(saleService)
	systemHandler := handlers.NewSystemHandler(schemaService, backupService)

	limiter := middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(limiter.Middleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "UNHEALTHY", err.Error(), nil)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
			categories.GET("/:id/products", categoryHandler.GetCategoryProducts)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/low-stock", productHandler.GetLowStockProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
			products.PATCH("/:id/quantity", productHandler.AdjustQuantity)
			products.POST("/:id/restock", inventoryHandler.Restock)
			products.GET("/:id/history", inventoryHandler.GetSalesHistory)
		}

		// Sale routes
		sales := v1.Group("/sales")
		{
			sales.GET("", saleHandler.GetSales)
			sales.POST("", saleHandler.CreateSale)
			sales.GET("/:id", saleHandler.GetSale)
			sales.DELETE("/:id", saleHandler.DeleteSale)
		}

		// System routes
		system := v1.Group("/system")
		{
			system.GET("/migrations", systemHandler.GetMigrations)
			system.POST("/backups", systemHandler.CreateBackup)
		}
	}

	// Periodic backups
	if cfg.Backup.IntervalHours > 0 {
		go backupService.Run(ctx, time.Duration(cfg.Backup.IntervalHours)*time.Hour)
	}

	return r, nil
}
