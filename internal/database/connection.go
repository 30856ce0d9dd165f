// internal/database/connection.go
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/inventory-pos/internal/config"
	"github.com/javajoker/inventory-pos/internal/database/migrations"
	"github.com/javajoker/inventory-pos/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	locator, err := config.ParseLocator(cfg.Locator)
	if err != nil {
		return nil, err
	}

	// Relative stores live in the application data directory
	if !locator.InMemory() {
		dir := filepath.Dir(locator.Path(cfg.DataDir))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", locator, err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	logrus.WithField("store", locator.Path(cfg.DataDir)).Info("Store opened")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing store")
	} else {
		logrus.Debug("Store closed")
	}
}

// RunMigrations brings db up to the latest inventory schema.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	logrus.Info("Running schema migrations...")

	schema := migrations.Inventory(migrations.WithLogger(logrus.StandardLogger()))
	applied, err := schema.Apply(ctx, db)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"applied": len(applied),
		"latest":  schema.Latest(),
	}).Info("Schema migrations completed")
	return nil
}

// Migrate opens the store named by cfg, creating it if absent, applies every
// pending migration and closes it again.
func Migrate(ctx context.Context, cfg config.DatabaseConfig) error {
	db, err := Initialize(cfg)
	if err != nil {
		return &migrations.MigrationError{Op: "open", Err: err}
	}
	defer Close(db)

	return RunMigrations(ctx, db)
}

// SeedInitialData loads a demo catalog into an empty store.
func SeedInitialData(db *gorm.DB) error {
	var productCount int64
	if err := db.Model(&models.Product{}).Unscoped().Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}

	if productCount > 0 {
		logrus.Info("Store already has data, skipping seed")
		return nil
	}

	logrus.Info("Seeding initial data...")

	return WithTransaction(db, func(tx *gorm.DB) error {
		electronics := &models.Category{Name: "Electronics", Description: strPtr("Devices and gadgets"), Color: strPtr("#3B82F6")}
		accessories := &models.Category{Name: "Accessories", Description: strPtr("Cables, cases and add-ons"), Color: strPtr("#10B981")}

		for _, category := range []*models.Category{electronics, accessories} {
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("failed to create category %s: %w", category.Name, err)
			}
		}

		products := []models.Product{
			{Name: "Wireless Mouse", Description: strPtr("Ergonomic 2.4GHz mouse"), SKU: strPtr("ELEC-001"), Price: 29.99, Cost: 15.00, Quantity: 50, MinQuantity: 10, CategoryID: &electronics.ID},
			{Name: "USB-C Cable", Description: strPtr("1m braided cable"), SKU: strPtr("ACC-001"), Price: 12.99, Cost: 4.50, Quantity: 120, MinQuantity: 25, CategoryID: &accessories.ID},
			{Name: "Bluetooth Speaker", Description: strPtr("Portable waterproof speaker"), SKU: strPtr("ELEC-002"), Price: 59.99, Cost: 32.00, Quantity: 8, MinQuantity: 10, CategoryID: &electronics.ID},
			{Name: "Phone Case", Description: strPtr("Shock absorbing case"), SKU: strPtr("ACC-002"), Price: 19.99, Cost: 6.00, Quantity: 75, MinQuantity: 15, CategoryID: &accessories.ID},
			{Name: "Mechanical Keyboard", Description: strPtr("Hot-swappable switches"), SKU: strPtr("ELEC-003"), Price: 89.99, Cost: 48.00, Quantity: 5, MinQuantity: 5, CategoryID: &electronics.ID},
		}

		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to create products: %w", err)
		}

		logrus.WithField("products", len(products)).Info("Initial data seeding completed")
		return nil
	})
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func strPtr(s string) *string {
	return &s
}
