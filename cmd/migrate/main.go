// cmd/migrate/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/inventory-pos/internal/config"
	"github.com/javajoker/inventory-pos/internal/database"
	"github.com/javajoker/inventory-pos/internal/database/migrations"
	"github.com/javajoker/inventory-pos/internal/logger"
)

func main() {
	status := flag.Bool("status", false, "print the migration status of the store and exit")
	rollbackTo := flag.Int64("rollback-to", -1, "revert applied migrations above this version")
	locator := flag.String("store", "", "store locator, e.g. sqlite:inventory_v2.db (defaults to DB_LOCATOR)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if *locator != "" {
		cfg.Database.Locator = *locator
	}

	logger.Init(cfg.Log, cfg.Environment)

	if err := run(cfg, *status, *rollbackTo, os.Stdout); err != nil {
		logrus.WithError(err).Error("Migration command failed")
		os.Exit(1)
	}
}

// run carries out one command and returns once the store is closed again.
func run(cfg *config.Config, status bool, rollbackTo int64, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !status && rollbackTo < 0 {
		return database.Migrate(ctx, cfg.Database)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer database.Close(db)

	schema := migrations.Inventory(migrations.WithLogger(logrus.StandardLogger()))

	if rollbackTo >= 0 {
		reverted, err := schema.Rollback(ctx, db, rollbackTo)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"reverted": len(reverted),
			"target":   rollbackTo,
		}).Info("Rollback completed")
		return nil
	}

	statuses, err := schema.Status(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(statuses)
}
