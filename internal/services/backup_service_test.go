package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/javajoker/inventory-pos/internal/config"
	"github.com/javajoker/inventory-pos/internal/database"
	"github.com/javajoker/inventory-pos/internal/database/migrations"
	"github.com/javajoker/inventory-pos/internal/models"
)

func (suite *ServiceTestSuite) TestCreateLocalBackup() {
	suite.createProduct("Cola", "BEV-1", 1.25, 10, nil)
	suite.createProduct("Chips", "SN-1", 2.0, 10, nil)

	backupDir := filepath.Join(suite.dataDir, "backups")
	service, err := NewBackupService(suite.db, &config.Config{Backup: config.BackupConfig{Dir: backupDir}})
	suite.Require().NoError(err)

	result, err := service.CreateBackup(context.Background())
	suite.Require().NoError(err)
	suite.Equal(DestinationLocal, result.Destination)
	suite.Equal(backupDir, filepath.Dir(result.Location))
	suite.True(strings.HasPrefix(filepath.Base(result.Location), "inventory_"))
	suite.Positive(result.Size)

	info, err := os.Stat(result.Location)
	suite.Require().NoError(err)
	suite.Equal(result.Size, info.Size())

	copied, err := database.Initialize(config.DatabaseConfig{
		Locator:      "sqlite:" + filepath.Base(result.Location),
		DataDir:      backupDir,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		BusyTimeout:  5000,
		LogLevel:     "silent",
	})
	suite.Require().NoError(err)
	defer database.Close(copied)

	var products int64
	suite.Require().NoError(copied.Model(&models.Product{}).Count(&products).Error)
	suite.Equal(int64(2), products)

	pending, err := migrations.Inventory().Pending(context.Background(), copied)
	suite.Require().NoError(err)
	suite.Empty(pending)

	// a second backup never overwrites the first
	again, err := service.CreateBackup(context.Background())
	suite.Require().NoError(err)
	suite.NotEqual(result.Location, again.Location)
}

func (suite *ServiceTestSuite) TestBackupRunStopsWithContext() {
	service, err := NewBackupService(suite.db, &config.Config{Backup: config.BackupConfig{Dir: suite.T().TempDir()}})
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		service.Run(ctx, time.Hour)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		suite.Fail("backup loop did not stop")
	}

	// a zero interval disables scheduled backups
	service.Run(context.Background(), 0)
}

func (suite *ServiceTestSuite) TestSchemaStatus() {
	service := NewSchemaService(suite.db, migrations.Inventory())

	status, err := service.Status(context.Background())
	suite.Require().NoError(err)
	suite.Equal(int64(3), status.CurrentVersion)
	suite.Equal(int64(3), status.LatestVersion)
	suite.Require().Len(status.Migrations, 3)
	for _, migration := range status.Migrations {
		suite.True(migration.Applied, "version %d", migration.Version)
	}
}
