// internal/database/migrations/history.go
package migrations

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultHistoryTable is the version table the desktop shell's SQL plugin
// maintains, so stores it created are recognised as already migrated.
const DefaultHistoryTable = "_sqlx_migrations"

// LocalHistoryTable records the migrations the desktop shell does not ship.
// It has the same layout as DefaultHistoryTable.
const LocalHistoryTable = "_pos_migrations"

const historyDDL = `CREATE TABLE IF NOT EXISTS %q (
    version BIGINT PRIMARY KEY,
    description TEXT NOT NULL,
    installed_on TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    success BOOLEAN NOT NULL,
    checksum BLOB NOT NULL,
    execution_time BIGINT NOT NULL
)`

type appliedMigration struct {
	Version       int64     `gorm:"column:version;primaryKey;autoIncrement:false"`
	Description   string    `gorm:"column:description"`
	InstalledOn   time.Time `gorm:"column:installed_on;autoCreateTime"`
	Success       bool      `gorm:"column:success"`
	Checksum      []byte    `gorm:"column:checksum"`
	ExecutionTime int64     `gorm:"column:execution_time"`
}

func (m *Manager) ensureHistory(db *gorm.DB) error {
	if err := db.Exec(fmt.Sprintf(historyDDL, m.table)).Error; err != nil {
		return &MigrationError{Op: "history", Err: fmt.Errorf("failed to create %s: %w", m.table, err)}
	}
	return nil
}

func (m *Manager) loadHistory(db *gorm.DB) (map[int64]appliedMigration, error) {
	if err := m.ensureHistory(db); err != nil {
		return nil, err
	}

	var rows []appliedMigration
	if err := db.Table(m.table).Order("version").Find(&rows).Error; err != nil {
		return nil, &MigrationError{Op: "history", Err: fmt.Errorf("failed to read %s: %w", m.table, err)}
	}

	applied := make(map[int64]appliedMigration, len(rows))
	for _, row := range rows {
		applied[row.Version] = row
	}
	return applied, nil
}

func (m *Manager) isRecorded(tx *gorm.DB, version int64) (bool, error) {
	var count int64
	if err := tx.Table(m.table).Where("version = ?", version).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *Manager) record(tx *gorm.DB, migration Migration, elapsed time.Duration) error {
	row := appliedMigration{
		Version:       migration.Version,
		Description:   migration.Description,
		Success:       true,
		Checksum:      migration.Checksum(),
		ExecutionTime: elapsed.Nanoseconds(),
	}
	return tx.Table(m.table).Create(&row).Error
}

func (m *Manager) forget(tx *gorm.DB, version int64) error {
	return tx.Table(m.table).Where("version = ?", version).Delete(&appliedMigration{}).Error
}
