// internal/database/migrations/manager.go
package migrations

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/metrics"
)

// Manager owns an ordered set of migrations and applies them to a store at
// most once each, in ascending version order.
type Manager struct {
	mu     sync.Mutex
	table  string
	logger logrus.FieldLogger
	up     map[int64]Migration
	down   map[int64]Migration
}

type Option func(*Manager)

func WithHistoryTable(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.table = name
		}
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Status describes one registered version against a store.
type Status struct {
	Version       int64      `json:"version"`
	Description   string     `json:"description"`
	Applied       bool       `json:"applied"`
	InstalledOn   *time.Time `json:"installed_on,omitempty"`
	ChecksumMatch bool       `json:"checksum_match"`
	Reversible    bool       `json:"reversible"`
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		table:  DefaultHistoryTable,
		logger: logrus.StandardLogger(),
		up:     make(map[int64]Migration),
		down:   make(map[int64]Migration),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Register(version int64, description, script string, kind Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fail := func(err error) error {
		return &MigrationError{Op: "register", Version: version, Description: description, Err: err}
	}

	if version <= 0 {
		return fail(ErrInvalidVersion)
	}
	if strings.TrimSpace(script) == "" {
		return fail(ErrEmptyScript)
	}

	migration := Migration{Version: version, Description: description, SQL: script, Kind: kind}

	switch kind {
	case KindUp:
		if _, exists := m.up[version]; exists {
			return fail(ErrDuplicateVersion)
		}
		m.up[version] = migration
	case KindDown:
		if _, exists := m.up[version]; !exists {
			return fail(ErrMissingUp)
		}
		if _, exists := m.down[version]; exists {
			return fail(ErrDuplicateVersion)
		}
		m.down[version] = migration
	default:
		return fail(ErrInvalidKind)
	}

	return nil
}

func (m *Manager) MustRegister(version int64, description, script string, kind Kind) {
	if err := m.Register(version, description, script, kind); err != nil {
		panic(err)
	}
}

// Migrations returns the registered up migrations in ascending version order.
func (m *Manager) Migrations() []Migration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ordered()
}

func (m *Manager) Latest() int64 {
	migrations := m.Migrations()
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}

func (m *Manager) ordered() []Migration {
	migrations := make([]Migration, 0, len(m.up))
	for _, migration := range m.up {
		migrations = append(migrations, migration)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations
}

// Pending lists the up migrations not yet recorded against db.
func (m *Manager) Pending(ctx context.Context, db *gorm.DB) ([]Migration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	applied, err := m.loadHistory(db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, migration := range m.ordered() {
		if _, ok := applied[migration.Version]; !ok {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

// Apply runs every pending up migration. Each one commits together with its
// history row or not at all; on failure the store stays at the last fully
// applied version and the migrations applied so far are returned.
func (m *Manager) Apply(ctx context.Context, db *gorm.DB) ([]Migration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	db = db.WithContext(ctx)

	applied, err := m.loadHistory(db)
	if err != nil {
		return nil, err
	}
	if err := m.verify(applied); err != nil {
		return nil, err
	}

	var done []Migration
	for _, migration := range m.ordered() {
		if _, ok := applied[migration.Version]; ok {
			continue
		}

		if err := ctx.Err(); err != nil {
			return done, &MigrationError{Op: "apply", Version: migration.Version, Description: migration.Description, Err: err}
		}

		ran, err := m.applyOne(db, migration)
		if err != nil {
			return done, err
		}
		if ran {
			done = append(done, migration)
		}
	}

	m.publishVersion(db)
	return done, nil
}

func (m *Manager) applyOne(db *gorm.DB, migration Migration) (bool, error) {
	log := m.logger.WithFields(logrus.Fields{
		"version":     migration.Version,
		"description": migration.Description,
	})
	label := strconv.FormatInt(migration.Version, 10)

	start := time.Now()
	ran := false

	err := db.Transaction(func(tx *gorm.DB) error {
		// another process may have applied it since the history was read
		recorded, err := m.isRecorded(tx, migration.Version)
		if err != nil {
			return &MigrationError{Op: "history", Version: migration.Version, Description: migration.Description, Err: err}
		}
		if recorded {
			log.Info("Migration already recorded by another connection, skipping")
			return nil
		}

		if err := m.execute(tx, migration, log); err != nil {
			return err
		}

		if err := m.record(tx, migration, time.Since(start)); err != nil {
			return &MigrationError{Op: "history", Version: migration.Version, Description: migration.Description, Err: err}
		}

		ran = true
		return nil
	})

	if err != nil {
		var migrationErr *MigrationError
		if !errors.As(err, &migrationErr) {
			err = &MigrationError{Op: "apply", Version: migration.Version, Description: migration.Description, Err: err}
		}
		metrics.MigrationsApplied.WithLabelValues(label, "failed").Inc()
		log.WithError(err).Error("Migration failed and was rolled back")
		return false, err
	}

	if ran {
		metrics.MigrationsApplied.WithLabelValues(label, "applied").Inc()
		metrics.MigrationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Migration applied")
	}
	return ran, nil
}

func (m *Manager) execute(tx *gorm.DB, migration Migration, log logrus.FieldLogger) error {
	op := "apply"
	if migration.Kind == KindDown {
		op = "rollback"
	}

	for _, stmt := range splitStatements(migration.SQL) {
		skip, err := skipStatement(tx, stmt)
		if err != nil {
			return &MigrationError{Op: op, Version: migration.Version, Description: migration.Description, Statement: stmt, Err: err}
		}
		if skip {
			log.WithField("statement", abbreviate(stmt, 80)).Debug("Statement already satisfied by schema, skipping")
			continue
		}

		if err := tx.Exec(stmt).Error; err != nil {
			return &MigrationError{Op: op, Version: migration.Version, Description: migration.Description, Statement: stmt, Err: err}
		}
	}
	return nil
}

// verify checks recorded history against the registered set.
func (m *Manager) verify(applied map[int64]appliedMigration) error {
	versions := make([]int64, 0, len(applied))
	for version := range applied {
		versions = append(versions, version)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	for _, version := range versions {
		row := applied[version]
		if !row.Success {
			return &MigrationError{Op: "history", Version: version, Description: row.Description, Err: ErrDirty}
		}

		registered, ok := m.up[version]
		if !ok {
			m.logger.WithField("version", version).Warn("Store records a migration this build does not know")
			continue
		}

		if !bytes.Equal(row.Checksum, registered.Checksum()) {
			m.logger.WithFields(logrus.Fields{
				"version":     version,
				"description": registered.Description,
			}).Warn("Applied migration checksum differs from the registered script")
		}
	}
	return nil
}

// Rollback reverts applied versions above target, newest first. Nothing is
// reverted unless every one of them has a down script.
func (m *Manager) Rollback(ctx context.Context, db *gorm.DB, target int64) ([]Migration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if target < 0 {
		return nil, &MigrationError{Op: "rollback", Version: target, Err: ErrUnknownTarget}
	}
	if _, ok := m.up[target]; target > 0 && !ok {
		return nil, &MigrationError{Op: "rollback", Version: target, Err: ErrUnknownTarget}
	}

	db = db.WithContext(ctx)

	plan, err := m.rollbackPlan(db, target)
	if err != nil {
		return nil, err
	}

	reverted, err := m.revert(ctx, db, plan)
	m.publishVersion(db)
	return reverted, err
}

// rollbackPlan lists the down scripts that take db back to target. The
// caller holds m.mu.
func (m *Manager) rollbackPlan(db *gorm.DB, target int64) ([]Migration, error) {
	applied, err := m.loadHistory(db)
	if err != nil {
		return nil, err
	}
	if err := m.verify(applied); err != nil {
		return nil, err
	}

	var versions []int64
	for version := range applied {
		if version > target {
			versions = append(versions, version)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })

	plan := make([]Migration, 0, len(versions))
	for _, version := range versions {
		down, ok := m.down[version]
		if !ok {
			return nil, &MigrationError{Op: "rollback", Version: version, Description: applied[version].Description, Err: ErrIrreversible}
		}
		plan = append(plan, down)
	}
	return plan, nil
}

// revert runs plan, one transaction per migration. The caller holds m.mu.
func (m *Manager) revert(ctx context.Context, db *gorm.DB, plan []Migration) ([]Migration, error) {
	var reverted []Migration
	for _, migration := range plan {
		if err := ctx.Err(); err != nil {
			return reverted, &MigrationError{Op: "rollback", Version: migration.Version, Description: migration.Description, Err: err}
		}

		log := m.logger.WithFields(logrus.Fields{
			"version":     migration.Version,
			"description": migration.Description,
		})

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.execute(tx, migration, log); err != nil {
				return err
			}
			if err := m.forget(tx, migration.Version); err != nil {
				return &MigrationError{Op: "history", Version: migration.Version, Description: migration.Description, Err: err}
			}
			return nil
		})
		if err != nil {
			var migrationErr *MigrationError
			if !errors.As(err, &migrationErr) {
				err = &MigrationError{Op: "rollback", Version: migration.Version, Description: migration.Description, Err: err}
			}
			return reverted, err
		}

		metrics.MigrationsApplied.WithLabelValues(strconv.FormatInt(migration.Version, 10), "reverted").Inc()
		log.Info("Migration reverted")
		reverted = append(reverted, migration)
	}
	return reverted, nil
}

func (m *Manager) Status(ctx context.Context, db *gorm.DB) ([]Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	applied, err := m.loadHistory(db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var statuses []Status
	for _, migration := range m.ordered() {
		status := Status{
			Version:     migration.Version,
			Description: migration.Description,
		}
		_, status.Reversible = m.down[migration.Version]

		if row, ok := applied[migration.Version]; ok {
			installedOn := row.InstalledOn
			status.Applied = row.Success
			status.InstalledOn = &installedOn
			status.ChecksumMatch = bytes.Equal(row.Checksum, migration.Checksum())
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (m *Manager) publishVersion(db *gorm.DB) {
	version, err := m.currentVersion(db)
	if err != nil {
		m.logger.WithError(err).Warn("Failed to read current schema version")
		return
	}
	metrics.SchemaVersion.Set(float64(version))
}

func (m *Manager) currentVersion(db *gorm.DB) (int64, error) {
	var version int64
	err := db.Table(m.table).Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	return version, err
}
