// internal/database/migrations/schema.go
package migrations

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/metrics"
)

// Schema chains managers that share one version sequence but keep separate
// history tables. Earlier managers hold the lower versions.
type Schema struct {
	managers []*Manager
}

func NewSchema(managers ...*Manager) *Schema {
	return &Schema{managers: managers}
}

// Migrations returns every registered up migration in ascending version order.
func (s *Schema) Migrations() []Migration {
	var all []Migration
	for _, m := range s.managers {
		all = append(all, m.Migrations()...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Version < all[j].Version })
	return all
}

func (s *Schema) Latest() int64 {
	var latest int64
	for _, m := range s.managers {
		if v := m.Latest(); v > latest {
			latest = v
		}
	}
	return latest
}

func (s *Schema) Pending(ctx context.Context, db *gorm.DB) ([]Migration, error) {
	var pending []Migration
	for _, m := range s.managers {
		p, err := m.Pending(ctx, db)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p...)
	}
	return pending, nil
}

// Apply runs each manager in turn and stops at the first failure.
func (s *Schema) Apply(ctx context.Context, db *gorm.DB) ([]Migration, error) {
	var done []Migration
	for _, m := range s.managers {
		applied, err := m.Apply(ctx, db)
		done = append(done, applied...)
		if err != nil {
			return done, err
		}
	}

	s.publishVersion(db.WithContext(ctx))
	return done, nil
}

// Rollback reverts applied versions above target across all managers, newest
// first. Nothing is reverted unless every one of them has a down script.
func (s *Schema) Rollback(ctx context.Context, db *gorm.DB, target int64) ([]Migration, error) {
	if !s.knows(target) {
		return nil, &MigrationError{Op: "rollback", Version: target, Err: ErrUnknownTarget}
	}

	for _, m := range s.managers {
		m.mu.Lock()
		defer m.mu.Unlock()
	}

	db = db.WithContext(ctx)

	plans := make([][]Migration, len(s.managers))
	for i, m := range s.managers {
		plan, err := m.rollbackPlan(db, target)
		if err != nil {
			return nil, err
		}
		plans[i] = plan
	}

	var reverted []Migration
	for i := len(s.managers) - 1; i >= 0; i-- {
		done, err := s.managers[i].revert(ctx, db, plans[i])
		reverted = append(reverted, done...)
		if err != nil {
			return reverted, err
		}
	}

	s.publishVersion(db)
	return reverted, nil
}

// Status reports every registered version in ascending order.
func (s *Schema) Status(ctx context.Context, db *gorm.DB) ([]Status, error) {
	var statuses []Status
	for _, m := range s.managers {
		st, err := m.Status(ctx, db)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st...)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Version < statuses[j].Version })
	return statuses, nil
}

func (s *Schema) knows(target int64) bool {
	if target == 0 {
		return true
	}
	for _, migration := range s.Migrations() {
		if migration.Version == target {
			return true
		}
	}
	return false
}

func (s *Schema) publishVersion(db *gorm.DB) {
	var current int64
	for _, m := range s.managers {
		version, err := m.currentVersion(db)
		if err != nil {
			m.logger.WithError(err).Warn("Failed to read current schema version")
			return
		}
		if version > current {
			current = version
		}
	}
	metrics.SchemaVersion.Set(float64(current))
}
