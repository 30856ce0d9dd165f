// internal/services/schema_service.go
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/database/migrations"
)

// SchemaService reports where the store stands against the migrations this
// build carries.
type SchemaService struct {
	db     *gorm.DB
	schema *migrations.Schema
}

type SchemaStatus struct {
	CurrentVersion int64               `json:"current_version"`
	LatestVersion  int64               `json:"latest_version"`
	Migrations     []migrations.Status `json:"migrations"`
}

func NewSchemaService(db *gorm.DB, schema *migrations.Schema) *SchemaService {
	return &SchemaService{db: db, schema: schema}
}

func (s *SchemaService) Status(ctx context.Context) (*SchemaStatus, error) {
	statuses, err := s.schema.Status(ctx, s.db)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{
		LatestVersion: s.schema.Latest(),
		Migrations:    statuses,
	}
	for _, migration := range statuses {
		if migration.Applied && migration.Version > status.CurrentVersion {
			status.CurrentVersion = migration.Version
		}
	}
	return status, nil
}
