// internal/handlers/system.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/inventory-pos/internal/i18n"
	"github.com/javajoker/inventory-pos/internal/logger"
	"github.com/javajoker/inventory-pos/internal/services"
	"github.com/javajoker/inventory-pos/internal/utils"
)

type SystemHandler struct {
	schemaService *services.SchemaService
	backupService *services.BackupService
}

func NewSystemHandler(schemaService *services.SchemaService, backupService *services.BackupService) *SystemHandler {
	return &SystemHandler{
		schemaService: schemaService,
		backupService: backupService,
	}
}

// GET /system/migrations
func (h *SystemHandler) GetMigrations(c *gin.Context) {
	status, err := h.schemaService.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"schema": status,
	})
}

// POST /system/backups
func (h *SystemHandler) CreateBackup(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	backup, err := h.backupService.CreateBackup(c.Request.Context())
	if err != nil {
		logger.FromGin(c).WithError(err).Error("Backup failed")
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyBackupFailed))
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBackupCreated),
		"backup":  backup,
	})
}
