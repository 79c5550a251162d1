package repositories

import (
	"fmt"

	"joybox/internal/models"

	"gorm.io/gorm"
)

// GORMAuditRepository is a GORM implementation of AuditRepository.
type GORMAuditRepository struct {
	db *gorm.DB
}

// NewGORMAuditRepository creates a new instance of GORMAuditRepository.
func NewGORMAuditRepository(db *gorm.DB) *GORMAuditRepository {
	return &GORMAuditRepository{
		db: db,
	}
}

// Append inserts one immutable audit entry.
func (r *GORMAuditRepository) Append(entry *models.AuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// List returns the newest entries up to limit.
func (r *GORMAuditRepository) List(limit int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.Order("\"auditLogId\" DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// ListByRecord returns the audit history of one record in mutation order.
func (r *GORMAuditRepository) ListByRecord(table string, recordID int64) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := r.db.Where("\"tableName\" = ? AND \"recordId\" = ?", table, recordID).
		Order("\"auditLogId\"").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries for %s/%d: %w", table, recordID, err)
	}
	return entries, nil
}
