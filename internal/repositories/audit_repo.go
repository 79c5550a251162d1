package repositories

import "joybox/internal/models"

// AuditRepository is the append-only store behind the audit trail. There is
// deliberately no update or delete.
type AuditRepository interface {
	Append(entry *models.AuditLog) error
	List(limit int) ([]models.AuditLog, error)
	ListByRecord(table string, recordID int64) ([]models.AuditLog, error)
}
