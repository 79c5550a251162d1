package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions.
const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
)

// AuditLog is one append-only entry of the audit trail: who changed what,
// with before/after snapshots. Rows are never updated or deleted.
type AuditLog struct {
	ID        int64          `json:"audit_log_id" gorm:"column:auditLogId;primaryKey;autoIncrement"`
	UserID    int64          `json:"user_id" gorm:"column:userId;index"`
	Action    string         `json:"action" gorm:"column:action;type:varchar(100)"`
	Table     string         `json:"table_name" gorm:"column:tableName;type:varchar(100)"`
	RecordID  int64          `json:"record_id" gorm:"column:recordId"`
	OldValues datatypes.JSON `json:"old_values,omitempty" gorm:"column:oldValues"`
	NewValues datatypes.JSON `json:"new_values,omitempty" gorm:"column:newValues"`
	CreatedAt time.Time      `json:"created_at" gorm:"column:createdAt"`
}

func (AuditLog) TableName() string { return "auditLog" }
