package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"joybox/internal/models"
	"joybox/internal/repositories"
	"joybox/pkg/rabbitmq"

	"gorm.io/datatypes"
)

// AuditService is the cross-cutting recorder of mutations on tracked
// entities (product, order, user). Business code publishes a mutation to it
// after committing; a failed audit write is logged and never aborts the
// operation that caused it.
type AuditService struct {
	repo         repositories.AuditRepository
	mqClient     *rabbitmq.Client
	systemUserID int64
}

// NewAuditService creates a new AuditService. mqClient may be nil; systemUserID
// is the fixed identity used when no actor can be resolved.
func NewAuditService(repo repositories.AuditRepository, mqClient *rabbitmq.Client, systemUserID int64) *AuditService {
	return &AuditService{
		repo:         repo,
		mqClient:     mqClient,
		systemUserID: systemUserID,
	}
}

// Record appends one audit entry. actorID is the request-scoped acting user;
// when zero, the record's own owning-user field is used if it has one, and
// the system identity otherwise. CREATE entries carry only newValues, DELETE
// only oldValues, UPDATE both.
func (s *AuditService) Record(actorID int64, action, table string, recordID int64, oldValues, newValues map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:    s.resolveActor(actorID, oldValues, newValues),
		Action:    action,
		Table:     table,
		RecordID:  recordID,
		CreatedAt: time.Now(),
	}

	if oldValues != nil {
		raw, err := json.Marshal(oldValues)
		if err != nil {
			log.Printf("audit: failed to marshal old values for %s/%d: %v", table, recordID, err)
			return
		}
		entry.OldValues = datatypes.JSON(raw)
	}
	if newValues != nil {
		raw, err := json.Marshal(newValues)
		if err != nil {
			log.Printf("audit: failed to marshal new values for %s/%d: %v", table, recordID, err)
			return
		}
		entry.NewValues = datatypes.JSON(raw)
	}

	if err := s.repo.Append(entry); err != nil {
		log.Printf("audit: failed to append %s %s/%d: %v", action, table, recordID, err)
		return
	}

	if s.mqClient != nil {
		body, err := json.Marshal(entry)
		if err == nil {
			routingKey := fmt.Sprintf("audit.%s.%s", table, action)
			if pubErr := s.mqClient.Publish(routingKey, body); pubErr != nil {
				log.Printf("audit: failed to publish %s: %v", routingKey, pubErr)
			}
		}
	}
}

// List returns the newest audit entries.
func (s *AuditService) List(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.List(limit)
}

// History returns the audit trail of one record in mutation order.
func (s *AuditService) History(table string, recordID int64) ([]models.AuditLog, error) {
	return s.repo.ListByRecord(table, recordID)
}

func (s *AuditService) resolveActor(actorID int64, oldValues, newValues map[string]interface{}) int64 {
	if actorID != 0 {
		return actorID
	}
	for _, snapshot := range []map[string]interface{}{newValues, oldValues} {
		if snapshot == nil {
			continue
		}
		if owner, ok := snapshot["user_id"]; ok {
			switch v := owner.(type) {
			case int64:
				return v
			case float64:
				return int64(v)
			}
		}
	}
	return s.systemUserID
}

// Snapshot converts an entity into the key-value form stored in the audit
// trail, via its JSON representation. Sensitive fields never reach the trail:
// password carries a `json:"-"` tag on the model.
func Snapshot(entity interface{}) map[string]interface{} {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	delete(out, "password")
	return out
}
