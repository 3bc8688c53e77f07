package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent is one immutable record of a successful mutation. Rows are
// append-only; nothing in the portal updates or deletes them.
type AuditEvent struct {
	ID           uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID      uuid.UUID              `json:"actor_id" gorm:"type:uuid;not null;index"`
	ActorEmail   string                 `json:"actor_email" gorm:"size:255"`
	Action       string                 `json:"action" gorm:"size:100;not null;index"`
	EntitySchema string                 `json:"entity_schema" gorm:"size:60;not null"`
	EntityTable  string                 `json:"entity_table" gorm:"size:60;not null;index"`
	EntityID     string                 `json:"entity_id" gorm:"size:100;not null;index"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" gorm:"serializer:json;type:jsonb"`
	CreatedAt    time.Time              `json:"created_at" gorm:"autoCreateTime;index"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
