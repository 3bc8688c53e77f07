package pipeline

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-backend/shared/database/models"
)

// EntityRef identifies an audited row: {namespace, table, id}. IDs are stored
// as strings so both UUID and integer keys fit.
type EntityRef struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
	ID     string `json:"id"`
}

// RefUUID builds an EntityRef for a UUID-keyed row in the public schema
func RefUUID(table string, id uuid.UUID) EntityRef {
	return EntityRef{Schema: "public", Table: table, ID: id.String()}
}

// RefInt builds an EntityRef for an integer-keyed row in the public schema
func RefInt(table string, id int64) EntityRef {
	return EntityRef{Schema: "public", Table: table, ID: strconv.FormatInt(id, 10)}
}

// Event is one successful mutation to record
type Event struct {
	Actor    *AccessContext
	Action   string
	Ref      EntityRef
	Metadata map[string]interface{}
}

// AuditRecorder appends immutable audit events
type AuditRecorder interface {
	Record(ctx context.Context, e Event) error
}

// DBRecorder writes audit events to the audit_events table. Broadcast, when
// set, pushes the stored event to the live activity feed along with the
// producing actor's organization so the feed can scope delivery per tenant.
type DBRecorder struct {
	DB        *gorm.DB
	Broadcast func(event models.AuditEvent, orgID *uuid.UUID)
}

// Record appends one audit event row
func (r *DBRecorder) Record(ctx context.Context, e Event) error {
	event := models.AuditEvent{
		ActorID:      e.Actor.ProfileID,
		ActorEmail:   e.Actor.Email,
		Action:       e.Action,
		EntitySchema: e.Ref.Schema,
		EntityTable:  e.Ref.Table,
		EntityID:     e.Ref.ID,
		Metadata:     e.Metadata,
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return err
	}

	if r.Broadcast != nil {
		r.Broadcast(event, e.Actor.OrganizationID)
	}
	return nil
}
