// Package tasks defines the background task types the portal enqueues and
// the worker consumes.
package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"carelink-backend/shared/config"
)

// Task type names
const (
	TypeInviteEmail = "invite:email"
)

// InviteEmailPayload contains the data for an invite notification email
type InviteEmailPayload struct {
	InviteID         uuid.UUID `json:"invite_id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	OrganizationName string    `json:"organization_name"`
	InviterEmail     string    `json:"inviter_email"`
	Message          string    `json:"message,omitempty"`
}

// NewInviteEmailTask builds the asynq task for an invite email
func NewInviteEmailTask(payload InviteEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInviteEmail, data), nil
}

// RedisOpt builds the asynq Redis connection options from config
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDBNumber(),
	}
}

// NewClient creates an asynq client for enqueuing portal tasks
func NewClient(cfg *config.Config) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}
