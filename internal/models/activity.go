package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityEvent captures an auditable workflow transition.
type ActivityEvent struct {
	ID         string            `json:"id"`
	Action     string            `json:"action"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	ActorID    string            `json:"actor_id,omitempty"`
	ActorRole  string            `json:"actor_role"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	OccurredAt time.Time         `json:"occurred_at"`
}
