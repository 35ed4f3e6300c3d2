package dto

import (
	"time"

	"github.com/noah-isme/gema-mentorship/internal/models"
)

// OverviewResponse counts records by status across the programme.
type OverviewResponse struct {
	Projects     map[string]int      `json:"projects"`
	Applications map[string]int      `json:"applications"`
	Submissions  map[string]int      `json:"submissions"`
	Students     StudentTotals       `json:"students"`
	Tests        TestSummaryResponse `json:"tests"`
}

// StudentTotals splits students by mentor assignment.
type StudentTotals struct {
	Total         int `json:"total"`
	WithMentor    int `json:"with_mentor"`
	WithoutMentor int `json:"without_mentor"`
}

// ActivityFilter limits the activity feed.
type ActivityFilter struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=200"`
}

// ActivityResponse is the serialized representation of a workflow event.
type ActivityResponse struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	ActorRole  string         `json:"actor_role"`
	Metadata   map[string]any `json:"metadata"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewActivityResponse converts an event into a DTO.
func NewActivityResponse(model models.ActivityEvent) ActivityResponse {
	metadata := map[string]any{}
	for key, value := range model.Metadata {
		metadata[key] = value
	}
	return ActivityResponse{
		ID:         model.ID,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		ActorID:    model.ActorID,
		ActorRole:  model.ActorRole,
		Metadata:   metadata,
		OccurredAt: model.OccurredAt,
	}
}

// NewActivityResponseSlice converts a slice of events into DTOs.
func NewActivityResponseSlice(events []models.ActivityEvent) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewActivityResponse(event))
	}
	return responses
}
