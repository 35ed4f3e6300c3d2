package dto

import (
	"time"

	"github.com/noah-isme/gema-mentorship/internal/models"
)

// ApplyRequest asks for a student to be considered for a project.
// Students may omit StudentID; it defaults to the caller.
type ApplyRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
}

// DecisionRequest approves or rejects a pending application.
type DecisionRequest struct {
	ApplicationID string `json:"-" validate:"required"`
	Outcome       string `json:"outcome" validate:"required,oneof=approved rejected"`
}

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	StudentID string `query:"student_id"`
	ProjectID string `query:"project_id"`
	Status    string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// ApplicationResponse is the serialized representation of an application.
type ApplicationResponse struct {
	ID           string     `json:"id"`
	StudentID    string     `json:"student_id"`
	StudentName  string     `json:"student_name"`
	ProjectID    string     `json:"project_id"`
	ProjectTitle string     `json:"project_title"`
	Status       string     `json:"status"`
	Source       string     `json:"source"`
	AppliedDate  time.Time  `json:"applied_date"`
	DecidedAt    *time.Time `json:"decided_at"`
	DecidedBy    string     `json:"decided_by,omitempty"`
}

// NewApplicationResponse converts a model into a DTO.
func NewApplicationResponse(model models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:           model.ID,
		StudentID:    model.StudentID,
		StudentName:  model.StudentName,
		ProjectID:    model.ProjectID,
		ProjectTitle: model.ProjectTitle,
		Status:       string(model.Status),
		Source:       string(model.Source),
		AppliedDate:  model.AppliedDate,
		DecidedAt:    model.DecidedAt,
		DecidedBy:    model.DecidedBy,
	}
}

// NewApplicationResponseSlice converts a slice of models into DTOs.
func NewApplicationResponseSlice(applications []models.Application) []ApplicationResponse {
	responses := make([]ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, NewApplicationResponse(application))
	}
	return responses
}
