package dto

import (
	"time"

	"github.com/noah-isme/gema-mentorship/internal/models"
)

// DateLayout is the wire format of calendar dates such as project deadlines.
const DateLayout = "2006-01-02"

// ProjectCreateRequest describes a new project.
type ProjectCreateRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=5000"`
	MentorName  string `json:"mentor_name" validate:"required,max=120"`
	Deadline    string `json:"deadline" validate:"required,datetime=2006-01-02"`
}

// ProjectUpdateRequest carries optional project changes. Status cannot be patched.
type ProjectUpdateRequest struct {
	ProjectID   string  `json:"-" validate:"required"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	MentorName  *string `json:"mentor_name" validate:"omitempty,max=120"`
	Deadline    *string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

// ProjectRequest identifies a project for delete and complete.
type ProjectRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
}

// AssignProjectRequest administratively assigns a project to a student.
type AssignProjectRequest struct {
	ProjectID string `json:"-" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Status string `query:"status" validate:"omitempty,oneof=available assigned completed"`
	Mentor string `query:"mentor" validate:"omitempty,max=120"`
}

// ProjectResponse is the serialized representation of a project.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MentorName  string    `json:"mentor_name"`
	Status      string    `json:"status"`
	Deadline    string    `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectDeletionResponse reports a deleted project and the applications its removal rejected.
type ProjectDeletionResponse struct {
	Project              ProjectResponse `json:"project"`
	RejectedApplications []string        `json:"rejected_applications"`
}

// NewProjectResponse converts a model into a DTO.
func NewProjectResponse(model models.Project) ProjectResponse {
	response := ProjectResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		MentorName:  model.MentorName,
		Status:      string(model.Status),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if !model.Deadline.IsZero() {
		response.Deadline = model.Deadline.Format(DateLayout)
	}
	return response
}

// NewProjectResponseSlice converts a slice of models into DTOs.
func NewProjectResponseSlice(projects []models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, NewProjectResponse(project))
	}
	return responses
}

// ParseDate parses a calendar date in DateLayout as UTC midnight.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}
