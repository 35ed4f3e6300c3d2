package dto

import (
	"time"

	"github.com/noah-isme/gema-mentorship/internal/models"
)

// SubmitRequest hands in a deliverable for an assigned project.
type SubmitRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	ProjectID string `json:"project_id" validate:"required"`
}

// ReviewRequest records mentor feedback. Blank or over-long feedback is rejected by the
// workflow once the submission is known to be pending.
type ReviewRequest struct {
	SubmissionID string `json:"-" validate:"required"`
	Feedback     string `json:"feedback"`
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	StudentID string `query:"student_id"`
	ProjectID string `query:"project_id"`
	Status    string `query:"status" validate:"omitempty,oneof=pending reviewed"`
}

// SubmissionResponse is the serialized representation of a submission.
type SubmissionResponse struct {
	ID             string     `json:"id"`
	StudentID      string     `json:"student_id"`
	StudentName    string     `json:"student_name"`
	ProjectID      string     `json:"project_id"`
	ProjectTitle   string     `json:"project_title"`
	SubmissionDate time.Time  `json:"submission_date"`
	Status         string     `json:"status"`
	Feedback       *string    `json:"feedback"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	ReviewedBy     string     `json:"reviewed_by,omitempty"`
}

// NewSubmissionResponse converts a model into a DTO. Feedback is null until reviewed.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:             model.ID,
		StudentID:      model.StudentID,
		StudentName:    model.StudentName,
		ProjectID:      model.ProjectID,
		ProjectTitle:   model.ProjectTitle,
		SubmissionDate: model.SubmissionDate,
		Status:         string(model.Status),
		ReviewedAt:     model.ReviewedAt,
		ReviewedBy:     model.ReviewedBy,
	}
	if model.IsReviewed() {
		feedback := model.Feedback
		response.Feedback = &feedback
	}
	return response
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
