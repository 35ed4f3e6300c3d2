package dto

import (
	"time"

	"github.com/noah-isme/gema-mentorship/internal/models"
)

// StudentRegisterRequest enrolls a new student.
type StudentRegisterRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
}

// AssignMentorRequest labels a student with a mentor.
type AssignMentorRequest struct {
	StudentID  string `json:"-" validate:"required"`
	MentorName string `json:"mentor_name" validate:"required,max=120"`
}

// UnassignMentorRequest clears a student's mentor.
type UnassignMentorRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Mentor string `query:"mentor" validate:"omitempty,max=120"`
}

// StudentResponse is the serialized representation of a student.
type StudentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mentor    *string   `json:"mentor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MentorAssignmentResponse reports the student after a mentor assignment.
// Changed is false when the same mentor was already set.
type MentorAssignmentResponse struct {
	Student StudentResponse `json:"student"`
	Changed bool            `json:"changed"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	response := StudentResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.HasMentor() {
		mentor := model.Mentor
		response.Mentor = &mentor
	}
	return response
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
