package dto

import (
	"time"

	"github.com/noah-isme/gema-mentorship/internal/models"
)

// TakeTestRequest submits one attempt. Unanswered questions are sent as -1.
type TakeTestRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	TestID    string `json:"-" validate:"required"`
	Answers   []int  `json:"answers" validate:"required,min=1"`
}

// TestResultFilter narrows result listings.
type TestResultFilter struct {
	StudentID string `query:"student_id"`
	TestID    string `query:"test_id"`
}

// TestSummaryRequest restricts the summary to one test when TestID is set.
type TestSummaryRequest struct {
	TestID string `query:"test_id"`
}

// QuestionResponse exposes a question without its answer.
type QuestionResponse struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// TestResponse exposes a test without its answer key.
type TestResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Questions []QuestionResponse `json:"questions"`
}

// TestResultResponse is the serialized representation of a test attempt.
type TestResultResponse struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	TestID        string    `json:"test_id"`
	TestTitle     string    `json:"test_title"`
	Score         int       `json:"score"`
	CompletedDate time.Time `json:"completed_date"`
	Status        string    `json:"status"`
}

// TestSummaryResponse aggregates scores. Every figure is zero when no attempt exists.
type TestSummaryResponse struct {
	TestID        string `json:"test_id,omitempty"`
	TotalAttempts int    `json:"total_attempts"`
	AverageScore  int    `json:"average_score"`
	HighestScore  int    `json:"highest_score"`
	LowestScore   int    `json:"lowest_score"`
}

// NewTestResponse converts a test into a DTO, dropping correct options.
func NewTestResponse(model models.Test) TestResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, QuestionResponse{
			ID:      question.ID,
			Prompt:  question.Prompt,
			Options: append([]string(nil), question.Options...),
		})
	}
	return TestResponse{ID: model.ID, Title: model.Title, Questions: questions}
}

// NewTestResponseSlice converts a slice of tests into DTOs.
func NewTestResponseSlice(tests []models.Test) []TestResponse {
	responses := make([]TestResponse, 0, len(tests))
	for _, test := range tests {
		responses = append(responses, NewTestResponse(test))
	}
	return responses
}

// NewTestResultResponse converts a model into a DTO.
func NewTestResultResponse(model models.TestResult) TestResultResponse {
	return TestResultResponse{
		ID:            model.ID,
		StudentID:     model.StudentID,
		StudentName:   model.StudentName,
		TestID:        model.TestID,
		TestTitle:     model.TestTitle,
		Score:         model.Score,
		CompletedDate: model.CompletedDate,
		Status:        model.Status,
	}
}

// NewTestResultResponseSlice converts a slice of models into DTOs.
func NewTestResultResponseSlice(results []models.TestResult) []TestResultResponse {
	responses := make([]TestResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewTestResultResponse(result))
	}
	return responses
}
