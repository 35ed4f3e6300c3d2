package models

import "time"

// SubmissionStatus enumerates the review states of a deliverable.
type SubmissionStatus string

const (
	// SubmissionStatusPending indicates the deliverable awaits review.
	SubmissionStatusPending SubmissionStatus = "pending"
	// SubmissionStatusReviewed indicates feedback has been recorded.
	SubmissionStatusReviewed SubmissionStatus = "reviewed"
)

// Submission represents a deliverable handed in by a student for an assigned project.
type Submission struct {
	ID             string           `json:"id"`
	StudentID      string           `json:"student_id"`
	StudentName    string           `json:"student_name"`
	ProjectID      string           `json:"project_id"`
	ProjectTitle   string           `json:"project_title"`
	SubmissionDate time.Time        `json:"submission_date"`
	Status         SubmissionStatus `json:"status"`
	Feedback       string           `json:"feedback,omitempty"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedBy     string           `json:"reviewed_by,omitempty"`
}

// IsReviewed reports whether the submission has received its feedback.
func (s Submission) IsReviewed() bool {
	return s.Status == SubmissionStatusReviewed
}

// Matches reports whether the submission belongs to the given student and project.
func (s Submission) Matches(studentID, projectID string) bool {
	return s.StudentID == studentID && s.ProjectID == projectID
}
