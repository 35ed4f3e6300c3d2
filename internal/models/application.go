package models

import "time"

// ApplicationStatus enumerates the states of a student application.
type ApplicationStatus string

const (
	// ApplicationStatusPending awaits a mentor decision.
	ApplicationStatusPending ApplicationStatus = "pending"
	// ApplicationStatusApproved is terminal and holds the project.
	ApplicationStatusApproved ApplicationStatus = "approved"
	// ApplicationStatusRejected is terminal.
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// ApplicationSource tells how an application came into existence.
type ApplicationSource string

const (
	// ApplicationSourceStudent is a regular student application.
	ApplicationSourceStudent ApplicationSource = "student"
	// ApplicationSourceCoordinator is an administrative project assignment.
	ApplicationSourceCoordinator ApplicationSource = "coordinator"
)

// Application records a student's request to work on a project.
// StudentName and ProjectTitle are frozen when the application is created.
type Application struct {
	ID           string            `json:"id"`
	StudentID    string            `json:"student_id"`
	StudentName  string            `json:"student_name"`
	ProjectID    string            `json:"project_id"`
	ProjectTitle string            `json:"project_title"`
	Status       ApplicationStatus `json:"status"`
	Source       ApplicationSource `json:"source"`
	AppliedDate  time.Time         `json:"applied_date"`
	DecidedAt    *time.Time        `json:"decided_at,omitempty"`
	DecidedBy    string            `json:"decided_by,omitempty"`
}

// IsPending reports whether the application still awaits a decision.
func (a Application) IsPending() bool {
	return a.Status == ApplicationStatusPending
}

// IsActive reports whether the application still counts toward the one-per-pair rule.
func (a Application) IsActive() bool {
	return a.Status != ApplicationStatusRejected
}

// Matches reports whether the application belongs to the given student and project.
func (a Application) Matches(studentID, projectID string) bool {
	return a.StudentID == studentID && a.ProjectID == projectID
}
