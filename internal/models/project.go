package models

import "time"

// ProjectStatus enumerates the lifecycle states of a project.
type ProjectStatus string

const (
	// ProjectStatusAvailable marks a project that students may still apply to.
	ProjectStatusAvailable ProjectStatus = "available"
	// ProjectStatusAssigned marks a project with an approved application.
	ProjectStatusAssigned ProjectStatus = "assigned"
	// ProjectStatusCompleted marks a project whose deliverable has been reviewed and closed.
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project is a unit of mentored work created by a coordinator.
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	MentorName  string        `json:"mentor_name"`
	Status      ProjectStatus `json:"status"`
	Deadline    time.Time     `json:"deadline"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsAvailable reports whether the project accepts new applications.
func (p Project) IsAvailable() bool {
	return p.Status == ProjectStatusAvailable
}

// IsPastDeadline returns true when the reference time falls after the deadline day.
func (p Project) IsPastDeadline(reference time.Time) bool {
	if p.Deadline.IsZero() {
		return false
	}
	return reference.After(p.Deadline.AddDate(0, 0, 1))
}
