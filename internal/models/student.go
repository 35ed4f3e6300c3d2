package models

import "time"

// Student represents a learner taking part in the mentorship programme.
// Mentor is a display label, not a reference to another record.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mentor    string    `json:"mentor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasMentor reports whether a mentor label is set.
func (s Student) HasMentor() bool {
	return s.Mentor != ""
}
