package service

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// AssignmentLocks are the collections mentor assignment writes.
var AssignmentLocks = []store.Collection{store.Students}

// AssignmentWorkflow pairs students with mentors. The mentor is a label used by
// reporting and never changes project status.
type AssignmentWorkflow interface {
	AssignMentor(ctx context.Context, tx *store.Tx, studentID, mentorName string) (models.Student, bool, error)
	UnassignMentor(ctx context.Context, tx *store.Tx, studentID string) (models.Student, error)
}

type assignmentWorkflow struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewAssignmentWorkflow constructs the mentor assignment workflow.
func NewAssignmentWorkflow(logger zerolog.Logger) AssignmentWorkflow {
	return &assignmentWorkflow{
		logger: logger.With().Str("component", "assignment_workflow").Logger(),
		now:    utcNow,
	}
}

// AssignMentor sets the student's mentor. The boolean result is false when the
// identical label was already assigned and nothing was written. Labels compare exactly,
// so a respelling overwrites the stored one.
func (w *assignmentWorkflow) AssignMentor(ctx context.Context, tx *store.Tx, studentID, mentorName string) (models.Student, bool, error) {
	mentor := cleanText(mentorName)
	if mentor == "" {
		return models.Student{}, false, apperror.Invalid("mentor name must not be empty", nil)
	}

	students, err := store.Get[models.Student](ctx, tx, store.Students)
	if err != nil {
		return models.Student{}, false, err
	}
	idx := slices.IndexFunc(students, func(s models.Student) bool { return s.ID == studentID })
	if idx < 0 {
		return models.Student{}, false, apperror.NotFound("student", studentID)
	}

	student := students[idx]
	if student.Mentor == mentor {
		return student, false, nil
	}

	previous := student.Mentor
	student.Mentor = mentor
	student.UpdatedAt = w.now()
	students[idx] = student
	if err := store.Put(ctx, tx, store.Students, students); err != nil {
		return models.Student{}, false, err
	}

	if previous != "" {
		w.logger.Info().
			Str("student_id", studentID).
			Str("previous_mentor", previous).
			Str("mentor", mentor).
			Msg("mentor reassigned")
	} else {
		w.logger.Info().Str("student_id", studentID).Str("mentor", mentor).Msg("mentor assigned")
	}

	return student, true, nil
}

func (w *assignmentWorkflow) UnassignMentor(ctx context.Context, tx *store.Tx, studentID string) (models.Student, error) {
	students, err := store.Get[models.Student](ctx, tx, store.Students)
	if err != nil {
		return models.Student{}, err
	}
	idx := slices.IndexFunc(students, func(s models.Student) bool { return s.ID == studentID })
	if idx < 0 {
		return models.Student{}, apperror.NotFound("student", studentID)
	}

	student := students[idx]
	if !student.HasMentor() {
		return models.Student{}, apperror.ErrNotAssigned.Withf("student %s has no mentor", studentID)
	}

	previous := student.Mentor
	student.Mentor = ""
	student.UpdatedAt = w.now()
	students[idx] = student
	if err := store.Put(ctx, tx, store.Students, students); err != nil {
		return models.Student{}, err
	}

	w.logger.Info().Str("student_id", studentID).Str("previous_mentor", previous).Msg("mentor unassigned")
	return student, nil
}
