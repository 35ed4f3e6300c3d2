package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

func TestAssignMentorIsIdempotent(t *testing.T) {
	f := newFixture(t)
	workflow := NewAssignmentWorkflow(f.logger)

	assign := func(mentor string) (models.Student, bool) {
		var (
			student models.Student
			changed bool
		)
		require.NoError(t, f.update(func(tx *store.Tx) error {
			var err error
			student, changed, err = workflow.AssignMentor(f.ctx, tx, "std1", mentor)
			return err
		}, AssignmentLocks))
		return student, changed
	}

	first, changed := assign("Dr. Smith")
	require.True(t, changed)
	require.Equal(t, "Dr. Smith", first.Mentor)
	afterFirst := getAll[models.Student](t, f, store.Students)

	second, changed := assign("Dr. Smith")
	require.False(t, changed)
	require.Equal(t, first, second)
	require.Equal(t, afterFirst, getAll[models.Student](t, f, store.Students))

	third, changed := assign("Prof. Johnson")
	require.True(t, changed)
	require.Equal(t, "Prof. Johnson", third.Mentor)

	// A different spelling is a different label and overwrites the stored one.
	respelled, changed := assign("prof. johnson")
	require.True(t, changed)
	require.Equal(t, "prof. johnson", respelled.Mentor)
	require.Equal(t, "prof. johnson", getAll[models.Student](t, f, store.Students)[0].Mentor)
}

func TestAssignMentorDoesNotTouchProjects(t *testing.T) {
	f := newFixture(t)
	workflow := NewAssignmentWorkflow(f.logger)
	before := getAll[models.Project](t, f, store.Projects)

	require.NoError(t, f.update(func(tx *store.Tx) error {
		_, _, err := workflow.AssignMentor(f.ctx, tx, "std2", "Dr. Williams")
		return err
	}, AssignmentLocks))

	require.Equal(t, before, getAll[models.Project](t, f, store.Projects))
}

func TestAssignMentorValidation(t *testing.T) {
	f := newFixture(t)
	workflow := NewAssignmentWorkflow(f.logger)

	err := f.update(func(tx *store.Tx) error {
		_, _, err := workflow.AssignMentor(f.ctx, tx, "std1", "   ")
		return err
	}, AssignmentLocks)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = f.update(func(tx *store.Tx) error {
		_, _, err := workflow.AssignMentor(f.ctx, tx, "ghost", "Dr. Smith")
		return err
	}, AssignmentLocks)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUnassignMentor(t *testing.T) {
	f := newFixture(t)
	workflow := NewAssignmentWorkflow(f.logger)

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.UnassignMentor(f.ctx, tx, "std1")
		return err
	}, AssignmentLocks)
	require.ErrorIs(t, err, apperror.ErrNotAssigned)

	require.NoError(t, f.update(func(tx *store.Tx) error {
		_, _, err := workflow.AssignMentor(f.ctx, tx, "std1", "Dr. Smith")
		return err
	}, AssignmentLocks))

	var student models.Student
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		student, err = workflow.UnassignMentor(f.ctx, tx, "std1")
		return err
	}, AssignmentLocks))
	require.False(t, student.HasMentor())
}
