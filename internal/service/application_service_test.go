package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

var errWriteRefused = errors.New("write refused")

func TestApplyThenApproveAssignsProject(t *testing.T) {
	f := newFixture(t)
	workflow := NewApplicationWorkflow(f.logger)

	var application models.Application
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		application, err = workflow.Apply(f.ctx, tx, "std1", "p1")
		return err
	}, ApplicationLocks))

	require.Equal(t, models.ApplicationStatusPending, application.Status)
	require.Equal(t, "John Doe", application.StudentName)
	require.Equal(t, "AI-Powered Chat Application", application.ProjectTitle)
	require.Equal(t, models.ProjectStatusAvailable, projectByID(t, f, "p1").Status)

	var decided models.Application
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		decided, err = workflow.Decide(f.ctx, tx, application.ID, models.ApplicationStatusApproved, "mentor-1")
		return err
	}, ApplicationLocks))
	require.Equal(t, models.ApplicationStatusApproved, decided.Status)
	require.Equal(t, "mentor-1", decided.DecidedBy)
	require.NotNil(t, decided.DecidedAt)
	require.Equal(t, models.ProjectStatusAssigned, projectByID(t, f, "p1").Status)

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.Apply(f.ctx, tx, "std2", "p1")
		return err
	}, ApplicationLocks)
	require.ErrorIs(t, err, apperror.ErrProjectUnavailable)
	require.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestApplyRejectsDuplicateOpenApplication(t *testing.T) {
	f := newFixture(t)
	workflow := NewApplicationWorkflow(f.logger)
	apply := func() (models.Application, error) {
		var application models.Application
		err := f.update(func(tx *store.Tx) error {
			var err error
			application, err = workflow.Apply(f.ctx, tx, "std1", "p1")
			return err
		}, ApplicationLocks)
		return application, err
	}

	first, err := apply()
	require.NoError(t, err)

	_, err = apply()
	require.ErrorIs(t, err, apperror.ErrDuplicateApplication)

	require.NoError(t, f.update(func(tx *store.Tx) error {
		_, err := workflow.Decide(f.ctx, tx, first.ID, models.ApplicationStatusRejected, "mentor-1")
		return err
	}, ApplicationLocks))
	require.Equal(t, models.ProjectStatusAvailable, projectByID(t, f, "p1").Status)

	// A rejected application no longer blocks a new one.
	_, err = apply()
	require.NoError(t, err)

	open := 0
	for _, application := range getAll[models.Application](t, f, store.Applications) {
		if application.Matches("std1", "p1") && application.IsActive() {
			open++
		}
	}
	require.Equal(t, 1, open)
}

func TestApplyUnknownEntities(t *testing.T) {
	f := newFixture(t)
	workflow := NewApplicationWorkflow(f.logger)

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.Apply(f.ctx, tx, "ghost", "p1")
		return err
	}, ApplicationLocks)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = f.update(func(tx *store.Tx) error {
		_, err := workflow.Apply(f.ctx, tx, "std1", "ghost")
		return err
	}, ApplicationLocks)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDecideTwiceFailsWithAlreadyDecided(t *testing.T) {
	f := newFixture(t)
	workflow := NewApplicationWorkflow(f.logger)

	var application models.Application
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		application, err = workflow.Apply(f.ctx, tx, "std1", "p1")
		return err
	}, ApplicationLocks))
	require.NoError(t, f.update(func(tx *store.Tx) error {
		_, err := workflow.Decide(f.ctx, tx, application.ID, models.ApplicationStatusRejected, "mentor-1")
		return err
	}, ApplicationLocks))

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.Decide(f.ctx, tx, application.ID, models.ApplicationStatusApproved, "mentor-1")
		return err
	}, ApplicationLocks)
	require.ErrorIs(t, err, apperror.ErrAlreadyDecided)

	err = f.update(func(tx *store.Tx) error {
		_, err := workflow.Decide(f.ctx, tx, "missing", models.ApplicationStatusApproved, "mentor-1")
		return err
	}, ApplicationLocks)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = f.update(func(tx *store.Tx) error {
		_, err := workflow.Decide(f.ctx, tx, application.ID, models.ApplicationStatusPending, "mentor-1")
		return err
	}, ApplicationLocks)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestApproveWhenProjectTakenLeavesApplicationPending(t *testing.T) {
	f := newFixture(t)
	workflow := NewApplicationWorkflow(f.logger)

	var first, second models.Application
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		if first, err = workflow.Apply(f.ctx, tx, "std1", "p1"); err != nil {
			return err
		}
		second, err = workflow.Apply(f.ctx, tx, "std2", "p1")
		return err
	}, ApplicationLocks))

	require.NoError(t, f.update(func(tx *store.Tx) error {
		_, err := workflow.Decide(f.ctx, tx, first.ID, models.ApplicationStatusApproved, "mentor-1")
		return err
	}, ApplicationLocks))

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.Decide(f.ctx, tx, second.ID, models.ApplicationStatusApproved, "mentor-2")
		return err
	}, ApplicationLocks)
	require.ErrorIs(t, err, apperror.ErrProjectAlreadyAssigned)

	for _, application := range getAll[models.Application](t, f, store.Applications) {
		if application.ID == second.ID {
			require.Equal(t, models.ApplicationStatusPending, application.Status)
		}
	}
}

func TestApproveRollsBackProjectWhenApplicationWriteFails(t *testing.T) {
	st := &failingStore{Store: store.NewMemoryStore(), failOn: store.Applications}
	f := newFixtureWithStore(t, st)
	workflow := NewApplicationWorkflow(f.logger)

	var application models.Application
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		application, err = workflow.Apply(f.ctx, tx, "std1", "p1")
		return err
	}, ApplicationLocks))

	st.failures = 1
	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.Decide(f.ctx, tx, application.ID, models.ApplicationStatusApproved, "mentor-1")
		return err
	}, ApplicationLocks)
	require.Error(t, err)
	require.Equal(t, apperror.KindStore, apperror.KindOf(err))

	require.Equal(t, models.ProjectStatusAvailable, projectByID(t, f, "p1").Status)
	applications := getAll[models.Application](t, f, store.Applications)
	require.Len(t, applications, 1)
	require.Equal(t, models.ApplicationStatusPending, applications[0].Status)
}

func TestAssignProjectApprovesPendingApplication(t *testing.T) {
	f := newFixture(t)
	workflow := NewApplicationWorkflow(f.logger)

	var pending models.Application
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		pending, err = workflow.Apply(f.ctx, tx, "std1", "p1")
		return err
	}, ApplicationLocks))

	assigned := approvedApplication(t, f, "std1", "p1")
	require.Equal(t, pending.ID, assigned.ID)
	require.Equal(t, models.ApplicationStatusApproved, assigned.Status)
	require.Equal(t, models.ApplicationSourceStudent, assigned.Source)
	require.Len(t, getAll[models.Application](t, f, store.Applications), 1)
	require.Equal(t, models.ProjectStatusAssigned, projectByID(t, f, "p1").Status)

	fresh := approvedApplication(t, f, "std2", "p2")
	require.Equal(t, models.ApplicationSourceCoordinator, fresh.Source)

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.AssignProject(f.ctx, tx, "std2", "p2", "coordinator")
		return err
	}, ApplicationLocks)
	require.ErrorIs(t, err, apperror.ErrDuplicateApplication)

	err = f.update(func(tx *store.Tx) error {
		_, err := workflow.AssignProject(f.ctx, tx, "std1", "p2", "coordinator")
		return err
	}, ApplicationLocks)
	require.ErrorIs(t, err, apperror.ErrProjectUnavailable)
}
