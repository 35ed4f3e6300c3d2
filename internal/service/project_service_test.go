package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

func TestCreateProjectStartsAvailable(t *testing.T) {
	f := newFixture(t)
	workflow := NewProjectWorkflow(f.logger)

	var project models.Project
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		project, err = workflow.Create(f.ctx, tx, ProjectInput{
			Title:       "IoT Smart Home System",
			Description: "Build a system to control home devices.",
			MentorName:  "Dr. Williams",
			Deadline:    time.Date(2030, time.July, 30, 15, 4, 5, 0, time.UTC),
		})
		return err
	}, ProjectLocks))

	require.NotEmpty(t, project.ID)
	require.Equal(t, models.ProjectStatusAvailable, project.Status)
	require.Equal(t, time.Date(2030, time.July, 30, 0, 0, 0, 0, time.UTC), project.Deadline)
	require.Len(t, getAll[models.Project](t, f, store.Projects), 3)

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.Create(f.ctx, tx, ProjectInput{Title: "<i></i>", Description: "x", MentorName: "y", Deadline: time.Now()})
		return err
	}, ProjectLocks)
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpdateProjectKeepsStatusAndSnapshots(t *testing.T) {
	f := newFixture(t)
	workflow := NewProjectWorkflow(f.logger)
	application := approvedApplication(t, f, "std1", "p1")

	title := "Chat Assistant"
	var updated models.Project
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		updated, err = workflow.Update(f.ctx, tx, "p1", ProjectPatch{Title: &title})
		return err
	}, ProjectLocks))

	require.Equal(t, "Chat Assistant", updated.Title)
	require.Equal(t, models.ProjectStatusAssigned, updated.Status)
	require.Equal(t, "chat", updated.Description)

	applications := getAll[models.Application](t, f, store.Applications)
	require.Equal(t, application.ProjectTitle, applications[0].ProjectTitle)

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.Update(f.ctx, tx, "missing", ProjectPatch{Title: &title})
		return err
	}, ProjectLocks)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteProjectRejectsPendingApplications(t *testing.T) {
	f := newFixture(t)
	workflow := NewProjectWorkflow(f.logger)
	applications := NewApplicationWorkflow(f.logger)

	var pending models.Application
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		pending, err = applications.Apply(f.ctx, tx, "std1", "p1")
		return err
	}, ApplicationLocks))
	approved := approvedApplication(t, f, "std2", "p2")

	var deletion ProjectDeletion
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		deletion, err = workflow.Delete(f.ctx, tx, "p1")
		return err
	}, ProjectDeleteLocks))
	require.Equal(t, []string{pending.ID}, deletion.Rejected)

	require.NoError(t, f.update(func(tx *store.Tx) error {
		_, err := workflow.Delete(f.ctx, tx, "p2")
		return err
	}, ProjectDeleteLocks))

	require.Empty(t, getAll[models.Project](t, f, store.Projects))
	for _, application := range getAll[models.Application](t, f, store.Applications) {
		switch application.ID {
		case pending.ID:
			require.Equal(t, models.ApplicationStatusRejected, application.Status)
			require.Equal(t, systemDecider, application.DecidedBy)
		case approved.ID:
			require.Equal(t, models.ApplicationStatusApproved, application.Status)
		}
	}

	err := f.update(func(tx *store.Tx) error {
		_, err := workflow.Delete(f.ctx, tx, "p1")
		return err
	}, ProjectDeleteLocks)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCompleteProjectNeedsReviewedSubmission(t *testing.T) {
	f := newFixture(t)
	workflow := NewProjectWorkflow(f.logger)
	submissions := NewSubmissionWorkflow(f.logger)

	complete := func() (models.Project, error) {
		var project models.Project
		err := f.update(func(tx *store.Tx) error {
			var err error
			project, err = workflow.Complete(f.ctx, tx, "p1")
			return err
		}, ProjectLocks)
		return project, err
	}

	_, err := complete()
	require.ErrorIs(t, err, apperror.ErrProjectNotCompletable)

	approvedApplication(t, f, "std1", "p1")
	submission, err := submitFor(t, f, submissions, "std1", "p1")
	require.NoError(t, err)

	_, err = complete()
	require.ErrorIs(t, err, apperror.ErrProjectNotCompletable)

	_, err = reviewWith(f, submissions, submission.ID, "Ship it")
	require.NoError(t, err)

	project, err := complete()
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusCompleted, project.Status)
}
