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

// ApplicationLocks are the collections every application transition must hold.
var ApplicationLocks = []store.Collection{store.Projects, store.Applications}

// ApplicationWorkflow governs student applications: pending -> approved | rejected.
type ApplicationWorkflow interface {
	Apply(ctx context.Context, tx *store.Tx, studentID, projectID string) (models.Application, error)
	Decide(ctx context.Context, tx *store.Tx, applicationID string, outcome models.ApplicationStatus, decidedBy string) (models.Application, error)
	AssignProject(ctx context.Context, tx *store.Tx, studentID, projectID, decidedBy string) (models.Application, error)
}

type applicationWorkflow struct {
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewApplicationWorkflow constructs the application state machine.
func NewApplicationWorkflow(logger zerolog.Logger) ApplicationWorkflow {
	return &applicationWorkflow{
		logger: logger.With().Str("component", "application_workflow").Logger(),
		now:    utcNow,
		newID:  newID,
	}
}

func (w *applicationWorkflow) Apply(ctx context.Context, tx *store.Tx, studentID, projectID string) (models.Application, error) {
	student, err := findStudent(ctx, tx, studentID)
	if err != nil {
		return models.Application{}, err
	}

	projects, err := store.Get[models.Project](ctx, tx, store.Projects)
	if err != nil {
		return models.Application{}, err
	}
	idx := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == projectID })
	if idx < 0 {
		return models.Application{}, apperror.NotFound("project", projectID)
	}
	project := projects[idx]

	applications, err := store.Get[models.Application](ctx, tx, store.Applications)
	if err != nil {
		return models.Application{}, err
	}
	if activeApplicationIndex(applications, studentID, projectID) >= 0 {
		return models.Application{}, apperror.ErrDuplicateApplication.Withf("student %s, project %s", studentID, projectID)
	}
	if !project.IsAvailable() {
		return models.Application{}, apperror.ErrProjectUnavailable.Withf("project %s is %s", projectID, project.Status)
	}

	application := models.Application{
		ID:           w.newID(),
		StudentID:    student.ID,
		StudentName:  student.Name,
		ProjectID:    project.ID,
		ProjectTitle: project.Title,
		Status:       models.ApplicationStatusPending,
		Source:       models.ApplicationSourceStudent,
		AppliedDate:  w.now(),
	}
	applications = append(applications, application)
	if err := store.Put(ctx, tx, store.Applications, applications); err != nil {
		return models.Application{}, err
	}

	w.logger.Info().
		Str("application_id", application.ID).
		Str("student_id", studentID).
		Str("project_id", projectID).
		Msg("application created")

	return application, nil
}

func (w *applicationWorkflow) Decide(ctx context.Context, tx *store.Tx, applicationID string, outcome models.ApplicationStatus, decidedBy string) (models.Application, error) {
	if outcome != models.ApplicationStatusApproved && outcome != models.ApplicationStatusRejected {
		return models.Application{}, apperror.Invalid("outcome must be approved or rejected", nil)
	}

	applications, err := store.Get[models.Application](ctx, tx, store.Applications)
	if err != nil {
		return models.Application{}, err
	}
	idx := slices.IndexFunc(applications, func(a models.Application) bool { return a.ID == applicationID })
	if idx < 0 {
		return models.Application{}, apperror.NotFound("application", applicationID)
	}
	application := applications[idx]
	if !application.IsPending() {
		return models.Application{}, apperror.ErrAlreadyDecided.Withf("application %s is %s", applicationID, application.Status)
	}

	decidedAt := w.now()
	if outcome == models.ApplicationStatusApproved {
		if err := w.claimProject(ctx, tx, application.ProjectID, decidedAt); err != nil {
			return models.Application{}, err
		}
	}

	application.Status = outcome
	application.DecidedAt = &decidedAt
	application.DecidedBy = decidedBy
	applications[idx] = application
	if err := store.Put(ctx, tx, store.Applications, applications); err != nil {
		return models.Application{}, err
	}

	w.logger.Info().
		Str("application_id", applicationID).
		Str("project_id", application.ProjectID).
		Str("outcome", string(outcome)).
		Msg("application decided")

	return application, nil
}

func (w *applicationWorkflow) AssignProject(ctx context.Context, tx *store.Tx, studentID, projectID, decidedBy string) (models.Application, error) {
	student, err := findStudent(ctx, tx, studentID)
	if err != nil {
		return models.Application{}, err
	}

	projects, err := store.Get[models.Project](ctx, tx, store.Projects)
	if err != nil {
		return models.Application{}, err
	}
	pidx := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == projectID })
	if pidx < 0 {
		return models.Application{}, apperror.NotFound("project", projectID)
	}

	applications, err := store.Get[models.Application](ctx, tx, store.Applications)
	if err != nil {
		return models.Application{}, err
	}
	existing := activeApplicationIndex(applications, studentID, projectID)
	if existing >= 0 && !applications[existing].IsPending() {
		return models.Application{}, apperror.ErrDuplicateApplication.Withf("student %s, project %s", studentID, projectID)
	}
	if !projects[pidx].IsAvailable() {
		return models.Application{}, apperror.ErrProjectUnavailable.Withf("project %s is %s", projectID, projects[pidx].Status)
	}

	decidedAt := w.now()
	if err := w.claimProject(ctx, tx, projectID, decidedAt); err != nil {
		return models.Application{}, err
	}

	var application models.Application
	if existing >= 0 {
		// A pending request from the student is approved instead of duplicated.
		application = applications[existing]
		application.Status = models.ApplicationStatusApproved
		application.DecidedAt = &decidedAt
		application.DecidedBy = decidedBy
		applications[existing] = application
	} else {
		application = models.Application{
			ID:           w.newID(),
			StudentID:    student.ID,
			StudentName:  student.Name,
			ProjectID:    projectID,
			ProjectTitle: projects[pidx].Title,
			Status:       models.ApplicationStatusApproved,
			Source:       models.ApplicationSourceCoordinator,
			AppliedDate:  decidedAt,
			DecidedAt:    &decidedAt,
			DecidedBy:    decidedBy,
		}
		applications = append(applications, application)
	}

	if err := store.Put(ctx, tx, store.Applications, applications); err != nil {
		return models.Application{}, err
	}

	w.logger.Info().
		Str("application_id", application.ID).
		Str("student_id", studentID).
		Str("project_id", projectID).
		Msg("project assigned by coordinator")

	return application, nil
}

// claimProject moves an available project to assigned. Projects are written
// before applications so a failed application write can be compensated.
func (w *applicationWorkflow) claimProject(ctx context.Context, tx *store.Tx, projectID string, at time.Time) error {
	projects, err := store.Get[models.Project](ctx, tx, store.Projects)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == projectID })
	if idx < 0 {
		return apperror.NotFound("project", projectID)
	}
	if !projects[idx].IsAvailable() {
		return apperror.ErrProjectAlreadyAssigned.Withf("project %s is %s", projectID, projects[idx].Status)
	}

	projects[idx].Status = models.ProjectStatusAssigned
	projects[idx].UpdatedAt = at
	return store.Put(ctx, tx, store.Projects, projects)
}

func activeApplicationIndex(applications []models.Application, studentID, projectID string) int {
	return slices.IndexFunc(applications, func(a models.Application) bool {
		return a.Matches(studentID, projectID) && a.IsActive()
	})
}

func findStudent(ctx context.Context, r store.Reader, studentID string) (models.Student, error) {
	students, err := store.Get[models.Student](ctx, r, store.Students)
	if err != nil {
		return models.Student{}, err
	}
	idx := slices.IndexFunc(students, func(s models.Student) bool { return s.ID == studentID })
	if idx < 0 {
		return models.Student{}, apperror.NotFound("student", studentID)
	}
	return students[idx], nil
}
