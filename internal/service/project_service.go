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

var (
	// ProjectLocks covers create, update and complete.
	ProjectLocks = []store.Collection{store.Projects}
	// ProjectDeleteLocks covers delete, which cascades to open applications.
	ProjectDeleteLocks = []store.Collection{store.Projects, store.Applications}
)

// systemDecider marks decisions the engine makes on its own.
const systemDecider = "system"

// ProjectInput carries the fields of a new project.
type ProjectInput struct {
	Title       string
	Description string
	MentorName  string
	Deadline    time.Time
}

// ProjectPatch carries optional project changes. Nil fields are left untouched.
type ProjectPatch struct {
	Title       *string
	Description *string
	MentorName  *string
	Deadline    *time.Time
}

// ProjectDeletion reports the outcome of a delete cascade.
type ProjectDeletion struct {
	Project  models.Project
	Rejected []string
}

// ProjectWorkflow manages the coordinator side of the project lifecycle.
// Status only moves through the application workflow and Complete.
type ProjectWorkflow interface {
	Create(ctx context.Context, tx *store.Tx, input ProjectInput) (models.Project, error)
	Update(ctx context.Context, tx *store.Tx, projectID string, patch ProjectPatch) (models.Project, error)
	Delete(ctx context.Context, tx *store.Tx, projectID string) (ProjectDeletion, error)
	Complete(ctx context.Context, tx *store.Tx, projectID string) (models.Project, error)
}

type projectWorkflow struct {
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewProjectWorkflow constructs the project lifecycle workflow.
func NewProjectWorkflow(logger zerolog.Logger) ProjectWorkflow {
	return &projectWorkflow{
		logger: logger.With().Str("component", "project_workflow").Logger(),
		now:    utcNow,
		newID:  newID,
	}
}

func (w *projectWorkflow) Create(ctx context.Context, tx *store.Tx, input ProjectInput) (models.Project, error) {
	project := models.Project{
		Title:       cleanText(input.Title),
		Description: cleanText(input.Description),
		MentorName:  cleanText(input.MentorName),
		Status:      models.ProjectStatusAvailable,
		Deadline:    dateOnly(input.Deadline),
	}
	if project.Title == "" || project.Description == "" || project.MentorName == "" {
		return models.Project{}, apperror.Invalid("title, description and mentor name are required", nil)
	}
	if project.Deadline.IsZero() {
		return models.Project{}, apperror.Invalid("deadline is required", nil)
	}

	projects, err := store.Get[models.Project](ctx, tx, store.Projects)
	if err != nil {
		return models.Project{}, err
	}

	now := w.now()
	project.ID = w.newID()
	project.CreatedAt = now
	project.UpdatedAt = now
	projects = append(projects, project)
	if err := store.Put(ctx, tx, store.Projects, projects); err != nil {
		return models.Project{}, err
	}

	w.logger.Info().Str("project_id", project.ID).Str("title", project.Title).Msg("project created")
	return project, nil
}

func (w *projectWorkflow) Update(ctx context.Context, tx *store.Tx, projectID string, patch ProjectPatch) (models.Project, error) {
	projects, err := store.Get[models.Project](ctx, tx, store.Projects)
	if err != nil {
		return models.Project{}, err
	}
	idx := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == projectID })
	if idx < 0 {
		return models.Project{}, apperror.NotFound("project", projectID)
	}

	project := projects[idx]
	if patch.Title != nil {
		if project.Title = cleanText(*patch.Title); project.Title == "" {
			return models.Project{}, apperror.Invalid("title must not be empty", nil)
		}
	}
	if patch.Description != nil {
		if project.Description = cleanText(*patch.Description); project.Description == "" {
			return models.Project{}, apperror.Invalid("description must not be empty", nil)
		}
	}
	if patch.MentorName != nil {
		if project.MentorName = cleanText(*patch.MentorName); project.MentorName == "" {
			return models.Project{}, apperror.Invalid("mentor name must not be empty", nil)
		}
	}
	if patch.Deadline != nil {
		if patch.Deadline.IsZero() {
			return models.Project{}, apperror.Invalid("deadline must not be empty", nil)
		}
		project.Deadline = dateOnly(*patch.Deadline)
	}

	project.UpdatedAt = w.now()
	projects[idx] = project
	if err := store.Put(ctx, tx, store.Projects, projects); err != nil {
		return models.Project{}, err
	}

	w.logger.Info().Str("project_id", projectID).Msg("project updated")
	return project, nil
}

// Delete removes the project and rejects every pending application for it.
// Decided applications stay as history.
func (w *projectWorkflow) Delete(ctx context.Context, tx *store.Tx, projectID string) (ProjectDeletion, error) {
	projects, err := store.Get[models.Project](ctx, tx, store.Projects)
	if err != nil {
		return ProjectDeletion{}, err
	}
	idx := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == projectID })
	if idx < 0 {
		return ProjectDeletion{}, apperror.NotFound("project", projectID)
	}
	deletion := ProjectDeletion{Project: projects[idx]}

	applications, err := store.Get[models.Application](ctx, tx, store.Applications)
	if err != nil {
		return ProjectDeletion{}, err
	}

	projects = slices.Delete(projects, idx, idx+1)
	if err := store.Put(ctx, tx, store.Projects, projects); err != nil {
		return ProjectDeletion{}, err
	}

	decidedAt := w.now()
	for i := range applications {
		if applications[i].ProjectID != projectID || !applications[i].IsPending() {
			continue
		}
		applications[i].Status = models.ApplicationStatusRejected
		applications[i].DecidedAt = &decidedAt
		applications[i].DecidedBy = systemDecider
		deletion.Rejected = append(deletion.Rejected, applications[i].ID)
	}
	if len(deletion.Rejected) > 0 {
		if err := store.Put(ctx, tx, store.Applications, applications); err != nil {
			return ProjectDeletion{}, err
		}
	}

	w.logger.Info().
		Str("project_id", projectID).
		Int("rejected_applications", len(deletion.Rejected)).
		Msg("project deleted")

	return deletion, nil
}

// Complete closes an assigned project once at least one of its submissions has been reviewed.
func (w *projectWorkflow) Complete(ctx context.Context, tx *store.Tx, projectID string) (models.Project, error) {
	projects, err := store.Get[models.Project](ctx, tx, store.Projects)
	if err != nil {
		return models.Project{}, err
	}
	idx := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == projectID })
	if idx < 0 {
		return models.Project{}, apperror.NotFound("project", projectID)
	}

	project := projects[idx]
	if project.Status != models.ProjectStatusAssigned {
		return models.Project{}, apperror.ErrProjectNotCompletable.Withf("project %s is %s", projectID, project.Status)
	}

	submissions, err := store.Get[models.Submission](ctx, tx, store.Submissions)
	if err != nil {
		return models.Project{}, err
	}
	if !slices.ContainsFunc(submissions, func(s models.Submission) bool {
		return s.ProjectID == projectID && s.IsReviewed()
	}) {
		return models.Project{}, apperror.ErrProjectNotCompletable.Withf("project %s has no reviewed submission", projectID)
	}

	project.Status = models.ProjectStatusCompleted
	project.UpdatedAt = w.now()
	projects[idx] = project
	if err := store.Put(ctx, tx, store.Projects, projects); err != nil {
		return models.Project{}, err
	}

	w.logger.Info().Str("project_id", projectID).Msg("project completed")
	return project, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
