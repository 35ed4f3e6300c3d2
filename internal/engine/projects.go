package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/dto"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/service"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// CreateProject adds an available project.
func (e *Engine) CreateProject(ctx context.Context, actor Actor, req dto.ProjectCreateRequest) (dto.ProjectResponse, error) {
	var project models.Project
	err := e.run(ctx, OpCreateProject, actor, nil, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}
		deadline, err := dto.ParseDate(req.Deadline)
		if err != nil {
			return apperror.Invalid("deadline must be a date", err)
		}

		input := service.ProjectInput{
			Title:       req.Title,
			Description: req.Description,
			MentorName:  req.MentorName,
			Deadline:    deadline,
		}
		if err := e.mutate(ctx, service.ProjectLocks, func(tx *store.Tx) error {
			project, err = e.projects.Create(ctx, tx, input)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "project.created", "project", project.ID, map[string]any{"title": project.Title})
		return nil
	})
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	return dto.NewProjectResponse(project), nil
}

// UpdateProject edits descriptive fields. Snapshots on existing records keep their old values.
func (e *Engine) UpdateProject(ctx context.Context, actor Actor, req dto.ProjectUpdateRequest) (dto.ProjectResponse, error) {
	var project models.Project
	attrs := []attribute.KeyValue{attribute.String("project.id", req.ProjectID)}
	err := e.run(ctx, OpUpdateProject, actor, attrs, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		patch := service.ProjectPatch{
			Title:       req.Title,
			Description: req.Description,
			MentorName:  req.MentorName,
		}
		if req.Deadline != nil {
			deadline, err := dto.ParseDate(*req.Deadline)
			if err != nil {
				return apperror.Invalid("deadline must be a date", err)
			}
			patch.Deadline = &deadline
		}

		if err := e.mutate(ctx, service.ProjectLocks, func(tx *store.Tx) error {
			var err error
			project, err = e.projects.Update(ctx, tx, req.ProjectID, patch)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "project.updated", "project", project.ID, nil)
		return nil
	})
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	return dto.NewProjectResponse(project), nil
}

// DeleteProject removes a project and rejects its pending applications.
func (e *Engine) DeleteProject(ctx context.Context, actor Actor, req dto.ProjectRequest) (dto.ProjectDeletionResponse, error) {
	var deletion service.ProjectDeletion
	attrs := []attribute.KeyValue{attribute.String("project.id", req.ProjectID)}
	err := e.run(ctx, OpDeleteProject, actor, attrs, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.ProjectDeleteLocks, func(tx *store.Tx) error {
			var err error
			deletion, err = e.projects.Delete(ctx, tx, req.ProjectID)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "project.deleted", "project", deletion.Project.ID, map[string]any{
			"rejected_applications": len(deletion.Rejected),
		})
		return nil
	})
	if err != nil {
		return dto.ProjectDeletionResponse{}, err
	}

	rejected := deletion.Rejected
	if rejected == nil {
		rejected = []string{}
	}
	return dto.ProjectDeletionResponse{Project: dto.NewProjectResponse(deletion.Project), RejectedApplications: rejected}, nil
}

// CompleteProject closes an assigned project that has a reviewed submission.
func (e *Engine) CompleteProject(ctx context.Context, actor Actor, req dto.ProjectRequest) (dto.ProjectResponse, error) {
	var project models.Project
	attrs := []attribute.KeyValue{attribute.String("project.id", req.ProjectID)}
	err := e.run(ctx, OpCompleteProject, actor, attrs, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.ProjectLocks, func(tx *store.Tx) error {
			var err error
			project, err = e.projects.Complete(ctx, tx, req.ProjectID)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "project.completed", "project", project.ID, nil)
		return nil
	})
	if err != nil {
		return dto.ProjectResponse{}, err
	}
	return dto.NewProjectResponse(project), nil
}

// RegisterStudent enrolls a student with a unique email.
func (e *Engine) RegisterStudent(ctx context.Context, actor Actor, req dto.StudentRegisterRequest) (dto.StudentResponse, error) {
	var student models.Student
	err := e.run(ctx, OpRegisterStudent, actor, nil, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.StudentLocks, func(tx *store.Tx) error {
			var err error
			student, err = e.students.Register(ctx, tx, req.Name, req.Email)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "student.registered", "student", student.ID, map[string]any{"email": student.Email})
		return nil
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}
