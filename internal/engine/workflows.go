package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/gema-mentorship/internal/dto"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/service"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// Apply creates a pending application for the calling student.
func (e *Engine) Apply(ctx context.Context, actor Actor, req dto.ApplyRequest) (dto.ApplicationResponse, error) {
	var application models.Application
	attrs := []attribute.KeyValue{attribute.String("project.id", req.ProjectID)}
	err := e.run(ctx, OpApply, actor, attrs, func(ctx context.Context) error {
		studentID, err := scopeStudent(actor, req.StudentID)
		if err != nil {
			return err
		}
		req.StudentID = studentID
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.ApplicationLocks, func(tx *store.Tx) error {
			application, err = e.applications.Apply(ctx, tx, req.StudentID, req.ProjectID)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "application.created", "application", application.ID, map[string]any{
			"student_id": application.StudentID,
			"project_id": application.ProjectID,
		})
		return nil
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	return dto.NewApplicationResponse(application), nil
}

// Decide approves or rejects a pending application. Approval assigns the project in the
// same critical section.
func (e *Engine) Decide(ctx context.Context, actor Actor, req dto.DecisionRequest) (dto.ApplicationResponse, error) {
	var application models.Application
	attrs := []attribute.KeyValue{
		attribute.String("application.id", req.ApplicationID),
		attribute.String("application.outcome", req.Outcome),
	}
	err := e.run(ctx, OpDecide, actor, attrs, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		outcome := models.ApplicationStatus(req.Outcome)
		if err := e.mutate(ctx, service.ApplicationLocks, func(tx *store.Tx) error {
			var err error
			application, err = e.applications.Decide(ctx, tx, req.ApplicationID, outcome, actor.ID)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "application.decided", "application", application.ID, map[string]any{
			"outcome":    string(application.Status),
			"project_id": application.ProjectID,
			"student_id": application.StudentID,
		})
		return nil
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	return dto.NewApplicationResponse(application), nil
}

// AssignProject administratively gives a project to a student.
func (e *Engine) AssignProject(ctx context.Context, actor Actor, req dto.AssignProjectRequest) (dto.ApplicationResponse, error) {
	var application models.Application
	attrs := []attribute.KeyValue{
		attribute.String("project.id", req.ProjectID),
		attribute.String("student.id", req.StudentID),
	}
	err := e.run(ctx, OpAssignProject, actor, attrs, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.ApplicationLocks, func(tx *store.Tx) error {
			var err error
			application, err = e.applications.AssignProject(ctx, tx, req.StudentID, req.ProjectID, actor.ID)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "project.assigned", "project", application.ProjectID, map[string]any{
			"application_id": application.ID,
			"student_id":     application.StudentID,
		})
		return nil
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}
	return dto.NewApplicationResponse(application), nil
}

// AssignMentor labels a student with a mentor. Repeating the same mentor is a no-op.
func (e *Engine) AssignMentor(ctx context.Context, actor Actor, req dto.AssignMentorRequest) (dto.MentorAssignmentResponse, error) {
	var (
		student  models.Student
		previous string
		changed  bool
	)
	attrs := []attribute.KeyValue{attribute.String("student.id", req.StudentID)}
	err := e.run(ctx, OpAssignMentor, actor, attrs, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.AssignmentLocks, func(tx *store.Tx) error {
			before, err := store.Get[models.Student](ctx, tx, store.Students)
			if err != nil {
				return err
			}
			for _, s := range before {
				if s.ID == req.StudentID {
					previous = s.Mentor
				}
			}
			student, changed, err = e.assignments.AssignMentor(ctx, tx, req.StudentID, req.MentorName)
			return err
		}); err != nil {
			return err
		}

		if changed {
			action := "mentor.assigned"
			metadata := map[string]any{"mentor": student.Mentor}
			if previous != "" {
				action = "mentor.reassigned"
				metadata["previous_mentor"] = previous
			}
			e.record(ctx, actor, action, "student", student.ID, metadata)
		}
		return nil
	})
	if err != nil {
		return dto.MentorAssignmentResponse{}, err
	}
	return dto.MentorAssignmentResponse{Student: dto.NewStudentResponse(student), Changed: changed}, nil
}

// UnassignMentor clears a student's mentor.
func (e *Engine) UnassignMentor(ctx context.Context, actor Actor, req dto.UnassignMentorRequest) (dto.StudentResponse, error) {
	var student models.Student
	attrs := []attribute.KeyValue{attribute.String("student.id", req.StudentID)}
	err := e.run(ctx, OpUnassignMentor, actor, attrs, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.AssignmentLocks, func(tx *store.Tx) error {
			var err error
			student, err = e.assignments.UnassignMentor(ctx, tx, req.StudentID)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "mentor.unassigned", "student", student.ID, nil)
		return nil
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentResponse(student), nil
}

// Submit hands in a deliverable for a project the calling student holds.
func (e *Engine) Submit(ctx context.Context, actor Actor, req dto.SubmitRequest) (dto.SubmissionResponse, error) {
	var submission models.Submission
	attrs := []attribute.KeyValue{attribute.String("project.id", req.ProjectID)}
	err := e.run(ctx, OpSubmit, actor, attrs, func(ctx context.Context) error {
		studentID, err := scopeStudent(actor, req.StudentID)
		if err != nil {
			return err
		}
		req.StudentID = studentID
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.SubmitLocks, func(tx *store.Tx) error {
			submission, err = e.submissions.Submit(ctx, tx, req.StudentID, req.ProjectID)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "submission.created", "submission", submission.ID, map[string]any{
			"student_id": submission.StudentID,
			"project_id": submission.ProjectID,
		})
		return nil
	})
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

// Review records feedback on a pending submission exactly once.
func (e *Engine) Review(ctx context.Context, actor Actor, req dto.ReviewRequest) (dto.SubmissionResponse, error) {
	var submission models.Submission
	attrs := []attribute.KeyValue{attribute.String("submission.id", req.SubmissionID)}
	err := e.run(ctx, OpReview, actor, attrs, func(ctx context.Context) error {
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.ReviewLocks, func(tx *store.Tx) error {
			var err error
			submission, err = e.submissions.Review(ctx, tx, req.SubmissionID, req.Feedback, actor.ID)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "submission.reviewed", "submission", submission.ID, map[string]any{
			"project_id": submission.ProjectID,
		})
		return nil
	})
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

// TakeTest scores and records one attempt for the calling student.
func (e *Engine) TakeTest(ctx context.Context, actor Actor, req dto.TakeTestRequest) (dto.TestResultResponse, error) {
	var result models.TestResult
	attrs := []attribute.KeyValue{attribute.String("test.id", req.TestID)}
	err := e.run(ctx, OpTakeTest, actor, attrs, func(ctx context.Context) error {
		studentID, err := scopeStudent(actor, req.StudentID)
		if err != nil {
			return err
		}
		req.StudentID = studentID
		if err := e.check(req); err != nil {
			return err
		}

		if err := e.mutate(ctx, service.TestLocks, func(tx *store.Tx) error {
			result, err = e.tests.Take(ctx, tx, req.StudentID, req.TestID, req.Answers)
			return err
		}); err != nil {
			return err
		}

		e.record(ctx, actor, "test.completed", "test_result", result.ID, map[string]any{
			"test_id": result.TestID,
			"score":   result.Score,
		})
		return nil
	})
	if err != nil {
		return dto.TestResultResponse{}, err
	}
	return dto.NewTestResultResponse(result), nil
}
