package service

import (
	"context"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// MaxFeedbackLength bounds review feedback, counted in characters after sanitization.
const MaxFeedbackLength = 5000

var (
	// SubmitLocks holds the project and its applications still while the submission is written.
	SubmitLocks = []store.Collection{store.Projects, store.Applications, store.Submissions}
	// ReviewLocks are the collections a review writes.
	ReviewLocks = []store.Collection{store.Submissions}
)

// SubmissionWorkflow governs deliverables: pending -> reviewed.
type SubmissionWorkflow interface {
	Submit(ctx context.Context, tx *store.Tx, studentID, projectID string) (models.Submission, error)
	Review(ctx context.Context, tx *store.Tx, submissionID, feedback, reviewer string) (models.Submission, error)
}

type submissionWorkflow struct {
	logger zerolog.Logger
	now    func() time.Time
	newID  func() string
}

// NewSubmissionWorkflow constructs the submission workflow.
func NewSubmissionWorkflow(logger zerolog.Logger) SubmissionWorkflow {
	return &submissionWorkflow{
		logger: logger.With().Str("component", "submission_workflow").Logger(),
		now:    utcNow,
		newID:  newID,
	}
}

func (w *submissionWorkflow) Submit(ctx context.Context, tx *store.Tx, studentID, projectID string) (models.Submission, error) {
	applications, err := store.Get[models.Application](ctx, tx, store.Applications)
	if err != nil {
		return models.Submission{}, err
	}
	aidx := slices.IndexFunc(applications, func(a models.Application) bool {
		return a.Matches(studentID, projectID) && a.Status == models.ApplicationStatusApproved
	})
	if aidx < 0 {
		return models.Submission{}, apperror.ErrNotAssigned.Withf("student %s is not assigned to project %s", studentID, projectID)
	}
	assignment := applications[aidx]

	studentName := assignment.StudentName
	if student, err := findStudent(ctx, tx, studentID); err == nil {
		studentName = student.Name
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return models.Submission{}, err
	}

	projects, err := store.Get[models.Project](ctx, tx, store.Projects)
	if err != nil {
		return models.Submission{}, err
	}
	pidx := slices.IndexFunc(projects, func(p models.Project) bool { return p.ID == projectID })
	if pidx < 0 {
		return models.Submission{}, apperror.ErrNotAssigned.Withf("project %s no longer exists", projectID)
	}
	project := projects[pidx]
	switch project.Status {
	case models.ProjectStatusAssigned:
	case models.ProjectStatusCompleted:
		return models.Submission{}, apperror.ErrProjectUnavailable.Withf("project %s is completed", projectID)
	default:
		return models.Submission{}, apperror.ErrNotAssigned.Withf("project %s is %s", projectID, project.Status)
	}

	submissions, err := store.Get[models.Submission](ctx, tx, store.Submissions)
	if err != nil {
		return models.Submission{}, err
	}
	if slices.ContainsFunc(submissions, func(s models.Submission) bool {
		return s.Matches(studentID, projectID) && !s.IsReviewed()
	}) {
		return models.Submission{}, apperror.ErrDuplicatePendingSubmission.Withf("student %s, project %s", studentID, projectID)
	}

	submission := models.Submission{
		ID:             w.newID(),
		StudentID:      studentID,
		StudentName:    studentName,
		ProjectID:      projectID,
		ProjectTitle:   project.Title,
		SubmissionDate: w.now(),
		Status:         models.SubmissionStatusPending,
	}
	submissions = append(submissions, submission)
	if err := store.Put(ctx, tx, store.Submissions, submissions); err != nil {
		return models.Submission{}, err
	}

	w.logger.Info().
		Str("submission_id", submission.ID).
		Str("student_id", studentID).
		Str("project_id", projectID).
		Msg("submission created")

	return submission, nil
}

// Review records feedback exactly once; a reviewed submission never changes again.
func (w *submissionWorkflow) Review(ctx context.Context, tx *store.Tx, submissionID, feedback, reviewer string) (models.Submission, error) {
	submissions, err := store.Get[models.Submission](ctx, tx, store.Submissions)
	if err != nil {
		return models.Submission{}, err
	}
	idx := slices.IndexFunc(submissions, func(s models.Submission) bool { return s.ID == submissionID })
	if idx < 0 {
		return models.Submission{}, apperror.NotFound("submission", submissionID)
	}

	submission := submissions[idx]
	if submission.IsReviewed() {
		return models.Submission{}, apperror.ErrAlreadyReviewed.Withf("submission %s", submissionID)
	}

	cleanFeedback := cleanText(feedback)
	if cleanFeedback == "" {
		return models.Submission{}, apperror.ErrEmptyFeedback
	}
	if utf8.RuneCountInString(cleanFeedback) > MaxFeedbackLength {
		return models.Submission{}, apperror.Invalid(fmt.Sprintf("feedback must not exceed %d characters", MaxFeedbackLength), nil)
	}

	reviewedAt := w.now()
	submission.Status = models.SubmissionStatusReviewed
	submission.Feedback = cleanFeedback
	submission.ReviewedAt = &reviewedAt
	submission.ReviewedBy = reviewer
	submissions[idx] = submission
	if err := store.Put(ctx, tx, store.Submissions, submissions); err != nil {
		return models.Submission{}, err
	}

	w.logger.Info().Str("submission_id", submissionID).Msg("submission reviewed")
	return submission, nil
}
