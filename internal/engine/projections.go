package engine

import (
	"context"
	"strings"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/dto"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// Projections fold over a fresh snapshot on every call. Nothing is cached.

// ListProjects returns projects in creation order.
func (e *Engine) ListProjects(ctx context.Context, actor Actor, filter dto.ProjectFilter) ([]dto.ProjectResponse, error) {
	var projects []models.Project
	err := e.run(ctx, OpListProjects, actor, nil, func(ctx context.Context) error {
		if err := e.check(filter); err != nil {
			return err
		}
		all, err := snapshot[models.Project](ctx, e, store.Projects)
		if err != nil {
			return err
		}
		projects = filterItems(all, func(p models.Project) bool {
			return (filter.Status == "" || string(p.Status) == filter.Status) &&
				(filter.Mentor == "" || strings.EqualFold(p.MentorName, strings.TrimSpace(filter.Mentor)))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewProjectResponseSlice(projects), nil
}

// ListApplications returns applications; students only see their own.
func (e *Engine) ListApplications(ctx context.Context, actor Actor, filter dto.ApplicationFilter) ([]dto.ApplicationResponse, error) {
	var applications []models.Application
	err := e.run(ctx, OpListApplications, actor, nil, func(ctx context.Context) error {
		studentID, err := scopeStudent(actor, filter.StudentID)
		if err != nil {
			return err
		}
		if err := e.check(filter); err != nil {
			return err
		}
		all, err := snapshot[models.Application](ctx, e, store.Applications)
		if err != nil {
			return err
		}
		applications = filterItems(all, func(a models.Application) bool {
			return (studentID == "" || a.StudentID == studentID) &&
				(filter.ProjectID == "" || a.ProjectID == filter.ProjectID) &&
				(filter.Status == "" || string(a.Status) == filter.Status)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewApplicationResponseSlice(applications), nil
}

// ListSubmissions returns submissions; students only see their own.
func (e *Engine) ListSubmissions(ctx context.Context, actor Actor, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	var submissions []models.Submission
	err := e.run(ctx, OpListSubmissions, actor, nil, func(ctx context.Context) error {
		studentID, err := scopeStudent(actor, filter.StudentID)
		if err != nil {
			return err
		}
		if err := e.check(filter); err != nil {
			return err
		}
		all, err := snapshot[models.Submission](ctx, e, store.Submissions)
		if err != nil {
			return err
		}
		submissions = filterItems(all, func(s models.Submission) bool {
			return (studentID == "" || s.StudentID == studentID) &&
				(filter.ProjectID == "" || s.ProjectID == filter.ProjectID) &&
				(filter.Status == "" || string(s.Status) == filter.Status)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

// ListStudents returns the roster; a student only sees their own record.
func (e *Engine) ListStudents(ctx context.Context, actor Actor, filter dto.StudentFilter) ([]dto.StudentResponse, error) {
	var students []models.Student
	err := e.run(ctx, OpListStudents, actor, nil, func(ctx context.Context) error {
		if err := e.check(filter); err != nil {
			return err
		}
		studentID, err := scopeStudent(actor, "")
		if err != nil {
			return err
		}
		all, err := snapshot[models.Student](ctx, e, store.Students)
		if err != nil {
			return err
		}
		students = filterItems(all, func(s models.Student) bool {
			return (studentID == "" || s.ID == studentID) &&
				(filter.Mentor == "" || strings.EqualFold(s.Mentor, strings.TrimSpace(filter.Mentor)))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponseSlice(students), nil
}

// ListTests returns the catalog without answer keys.
func (e *Engine) ListTests(ctx context.Context, actor Actor) ([]dto.TestResponse, error) {
	var tests []models.Test
	err := e.run(ctx, OpListTests, actor, nil, func(context.Context) error {
		tests = e.catalog.List()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewTestResponseSlice(tests), nil
}

// ListTestResults returns recorded attempts; students only see their own.
func (e *Engine) ListTestResults(ctx context.Context, actor Actor, filter dto.TestResultFilter) ([]dto.TestResultResponse, error) {
	var results []models.TestResult
	err := e.run(ctx, OpListTestResults, actor, nil, func(ctx context.Context) error {
		studentID, err := scopeStudent(actor, filter.StudentID)
		if err != nil {
			return err
		}
		all, err := snapshot[models.TestResult](ctx, e, store.TestResults)
		if err != nil {
			return err
		}
		results = filterItems(all, func(r models.TestResult) bool {
			return (studentID == "" || r.StudentID == studentID) &&
				(filter.TestID == "" || r.TestID == filter.TestID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewTestResultResponseSlice(results), nil
}

// TestSummary aggregates scores across all attempts, or one test when TestID is set.
func (e *Engine) TestSummary(ctx context.Context, actor Actor, req dto.TestSummaryRequest) (dto.TestSummaryResponse, error) {
	var summary dto.TestSummaryResponse
	err := e.run(ctx, OpTestSummary, actor, nil, func(ctx context.Context) error {
		testID := strings.TrimSpace(req.TestID)
		if testID != "" {
			if _, err := e.catalog.Get(testID); err != nil {
				return err
			}
		}
		results, err := snapshot[models.TestResult](ctx, e, store.TestResults)
		if err != nil {
			return err
		}
		summary = summarize(filterItems(results, func(r models.TestResult) bool {
			return testID == "" || r.TestID == testID
		}))
		summary.TestID = testID
		return nil
	})
	if err != nil {
		return dto.TestSummaryResponse{}, err
	}
	return summary, nil
}

// Overview counts records by status.
func (e *Engine) Overview(ctx context.Context, actor Actor) (dto.OverviewResponse, error) {
	var overview dto.OverviewResponse
	err := e.run(ctx, OpOverview, actor, nil, func(ctx context.Context) error {
		projects, err := snapshot[models.Project](ctx, e, store.Projects)
		if err != nil {
			return err
		}
		applications, err := snapshot[models.Application](ctx, e, store.Applications)
		if err != nil {
			return err
		}
		submissions, err := snapshot[models.Submission](ctx, e, store.Submissions)
		if err != nil {
			return err
		}
		students, err := snapshot[models.Student](ctx, e, store.Students)
		if err != nil {
			return err
		}
		results, err := snapshot[models.TestResult](ctx, e, store.TestResults)
		if err != nil {
			return err
		}

		overview = dto.OverviewResponse{
			Projects: countBy(projects, []string{
				string(models.ProjectStatusAvailable), string(models.ProjectStatusAssigned), string(models.ProjectStatusCompleted),
			}, func(p models.Project) string { return string(p.Status) }),
			Applications: countBy(applications, []string{
				string(models.ApplicationStatusPending), string(models.ApplicationStatusApproved), string(models.ApplicationStatusRejected),
			}, func(a models.Application) string { return string(a.Status) }),
			Submissions: countBy(submissions, []string{
				string(models.SubmissionStatusPending), string(models.SubmissionStatusReviewed),
			}, func(s models.Submission) string { return string(s.Status) }),
			Students: dto.StudentTotals{Total: len(students)},
			Tests:    summarize(results),
		}
		for _, student := range students {
			if student.HasMentor() {
				overview.Students.WithMentor++
			}
		}
		overview.Students.WithoutMentor = overview.Students.Total - overview.Students.WithMentor
		return nil
	})
	if err != nil {
		return dto.OverviewResponse{}, err
	}
	return overview, nil
}

// RecentActivity returns the newest workflow events.
func (e *Engine) RecentActivity(ctx context.Context, actor Actor, filter dto.ActivityFilter) ([]dto.ActivityResponse, error) {
	var events []models.ActivityEvent
	err := e.run(ctx, OpRecentActivity, actor, nil, func(context.Context) error {
		if err := e.check(filter); err != nil {
			return err
		}
		events = e.events.Recent(filter.Limit)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewActivityResponseSlice(events), nil
}

func snapshot[T any](ctx context.Context, e *Engine, c store.Collection) ([]T, error) {
	items, err := store.Get[T](ctx, e.locker.Store(), c)
	if err != nil {
		return nil, apperror.WithOp(err, "snapshot "+c.String())
	}
	return items, nil
}

func filterItems[T any](items []T, keep func(T) bool) []T {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func countBy[T any](items []T, keys []string, key func(T) string) map[string]int {
	counts := make(map[string]int, len(keys))
	for _, k := range keys {
		counts[k] = 0
	}
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// summarize folds scores into total, average rounded half up, highest and lowest.
func summarize(results []models.TestResult) dto.TestSummaryResponse {
	if len(results) == 0 {
		return dto.TestSummaryResponse{}
	}

	summary := dto.TestSummaryResponse{
		TotalAttempts: len(results),
		HighestScore:  results[0].Score,
		LowestScore:   results[0].Score,
	}
	sum := 0
	for _, result := range results {
		sum += result.Score
		summary.HighestScore = max(summary.HighestScore, result.Score)
		summary.LowestScore = min(summary.LowestScore, result.Score)
	}
	summary.AverageScore = (2*sum + len(results)) / (2 * len(results))
	return summary
}
