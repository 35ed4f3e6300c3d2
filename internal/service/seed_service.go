package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// ErrSeedDisabled indicates seeding is disabled by configuration.
var ErrSeedDisabled = errors.New("seeding is disabled")

// SeedReport lists how many records were written per collection.
type SeedReport map[string]int

// SeedService loads the demo dataset into empty collections.
type SeedService interface {
	Seed(ctx context.Context) (SeedReport, error)
}

type seedService struct {
	locker  *store.Locker
	enabled bool
	logger  zerolog.Logger
}

// NewSeedService constructs the demo data seeder.
func NewSeedService(locker *store.Locker, enabled bool, logger zerolog.Logger) SeedService {
	return &seedService{
		locker:  locker,
		enabled: enabled,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

// Seed writes the demo dataset. Collections that already hold records are left untouched.
func (s *seedService) Seed(ctx context.Context) (SeedReport, error) {
	if !s.enabled {
		return nil, ErrSeedDisabled
	}

	data := demoData()
	report := SeedReport{}
	err := s.locker.Update(ctx, func(tx *store.Tx) error {
		steps := []func() error{
			func() error { return seedCollection(ctx, tx, store.Projects, data.projects, report) },
			func() error { return seedCollection(ctx, tx, store.Applications, data.applications, report) },
			func() error { return seedCollection(ctx, tx, store.Submissions, data.submissions, report) },
			func() error { return seedCollection(ctx, tx, store.Students, data.students, report) },
			func() error { return seedCollection(ctx, tx, store.TestResults, data.results, report) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	}, store.Collections()...)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Interface("seeded", report).Msg("demo data seeded")
	return report, nil
}

func seedCollection[T any](ctx context.Context, tx *store.Tx, c store.Collection, items []T, report SeedReport) error {
	existing, err := store.Get[T](ctx, tx, c)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if err := store.Put(ctx, tx, c, items); err != nil {
		return err
	}
	report[c.String()] = len(items)
	return nil
}

type demoDataset struct {
	projects     []models.Project
	applications []models.Application
	submissions  []models.Submission
	students     []models.Student
	results      []models.TestResult
}

// demoData returns a consistent programme: every assigned project has exactly one
// approved application and every submission belongs to an assigned pair.
func demoData() demoDataset {
	day := func(year int, month time.Month, d int) time.Time {
		return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	}
	at := func(t time.Time) *time.Time { return &t }
	created := day(2024, time.March, 1)

	return demoDataset{
		projects: []models.Project{
			{
				ID:          "1",
				Title:       "AI-Powered Chat Application",
				Description: "Develop a real-time chat application using machine learning for smart responses.",
				MentorName:  "Dr. Smith",
				Status:      models.ProjectStatusAvailable,
				Deadline:    day(2024, time.May, 1),
				CreatedAt:   created,
				UpdatedAt:   created,
			},
			{
				ID:          "2",
				Title:       "Blockchain Voting System",
				Description: "Create a secure voting system using blockchain technology.",
				MentorName:  "Prof. Johnson",
				Status:      models.ProjectStatusAssigned,
				Deadline:    day(2024, time.June, 15),
				CreatedAt:   created,
				UpdatedAt:   day(2024, time.March, 5),
			},
			{
				ID:          "3",
				Title:       "IoT Smart Home System",
				Description: "Build a system to control and monitor home devices using IoT sensors.",
				MentorName:  "Dr. Williams",
				Status:      models.ProjectStatusAssigned,
				Deadline:    day(2024, time.July, 30),
				CreatedAt:   created,
				UpdatedAt:   day(2024, time.March, 14),
			},
		},
		applications: []models.Application{
			{
				ID:           "1",
				StudentID:    "std1",
				StudentName:  "John Doe",
				ProjectID:    "1",
				ProjectTitle: "AI-Powered Chat Application",
				Status:       models.ApplicationStatusPending,
				Source:       models.ApplicationSourceStudent,
				AppliedDate:  day(2024, time.March, 15),
			},
			{
				ID:           "2",
				StudentID:    "std2",
				StudentName:  "Jane Smith",
				ProjectID:    "3",
				ProjectTitle: "IoT Smart Home System",
				Status:       models.ApplicationStatusApproved,
				Source:       models.ApplicationSourceStudent,
				AppliedDate:  day(2024, time.March, 14),
				DecidedAt:    at(day(2024, time.March, 14)),
				DecidedBy:    "Dr. Williams",
			},
			{
				ID:           "3",
				StudentID:    "std2",
				StudentName:  "Jane Smith",
				ProjectID:    "2",
				ProjectTitle: "Blockchain Voting System",
				Status:       models.ApplicationStatusApproved,
				Source:       models.ApplicationSourceCoordinator,
				AppliedDate:  day(2024, time.March, 5),
				DecidedAt:    at(day(2024, time.March, 5)),
				DecidedBy:    "coordinator",
			},
		},
		submissions: []models.Submission{
			{
				ID:             "1",
				StudentID:      "std2",
				StudentName:    "Jane Smith",
				ProjectID:      "2",
				ProjectTitle:   "Blockchain Voting System",
				SubmissionDate: day(2024, time.March, 10),
				Status:         models.SubmissionStatusPending,
			},
			{
				ID:             "2",
				StudentID:      "std2",
				StudentName:    "Jane Smith",
				ProjectID:      "3",
				ProjectTitle:   "IoT Smart Home System",
				SubmissionDate: day(2024, time.March, 20),
				Status:         models.SubmissionStatusReviewed,
				Feedback:       "Excellent work! The implementation is clean and well-documented.",
				ReviewedAt:     at(day(2024, time.March, 22)),
				ReviewedBy:     "Dr. Williams",
			},
		},
		students: []models.Student{
			{ID: "std1", Name: "John Doe", Email: "john.doe@example.com", Mentor: "Dr. Smith", CreatedAt: created, UpdatedAt: created},
			{ID: "std2", Name: "Jane Smith", Email: "jane.smith@example.com", Mentor: "Prof. Johnson", CreatedAt: created, UpdatedAt: created},
			{ID: "std3", Name: "Mike Johnson", Email: "mike.johnson@example.com", CreatedAt: created, UpdatedAt: created},
		},
		results: []models.TestResult{
			{
				ID:            "1",
				StudentID:     "std1",
				StudentName:   "John Doe",
				TestID:        DefaultTestID,
				TestTitle:     "Programming Fundamentals Test",
				Score:         85,
				CompletedDate: day(2024, time.March, 10),
				Status:        models.TestResultStatusCompleted,
			},
			{
				ID:            "2",
				StudentID:     "std2",
				StudentName:   "Jane Smith",
				TestID:        DefaultTestID,
				TestTitle:     "Programming Fundamentals Test",
				Score:         92,
				CompletedDate: day(2024, time.March, 11),
				Status:        models.TestResultStatusCompleted,
			},
		},
	}
}
