package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

type fixture struct {
	ctx    context.Context
	store  store.Store
	locker *store.Locker
	logger zerolog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, store.NewMemoryStore())
}

func newFixtureWithStore(t *testing.T, st store.Store) *fixture {
	t.Helper()
	f := &fixture{
		ctx:    context.Background(),
		store:  st,
		locker: store.NewLocker(st),
		logger: zerolog.Nop(),
	}

	deadline := time.Date(2030, time.May, 1, 0, 0, 0, 0, time.UTC)
	putAll(t, f, store.Students, []models.Student{
		{ID: "std1", Name: "John Doe", Email: "john.doe@example.com"},
		{ID: "std2", Name: "Jane Smith", Email: "jane.smith@example.com"},
	})
	putAll(t, f, store.Projects, []models.Project{
		{ID: "p1", Title: "AI-Powered Chat Application", Description: "chat", MentorName: "Dr. Smith", Status: models.ProjectStatusAvailable, Deadline: deadline},
		{ID: "p2", Title: "Blockchain Voting System", Description: "voting", MentorName: "Prof. Johnson", Status: models.ProjectStatusAvailable, Deadline: deadline},
	})
	return f
}

func (f *fixture) update(fn func(tx *store.Tx) error, locks []store.Collection) error {
	return f.locker.Update(f.ctx, fn, locks...)
}

func putAll[T any](t *testing.T, f *fixture, c store.Collection, items []T) {
	t.Helper()
	require.NoError(t, store.Put(f.ctx, f.store, c, items))
}

func getAll[T any](t *testing.T, f *fixture, c store.Collection) []T {
	t.Helper()
	items, err := store.Get[T](f.ctx, f.store, c)
	require.NoError(t, err)
	return items
}

func projectByID(t *testing.T, f *fixture, id string) models.Project {
	t.Helper()
	for _, project := range getAll[models.Project](t, f, store.Projects) {
		if project.ID == id {
			return project
		}
	}
	t.Fatalf("project %s not found", id)
	return models.Project{}
}

// approvedApplication makes studentID the holder of projectID.
func approvedApplication(t *testing.T, f *fixture, studentID, projectID string) models.Application {
	t.Helper()
	workflow := NewApplicationWorkflow(f.logger)
	var application models.Application
	require.NoError(t, f.update(func(tx *store.Tx) error {
		var err error
		application, err = workflow.AssignProject(f.ctx, tx, studentID, projectID, "coordinator")
		return err
	}, ApplicationLocks))
	return application
}

// failingStore refuses a number of writes to one collection.
type failingStore struct {
	store.Store
	failOn   store.Collection
	failures int
}

func (s *failingStore) Write(ctx context.Context, c store.Collection, payload []byte) error {
	if c == s.failOn && s.failures > 0 {
		s.failures--
		return errWriteRefused
	}
	return s.Store.Write(ctx, c, payload)
}

func zerologNop() zerolog.Logger {
	return zerolog.Nop()
}
