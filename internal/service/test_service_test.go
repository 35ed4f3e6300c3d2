package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/scoring"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

func takeTest(f *fixture, workflow TestWorkflow, studentID string, answers []int) (models.TestResult, error) {
	var result models.TestResult
	err := f.update(func(tx *store.Tx) error {
		var err error
		result, err = workflow.Take(f.ctx, tx, studentID, DefaultTestID, answers)
		return err
	}, TestLocks)
	return result, err
}

func TestTakeTestScoresAndSnapshots(t *testing.T) {
	f := newFixture(t)
	workflow := NewTestWorkflow(DefaultTestCatalog(), 0, f.logger)

	result, err := takeTest(f, workflow, "std1", []int{1, 3, 1})
	require.NoError(t, err)
	require.Equal(t, 67, result.Score)
	require.Equal(t, "John Doe", result.StudentName)
	require.Equal(t, "Programming Fundamentals Test", result.TestTitle)
	require.Equal(t, models.TestResultStatusCompleted, result.Status)

	perfect, err := takeTest(f, workflow, "std1", []int{1, 3, 0})
	require.NoError(t, err)
	require.Equal(t, 100, perfect.Score)

	require.Len(t, getAll[models.TestResult](t, f, store.TestResults), 2)
}

func TestTakeTestRejectsIncompleteAnswers(t *testing.T) {
	f := newFixture(t)
	workflow := NewTestWorkflow(nil, 0, f.logger)

	_, err := takeTest(f, workflow, "std1", []int{1, scoring.Unanswered, 0})
	require.ErrorIs(t, err, apperror.ErrUnansweredQuestion)
	require.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = takeTest(f, workflow, "std1", []int{1, 3})
	require.ErrorIs(t, err, apperror.ErrInvalidAnswer)

	_, err = takeTest(f, workflow, "std1", []int{1, 3, 4})
	require.ErrorIs(t, err, apperror.ErrInvalidAnswer)

	_, err = takeTest(f, workflow, "ghost", []int{1, 3, 0})
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	err = f.update(func(tx *store.Tx) error {
		_, err := workflow.Take(f.ctx, tx, "std1", "missing", []int{1})
		return err
	}, TestLocks)
	require.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	require.Empty(t, getAll[models.TestResult](t, f, store.TestResults))
}

func TestTakeTestAttemptLimit(t *testing.T) {
	f := newFixture(t)
	workflow := NewTestWorkflow(DefaultTestCatalog(), 2, f.logger)

	for i := 0; i < 2; i++ {
		_, err := takeTest(f, workflow, "std1", []int{0, 0, 0})
		require.NoError(t, err)
	}

	_, err := takeTest(f, workflow, "std1", []int{1, 3, 0})
	require.ErrorIs(t, err, apperror.ErrAttemptLimitReached)

	_, err = takeTest(f, workflow, "std2", []int{1, 3, 0})
	require.NoError(t, err)
}

func TestTestCatalogValidation(t *testing.T) {
	_, err := NewTestCatalog([]models.Test{{ID: "t", Title: "Short", Questions: []models.Question{{ID: "q", Options: []string{"a", "b"}}}}})
	require.Error(t, err)

	_, err = NewTestCatalog([]models.Test{{ID: "t", Title: "Range", Questions: []models.Question{{ID: "q", Options: []string{"a", "b", "c", "d"}, CorrectOption: 4}}}})
	require.Error(t, err)

	_, err = NewTestCatalog([]models.Test{{ID: "t", Title: "Empty"}})
	require.Error(t, err)

	catalog := DefaultTestCatalog()
	require.Len(t, catalog.List(), 1)
	test, err := catalog.Get(DefaultTestID)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 0}, test.AnswerKey())
}

func TestLoadTestCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests.json")
	payload := `[{"id":"go","title":"Go Basics","questions":[{"id":"q1","prompt":"Zero value of int?","options":["0","nil","-1","undefined"],"correct_option":0}]}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	catalog, err := LoadTestCatalog(path)
	require.NoError(t, err)
	test, err := catalog.Get("go")
	require.NoError(t, err)
	require.Equal(t, "Go Basics", test.Title)

	_, err = LoadTestCatalog(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
