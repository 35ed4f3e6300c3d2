package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/scoring"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// TestLocks are the collections the test workflow writes.
var TestLocks = []store.Collection{store.TestResults}

// DefaultTestID identifies the built-in programming fundamentals test.
const DefaultTestID = "1"

// TestCatalog holds the immutable set of tests students can take.
type TestCatalog struct {
	tests []models.Test
}

// NewTestCatalog validates tests and builds a catalog from them.
func NewTestCatalog(tests []models.Test) (*TestCatalog, error) {
	seen := make(map[string]struct{}, len(tests))
	for _, test := range tests {
		if strings.TrimSpace(test.ID) == "" || strings.TrimSpace(test.Title) == "" {
			return nil, fmt.Errorf("test catalog: test id and title are required")
		}
		if _, ok := seen[test.ID]; ok {
			return nil, fmt.Errorf("test catalog: duplicate test id %q", test.ID)
		}
		seen[test.ID] = struct{}{}
		if len(test.Questions) == 0 {
			return nil, fmt.Errorf("test catalog: test %q has no questions", test.ID)
		}
		for _, question := range test.Questions {
			if len(question.Options) != models.OptionsPerQuestion {
				return nil, fmt.Errorf("test catalog: question %q of test %q must have %d options", question.ID, test.ID, models.OptionsPerQuestion)
			}
			if question.CorrectOption < 0 || question.CorrectOption >= models.OptionsPerQuestion {
				return nil, fmt.Errorf("test catalog: question %q of test %q has correct option %d out of range", question.ID, test.ID, question.CorrectOption)
			}
		}
	}
	return &TestCatalog{tests: slices.Clone(tests)}, nil
}

// DefaultTestCatalog returns the catalog shipped with the engine.
func DefaultTestCatalog() *TestCatalog {
	catalog, err := NewTestCatalog([]models.Test{{
		ID:    DefaultTestID,
		Title: "Programming Fundamentals Test",
		Questions: []models.Question{
			{
				ID:     "q1",
				Prompt: "What is the primary purpose of version control systems?",
				Options: []string{
					"To make backup copies of files",
					"To track changes in source code over time",
					"To compress source code files",
					"To encrypt source code",
				},
				CorrectOption: 1,
			},
			{
				ID:            "q2",
				Prompt:        "Which of the following is NOT a primitive data type in JavaScript?",
				Options:       []string{"number", "string", "boolean", "array"},
				CorrectOption: 3,
			},
			{
				ID:     "q3",
				Prompt: "What does API stand for?",
				Options: []string{
					"Application Programming Interface",
					"Advanced Programming Integration",
					"Automated Program Installation",
					"Application Process Integration",
				},
				CorrectOption: 0,
			},
		},
	}})
	if err != nil {
		panic(err)
	}
	return catalog
}

// LoadTestCatalog reads a JSON array of tests from path.
func LoadTestCatalog(path string) (*TestCatalog, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test catalog: %w", err)
	}
	var tests []models.Test
	if err := json.Unmarshal(payload, &tests); err != nil {
		return nil, fmt.Errorf("decode test catalog: %w", err)
	}
	return NewTestCatalog(tests)
}

// Get returns the test with the given id.
func (c *TestCatalog) Get(testID string) (models.Test, error) {
	idx := slices.IndexFunc(c.tests, func(t models.Test) bool { return t.ID == testID })
	if idx < 0 {
		return models.Test{}, apperror.NotFound("test", testID)
	}
	return c.tests[idx], nil
}

// List returns every test in catalog order.
func (c *TestCatalog) List() []models.Test {
	return slices.Clone(c.tests)
}

// TestWorkflow records scored test attempts.
type TestWorkflow interface {
	Take(ctx context.Context, tx *store.Tx, studentID, testID string, answers []int) (models.TestResult, error)
}

type testWorkflow struct {
	catalog     *TestCatalog
	maxAttempts int
	logger      zerolog.Logger
	now         func() time.Time
	newID       func() string
}

// NewTestWorkflow constructs the test workflow. maxAttempts of zero allows unlimited retakes.
func NewTestWorkflow(catalog *TestCatalog, maxAttempts int, logger zerolog.Logger) TestWorkflow {
	if catalog == nil {
		catalog = DefaultTestCatalog()
	}
	return &testWorkflow{
		catalog:     catalog,
		maxAttempts: maxAttempts,
		logger:      logger.With().Str("component", "test_workflow").Logger(),
		now:         utcNow,
		newID:       newID,
	}
}

func (w *testWorkflow) Take(ctx context.Context, tx *store.Tx, studentID, testID string, answers []int) (models.TestResult, error) {
	student, err := findStudent(ctx, tx, studentID)
	if err != nil {
		return models.TestResult{}, err
	}
	test, err := w.catalog.Get(testID)
	if err != nil {
		return models.TestResult{}, err
	}

	if len(answers) != len(test.Questions) {
		return models.TestResult{}, apperror.ErrInvalidAnswer.Withf("expected %d answers, got %d", len(test.Questions), len(answers))
	}
	for i, answer := range answers {
		if answer == scoring.Unanswered {
			return models.TestResult{}, apperror.ErrUnansweredQuestion.Withf("question %d", i+1)
		}
		if answer < 0 || answer >= len(test.Questions[i].Options) {
			return models.TestResult{}, apperror.ErrInvalidAnswer.Withf("question %d has option %d", i+1, answer)
		}
	}

	results, err := store.Get[models.TestResult](ctx, tx, store.TestResults)
	if err != nil {
		return models.TestResult{}, err
	}
	if w.maxAttempts > 0 {
		attempts := 0
		for _, result := range results {
			if result.StudentID == studentID && result.TestID == testID {
				attempts++
			}
		}
		if attempts >= w.maxAttempts {
			return models.TestResult{}, apperror.ErrAttemptLimitReached.Withf("%d of %d attempts used", attempts, w.maxAttempts)
		}
	}

	score, err := scoring.Score(answers, test.AnswerKey())
	if err != nil {
		if errors.Is(err, scoring.ErrUnanswered) {
			return models.TestResult{}, apperror.ErrUnansweredQuestion.Wrap(err)
		}
		return models.TestResult{}, apperror.ErrInvalidAnswer.Wrap(err)
	}

	result := models.TestResult{
		ID:            w.newID(),
		StudentID:     studentID,
		StudentName:   student.Name,
		TestID:        test.ID,
		TestTitle:     test.Title,
		Score:         score,
		CompletedDate: w.now(),
		Status:        models.TestResultStatusCompleted,
	}
	results = append(results, result)
	if err := store.Put(ctx, tx, store.TestResults, results); err != nil {
		return models.TestResult{}, err
	}

	w.logger.Info().
		Str("result_id", result.ID).
		Str("student_id", studentID).
		Str("test_id", testID).
		Int("score", score).
		Msg("test completed")

	return result, nil
}
