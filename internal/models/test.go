package models

import "time"

// OptionsPerQuestion is the fixed number of choices offered by every question.
const OptionsPerQuestion = 4

// Question is a single multiple-choice item.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// Test is an immutable set of questions.
type Test struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// AnswerKey returns the correct option index of every question, in order.
func (t Test) AnswerKey() []int {
	key := make([]int, len(t.Questions))
	for i, question := range t.Questions {
		key[i] = question.CorrectOption
	}
	return key
}

// TestResultStatusCompleted is the only status a recorded attempt can have.
const TestResultStatusCompleted = "completed"

// TestResult is the immutable outcome of one test attempt.
type TestResult struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"`
	TestID        string    `json:"test_id"`
	TestTitle     string    `json:"test_title"`
	Score         int       `json:"score"`
	CompletedDate time.Time `json:"completed_date"`
	Status        string    `json:"status"`
}
