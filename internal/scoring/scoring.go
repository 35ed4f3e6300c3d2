// Package scoring computes test scores from submitted answers and an answer key.
package scoring

import "errors"

// Unanswered marks a question the student left blank.
const Unanswered = -1

var (
	// ErrEmptyKey is returned when the answer key has no questions.
	ErrEmptyKey = errors.New("answer key is empty")
	// ErrLengthMismatch is returned when answers and key differ in length.
	ErrLengthMismatch = errors.New("answer count does not match question count")
	// ErrUnanswered is returned when an answer is still Unanswered.
	ErrUnanswered = errors.New("answer set contains unanswered questions")
)

// Score returns round(100 * correct / len(key)) with halves rounded up.
// Callers must reject unanswered sets before scoring; Score refuses them too.
func Score(answers, key []int) (int, error) {
	if len(key) == 0 {
		return 0, ErrEmptyKey
	}
	if len(answers) != len(key) {
		return 0, ErrLengthMismatch
	}
	for _, answer := range answers {
		if answer == Unanswered {
			return 0, ErrUnanswered
		}
	}
	return Percent(CountCorrect(answers, key), len(key)), nil
}

// CountCorrect counts positions where the answer equals the key.
func CountCorrect(answers, key []int) int {
	correct := 0
	for i := range key {
		if i < len(answers) && answers[i] == key[i] {
			correct++
		}
	}
	return correct
}

// Percent converts part/total to an integer percentage, rounding half up.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

// HasUnanswered reports whether any answer is still Unanswered.
func HasUnanswered(answers []int) bool {
	for _, answer := range answers {
		if answer == Unanswered {
			return true
		}
	}
	return false
}
