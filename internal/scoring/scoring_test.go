package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		answers []int
		key     []int
		want    int
		wantErr error
	}{
		{name: "two of three", answers: []int{1, 3, 1}, key: []int{1, 3, 0}, want: 67},
		{name: "all correct", answers: []int{1, 3, 0}, key: []int{1, 3, 0}, want: 100},
		{name: "none correct", answers: []int{0, 0, 1}, key: []int{1, 3, 0}, want: 0},
		{name: "one of three rounds down", answers: []int{1, 0, 1}, key: []int{1, 3, 0}, want: 33},
		{name: "half rounds up", answers: []int{0, 1, 1, 1, 1, 1, 1, 1}, key: []int{0, 0, 0, 0, 0, 0, 0, 0}, want: 13},
		{name: "single question", answers: []int{2}, key: []int{2}, want: 100},
		{name: "empty key", answers: []int{}, key: []int{}, wantErr: ErrEmptyKey},
		{name: "length mismatch", answers: []int{1}, key: []int{1, 2}, wantErr: ErrLengthMismatch},
		{name: "unanswered", answers: []int{1, Unanswered}, key: []int{1, 2}, wantErr: ErrUnanswered},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Score(tc.answers, tc.key)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestScoreOfKeyAgainstItselfIsFull(t *testing.T) {
	keys := [][]int{{0}, {3, 2, 1, 0}, {1, 1, 1, 1, 1, 1, 1}}
	for _, key := range keys {
		got, err := Score(key, key)
		require.NoError(t, err)
		require.Equal(t, 100, got)
	}
}

func TestScoreInvariantUnderJointPermutation(t *testing.T) {
	answers := []int{0, 1, 2, 3, 0, 1}
	key := []int{0, 2, 2, 1, 0, 3}
	base, err := Score(answers, key)
	require.NoError(t, err)

	perm := []int{5, 3, 0, 4, 1, 2}
	permutedAnswers := make([]int, len(perm))
	permutedKey := make([]int, len(perm))
	for i, p := range perm {
		permutedAnswers[i] = answers[p]
		permutedKey[i] = key[p]
	}

	permuted, err := Score(permutedAnswers, permutedKey)
	require.NoError(t, err)
	require.Equal(t, base, permuted)
}

func TestPercentBounds(t *testing.T) {
	require.Equal(t, 0, Percent(0, 0))
	require.Equal(t, 0, Percent(0, 7))
	require.Equal(t, 100, Percent(7, 7))
	require.Equal(t, 50, Percent(1, 2))
	require.True(t, HasUnanswered([]int{0, Unanswered}))
	require.False(t, HasUnanswered([]int{0, 1}))
}
